// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package vlc

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// MinVolume is the lowest volume the player accepts.
	MinVolume = 0
	// MaxVolume is the highest volume the player accepts.
	MaxVolume = 200
)

// Track is a media track in the player's playlist, parsed from one line
// of `playlist` output such as
//
//	| 8 - Chopin Nocturnes.mp3 (01:50:55)
//
// The currently playing entry carries a `*` before the index.
type Track struct {
	Index  int
	Title  string
	Length string // formatted as hh:mm:ss
}

func (t Track) String() string {
	return fmt.Sprintf("%d - %s (%s)", t.Index, t.Title, t.Length)
}

// Subtitle is a subtitle track of the current media file, parsed from
// one line of `strack` output such as
//
//	| 2 - Track 1 - [English]
//
// The index can be negative; -1 is the player's "disable" entry.
type Subtitle struct {
	Index int
	Title string
}

func (s Subtitle) String() string {
	return fmt.Sprintf("%d - %s", s.Index, s.Title)
}

// The playlist and strack replies wrap their entries in +----[ ... ]
// header and footer lines; only lines starting with a pipe carry data,
// and of those, only the ones with all expected fields are entries.
var (
	trackPattern    = regexp.MustCompile(`\|\s+\*?(\d+)\s+-\s+(.+)\s\((\d\d:\d\d:\d\d)`)
	subtitlePattern = regexp.MustCompile(`\|\s+(-?\d+)\s+-\s+(.+)`)
)

// parseTrack parses one playlist line. Lines missing any of the track
// fields report no match instead of a partially filled Track.
func parseTrack(line string) (Track, bool) {
	m := trackPattern.FindStringSubmatch(line)
	if m == nil {
		return Track{}, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return Track{}, false
	}
	return Track{Index: index, Title: m[2], Length: m[3]}, true
}

// parseSubtitle parses one strack line.
func parseSubtitle(line string) (Subtitle, bool) {
	m := subtitlePattern.FindStringSubmatch(line)
	if m == nil {
		return Subtitle{}, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return Subtitle{}, false
	}
	return Subtitle{Index: index, Title: m[2]}, true
}
