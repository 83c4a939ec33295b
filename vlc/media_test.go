// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package vlc

import "testing"

func TestParseTrack(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		want  Track
		match bool
	}{
		{
			name:  "Playlist Header",
			line:  "+----[ Playlist - playlist ]",
			match: false,
		},
		{
			name:  "Playlist Node",
			line:  "| 1 - Playlist",
			match: false,
		},
		{
			name:  "Media Library Node",
			line:  "| 2 - Media Library",
			match: false,
		},
		{
			name:  "Playlist Footer",
			line:  "+----[ End of playlist ]",
			match: false,
		},
		{
			name:  "Plain Entry",
			line:  "| 8 - Chopin Nocturnes.mp3 (01:50:55)",
			want:  Track{Index: 8, Title: "Chopin Nocturnes.mp3", Length: "01:50:55"},
			match: true,
		},
		{
			name: "Current Entry With Parentheses In Title",
			line: "| *1 - Bach (00:00:01).mp3 (01:50:55)",
			// the star marks the playing entry; the title itself may
			// contain something that looks like a duration
			want:  Track{Index: 1, Title: "Bach (00:00:01).mp3", Length: "01:50:55"},
			match: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseTrack(tc.line)
			if ok != tc.match {
				t.Fatalf("parseTrack(%q) match = %v, want %v", tc.line, ok, tc.match)
			}
			if ok && got != tc.want {
				t.Errorf("parseTrack(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestParseSubtitle(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		want  Subtitle
		match bool
	}{
		{
			name:  "Strack Header",
			line:  "+----[ spu-es ]",
			match: false,
		},
		{
			name:  "Strack Footer",
			line:  "+----[ end of spu-es ]",
			match: false,
		},
		{
			name:  "Disable Entry",
			line:  "| -1 - Disable *",
			want:  Subtitle{Index: -1, Title: "Disable *"},
			match: true,
		},
		{
			name:  "Language Entry",
			line:  "| 2 - Track 1 - [English]",
			want:  Subtitle{Index: 2, Title: "Track 1 - [English]"},
			match: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseSubtitle(tc.line)
			if ok != tc.match {
				t.Fatalf("parseSubtitle(%q) match = %v, want %v", tc.line, ok, tc.match)
			}
			if ok && got != tc.want {
				t.Errorf("parseSubtitle(%q) = %+v, want %+v", tc.line, got, tc.want)
			}
		})
	}
}

func TestTrackString(t *testing.T) {
	track := Track{Index: 8, Title: "Chopin Nocturnes.mp3", Length: "01:50:55"}
	if got, want := track.String(), "8 - Chopin Nocturnes.mp3 (01:50:55)"; got != want {
		t.Errorf("Track.String() = %q, want %q", got, want)
	}

	subtitle := Subtitle{Index: -1, Title: "Disable *"}
	if got, want := subtitle.String(), "-1 - Disable *"; got != want {
		t.Errorf("Subtitle.String() = %q, want %q", got, want)
	}
}
