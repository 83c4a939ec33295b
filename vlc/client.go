// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

// Package vlc is a client for VLC's line-based remote-control interface
// ("rc", also reachable over TCP as "oldtelnet"). Commands are plain
// text terminated by a newline; replies are plain text lines or blocks
// ending with a `>` prompt.
//
// The interface applies state-changing commands asynchronously, so a
// getter issued right after a setter can report a stale value for a
// short, variable window. For state where that matters (volume, play
// state) the client polls the getter and re-issues the command until
// the reported state matches, bounded by a configurable retry budget.
package vlc

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/du-toit/vlc-rc/logger"
)

// Client is a connection to a VLC player's remote-control interface.
// It is not safe for concurrent use; callers drive one command/reply
// exchange at a time.
type Client struct {
	// MaxAttempts bounds the convergence loop of SetVolume, Play and
	// Stop. The player's consistency window is empirical, so tune this
	// together with RetryDelay for slow hosts.
	MaxAttempts int

	// RetryDelay is slept between convergence attempts.
	RetryDelay time.Duration

	socket *socket
	logger logger.LoggerInterface
}

const (
	defaultMaxAttempts = 20
	defaultRetryDelay  = 25 * time.Millisecond
)

// Connect establishes a connection to a player's remote-control
// interface at addr (host:port). It fails with a connection error when
// no player is listening there.
func Connect(addr string, logger logger.LoggerInterface) (*Client, error) {
	return ConnectTimeout(addr, defaultDialTimeout, logger)
}

// ConnectTimeout is Connect with an explicit dial timeout.
func ConnectTimeout(addr string, timeout time.Duration, logger logger.LoggerInterface) (*Client, error) {
	sock, err := dialSocket(addr, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		MaxAttempts: defaultMaxAttempts,
		RetryDelay:  defaultRetryDelay,
		socket:      sock,
		logger:      logger,
	}, nil
}

// Close shuts the connection down. The player side keeps running.
func (c *Client) Close() error {
	return c.socket.close()
}

// Playlist returns the tracks in the player's playlist.
func (c *Client) Playlist() ([]Track, error) {
	if err := c.socket.writeLine("playlist"); err != nil {
		return nil, err
	}
	block, err := c.socket.readUntilPrompt()
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for _, line := range strings.Split(block, "\n") {
		if track, ok := parseTrack(strings.TrimRight(line, "\r")); ok {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// Subtitles returns the subtitle tracks of the current media file.
func (c *Client) Subtitles() ([]Subtitle, error) {
	if err := c.socket.writeLine("strack"); err != nil {
		return nil, err
	}
	block, err := c.socket.readUntilPrompt()
	if err != nil {
		return nil, err
	}

	var subtitles []Subtitle
	for _, line := range strings.Split(block, "\n") {
		if subtitle, ok := parseSubtitle(strings.TrimRight(line, "\r")); ok {
			subtitles = append(subtitles, subtitle)
		}
	}
	return subtitles, nil
}

// Volume returns the player's current volume, clamped to the
// MinVolume..MaxVolume range.
func (c *Client) Volume() (int, error) {
	if err := c.socket.writeLine("volume"); err != nil {
		return 0, err
	}
	line, err := c.socket.readLine()
	if err != nil {
		return 0, err
	}

	volume, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("%w: volume %q", ErrParse, line)
	}
	if volume > MaxVolume {
		volume = MaxVolume
	} else if volume < MinVolume {
		volume = MinVolume
	}
	return volume, nil
}

// SetVolume sets the player's volume. Amounts outside the valid range
// are clamped. The call polls Volume until the player reports the new
// amount; see the package comment for why.
func (c *Client) SetVolume(amt int) error {
	if amt > MaxVolume {
		amt = MaxVolume
	} else if amt < MinVolume {
		amt = MinVolume
	}

	return c.converge(fmt.Sprintf("volume %d", amt), func() (bool, error) {
		volume, err := c.Volume()
		return volume == amt, err
	})
}

// IsPlaying reports whether the current track is playing. A paused
// track still counts as playing.
func (c *Client) IsPlaying() (bool, error) {
	if err := c.socket.writeLine("is_playing"); err != nil {
		return false, err
	}
	line, err := c.socket.readLine()
	if err != nil {
		return false, err
	}
	return line == "1", nil
}

// Play starts playback of the current track. It does nothing when the
// playlist is empty, since the player would never report playing then
// and the convergence loop would be chasing a state that cannot occur.
func (c *Client) Play() error {
	tracks, err := c.Playlist()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		return nil
	}

	return c.converge("play", func() (bool, error) {
		return c.IsPlaying()
	})
}

// Stop stops playback of the current track.
func (c *Client) Stop() error {
	return c.converge("stop", func() (bool, error) {
		playing, err := c.IsPlaying()
		return !playing, err
	})
}

// Pause pauses the current track. It does nothing when the track is
// stopped. The upstream `pause` command is a toggle, so playback is
// forced on first to make the result deterministic.
func (c *Client) Pause() error {
	playing, err := c.IsPlaying()
	if err != nil {
		return err
	}
	if !playing {
		return nil
	}

	if err := c.socket.writeLine("play"); err != nil {
		return err
	}
	return c.socket.writeLine("pause")
}

// Time returns the elapsed seconds since the start of the current
// track. ok is false when the player is stopped and reports nothing,
// or reports a position that cannot be an elapsed time.
func (c *Client) Time() (secs int, ok bool, err error) {
	if err := c.socket.writeLine("get_time"); err != nil {
		return 0, false, err
	}
	line, err := c.socket.readLine()
	if err != nil {
		return 0, false, err
	}

	secs, convErr := strconv.Atoi(line)
	if convErr != nil || secs < 0 {
		return 0, false, nil
	}
	return secs, true, nil
}

// Forward moves playback forward by secs seconds.
func (c *Client) Forward(secs int) error {
	return c.socket.writeLine("seek +%d", secs)
}

// Rewind moves playback backward by secs seconds.
func (c *Client) Rewind(secs int) error {
	return c.socket.writeLine("seek -%d", secs)
}

// SeekTo moves playback to an absolute position in seconds.
func (c *Client) SeekTo(secs int) error {
	return c.socket.writeLine("seek %d", secs)
}

// Title returns the current track's title, or "" when the player is
// stopped.
func (c *Client) Title() (string, error) {
	if err := c.socket.writeLine("get_title"); err != nil {
		return "", err
	}
	return c.socket.readLine()
}

// Next skips to the next track in the playlist.
func (c *Client) Next() error {
	return c.socket.writeLine("next")
}

// Prev skips to the previous track in the playlist.
func (c *Client) Prev() error {
	return c.socket.writeLine("prev")
}

// Add appends the media at uri to the playlist and starts playing it.
func (c *Client) Add(uri string) error {
	return c.socket.writeLine("add %s", uri)
}

// Enqueue appends the media at uri to the playlist without playing it.
func (c *Client) Enqueue(uri string) error {
	return c.socket.writeLine("enqueue %s", uri)
}

// Clear empties the playlist.
func (c *Client) Clear() error {
	return c.socket.writeLine("clear")
}

// Goto jumps playback to the playlist entry with the given index.
func (c *Client) Goto(index int) error {
	return c.socket.writeLine("goto %d", index)
}

// Fullscreen toggles the player's fullscreen mode on or off.
func (c *Client) Fullscreen(on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	return c.socket.writeLine("fullscreen %s", state)
}

// converge re-issues cmd until read reports the desired state. The
// read comes first, so a command that already took effect costs no
// extra round trip. Exhausting the budget surfaces ErrConvergence with
// the offending command.
func (c *Client) converge(cmd string, read func() (bool, error)) error {
	for attempt := 0; attempt < c.MaxAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(c.RetryDelay)
		}

		done, err := read()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		if err := c.socket.writeLine(cmd); err != nil {
			return err
		}
	}

	c.logger.Printf("converge: %q not reflected after %d attempts", cmd, c.MaxAttempts)
	return fmt.Errorf("%w: %q after %d attempts", ErrConvergence, cmd, c.MaxAttempts)
}
