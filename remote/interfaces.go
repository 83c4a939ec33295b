// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

// ControlledPlayer is the player surface the MPRIS2 bridge drives. It
// is satisfied by *vlc.Client.
type ControlledPlayer interface {
	// IsPlaying reports whether a track is loaded; a paused track still
	// counts as playing.
	IsPlaying() (bool, error)

	Play() error
	Pause() error
	Stop() error
	Next() error
	Prev() error

	// Volume and SetVolume use the player's native range, 0 to
	// vlc.MaxVolume.
	Volume() (int, error)
	SetVolume(amt int) error

	// Title returns the current track's title, or "" when stopped.
	Title() (string, error)

	// Forward and Rewind move playback by whole seconds.
	Forward(secs int) error
	Rewind(secs int) error

	// SeekTo moves playback to an absolute position in seconds.
	SeekTo(secs int) error

	// Add appends a URI to the playlist and starts playing it.
	Add(uri string) error
}
