// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package vlc

import "errors"

var (
	// ErrParse is returned when a reply from the player does not match
	// the format the client expects.
	ErrParse = errors.New("unexpected reply from player")

	// ErrConvergence is returned when a state-changing command was
	// re-issued up to the retry budget without the player's reported
	// state catching up to it.
	ErrConvergence = errors.New("player state did not converge")
)
