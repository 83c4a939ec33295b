// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package remote

import (
	"errors"
	"math"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/du-toit/vlc-rc/logger"
	"github.com/du-toit/vlc-rc/vlc"
)

// MprisPlayer exposes a ControlledPlayer as an org.mpris.MediaPlayer2
// player on the D-Bus session bus, so desktop media keys and applets
// can drive the remote VLC instance.
type MprisPlayer struct {
	dbus   *dbus.Conn
	player ControlledPlayer
	logger logger.LoggerInterface

	lastTitle string
}

func RegisterMprisPlayer(player ControlledPlayer, logger_ logger.LoggerInterface) (mpp *MprisPlayer, err error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return
	}

	mpp = &MprisPlayer{
		dbus:   conn,
		player: player,
		logger: logger_,
	}

	err = conn.ExportAll(mpp, "/org/mpris/MediaPlayer2", "org.mpris.MediaPlayer2.Player")
	if err != nil {
		return
	}

	volume := 0.0
	if amt, verr := player.Volume(); verr == nil {
		volume = float64(amt) / float64(vlc.MaxVolume)
	}

	var mprisPlayer = map[string]*prop.Prop{
		"CanControl":     {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoNext":      {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanGoPrevious":  {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPause":       {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanPlay":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanSeek":        {Value: true, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Metadata":       {Value: emptyMetadata(), Writable: false, Emit: prop.EmitTrue, Callback: nil},
		"Volume":         {Value: volume, Writable: true, Emit: prop.EmitTrue, Callback: mpp.volumeChange},
		"PlaybackStatus": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	var mediaPlayer = map[string]*prop.Prop{
		"CanQuit":             {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"CanRaise":            {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"HasTrackList":        {Value: false, Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"Identity":            {Value: "vlc-rc", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedUriSchemes": {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
		"SupportedMimeTypes":  {Value: "", Writable: false, Emit: prop.EmitFalse, Callback: nil},
	}

	props, err := prop.Export(
		conn,
		"/org/mpris/MediaPlayer2",
		map[string]map[string]*prop.Prop{
			"org.mpris.MediaPlayer2":        mediaPlayer,
			"org.mpris.MediaPlayer2.Player": mprisPlayer,
		},
	)
	if err != nil {
		return
	}

	n := &introspect.Node{
		Name: "/org/mpris/MediaPlayer2",
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       "org.mpris.MediaPlayer2.Player",
				Methods:    introspect.Methods(mpp),
				Properties: props.Introspection("org.mpris.MediaPlayer2.Player"),
			},
		},
	}
	err = conn.Export(introspect.NewIntrospectable(n), "/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Introspectable")
	if err != nil {
		return
	}

	name := "org.mpris.MediaPlayer2.vlcrc"
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		err = errors.New("name already owned")
		return
	}
	return
}

func (m *MprisPlayer) Close() {
	if err := m.dbus.Close(); err != nil {
		m.logger.PrintError("mpris Close", err)
	}
}

// Mandatory org.mpris.MediaPlayer2.Player methods.

func (m *MprisPlayer) Play() {
	if err := m.player.Play(); err != nil {
		m.logger.PrintError("mpris Play", err)
	}
}

func (m *MprisPlayer) Pause() {
	if err := m.player.Pause(); err != nil {
		m.logger.PrintError("mpris Pause", err)
	}
}

func (m *MprisPlayer) PlayPause() {
	playing, err := m.player.IsPlaying()
	if err != nil {
		m.logger.PrintError("mpris PlayPause", err)
		return
	}
	if playing {
		err = m.player.Pause()
	} else {
		err = m.player.Play()
	}
	if err != nil {
		m.logger.PrintError("mpris PlayPause", err)
	}
}

func (m *MprisPlayer) Stop() {
	if err := m.player.Stop(); err != nil {
		m.logger.PrintError("mpris Stop", err)
	}
}

func (m *MprisPlayer) Next() {
	if err := m.player.Next(); err != nil {
		m.logger.PrintError("mpris Next", err)
	}
}

func (m *MprisPlayer) Previous() {
	if err := m.player.Prev(); err != nil {
		m.logger.PrintError("mpris Previous", err)
	}
}

// Seek moves playback by the given offset in microseconds.
func (m *MprisPlayer) Seek(offsetUs int64) {
	secs := int(offsetUs / 1e6)
	var err error
	switch {
	case secs > 0:
		err = m.player.Forward(secs)
	case secs < 0:
		err = m.player.Rewind(-secs)
	}
	if err != nil {
		m.logger.PrintError("mpris Seek", err)
	}
}

// SetPosition moves playback to an absolute position in microseconds.
func (m *MprisPlayer) SetPosition(_ dbus.ObjectPath, positionUs int64) {
	if err := m.player.SeekTo(int(positionUs / 1e6)); err != nil {
		m.logger.PrintError("mpris SetPosition", err)
	}
}

func (m *MprisPlayer) OpenUri(uri string) {
	if err := m.player.Add(uri); err != nil {
		m.logger.PrintError("mpris OpenUri", err)
	}
}

func (m *MprisPlayer) volumeChange(c *prop.Change) *dbus.Error {
	fVol := c.Value.(float64)

	// MPRIS volume is 0.0-1.0, the player's is 0-MaxVolume
	amt := int(math.Round(fVol * float64(vlc.MaxVolume)))
	if err := m.player.SetVolume(amt); err != nil {
		m.logger.PrintError("mpris volumeChange", err)
	} else {
		m.logger.Printf("mpris: adjust volume %f -> %d", fVol, amt)
	}
	return nil
}

// UpdateNowPlaying emits a Metadata PropertiesChanged signal when the
// current title differs from the last one announced. Callers poll the
// player and hand the title in; the RC interface has no push channel.
func (m *MprisPlayer) UpdateNowPlaying(title string) {
	if title == m.lastTitle {
		return
	}
	m.lastTitle = title

	metadata := emptyMetadata()
	metadata["xesam:title"] = title

	err := m.dbus.Emit("/org/mpris/MediaPlayer2", "org.freedesktop.DBus.Properties.PropertiesChanged",
		"org.mpris.MediaPlayer2.Player", map[string]map[string]interface{}{
			"Metadata": metadata,
		}, []string{})
	if err != nil {
		m.logger.PrintError("mpris: Emit PropertiesChanged", err)
	}
}

func emptyMetadata() map[string]interface{} {
	return map[string]interface{}{
		"mpris:trackid":     "",
		"mpris:length":      int64(0),
		"xesam:album":       "",
		"xesam:albumArtist": "",
		"xesam:artist":      []string{},
		"xesam:composer":    []string{},
		"xesam:genre":       []string{},
		"xesam:title":       "",
		"xesam:trackNumber": int(0),
	}
}
