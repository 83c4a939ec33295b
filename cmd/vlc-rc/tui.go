// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/du-toit/vlc-rc/logger"
	"github.com/du-toit/vlc-rc/remote"
	"github.com/du-toit/vlc-rc/vlc"
)

func (app *Application) createTuiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the log window takes over the logger channel; the root
			// command's background drain must not compete for lines
			app.releaseLogDrain()

			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			shared := &sharedClient{client: client}

			var mprisPlayer *remote.MprisPlayer
			if viper.GetBool("mpris.enabled") {
				mprisPlayer, err = remote.RegisterMprisPlayer(shared, app.logger)
				if err != nil {
					return fmt.Errorf("register MPRIS with DBUS: %w", err)
				}
				defer mprisPlayer.Close()
			}

			ui := createUi(shared, app.logger, mprisPlayer)
			return ui.Run()
		},
	}

	cmd.Flags().Bool("mpris", false, "expose the player on the session bus as an MPRIS2 player")
	_ = viper.BindPFlag("mpris.enabled", cmd.Flags().Lookup("mpris"))

	return cmd
}

// sharedClient serializes access to a Client. The library assumes a
// single caller, but the TUI's refresh loop, its key handlers and the
// MPRIS bridge all reach for the same connection.
type sharedClient struct {
	mu     sync.Mutex
	client *vlc.Client
}

func (s *sharedClient) IsPlaying() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.IsPlaying()
}

func (s *sharedClient) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Play()
}

func (s *sharedClient) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Pause()
}

func (s *sharedClient) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Stop()
}

func (s *sharedClient) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Next()
}

func (s *sharedClient) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Prev()
}

func (s *sharedClient) Volume() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Volume()
}

func (s *sharedClient) SetVolume(amt int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SetVolume(amt)
}

func (s *sharedClient) Title() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Title()
}

func (s *sharedClient) Forward(secs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Forward(secs)
}

func (s *sharedClient) Rewind(secs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Rewind(secs)
}

func (s *sharedClient) SeekTo(secs int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.SeekTo(secs)
}

func (s *sharedClient) Add(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Add(uri)
}

func (s *sharedClient) Time() (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Time()
}

func (s *sharedClient) Playlist() ([]vlc.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Playlist()
}

func (s *sharedClient) Goto(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Goto(index)
}

var _ remote.ControlledPlayer = (*sharedClient)(nil)

// Ui contains all the updatable elements of the terminal remote.
type Ui struct {
	app *tview.Application

	// top bar
	startStopStatus *tview.TextView
	playerStatus    *tview.TextView

	playlistList *tview.List
	logList      *tview.List
	menuLine     *tview.TextView

	client      *sharedClient
	logger      *logger.Logger
	mprisPlayer *remote.MprisPlayer

	// tracks backing playlistList; only touched on the tview goroutine
	tracks []vlc.Track

	done chan struct{}
}

func createUi(client *sharedClient, logger *logger.Logger, mprisPlayer *remote.MprisPlayer) *Ui {
	ui := &Ui{
		client:      client,
		logger:      logger,
		mprisPlayer: mprisPlayer,
		done:        make(chan struct{}),
	}

	ui.app = tview.NewApplication()

	// status text at the top
	ui.startStopStatus = tview.NewTextView().
		SetText("[::b]vlc-rc[::-]").
		SetTextAlign(tview.AlignLeft).
		SetDynamicColors(true).
		SetScrollable(false)
	ui.playerStatus = tview.NewTextView().
		SetText(formatPlayerStatus(0, 0)).
		SetTextAlign(tview.AlignRight).
		SetDynamicColors(true).
		SetScrollable(false)

	topBarFlex := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(ui.startStopStatus, 0, 1, false).
		AddItem(ui.playerStatus, 20, 0, false)

	ui.playlistList = tview.NewList().ShowSecondaryText(false)
	ui.playlistList.SetSelectedFunc(func(i int, text string, _ string, _ rune) {
		if i < 0 || i >= len(ui.tracks) {
			return
		}
		index := ui.tracks[i].Index
		ui.runCommand("goto", func() error {
			return ui.client.Goto(index)
		})
	})

	ui.logList = tview.NewList().ShowSecondaryText(false)

	ui.menuLine = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[::b]space[::-] pause  [::b]s[::-] stop  [::b]n/p[::-] next/prev  [::b]+/-[::-] volume  [::b],/.[::-] seek  [::b]r[::-] reload  [::b]q[::-] quit")

	rootFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topBarFlex, 1, 0, false).
		AddItem(ui.playlistList, 0, 1, true).
		AddItem(ui.logList, 6, 0, false).
		AddItem(ui.menuLine, 1, 0, false)

	rootFlex.SetInputCapture(ui.handleInput)

	ui.app.SetRoot(rootFlex, true).
		SetFocus(rootFlex).
		EnableMouse(true)

	return ui
}

func (ui *Ui) Run() error {
	// the initial load queues its draw until the main loop is up
	go ui.reloadPlaylist()

	go ui.eventLoop()
	defer close(ui.done)

	return ui.app.Run()
}

func (ui *Ui) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q':
		ui.app.Stop()
	case ' ':
		ui.runCommand("pause", ui.client.Pause)
	case 's':
		ui.runCommand("stop", ui.client.Stop)
	case 'n':
		ui.runCommand("next", ui.client.Next)
	case 'p':
		ui.runCommand("prev", ui.client.Prev)
	case '+', '=':
		ui.runCommand("volume up", func() error { return ui.adjustVolume(10) })
	case '-':
		ui.runCommand("volume down", func() error { return ui.adjustVolume(-10) })
	case '.':
		ui.runCommand("seek forward", func() error { return ui.client.Forward(5) })
	case ',':
		ui.runCommand("seek back", func() error { return ui.client.Rewind(5) })
	case 'r':
		go ui.reloadPlaylist()
	default:
		return event
	}
	return nil
}

// runCommand runs a player command off the input handler goroutine so
// a slow convergence loop never freezes the interface.
func (ui *Ui) runCommand(name string, run func() error) {
	go func() {
		if err := run(); err != nil {
			ui.logger.PrintError(name, err)
		}
	}()
}

func (ui *Ui) adjustVolume(delta int) error {
	volume, err := ui.client.Volume()
	if err != nil {
		return err
	}
	return ui.client.SetVolume(volume + delta)
}

func (ui *Ui) reloadPlaylist() {
	tracks, err := ui.client.Playlist()
	if err != nil {
		ui.logger.PrintError("playlist", err)
		return
	}

	ui.app.QueueUpdateDraw(func() {
		ui.tracks = tracks
		ui.playlistList.Clear()
		for _, track := range tracks {
			ui.playlistList.AddItem(tview.Escape(track.String()), "", 0, nil)
		}
	})
}

// eventLoop refreshes the status bar and relays log output while the
// interface is up.
func (ui *Ui) eventLoop() {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ui.done:
			return

		case msg := <-ui.logger.Prints:
			ui.printLog(msg)

		case <-ticker.C:
			ui.refreshStatus()
		}
	}
}

func (ui *Ui) refreshStatus() {
	playing, err := ui.client.IsPlaying()
	if err != nil {
		// the connection is gone; nothing to refresh
		return
	}

	statusText := "[red::b]Stopped[::-]"
	var title string
	elapsed := 0
	if playing {
		statusText = "[green::b]Playing[::-]"
		if title, err = ui.client.Title(); err == nil && title != "" {
			statusText += " [white]" + tview.Escape(title)
		}
		if secs, ok, err := ui.client.Time(); err == nil && ok {
			elapsed = secs
		}
	}

	volume := 0
	if amt, err := ui.client.Volume(); err == nil {
		volume = amt
	}

	if ui.mprisPlayer != nil {
		ui.mprisPlayer.UpdateNowPlaying(title)
	}

	ui.app.QueueUpdateDraw(func() {
		ui.startStopStatus.SetText(statusText)
		ui.playerStatus.SetText(formatPlayerStatus(volume, elapsed))
	})
}

func (ui *Ui) printLog(line string) {
	ui.app.QueueUpdateDraw(func() {
		line := time.Now().Local().Format("(15:04:05) ") + line
		ui.logList.InsertItem(0, line, "", 0, nil)

		// keep the log list from growing without bound
		for ui.logList.GetItemCount() > 100 {
			ui.logList.RemoveItem(-1)
		}
	})
}

func formatPlayerStatus(volume int, elapsed int) string {
	if elapsed < 0 {
		elapsed = 0
	}
	minutes, seconds := secondsToMinAndSec(elapsed)
	return fmt.Sprintf("[%d%%][::b][%02d:%02d]", volume, minutes, seconds)
}

func secondsToMinAndSec(seconds int) (int, int) {
	return seconds / 60, seconds % 60
}
