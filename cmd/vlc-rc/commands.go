// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/du-toit/vlc-rc/logger"
	"github.com/du-toit/vlc-rc/vlc"
)

// Application carries the pieces shared by all subcommands.
type Application struct {
	logger *logger.Logger

	configFile string
	address    string
	verbose    bool

	stopDrain func()
}

func NewApplication() *Application {
	return &Application{
		logger: logger.Init(),
	}
}

// connect dials the configured player and applies the configured retry
// policy. The caller closes the returned client.
func (app *Application) connect() (*vlc.Client, error) {
	addr := viper.GetString("server.address")
	client, err := vlc.ConnectTimeout(addr, viper.GetDuration("client.dial-timeout"), app.logger)
	if err != nil {
		return nil, err
	}
	client.MaxAttempts = viper.GetInt("client.retries")
	client.RetryDelay = viper.GetDuration("client.retry-delay")
	return client, nil
}

// releaseLogDrain stops the background log drain so another consumer
// can take over the logger channel.
func (app *Application) releaseLogDrain() {
	if app.stopDrain != nil {
		app.stopDrain()
		app.stopDrain = nil
	}
}

func (app *Application) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vlc-rc",
		Short:         "Remote control for a VLC instance over its TCP rc interface",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := readConfig(app.configFile); err != nil {
				return err
			}
			if app.address != "" {
				viper.Set("server.address", app.address)
			}

			out := io.Discard
			if app.verbose {
				out = cmd.ErrOrStderr()
			}
			app.stopDrain = app.logger.Drain(out)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.stopDrain != nil {
				app.stopDrain()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "", "use config `file`")
	rootCmd.PersistentFlags().StringVar(&app.address, "address", "", "player address (host:port), overrides the config file")
	rootCmd.PersistentFlags().BoolVar(&app.verbose, "verbose", false, "print client log output to stderr")

	rootCmd.AddCommand(app.createStatusCommand())
	rootCmd.AddCommand(app.createPlaybackCommands()...)
	rootCmd.AddCommand(app.createSeekCommand())
	rootCmd.AddCommand(app.createVolumeCommand())
	rootCmd.AddCommand(app.createPlaylistCommand())
	rootCmd.AddCommand(app.createSubtitlesCommand())
	rootCmd.AddCommand(app.createMediaCommands()...)
	rootCmd.AddCommand(app.createFullscreenCommand())
	rootCmd.AddCommand(app.createTuiCommand())
	rootCmd.AddCommand(app.createVersionCommand())

	return rootCmd
}

func (app *Application) createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the player is doing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			playing, err := client.IsPlaying()
			if err != nil {
				return err
			}
			if !playing {
				cmd.Println("stopped")
				return nil
			}

			title, err := client.Title()
			if err != nil {
				return err
			}
			volume, err := client.Volume()
			if err != nil {
				return err
			}

			if secs, ok, err := client.Time(); err != nil {
				return err
			} else if ok {
				cmd.Printf("playing %s [%02d:%02d] volume %d\n", title, secs/60, secs%60, volume)
			} else {
				cmd.Printf("playing %s volume %d\n", title, volume)
			}
			return nil
		},
	}
}

func (app *Application) createPlaybackCommands() []*cobra.Command {
	actions := []struct {
		use   string
		short string
		run   func(client *vlc.Client) error
	}{
		{"play", "Start playback of the current track", (*vlc.Client).Play},
		{"stop", "Stop playback", (*vlc.Client).Stop},
		{"pause", "Pause the current track", (*vlc.Client).Pause},
		{"next", "Skip to the next playlist entry", (*vlc.Client).Next},
		{"prev", "Skip to the previous playlist entry", (*vlc.Client).Prev},
		{"clear", "Empty the playlist", (*vlc.Client).Clear},
	}

	var cmds []*cobra.Command
	for _, action := range actions {
		run := action.run
		cmds = append(cmds, &cobra.Command{
			Use:   action.use,
			Short: action.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := app.connect()
				if err != nil {
					return err
				}
				defer client.Close()
				return run(client)
			},
		})
	}
	return cmds
}

func (app *Application) createSeekCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seek <[+|-]seconds>",
		Short: "Seek relative with +n/-n, or to an absolute position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := args[0]
			secs, err := strconv.Atoi(strings.TrimPrefix(arg, "+"))
			if err != nil {
				return fmt.Errorf("seek offset %q is not a number", arg)
			}

			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			switch {
			case strings.HasPrefix(arg, "+"):
				return client.Forward(secs)
			case strings.HasPrefix(arg, "-"):
				return client.Rewind(-secs)
			default:
				return client.SeekTo(secs)
			}
		},
	}
}

func (app *Application) createVolumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "volume [amount]",
		Short: fmt.Sprintf("Show the volume, or set it (%d-%d)", vlc.MinVolume, vlc.MaxVolume),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt := 0
			if len(args) == 1 {
				var err error
				if amt, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("volume %q is not a number", args[0])
				}
			}

			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			if len(args) == 0 {
				volume, err := client.Volume()
				if err != nil {
					return err
				}
				cmd.Println(volume)
				return nil
			}
			return client.SetVolume(amt)
		},
	}
}

func (app *Application) createPlaylistCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "playlist",
		Short: "List the playlist entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			tracks, err := client.Playlist()
			if err != nil {
				return err
			}
			for _, track := range tracks {
				cmd.Println(track)
			}
			return nil
		},
	}
}

func (app *Application) createSubtitlesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "subtitles",
		Short: "List the subtitle tracks of the current media",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()

			subtitles, err := client.Subtitles()
			if err != nil {
				return err
			}
			for _, subtitle := range subtitles {
				cmd.Println(subtitle)
			}
			return nil
		},
	}
}

func (app *Application) createMediaCommands() []*cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add <uri>",
		Short: "Add media to the playlist and play it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()
			return client.Add(args[0])
		},
	}

	enqueueCmd := &cobra.Command{
		Use:   "enqueue <uri>",
		Short: "Add media to the playlist without playing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()
			return client.Enqueue(args[0])
		},
	}

	gotoCmd := &cobra.Command{
		Use:   "goto <index>",
		Short: "Jump to a playlist entry by index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("index %q is not a number", args[0])
			}

			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()
			return client.Goto(index)
		},
	}

	return []*cobra.Command{addCmd, enqueueCmd, gotoCmd}
}

func (app *Application) createFullscreenCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "fullscreen <on|off>",
		Short:     "Toggle the player's fullscreen mode",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] != "on" && args[0] != "off" {
				return fmt.Errorf("argument must be on or off, got %q", args[0])
			}

			client, err := app.connect()
			if err != nil {
				return err
			}
			defer client.Close()
			return client.Fullscreen(args[0] == "on")
		},
	}
}

func (app *Application) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the vlc-rc version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("vlc-rc %s\n", Version)
		},
	}
}
