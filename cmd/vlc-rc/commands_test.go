// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// run from a directory without a config file so only defaults apply
	chdir(t, t.TempDir())

	require.NoError(t, readConfig(""))

	assert.Equal(t, "127.0.0.1:9090", viper.GetString("server.address"))
	assert.Equal(t, 20, viper.GetInt("client.retries"))
	assert.Equal(t, 25*time.Millisecond, viper.GetDuration("client.retry-delay"))
	assert.Equal(t, 5*time.Second, viper.GetDuration("client.dial-timeout"))
	assert.False(t, viper.GetBool("mpris.enabled"))
}

func TestReadConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "vlc-rc.toml")
	content := `
[server]
address = "10.0.0.5:4212"

[client]
retries = 5
retry-delay = "100ms"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	require.NoError(t, readConfig(configFile))

	assert.Equal(t, "10.0.0.5:4212", viper.GetString("server.address"))
	assert.Equal(t, 5, viper.GetInt("client.retries"))
	assert.Equal(t, 100*time.Millisecond, viper.GetDuration("client.retry-delay"))
}

func TestReadConfigRequiresAddress(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	configFile := filepath.Join(t.TempDir(), "vlc-rc.toml")
	content := `
[server]
address = ""
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	err := readConfig(configFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.address")
}

func TestReadConfigMissingExplicitFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := readConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err, "a config file named explicitly must exist")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	app := NewApplication()
	root := app.createRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{
		"status", "play", "stop", "pause", "next", "prev", "clear",
		"seek", "volume", "playlist", "subtitles",
		"add", "enqueue", "goto", "fullscreen", "tui", "version",
	} {
		assert.Contains(t, names, want)
	}
}

func TestSeekRejectsNonNumericOffset(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	app := NewApplication()
	root := app.createRootCommand()
	root.SetArgs([]string{"seek", "abc"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestGotoRejectsNonNumericIndex(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	app := NewApplication()
	root := app.createRootCommand()
	root.SetArgs([]string{"goto", "first"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a number")
}

func TestVersionCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())

	app := NewApplication()
	root := app.createRootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "vlc-rc")
}

// The log window's event loop must be the only consumer of the logger
// channel; a still-running background drain would steal lines from it.
func TestReleaseLogDrainHandsOverLogChannel(t *testing.T) {
	app := NewApplication()
	app.stopDrain = app.logger.Drain(io.Discard)

	app.releaseLogDrain()
	assert.Nil(t, app.stopDrain, "the drain must be stopped and cleared")

	const lines = 500
	go func() {
		for i := 0; i < lines; i++ {
			app.logger.Print("line")
		}
	}()

	for i := 0; i < lines; i++ {
		select {
		case <-app.logger.Prints:
		case <-time.After(time.Second):
			t.Fatalf("received %d of %d log lines; the rest went to the stopped drain", i, lines)
		}
	}
}

func TestFormatPlayerStatus(t *testing.T) {
	assert.Equal(t, "[0%][::b][00:00]", formatPlayerStatus(0, 0))
	assert.Equal(t, "[150%][::b][02:05]", formatPlayerStatus(150, 125))
	assert.Equal(t, "[20%][::b][00:00]", formatPlayerStatus(20, -3))
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
