// Copyright 2024 The vlc-rc Authors
// SPDX-License-Identifier: GPL-3.0-only

// vlc-rc is a command line remote control for a VLC instance reachable
// over its TCP remote-control interface (start VLC with something like
// `vlc -I oldtelnet --rc-host 127.0.0.1:9090`).
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/viper"
)

var osExit = os.Exit // allows mocking os.Exit in tests

const DEVELOPMENT = "development"

// Version is the program version; usually set from BuildInfo
var Version string = DEVELOPMENT

func readConfig(configFile string) error {
	if configFile != "" {
		// use custom config file
		viper.SetConfigFile(configFile)
	} else {
		// lookup default dirs
		viper.SetConfigName("vlc-rc")
		viper.SetConfigType("toml")
		viper.AddConfigPath("$HOME/.config/vlc-rc")
		viper.AddConfigPath(".")
	}

	viper.SetDefault("server.address", "127.0.0.1:9090")
	viper.SetDefault("client.retries", 20)
	viper.SetDefault("client.retry-delay", "25ms")
	viper.SetDefault("client.dial-timeout", "5s")
	viper.SetDefault("mpris.enabled", false)

	if err := viper.ReadInConfig(); err != nil {
		// a missing default config file is fine, the defaults above and
		// the flags cover everything
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config file error: %w", err)
	}

	// validate
	requiredProperties := []string{"server.address"}
	for _, prop := range requiredProperties {
		if viper.GetString(prop) == "" {
			return fmt.Errorf("config property %s is required", prop)
		}
	}

	return nil
}

func main() {
	if Version == DEVELOPMENT {
		if bi, ok := debug.ReadBuildInfo(); ok {
			Version = bi.Main.Version
		}
	}

	app := NewApplication()
	if err := app.createRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}
