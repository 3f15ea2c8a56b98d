package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipdiff/internal/logging"
)

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPDIFF_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPDIFF_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipdiff")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipdiff/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/clipdiff", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPDIFF")
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for agents, debug interactively)")
	cmd.Flags().String("log-file", "", "append JSON logs to this file instead of stderr")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addDiffFlags adds the flags shared by every command that can end up
// rendering a diff.
func addDiffFlags(cmd *cobra.Command) {
	cmd.Flags().String("viewer", "auto", "diff viewer: auto|terminal|editor")
	cmd.Flags().String("editor", "", "editor helper binary (default: code, code.cmd on Windows)")
	cmd.Flags().String("state", "", "pending-action state file (default: user config dir)")
}

// setupLogging reads logging flags from viper and configures slog. window
// labels every record; pass "" for commands without a window context.
func setupLogging(v *viper.Viper, window string) {
	levelStr := v.GetString("log-level")
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if logging.IsTTY(os.Stderr) {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(logging.ParseFormat(v.GetString("log-format")), level, window, v.GetString("log-file"))
}
