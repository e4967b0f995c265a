// Package cli implements the ts command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"

	"github.com/randomizedcoder/ringqueue/internal/logctx"
	"github.com/randomizedcoder/ringqueue/internal/queue"
)

// Flag names double as viper keys. The matching environment variable is
// RINGQUEUE_ followed by the upper-cased name with dashes as underscores.
const (
	FlagLogLevel   = "log-level"
	FlagConfig     = "config"
	FlagGrowthStep = "growth-step"
	FlagIterations = "iterations"
	FlagBurst      = "burst"
	FlagColor      = "color"
)

const envPrefix = "RINGQUEUE"

// NewRootCmd builds the ts command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ts",
		Short:         "Linear-step ring queue tools",
		Long:          `ts - benchmarks for the linear-step ring queue and a terminal pattern demo`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cmd); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), viper.GetString(FlagLogLevel))
			if err != nil {
				return err
			}
			cmd.SetContext(logctx.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().String(FlagLogLevel, "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().String(FlagConfig, "", "Config file (yaml, toml or json)")
	root.PersistentFlags().Int(FlagGrowthStep, queue.DefaultGrowthStep, "Slots added or removed per queue resize")

	root.AddCommand(newBenchCmd())
	root.AddCommand(newPaintCmd())
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig binds the command's flags, the environment and an optional
// config file into viper. Flags win over env, env over the file.
func initConfig(cmd *cobra.Command) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return xerrors.Errorf("bind flags: %w", err)
	}

	if path := viper.GetString(FlagConfig); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return xerrors.Errorf("read config %s: %w", path, err)
		}
	}
	return nil
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, xerrors.Errorf("invalid %s %q: %w", FlagLogLevel, level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
