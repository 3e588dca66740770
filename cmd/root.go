package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/k1LoW/errors"
	"github.com/mattn/go-colorable"
	slogmulti "github.com/samber/slog-multi"
	"github.com/spf13/cobra"

	"github.com/ByLCY/sheetsmith/config"
)

var (
	configPath string

	cfg         *config.Config
	logger      *slog.Logger
	closeLogger = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:          "sheetsmith",
	Short:        "sheetsmith renders personalized signup sheets",
	Long:         `sheetsmith renders personalized signup sheets by overlaying request fields on a template photograph.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		l, closer, err := newLogger(c, colorable.NewColorableStderr())
		if err != nil {
			return err
		}
		cfg, logger, closeLogger = c, l, closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogger()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		stderr := colorable.NewColorableStderr()
		red := color.New(color.FgRed, color.Bold).SprintFunc()
		_, _ = fmt.Fprintf(stderr, "%s %v\n", red("error:"), err)
		if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
			if b, err := json.MarshalIndent(errors.StackTraces(err), "", "  "); err == nil {
				_, _ = fmt.Fprintf(stderr, "%s\n", b)
			}
		}
		_ = closeLogger()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./sheetsmith.yml if present)")
}

// newLogger writes human readable records to w and, when log.file is set, JSON records to that file.
func newLogger(c *config.Config, w io.Writer) (_ *slog.Logger, closer func() error, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	level, err := c.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if c.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	if c.Log.File == "" {
		return slog.New(h), func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slogmulti.Fanout(h, slog.NewJSONHandler(f, opts))), f.Close, nil
}
