// Package main is the entry point for the sparkpost command-line client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/shineum/sparkpost-lite/internal/config"
	"github.com/shineum/sparkpost-lite/sparkpost"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// cliApp carries state shared by the command actions.
type cliApp struct {
	out    io.Writer
	cfg    *config.Config
	client *sparkpost.Client
}

func newApp(out io.Writer) *cli.App {
	a := &cliApp{out: out}

	return &cli.App{
		Name:    "sparkpost",
		Usage:   "SparkPost API client",
		Version: sparkpost.Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to YAML configuration file (optional)",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key, overrides " + sparkpost.APIKeyEnv,
			},
			&cli.StringFlag{
				Name:  "origin",
				Usage: "API origin, e.g. https://api.eu.sparkpost.com:443",
			},
			&cli.StringFlag{
				Name:  "api-version",
				Usage: "API version path segment",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "record request and response metadata",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
		},
		Before:   a.before,
		Commands: a.commands(),
	}
}

// before loads configuration, applies global flag overrides and sets up
// logging ahead of any command.
func (a *cliApp) before(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if c.IsSet("api-key") {
		cfg.SparkPost.APIKey = c.String("api-key")
	}
	if c.IsSet("origin") {
		cfg.SparkPost.Origin = c.String("origin")
	}
	if c.IsSet("api-version") {
		cfg.SparkPost.APIVersion = c.String("api-version")
	}
	if c.IsSet("debug") {
		cfg.SparkPost.Debug = c.Bool("debug")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogger(cfg.Logging.Level, cfg.Logging.Format)
	a.cfg = cfg
	return nil
}

// apiClient returns the API client, creating it on first use so commands
// that never reach the API do not require a key.
func (a *cliApp) apiClient() (*sparkpost.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	cc := a.cfg.ClientConfig()
	cc.Logger = slog.Default()

	client, err := sparkpost.New(cc)
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// loadConfig loads configuration from the specified path (YAML + env override)
// or from environment variables only if no path is given.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// setupLogger configures the global slog logger with the specified level.
// Logs go to stderr; stdout carries command output.
func setupLogger(level, format string) {
	var logLevel slog.Level

	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// reportError prints err, including the API's error details when present.
func reportError(w io.Writer, err error) {
	var apiErr *sparkpost.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(w, "error: %s\n", apiErr.Status)
		for _, d := range apiErr.Errors {
			if d.Code != "" {
				fmt.Fprintf(w, "  [%s] %s", d.Code, d.Message)
			} else {
				fmt.Fprintf(w, "  %s", d.Message)
			}
			if d.Description != "" {
				fmt.Fprintf(w, ": %s", d.Description)
			}
			fmt.Fprintln(w)
		}
		if len(apiErr.Errors) == 0 && len(apiErr.Body) > 0 {
			fmt.Fprintf(w, "  %s\n", apiErr.Body)
		}
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
