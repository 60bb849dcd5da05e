package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"markestedt/copyman/config"
	"markestedt/copyman/systray"
)

func main() {
	// Setup logging
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	var (
		configPath string
		backend    string
		trayMode   bool
	)
	flagSet := pflag.NewFlagSet("copyman", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")
	flagSet.StringVar(&backend, "backend", "", "settings storage backend: file or sqlite")
	flagSet.BoolVar(&trayMode, "tray", false, "run the tray, global hotkeys and web UI instead of the terminal overlay")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if backend != "" {
		cfg.Storage.Backend = backend
		if err := cfg.Validate(); err != nil {
			slog.Error("Invalid --backend", "error", err)
			os.Exit(1)
		}
	}

	logFile, err := setupLogging(cfg.Log, !trayMode)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.Info("Configuration loaded", "path", configPath, "backend", cfg.Storage.Backend)

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent, err := NewAgent(ctx, cfg)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		os.Exit(1)
	}

	if !trayMode {
		if err := agent.RunTerminal(ctx); err != nil {
			slog.Error("Overlay error", "error", err)
			os.Exit(1)
		}
		return
	}

	tray := systray.NewSystrayManager(agent.Host(), agent.WebURL(), nil)
	errCh := make(chan error, 1)
	go func() {
		errCh <- agent.Run(ctx)
		tray.Stop()
	}()
	go func() {
		<-tray.WaitForQuit()
		cancel()
	}()

	// The tray owns the main thread until it quits
	tray.Run()
	cancel()

	if err := <-errCh; err != nil {
		slog.Error("Agent error", "error", err)
		os.Exit(1)
	}
	slog.Info("CopyMan stopped")
}

// setupLogging applies the configured level. The terminal overlay owns
// the screen, so in that mode records go to the log file instead.
func setupLogging(cfg config.LogConfig, toFile bool) (io.Closer, error) {
	level := slog.LevelInfo
	if name := strings.TrimSpace(cfg.Level); name != "" {
		if err := level.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var out io.Writer = os.Stderr
	var closer io.Closer
	if toFile {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = f, f
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})))
	return closer, nil
}
