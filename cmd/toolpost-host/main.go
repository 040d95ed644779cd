// Copyright 2026 The Toolpost Authors
// SPDX-License-Identifier: Apache-2.0

// Toolpost-host runs the modeling host: a single-threaded command
// executor behind an HTTP command endpoint, standing in for the
// CAD-application add-in during development and testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/toolpost/toolpost/lib/config"
	"github.com/toolpost/toolpost/lib/hostserver"
	"github.com/toolpost/toolpost/lib/journal"
	"github.com/toolpost/toolpost/lib/modeling"
	"github.com/toolpost/toolpost/lib/ops"
	"github.com/toolpost/toolpost/lib/relay"
	"github.com/toolpost/toolpost/lib/version"
	"github.com/toolpost/toolpost/lib/wire"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "path to config file (default: TOOLPOST_CONFIG or built-in defaults)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("toolpost-host %s\n", version.Info())
		return nil
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("starting toolpost-host",
		"version", version.Info(),
		"listen_addr", cfg.ListenAddr,
		"timeout_seconds", cfg.TimeoutSeconds,
		"allow_code", cfg.AllowCode,
		"journal_dir", cfg.Journal.Directory,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The command journal is optional; an empty directory disables it.
	var commandJournal *journal.Journal
	if cfg.Journal.Directory != "" {
		commandJournal, err = journal.Open(journal.Options{
			Directory:   cfg.Journal.Directory,
			RotateBytes: cfg.Journal.RotateBytes,
			Logger:      logger,
		})
		if err != nil {
			return fmt.Errorf("opening journal: %w", err)
		}
		defer func() {
			if err := commandJournal.Close(); err != nil {
				logger.Error("closing journal", "error", err)
			}
		}()
	}

	mailbox := relay.NewMailbox(logger)
	dispatch := relay.NewSignal(cfg.QueueDepth)
	registry := relay.NewRegistry()

	host := &ops.Host{
		Document:  modeling.NewDocument(),
		AllowCode: cfg.AllowCode,
		Logger:    logger,
	}
	host.Register(registry)

	interpreter := &relay.Interpreter{
		Registry: registry,
		Mailbox:  mailbox,
		Logger:   logger,
	}
	if commandJournal != nil {
		interpreter.Observer = func(envelope relay.Envelope, response wire.Response) error {
			return commandJournal.Append(journal.Entry{
				UnixNano:  time.Now().UnixNano(),
				RequestID: envelope.ID,
				Command:   envelope.Raw,
				Status:    string(response.Status),
				Message:   response.Message,
			})
		}
	}

	loop := relay.NewLoop(dispatch, interpreter, logger)

	listener := &hostserver.Listener{
		Signal:  dispatch,
		Mailbox: mailbox,
		Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:  logger,
	}
	server := hostserver.NewServer(hostserver.ServerConfig{
		Address:        cfg.ListenAddr,
		Handler:        listener.Router(),
		CommandTimeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:         logger,
	})

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(ctx)
	}()

	serveErr := server.Serve(ctx)

	// The loop only stops on context cancellation; wait for it so that
	// no handler is mid-execution when the journal closes.
	stop()
	<-loopDone

	if serveErr != nil && ctx.Err() == nil {
		return serveErr
	}
	return nil
}
