package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/petasbytes/datagen-agent/internal/chat"
	"github.com/petasbytes/datagen-agent/internal/config"
	"github.com/petasbytes/datagen-agent/internal/datagen"
	"github.com/petasbytes/datagen-agent/internal/fsops"
	"github.com/petasbytes/datagen-agent/internal/jsonstore"
	"github.com/petasbytes/datagen-agent/internal/logging"
	"github.com/petasbytes/datagen-agent/internal/persona"
	"github.com/petasbytes/datagen-agent/internal/provider"
	"github.com/petasbytes/datagen-agent/internal/runner"
	"github.com/petasbytes/datagen-agent/internal/telemetry"
	"github.com/petasbytes/datagen-agent/internal/tracing"
	"github.com/petasbytes/datagen-agent/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg)

	// Basic env check (SDK also reads API key)
	if err := provider.CheckAPIKey(); err != nil {
		return err
	}

	telemetry.Configure(cfg.ArtifactsDir, cfg.ObserveJSON)
	telemetry.SetErrorLogger(logger)

	shutdownTracing, err := tracing.Init(cfg.TraceStdout, os.Stdout, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.WithError(err).Warn("tracing shutdown")
		}
	}()

	sandbox, err := fsops.NewSandbox(cfg.ReadRoot, cfg.WriteRoot)
	if err != nil {
		return fmt.Errorf("init sandbox: %w", err)
	}
	readRoot, writeRoot := sandbox.Roots()

	p, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		return err
	}

	conv := &runner.Conversation{
		Agent:      runner.New(provider.NewAnthropicClient(), cfg, logger),
		System:     p.SystemPrompt,
		Tools:      tools.NewRegistry(datagen.New(nil, nil), jsonstore.New(sandbox)),
		StepBudget: cfg.StepBudget,
		Logger:     logger,
	}
	surface := chat.NewSurface(conv)

	logger.WithFields(logrus.Fields{
		"model":      cfg.Model,
		"read_root":  readRoot,
		"write_root": writeRoot,
		"observe":    cfg.ObserveJSON,
	}).Info("datagen agent starting")

	// Set up graceful shutdown on Ctrl-C (SIGINT) / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		return serve(ctx, cfg.HTTPAddr, chat.NewServer(surface, p, logger), logger)
	}
	return repl(ctx, surface, p, os.Stdin, os.Stdout)
}

func serve(ctx context.Context, addr string, handler http.Handler, logger logrus.FieldLogger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("chat server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down chat server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
