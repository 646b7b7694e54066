package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"emailbuilder/internal/app"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  serveRun,
	}
}

func serveRun(cmd *cobra.Command, args []string) error {
	server, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	server.StartBackground()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- server.Listen()
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-listenErr:
		server.Close()
		if err != nil {
			return err
		}
		return errors.New("server stopped unexpectedly")
	case sig := <-sigChan:
		logger.WithField("signal", sig.String()).Info("Shutting down email builder...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("Email builder shut down gracefully.")
	return nil
}
