// Package httpd implements the HTTP server command.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/siteinsight/cmd/common"
	"github.com/jonesrussell/siteinsight/internal/api"
	"github.com/jonesrussell/siteinsight/internal/logger"
)

const (
	signalChannelBufferSize = 1
	errorChannelBufferSize  = 1
	defaultShutdownTimeout  = 30 * time.Second
)

// Command returns the httpd cobra command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the analysis HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start()
		},
	}
}

// Start starts the HTTP server and runs until interrupted. It handles
// graceful shutdown on SIGINT or SIGTERM.
func Start() error {
	deps, err := common.NewDeps()
	if err != nil {
		return fmt.Errorf("initialize dependencies: %w", err)
	}

	handler := api.NewHandler(deps.Service, deps.Logger.WithComponent("api"))
	router := api.NewRouter(handler, deps.Metrics.Handler(), deps.Logger, deps.Config.App.Debug)
	server := api.NewServer(deps.Config.Server, router)

	deps.Logger.Info("starting HTTP server",
		"addr", server.Addr,
		"environment", deps.Config.App.Environment,
	)

	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return runUntilInterrupt(deps.Logger, server, errChan)
}

// runUntilInterrupt blocks until a shutdown signal or server error.
func runUntilInterrupt(log logger.Interface, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, signalChannelBufferSize)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case serverErr := <-errChan:
		log.Error("server error", "error", serverErr)
		return fmt.Errorf("server error: %w", serverErr)
	case sig := <-sigChan:
		log.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}

		log.Info("server stopped")
		return nil
	}
}
