package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kayz/sift/internal/api"
	"github.com/kayz/sift/internal/logger"
	"github.com/kayz/sift/internal/persist"
	"github.com/kayz/sift/internal/webui"
	"github.com/spf13/cobra"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the sift web UI and JSON API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (default: from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (default: from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	manager, err := newSearchManager()
	if err != nil {
		return err
	}

	if cfg.Storage.MaintenanceSchedule != "" {
		maintainer, err := persist.NewMaintainer(store, cfg.Storage.MaintenanceSchedule, cfg.Storage.RetentionDays)
		if err != nil {
			return err
		}
		maintainer.Start()
		defer maintainer.Stop()
	}

	backendURL := cfg.UI.APIBaseURL
	if backendURL == "" {
		backendURL = "http://" + loopbackAddr(cfg.Server.Host, cfg.Server.Port)
	}

	server := webui.NewServer(manager, store, api.NewClient(backendURL, nil), webui.Options{
		MaxResults:        cfg.Search.MaxResults,
		MaxCharsPerResult: cfg.Search.MaxCharsPerResult,
		RateLimit:         cfg.Search.RateLimit,
		RateBurst:         cfg.Search.RateBurst,
	})
	defer server.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sift listening on http://%s (backend %s)", cfg.Server.Addr(), backendURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	server.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// loopbackAddr is the address this process can reach itself on.
func loopbackAddr(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return fmt.Sprintf("%s:%d", host, port)
}
