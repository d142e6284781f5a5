// Command server exposes the interpres pipeline as a JSON REST API.
//
// Endpoints:
//
//	GET  /api/interpret?text=<text>
//	POST /api/interpret      body: {"text":"..."}
//	POST /api/tokenize       body: {"text":"..."}
//	POST /api/batch          body: {"texts":["...", ...]}
//	GET  /api/forms?stem=<word>
//	GET  /api/schema
//	GET  /healthz
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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cours-de-latin/interpres"
)

var (
	dataDir    string
	configPath string
	addr       string
	userDB     string
	watch      bool
	batchLimit int
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the interpres pipeline over HTTP",
	Long: `Loads the lexicon in --data and serves interpretations as JSON.

With --watch the data directory is reloaded when its files change; the
running engine keeps serving until the new one is ready.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&dataDir, "data", "data", "path to the lexicon data directory")
	rootCmd.Flags().StringVar(&configPath, "config", "interpres.yaml", "YAML configuration file (defaults if absent)")
	rootCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.Flags().StringVar(&userDB, "userdb", "", "SQLite user lexicon merged over the bundled data")
	rootCmd.Flags().BoolVar(&watch, "watch", true, "reload the data directory on change")
	rootCmd.Flags().IntVar(&batchLimit, "batch-limit", 8, "texts interpreted in parallel per batch request")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := interpres.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := interpres.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	load := func() (*interpres.Engine, error) {
		opts := []interpres.Option{interpres.WithConfig(cfg), interpres.WithLogger(logger)}
		if userDB != "" {
			opts = append(opts, interpres.WithLexiconDB(userDB))
		}
		return interpres.New(dataDir, opts...)
	}

	logger.Info("loading data", zap.String("dir", dataDir))
	engine, err := load()
	if err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	srv := newServer(engine, logger, batchLimit)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchDone := make(chan error, 1)
	if watch {
		go func() { watchDone <- srv.watch(ctx, dataDir, load) }()
	} else {
		close(watchDone)
	}

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		serveErr <- hs.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		stop()
		<-watchDone
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-watchDone; err != nil {
		logger.Warn("watcher stopped", zap.Error(err))
	}
	return nil
}
