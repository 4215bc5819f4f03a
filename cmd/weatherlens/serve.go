package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/weatherlens/internal/alertrepo"
	"github.com/alexisbeaulieu97/weatherlens/internal/alertserver"
	"github.com/alexisbeaulieu97/weatherlens/internal/observability"
)

const shutdownTimeout = 10 * time.Second

type serveOptions struct {
	addr   string
	dbPath string
}

func newServeCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local alerts service backed by SQLite",
		Long: `Run a local implementation of the alerts API (GET/POST/DELETE /api/alerts)
so the dashboard and the alerts commands can be used without a remote service.
Metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (defaults to server.addr)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite database path (defaults to server.db_path)")

	return cmd
}

func runServe(cmd *cobra.Command, rootFlags *rootFlags, opts *serveOptions) error {
	const operation = "serve alerts"

	app, err := loadAppContext(operation, rootFlags, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	dbPath := opts.dbPath
	if dbPath == "" {
		dbPath = app.Config.Server.DBPath
	}

	db, err := alertrepo.Open(dbPath)
	if err != nil {
		return newCommandError(operation, fmt.Sprintf("opening database %s", dbPath), err, "Check the --db path and its directory permissions.")
	}

	repo, err := alertrepo.New(db)
	if err != nil {
		return newCommandError(operation, "migrating database", err, "Delete the database file if it was created by an incompatible version.")
	}
	defer func() {
		if cerr := repo.Close(); cerr != nil {
			app.Logger.Error(cerr, "closing database failed")
		}
	}()

	server := alertserver.New(repo, alertserver.Options{
		Logger:   app.Logger.Component("alertserver"),
		Metrics:  observability.NewMetrics(),
		Gatherer: prometheus.DefaultGatherer,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(addr)
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Alerts service listening on %s (database %s)\n", addr, dbPath)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return newCommandError(operation, fmt.Sprintf("listening on %s", addr), err, "Choose a free address with --addr.")
		}
		return nil
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down alerts service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return newCommandError(operation, "shutting down", err, "Retry; in-flight requests may not have completed.")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return newCommandError(operation, "shutting down", err, "Retry; in-flight requests may not have completed.")
	}

	return nil
}
