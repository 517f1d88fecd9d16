package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guizzs26/go-sync-baserow/internal/baserow"
	"github.com/Guizzs26/go-sync-baserow/internal/catalog"
	"github.com/Guizzs26/go-sync-baserow/internal/config"
	"github.com/Guizzs26/go-sync-baserow/internal/models"
	"github.com/Guizzs26/go-sync-baserow/pkg/infra"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	tableID    int
	schemaFile string
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	client *baserow.Client
	table  models.TableHandle
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "baserow-sync",
		Short:         "Upsert records into a Baserow table matched on its primary column",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&flags.tableID, "table", 0, "Baserow table id (overrides BASEROW_TABLE_ID)")
	root.PersistentFlags().StringVar(&flags.schemaFile, "schema", "", "Pre-fetched schema snapshot (overrides BASEROW_SCHEMA_FILE)")

	root.AddCommand(newUpsertCmd(flags), newSchemaCmd(flags))
	return root
}

// bootstrap loads configuration and connects to the table. Configuration
// problems surface before any network call. With a schema snapshot and
// remoteSchema unset, the table is not probed.
func bootstrap(ctx context.Context, flags *globalFlags, remoteSchema bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("CRITICAL: failed to load configuration", "error", err)
		return nil, err
	}
	if flags.tableID > 0 {
		cfg.TableID = flags.tableID
	}
	if flags.schemaFile != "" {
		cfg.SchemaFile = flags.schemaFile
	}

	logger := infra.SetupLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("CRITICAL: invalid configuration", "error", err)
		return nil, err
	}

	if cfg.MetricsPort != "" {
		go startObservabilityServer(cfg.MetricsPort, logger)
	}

	client, err := baserow.NewClient(cfg.BaserowURL, cfg.BaserowAPIKey, cfg.HTTPTimeout(), logger)
	if err != nil {
		logger.Error("CRITICAL: failed to build Baserow client", "error", err)
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, client: client, table: models.TableHandle{ID: cfg.TableID}}
	if remoteSchema {
		cfg.SchemaFile = ""
	}
	if cfg.SchemaFile != "" {
		return a, nil
	}

	logger.Info("Connecting to Baserow", "url", cfg.BaserowURL, "table", cfg.TableID)

	a.table, err = client.GetTable(ctx, cfg.TableID)
	if err != nil {
		logger.Error("CRITICAL: Baserow table unavailable", "error", err)
		return nil, err
	}
	return a, nil
}

// loadCatalog prefers the configured snapshot over a remote fetch
func (a *app) loadCatalog(ctx context.Context) (*models.SchemaCatalog, error) {
	if a.cfg.SchemaFile != "" {
		cat, err := catalog.LoadFile(a.cfg.SchemaFile)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Schema loaded from snapshot", "path", a.cfg.SchemaFile, "columns", cat.Len())
		return cat, nil
	}

	cat, err := catalog.Fetch(ctx, a.client, a.table)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Schema fetched from Baserow", "columns", cat.Len())
	return cat, nil
}

func startObservabilityServer(port string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("BASEROW SYNC ALIVE"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logger.Info("Observability server online", "url", "http://localhost:"+port+"/metrics")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Observability server failed", "error", err)
	}
}
