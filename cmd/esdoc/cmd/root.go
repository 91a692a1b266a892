// Package cmd provides the CLI commands for esdoc.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veloq/esgo"
	"github.com/veloq/esgo/config"
	"github.com/veloq/esgo/doccache"
	"github.com/veloq/esgo/transport"
)

var (
	cfgPath   string
	endpoints []string
	indexName string
	typeName  string
)

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates the root command for the esdoc CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "esdoc",
		Short: "Document operations against an Elasticsearch-compatible engine",
		Long: `esdoc runs single-document and bulk operations (get, store, update,
delete, bulk) against a search engine's HTTP API.

Connection settings come from a YAML config file (default esgo.yaml);
flags override the file. Credentials can be supplied via the ESGO_SECRET
environment variable. Raw JSON responses go to stdout, logs to stderr.`,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "esgo.yaml", "Path to the config file")
	cmd.PersistentFlags().StringSliceVar(&endpoints, "endpoint", nil, "Engine endpoint (repeatable, overrides config)")
	cmd.PersistentFlags().StringVar(&indexName, "index", "", "Index name (overrides config default)")
	cmd.PersistentFlags().StringVar(&typeName, "type", "", "Document type (overrides config default)")

	cmd.AddCommand(
		newGetCmd(),
		newStoreCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newBulkCmd(),
	)
	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if len(endpoints) > 0 {
		cfg.Engine.Endpoints = endpoints
	}
	if indexName != "" {
		cfg.Defaults.Index = indexName
	}
	if typeName != "" {
		cfg.Defaults.Type = typeName
	}
	if cfg.Defaults.Index == "" {
		return nil, fmt.Errorf("no index configured; use --index or set defaults.index")
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *esgo.Logger {
	level := slog.LevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Logging.Format == "json" {
		return esgo.NewJSONLogger(level)
	}
	return esgo.NewTextLogger(level)
}

// newClient builds the transport stack and client from the config. The
// returned cleanup stops background transport work.
func newClient(cfg *config.Config) (*esgo.Client, func(), error) {
	logger := newLogger(cfg)

	opts := []transport.Option{
		transport.WithEndpoints(cfg.Engine.Endpoints...),
		transport.WithLogger(logger),
		transport.WithMaxRetries(cfg.Engine.MaxRetries),
		transport.WithRetryDelay(cfg.Engine.RetryDelay),
	}
	if cfg.Engine.Secret != "" {
		opts = append(opts, transport.WithSecret(cfg.Engine.Secret))
	}
	if cfg.Engine.Gzip {
		opts = append(opts, transport.WithGzip())
	}
	if cfg.Engine.RateLimit > 0 {
		opts = append(opts, transport.WithRateLimit(cfg.Engine.RateLimit, cfg.Engine.RateBurst))
	}
	if cfg.Engine.HealthCheckInterval > 0 {
		opts = append(opts, transport.WithHealthCheckInterval(cfg.Engine.HealthCheckInterval))
	}
	if cfg.Engine.OpaqueIDs {
		opts = append(opts, transport.WithOpaqueIDs())
	}

	tr, err := transport.New(opts...)
	if err != nil {
		return nil, nil, err
	}

	var t esgo.Transport = tr
	if cfg.Cache.Enabled {
		cached, cerr := doccache.New(tr, cfg.Cache.Size, cfg.Cache.TTL)
		if cerr != nil {
			_ = tr.Close()
			return nil, nil, cerr
		}
		t = cached
	}

	clientOpts := []esgo.Option{
		esgo.WithTransport(t),
		esgo.WithLogger(logger),
	}
	if cfg.Defaults.Strict {
		clientOpts = append(clientOpts, esgo.WithStrictValidation())
	}

	cleanup := func() { _ = tr.Close() }
	return esgo.New(clientOpts...), cleanup, nil
}

func printResponse(resp *esgo.Response) error {
	if _, err := os.Stdout.Write(resp.Body); err != nil {
		return err
	}
	if len(resp.Body) > 0 && resp.Body[len(resp.Body)-1] != '\n' {
		fmt.Println()
	}
	if resp.IsError() {
		return fmt.Errorf("engine returned status %d", resp.StatusCode)
	}
	return nil
}
