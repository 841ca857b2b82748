package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	service "github.com/okian/tzolkin/internal/app"
	"github.com/okian/tzolkin/internal/config"
	"github.com/okian/tzolkin/pkg/logger"
	"github.com/okian/tzolkin/pkg/metrics"
)

// cli carries what every subcommand needs once the root pre-run is done.
type cli struct {
	configPath string
	tablesPath string
	logLevel   string

	cfg      *config.Config
	engine   *service.Service
	log      logger.Logger
	registry *prometheus.Registry
	metrics  *metrics.Manager
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "tzolkin",
		Short: "Tzolkin calendar calculations",
		Long: `Resolves Gregorian dates to KINs and derives the oracle, wavespell,
castle, PSI, goddess, 13 Moon date and matrix equivalent from them.

Dates are written YYYY-MM-DD. Tables come from tables_path (SQLite or YAML)
or are synthesized when no path is configured.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			defer func() { _ = logger.Sync() }()
			if c.cfg == nil || c.cfg.MetricsTextfile == "" {
				return nil
			}
			return metrics.WriteTextfile(c.cfg.MetricsTextfile, c.registry)
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file (or set TZOLKIN_CONFIG)")
	root.PersistentFlags().StringVar(&c.tablesPath, "tables", "", "Table file, overrides tables_path")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level, overrides log_level")

	root.AddCommand(
		c.kinCmd(),
		c.oracleCmd(),
		c.wavespellCmd(),
		c.castleCmd(),
		c.psiCmd(),
		c.goddessCmd(),
		c.longDateCmd(),
		c.equivalentCmd(),
		c.compositeCmd(),
		c.profileCmd(),
		c.auditCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := logger.Init(); err != nil {
		return err
	}
	if c.configPath != "" {
		if err := os.Setenv(config.EnvConfig, c.configPath); err != nil {
			return err
		}
	}

	ctx := logger.WithRunID(cmd.Context(), uuid.NewString())
	cmd.SetContext(ctx)

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if c.tablesPath != "" {
		cfg.TablesPath = c.tablesPath
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.Named("tzolkin")
	c.registry = prometheus.NewRegistry()
	c.metrics = metrics.NewManager(append(cfg.MetricsOptions(), metrics.WithPrometheusRegistry(c.registry))...)

	opts := []service.Option{
		service.WithLogger(c.log),
		service.WithMetrics(c.metrics),
		service.WithLeapCorrection(cfg.LeapCorrection),
		service.WithCastleYears(cfg.CastleYears),
	}
	tables, err := service.LoadTables(ctx, service.TableSource{
		Path:         cfg.TablesPath,
		SynthFrom:    cfg.SynthFromYear,
		SynthTo:      cfg.SynthToYear,
		StrictMatrix: cfg.StrictMatrix,
	}, opts...)
	if err != nil {
		return err
	}
	c.engine = service.New(tables, opts...)
	return nil
}

func (c *cli) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
