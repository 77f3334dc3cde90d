package main

import (
	"context"
	"os"
	"time"

	"alpha_engine/pkg/core/config"
	"alpha_engine/pkg/core/filing"
	"alpha_engine/pkg/core/ingest"
	"alpha_engine/pkg/core/market"
	"alpha_engine/pkg/core/pipeline"
	"alpha_engine/pkg/core/registry"
	"alpha_engine/pkg/core/store"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "alpha",
	Short:         "XBRL filing extraction and valuation engine",
	Long:          `Extracts normalized financial metrics from SEC 10-K/10-Q filings (XBRL and inline XBRL), reconciles quarterly and annual periods and computes valuation ratios.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		setupLogging(c)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./alpha.yaml)")

	flags.String("log-level", "info", "Logging level")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))

	flags.String("tags", "", "metric tag registry (JSON or HJSON); empty uses the builtin registry")
	_ = v.BindPFlag("extract.tags_path", flags.Lookup("tags"))

	flags.Int("workers", 0, "concurrent filing parses (0 = number of CPUs)")
	_ = v.BindPFlag("extract.workers", flags.Lookup("workers"))

	flags.String("conflict", "first", "duplicate fact policy: first or strict")
	_ = v.BindPFlag("extract.conflict", flags.Lookup("conflict"))

	flags.String("archive-root", ".", "directory containing sec-edgar-filings/")
	_ = v.BindPFlag("archive.root", flags.Lookup("archive-root"))

	flags.String("market-file", "market.yaml", "market snapshot YAML")
	_ = v.BindPFlag("market.file", flags.Lookup("market-file"))

	flags.String("database-url", "", "PostgreSQL connection string")
	_ = v.BindPFlag("database.url", flags.Lookup("database-url"))

	rootCmd.AddCommand(analyzeCmd, extractCmd, historyCmd, scanCmd, fetchCmd)
}

func setupLogging(c *config.Config) {
	zerolog.SetGlobalLevel(c.LogLevel())
	if c.Log.Format != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newExtractor builds the extractor from the configured registry and conflict policy.
func newExtractor() *filing.Extractor {
	reg := registry.LoadOrEmpty(cfg.Extract.TagsPath)
	return filing.NewExtractor(reg, filing.WithConflictPolicy(cfg.ConflictPolicy()))
}

// newOrchestrator wires the archive, extractor, market file and storage.
// The returned cleanup closes the database pool when one was opened.
func newOrchestrator(ctx context.Context) (*pipeline.Orchestrator, func()) {
	o := pipeline.NewOrchestrator(
		ingest.NewLocalArchive(cfg.Archive.Root),
		newExtractor(),
		market.NewFileProvider(cfg.Market.File),
	)
	o.SetLimits(pipeline.Limits{
		Annual:    cfg.Archive.Annual,
		Quarterly: cfg.Archive.Quarterly,
		Workers:   cfg.Extract.Workers,
	})

	repo, cleanup := openRepository(ctx)
	o.SetRepository(repo)
	return o, cleanup
}

// openRepository uses Postgres when database.url is set and reachable, plus the file store.
func openRepository(ctx context.Context) (*store.ReportRepo, func()) {
	if cfg.Database.URL == "" {
		return store.NewReportRepo(nil, cfg.Store.Dir), func() {}
	}
	if err := store.InitDB(ctx, cfg.Database.URL); err != nil {
		log.Warn().Err(err).Msg("database unavailable, saving runs to files only")
		return store.NewReportRepo(nil, cfg.Store.Dir), func() {}
	}
	if err := store.EnsureSchema(ctx, store.GetPool()); err != nil {
		log.Warn().Err(err).Msg("failed to ensure schema, saving runs to files only")
		store.Close()
		return store.NewReportRepo(nil, cfg.Store.Dir), func() {}
	}
	return store.NewReportRepo(store.GetPool(), cfg.Store.Dir), store.Close
}
