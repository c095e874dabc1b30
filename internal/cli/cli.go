package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/gacor/internal/config"
	"github.com/pfrederiksen/gacor/internal/logger"
	"github.com/pfrederiksen/gacor/internal/provider"
	"github.com/pfrederiksen/gacor/internal/scraper"
	"github.com/pfrederiksen/gacor/internal/server"
	"github.com/pfrederiksen/gacor/internal/tracing"
)

const (
	ExitError = 1

	shutdownTimeout = 10 * time.Second
)

// Version is set at build time.
var Version = "dev"

var (
	flagConfig   string
	flagLogLevel string
	flagParser   string
	flagTimeout  time.Duration
	flagAddr     string
	flagProvider string
	flagFormat   string
	flagSort     string
	flagVerbose  bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gacor",
		Short: "Scrape RTP game tiles from provider pages",
		Long: `gacor fetches the RTP page of a game provider, extracts the game tiles
embedded in its <img> markup and serves them as JSON.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file (or env: GACOR_CONFIG)")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().StringVar(&flagParser, "parser", "", "Tile extractor: pattern or dom")
	cmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Upstream fetch timeout (default 12s)")

	cmd.AddCommand(newServeCmd(), newScrapeCmd(), newProvidersCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :8080, or :$PORT)")
	return cmd
}

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one provider, or all of them, and print the tiles",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}
	cmd.Flags().StringVar(&flagProvider, "provider", provider.AllKey, "Provider key or 'all'")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortBySource), "Sort order: source, title or provider")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Show IDs and image URLs")
	return cmd
}

func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the provider table",
		Args:  cobra.NoArgs,
		RunE:  runProviders,
	}
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	return cmd
}

// loadConfig reads the config file and environment, applies flag overrides and
// installs the default logger on stderr.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagParser != "" {
		cfg.Parser = flagParser
	}
	if flagTimeout > 0 {
		cfg.FetchTimeout = flagTimeout
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}

func newScraper(cfg *config.Config) (*scraper.Scraper, error) {
	extract, err := scraper.ExtractorFor(cfg.Parser)
	if err != nil {
		return nil, err
	}
	return scraper.New(scraper.NewFetcher(cfg.FetchTimeout, cfg.UserAgent), extract), nil
}

func tracingConfig(cfg *config.Config) tracing.Config {
	return tracing.Config{
		Enabled:  cfg.Tracing.Endpoint != "",
		Endpoint: cfg.Tracing.Endpoint,
		Version:  Version,
	}
}

// runServe runs the HTTP API until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracingConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown failed", logger.Fields{"error": err.Error()})
		}
	}()

	sc, err := newScraper(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      server.New(sc, logger.Default()).Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.FetchTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("server listening", logger.Fields{
		"addr":          cfg.Addr,
		"parser":        cfg.Parser,
		"fetch_timeout": cfg.FetchTimeout.String(),
		"tracing":       cfg.Tracing.Endpoint != "",
	})

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// scrapeTargets resolves the --provider flag to the providers to fetch.
func scrapeTargets(key string) ([]provider.Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" || key == provider.AllKey {
		return provider.Concrete(), nil
	}

	p, ok := provider.Lookup(key)
	if !ok || !p.Fetchable() {
		return nil, fmt.Errorf("unknown provider: %s (valid: all, %s)", key, strings.Join(provider.Keys(), ", "))
	}
	return []provider.Config{p}, nil
}

// runScrape fetches the requested providers and prints their tiles.
func runScrape(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	sortOrder, err := parseSortOrder(flagSort)
	if err != nil {
		return err
	}
	targets, err := scrapeTargets(flagProvider)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sc, err := newScraper(cfg)
	if err != nil {
		return err
	}

	var limiter *rate.Limiter
	if cfg.Scrape.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Scrape.Rate), 1)
	}

	logger.Debug("scraping providers", logger.Fields{"count": len(targets)})
	results := sc.ScrapeAll(cmd.Context(), targets, cfg.Scrape.Concurrency, limiter)

	result := NewOutputResult(results, time.Now().UTC())
	sortRecords(result.Items, sortOrder)

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(targets) == 1 && results[0].Err != nil {
		return fmt.Errorf("scraping %s: %w", targets[0].Key, results[0].Err)
	}
	return nil
}

// runProviders prints the provider table.
func runProviders(cmd *cobra.Command, args []string) error {
	format, err := parseFormat(flagFormat)
	if err != nil {
		return err
	}
	return WriteProviders(cmd.OutOrStdout(), provider.List(), format)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
