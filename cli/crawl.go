package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"olx-scraper/config"
	"olx-scraper/models"
	"olx-scraper/scraper/olx"
	"olx-scraper/services"
	"olx-scraper/storage"
	"olx-scraper/utils"
)

var (
	flagPath     string
	flagQuery    string
	flagPriceMin int
	flagPriceMax int
	flagSort     string
	flagFacets   []int

	flagMaxAds   int
	flagWorkers  int
	flagMinDelay time.Duration
	flagMaxDelay time.Duration
	flagTimeout  time.Duration
	flagHeadless bool

	flagCSVPath     string
	flagMetricsAddr string

	flagSaveDB     bool
	flagDBHost     string
	flagDBPort     int
	flagDBUser     string
	flagDBPassword string
	flagDBName     string
)

var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run one crawl for the given search filters",
	RunE:  runCrawl,
}

func init() {
	defaults := config.DefaultConfig()

	crawlCmd.Flags().StringVar(&flagPath, "path", "/celulares/apple/usado-excelente", "category path, e.g. /celulares")
	crawlCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "free-text search term")
	crawlCmd.Flags().IntVar(&flagPriceMin, "price-min", 0, "price floor in whole reais (0 = unset)")
	crawlCmd.Flags().IntVar(&flagPriceMax, "price-max", 0, "price ceiling in whole reais (0 = unset)")
	crawlCmd.Flags().StringVar(&flagSort, "sort", "default", "sort mode: default, newest, price-asc, price-desc")
	crawlCmd.Flags().IntSliceVar(&flagFacets, "facet", nil, "facet filter codes (repeatable), e.g. --facet 1 --facet 2")

	crawlCmd.Flags().IntVar(&flagMaxAds, "max-ads", defaults.MaxAds, "safety cap on total listings collected")
	crawlCmd.Flags().IntVar(&flagWorkers, "workers", defaults.MaxWorkers, "concurrent detail fetches")
	crawlCmd.Flags().DurationVar(&flagMinDelay, "min-delay", defaults.MinDelay, "minimum delay between requests")
	crawlCmd.Flags().DurationVar(&flagMaxDelay, "max-delay", defaults.MaxDelay, "maximum delay between requests")
	crawlCmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.RequestTimeout, "per-page navigation timeout")
	crawlCmd.Flags().BoolVar(&flagHeadless, "headless", defaults.Headless, "run the browser headless")

	crawlCmd.Flags().StringVar(&flagCSVPath, "csv", defaults.CSVPath, "CSV output path")
	crawlCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (empty = off)")

	crawlCmd.Flags().BoolVar(&flagSaveDB, "db", false, "also persist listings to PostgreSQL")
	crawlCmd.Flags().StringVar(&flagDBHost, "db-host", defaults.DBHost, "PostgreSQL host")
	crawlCmd.Flags().IntVar(&flagDBPort, "db-port", defaults.DBPort, "PostgreSQL port")
	crawlCmd.Flags().StringVar(&flagDBUser, "db-user", defaults.DBUser, "PostgreSQL user")
	crawlCmd.Flags().StringVar(&flagDBPassword, "db-password", defaults.DBPassword, "PostgreSQL password")
	crawlCmd.Flags().StringVar(&flagDBName, "db-name", defaults.DBName, "PostgreSQL database name")
}

func parseSortMode(s string) (models.SortMode, error) {
	switch s {
	case "", "default":
		return models.SortDefault, nil
	case "newest":
		return models.SortNewest, nil
	case "price-asc":
		return models.SortPriceAsc, nil
	case "price-desc":
		return models.SortPriceDesc, nil
	default:
		return models.SortDefault, fmt.Errorf("unknown sort mode %q (want default, newest, price-asc or price-desc)", s)
	}
}

func runCrawl(cmd *cobra.Command, args []string) error {
	sort, err := parseSortMode(flagSort)
	if err != nil {
		return err
	}

	spec := models.SearchSpec{
		CategoryPath: flagPath,
		Term:         flagQuery,
		PriceMin:     flagPriceMin,
		PriceMax:     flagPriceMax,
		Sort:         sort,
		Facets:       flagFacets,
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	cfg.MaxAds = flagMaxAds
	cfg.MaxWorkers = flagWorkers
	cfg.MinDelay = flagMinDelay
	cfg.MaxDelay = flagMaxDelay
	cfg.RequestTimeout = flagTimeout
	cfg.Headless = flagHeadless
	cfg.CSVPath = flagCSVPath
	cfg.MetricsAddr = flagMetricsAddr
	cfg.SaveDB = flagSaveDB
	cfg.DBHost = flagDBHost
	cfg.DBPort = flagDBPort
	cfg.DBUser = flagDBUser
	cfg.DBPassword = flagDBPassword
	cfg.DBName = flagDBName
	if err := cfg.Validate(); err != nil {
		return err
	}

	utils.Info("Crawl starting | cap=%d workers=%d delay=%v-%v", cfg.MaxAds, cfg.MaxWorkers, cfg.MinDelay, cfg.MaxDelay)

	metrics := olx.NewMetrics()
	if cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, metrics)
	}

	result, err := olx.Run(context.Background(), cfg, spec, metrics)
	if err != nil {
		return err
	}

	if result.Blocked {
		utils.Error("OLX served a verification challenge; no real data was collected")
		for _, sentinel := range result.Listings {
			utils.Warn("Challenge page: %s", sentinel.Link)
		}
		return nil
	}

	if len(result.Listings) == 0 {
		utils.Warn("No listings found for this search.")
		return nil
	}
	if result.Truncated {
		utils.Warn("Result set truncated at the safety cap of %d listings", cfg.MaxAds)
	}

	cleaned := services.CleanListings(result.Listings)

	writer := storage.NewCSVWriter(cfg.CSVPath)
	if err := writer.Write(cleaned); err != nil {
		return fmt.Errorf("failed to save CSV: %w", err)
	}

	if cfg.SaveDB {
		if err := saveToPostgres(cfg, cleaned); err != nil {
			return err
		}
	}

	printSummary(result)
	services.PrintReport(services.GenerateReport(cleaned))
	return nil
}

func saveToPostgres(cfg *config.Config, listings []models.ListingDetail) error {
	pgWriter, err := storage.NewPostgresWriter(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect PostgreSQL: %w", err)
	}
	defer pgWriter.Close()

	if err := pgWriter.EnsureSchema(); err != nil {
		return fmt.Errorf("failed to ensure PostgreSQL schema: %w", err)
	}
	if err := pgWriter.WriteBatch(listings); err != nil {
		return fmt.Errorf("failed to save listings to PostgreSQL: %w", err)
	}

	utils.Success("Saved %d listings to PostgreSQL", len(listings))
	return nil
}

func serveMetrics(addr string, metrics *olx.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	utils.Info("Serving metrics on %s/metrics", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		utils.Warn("Metrics server stopped: %v", err)
	}
}

func printSummary(result models.CrawlResult) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║                CRAWL COMPLETE                ║")
	fmt.Println("╠══════════════════════════════════════════════╣")
	fmt.Printf( "║  Total listings : %-27d║\n", result.TotalFound)
	fmt.Printf( "║  Truncated      : %-27t║\n", result.Truncated)
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()
}
