// Command unesco is the UNESCO UIS indicator scraper CLI.
//
// Usage:
//
//	unesco run
//	unesco run --split --output ./output
//	unesco run --countries AR,BR
//	unesco countries
//	unesco endpoints
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/orest-d/hdx-scraper-unesco/internal/config"
	"github.com/orest-d/hdx-scraper-unesco/internal/country"
	"github.com/orest-d/hdx-scraper-unesco/internal/dataset"
	"github.com/orest-d/hdx-scraper-unesco/internal/provider/uis"
	"github.com/orest-d/hdx-scraper-unesco/internal/scrape"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "unesco",
		Short: "UNESCO UIS indicator scraper",
	}

	root.AddCommand(runCmd())
	root.AddCommand(countriesCmd())
	root.AddCommand(endpointsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// run command
// --------------------------------------------------------------------------

func runCmd() *cobra.Command {
	var (
		output    string
		split     bool
		countries []string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape all countries and assemble datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, cfg *config.Config, client *uis.Client) error {
				if output != "" {
					cfg.OutputFolder = output
				}
				if split {
					cfg.MergeResources = false
				}
				if err := os.MkdirAll(cfg.OutputFolder, 0o755); err != nil {
					return fmt.Errorf("create output folder: %w", err)
				}

				meta, err := uis.ResolveEndpoints(ctx, client, cfg.BaseURL, cfg.Endpoints)
				if err != nil {
					return err
				}
				codelist, err := uis.Countries(ctx, client, cfg.BaseURL)
				if err != nil {
					return err
				}
				codelist = filterCountries(codelist, countries)
				logger.Info("Countries to process", "count", len(codelist))

				retryer := uis.NewRetryer(client, uis.Policy{
					InitialInterval: cfg.RetryInterval,
					MaxInterval:     cfg.RetryMaxInterval,
					MaxElapsed:      cfg.RetryMaxElapsed,
				}, logger)
				opts := scrape.Options{
					OutputFolder:    cfg.OutputFolder,
					MaxObservations: cfg.MaxObservations,
					MergeResources:  cfg.MergeResources,
				}

				start := time.Now()
				result, runErr := scrape.Run(ctx, retryer, country.NewTable(), codelist, meta, opts, emitJSON(cfg.OutputFolder), logger)
				logger.Info("Scrape finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("scrape error", "error", e)
				}
				return runErr
			})
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "Output folder (overrides OUTPUT_FOLDER)")
	cmd.Flags().BoolVar(&split, "split", false, "Emit one link resource per year chunk instead of merged CSV files")
	cmd.Flags().StringSliceVar(&countries, "countries", nil, "Only process these ISO2 codes")
	return cmd
}

// emitJSON writes each dataset/showcase pair as a JSON record next to the
// CSV files; a deployment against the catalog swaps this for its uploader.
func emitJSON(folder string) func(*dataset.Dataset, *dataset.Showcase) error {
	return func(ds *dataset.Dataset, sc *dataset.Showcase) error {
		payload := struct {
			Dataset  *dataset.Dataset  `json:"dataset"`
			Showcase *dataset.Showcase `json:"showcase"`
		}{ds, sc}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(folder, ds.Name+".json"), data, 0o644)
	}
}

func filterCountries(codelist []uis.Country, iso2s []string) []uis.Country {
	if len(iso2s) == 0 {
		return codelist
	}
	want := make(map[string]bool, len(iso2s))
	for _, code := range iso2s {
		want[strings.ToUpper(strings.TrimSpace(code))] = true
	}
	var filtered []uis.Country
	for _, c := range codelist {
		if want[c.ID] {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// --------------------------------------------------------------------------
// countries command
// --------------------------------------------------------------------------

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "Resolve and print the CL_AREA codelist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, cfg *config.Config, client *uis.Client) error {
				codelist, err := uis.Countries(ctx, client, cfg.BaseURL)
				if err != nil {
					return err
				}
				for _, c := range codelist {
					fmt.Printf("%-8s %s\n", c.ID, c.Name())
				}
				logger.Info("Codelist resolved", "count", len(codelist))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// endpoints command
// --------------------------------------------------------------------------

func endpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "Resolve and print per-endpoint metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPipeline(func(ctx context.Context, cfg *config.Config, client *uis.Client) error {
				meta, err := uis.ResolveEndpoints(ctx, client, cfg.BaseURL, cfg.Endpoints)
				if err != nil {
					return err
				}
				for _, id := range uis.SortedIDs(meta) {
					m := meta[id]
					fmt.Printf("%s\n  indicator: %s\n  template:  %s\n  info:      %s\n", id, m.Indicator, m.URLTemplate, strings.TrimSpace(m.InfoURL))
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withPipeline handles config loading, client construction, and context
// cancellation.
func withPipeline(fn func(ctx context.Context, cfg *config.Config, client *uis.Client) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client := uis.NewClient(cfg.SubscriptionKey, cfg.Locale, cfg.RequestsPerMinute, logger)
	return fn(ctx, cfg, client)
}
