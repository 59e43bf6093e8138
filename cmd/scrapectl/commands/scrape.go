package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"nissanscraper/internal/config"
	"nissanscraper/internal/model"
	"nissanscraper/internal/scraper"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// pageScraper is satisfied by *scraper.Client.
type pageScraper interface {
	Scrape(ctx context.Context, rawURL string, includeSpecs bool) (*scraper.Result, error)
}

// newScraper is replaced in tests.
var newScraper = func(cfg config.ScraperConfig, log *slog.Logger) pageScraper {
	return scraper.New(scraper.Options{
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout(),
		MaxRetries:      cfg.MaxRetries,
		SpecConcurrency: cfg.SpecConcurrency,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		Logger:          log,
	})
}

func newScrapeCmd() *cobra.Command {
	var (
		specs  bool
		format string
	)
	cmd := &cobra.Command{
		Use:   "scrape <url> [--specs] [--format table|json]",
		Short: "Scrapes one listing page and prints its vehicles without storing them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatJSON {
				return fmt.Errorf("unknown format %q, want %s or %s", format, formatTable, formatJSON)
			}

			cfg := config.Load()
			log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), nil))

			res, err := newScraper(cfg.Scraper, log).Scrape(cmd.Context(), args[0], specs)
			if err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), res.Vehicles)
			}
			writeTable(cmd.OutOrStdout(), res.Vehicles, specs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&specs, "specs", false, "Also fetch each vehicle's detail page for specifications.")
	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table or json.")
	return cmd
}

func writeJSON(w io.Writer, vehicles []model.Vehicle) error {
	if vehicles == nil {
		vehicles = []model.Vehicle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(vehicles)
}

func writeTable(w io.Writer, vehicles []model.Vehicle, withSpecs bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Model", "Year", "Region", "Transmission", "Engine", "Class", "Body"}
	if withSpecs {
		header = append(header, "Specs")
	}
	t.AppendHeader(header)

	for _, v := range vehicles {
		row := table.Row{v.ModelDesignation, v.Year, v.Region, v.TransmissionType, v.Engine, v.Class, v.Body}
		if withSpecs {
			row = append(row, len(v.Specs))
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"Total", len(vehicles)})

	t.SetStyle(table.StyleRounded)
	t.Render()

	if withSpecs {
		writeSpecs(w, vehicles)
	}
}

// writeSpecs prints one key/value table per vehicle that has specs.
func writeSpecs(w io.Writer, vehicles []model.Vehicle) {
	for _, v := range vehicles {
		if len(v.Specs) == 0 {
			continue
		}
		keys := make([]string, 0, len(v.Specs))
		for k := range v.Specs {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(fmt.Sprintf("%s %s", v.ModelDesignation, v.Year))
		t.AppendHeader(table.Row{"Spec", "Value"})
		for _, k := range keys {
			t.AppendRow(table.Row{k, v.Specs[k]})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	}
}
