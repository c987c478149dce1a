package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/collector"
	"mspro-labs/college-scout/internal/models"
)

var (
	scrapeStream string
	scrapeCity   string
	scrapeSheet  string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape one stream/city listing and append it to a sheet",
	Long: `Renders the listing page for a stream in a city, prints the colleges found
and appends them to the sheet given by --sheet (or SCOUT_SHEETS_SHEET_URL).
Without a sheet URL the results are only printed.

Example:
  college-scout scrape --stream engineering --city delhi \
    --sheet https://docs.google.com/spreadsheets/d/<id>/edit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScrape(cmd)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeStream, "stream", "", "academic stream, e.g. engineering (required)")
	scrapeCmd.Flags().StringVar(&scrapeCity, "city", "", "city, e.g. delhi (required)")
	scrapeCmd.Flags().StringVar(&scrapeSheet, "sheet", "", "Google Sheet edit URL to append to")
	_ = scrapeCmd.MarkFlagRequired("stream")
	_ = scrapeCmd.MarkFlagRequired("city")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command) error {
	// 1. Validate input
	sr, err := models.NewScrapeRequest(scrapeStream, scrapeCity)
	if err != nil {
		return eris.Wrap(err, "stream and city must not be empty")
	}
	sheetURL := scrapeSheet
	if sheetURL == "" {
		sheetURL = appCfg.Sheets.SheetURL
	}

	// 2. Scrape and append
	rep, err := newCollector().Collect(cmd.Context(), collector.Request{Scrape: sr, SheetURL: sheetURL})
	if err != nil {
		zap.L().Error("scrape failed", zap.Error(err))
		return err
	}

	// 3. Show results
	out := cmd.OutOrStdout()
	if len(rep.Colleges) > 0 {
		renderColleges(out, rep.Colleges)
	}
	printStatus(out, rep)
	return nil
}
