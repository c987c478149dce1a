package cmd

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mspro-labs/college-scout/internal/config"
)

var locatorsCmd = &cobra.Command{
	Use:   "locators",
	Short: "Show the active site layout configuration",
	Long:  `Prints the listing URL template, readiness/pagination settings and the CSS locator used for each column, after defaults and the YAML config are merged.`,
	Run: func(cmd *cobra.Command, args []string) {
		renderSiteConfig(cmd.OutOrStdout(), siteCfg)
	},
}

func init() {
	rootCmd.AddCommand(locatorsCmd)
}

func renderSiteConfig(w io.Writer, site *config.SiteConfig) {
	fmt.Fprintf(w, "Listing URL: %s%s\n", site.BaseURL, site.PathTemplate)
	fmt.Fprintf(w, "Ready timeout: %s  Pagination: %s", site.ReadyTimeout, site.Pagination.Mode)
	if site.Pagination.Mode == config.PaginationScroll {
		fmt.Fprintf(w, " (pause %s, max %d scrolls)\n", site.Pagination.Pause, site.Pagination.MaxScrolls)
	} else {
		fmt.Fprintf(w, " (settle %s)\n", site.Pagination.Settle)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Column", "Locator"})
	t.AppendRow(table.Row{"College Name (readiness)", site.Locators.Name})
	t.AppendRow(table.Row{"City", orNone(site.Locators.City)})
	t.AppendRow(table.Row{"Email", orNone(site.Locators.Email)})
	t.AppendRow(table.Row{"Course Name", orNone(site.Locators.Course)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func orNone(sel string) string {
	if sel == "" {
		return "(none, always N/A)"
	}
	return sel
}
