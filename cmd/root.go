package cmd

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/collector"
	"mspro-labs/college-scout/internal/config"
	"mspro-labs/college-scout/internal/scraper"
	"mspro-labs/college-scout/internal/sheets"
)

var (
	appCfg     config.AppConfig
	siteCfg    *config.SiteConfig
	configPath string
)

var rootCmd = &cobra.Command{
	Use:          "college-scout",
	Short:        "Collect college listings into a Google Sheet",
	Long:         `Renders a college listing page in headless Chrome, extracts name, city, email and course for every college, and appends them to a Google Sheet.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.GetAppConfig()
		if err != nil {
			return eris.Wrap(err, "load app config")
		}
		if configPath != "" {
			c.ConfigPath = configPath
		}
		appCfg = c

		if err := config.InitLogger(appCfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		load := config.LoadSiteConfigOrDefault
		path, explicit := appCfg.SiteConfigPath()
		if explicit {
			load = config.LoadSiteConfig
		}
		s, err := load(path)
		if err != nil {
			return eris.Wrap(err, "load site config")
		}
		siteCfg = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "site config YAML (overrides SCOUT_CONFIG_PATH)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newCollector wires the rod-backed scraper and a lazily opened sheet sink.
func newCollector() *collector.Collector {
	s := scraper.New(siteCfg, scraper.LaunchRod(appCfg.Browser))
	src := sheets.CredentialSource{
		File: appCfg.Sheets.CredentialsFile,
		JSON: appCfg.Sheets.CredentialsJSON,
	}
	open := func(ctx context.Context) (collector.Appender, error) {
		sink, err := sheets.Open(ctx, src)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}
	return collector.New(s, open)
}
