package scraper

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/config"
	"mspro-labs/college-scout/internal/models"
)

// Failure classes. Callers branch on these with errors.Is.
var (
	ErrLaunch     = errors.New("scraper: browser launch failed")
	ErrNavigation = errors.New("scraper: navigation failed")
	ErrNotReady   = errors.New("scraper: page not ready")
	ErrExtraction = errors.New("scraper: extraction failed")
	ErrNoColleges = errors.New("scraper: no colleges found")
)

func logger() *zap.Logger { return zap.L().Named("scraper") }

// Scraper turns a ScrapeRequest into a ResultSet: build URL, render, extract.
type Scraper struct {
	site   *config.SiteConfig
	loader *Loader
}

// New wires a scraper for one site layout. launch is called once per Run.
func New(site *config.SiteConfig, launch LaunchFunc) *Scraper {
	return &Scraper{
		site: site,
		loader: &Loader{
			Launch: launch,
			Options: RenderOptions{
				ReadySelector:     site.Locators.Name,
				ReadyTimeout:      site.ReadyTimeout,
				NavigationTimeout: site.NavigationTimeout,
				Pagination:        site.Pagination,
			},
		},
	}
}

// URL returns the listing URL for req.
func (s *Scraper) URL(req models.ScrapeRequest) string {
	return req.URL(s.site.BaseURL, s.site.PathTemplate)
}

// Run orchestrates the entire scraping process: launch, render, and extract.
// Results are all-or-nothing; any failure returns a nil ResultSet.
func (s *Scraper) Run(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error) {
	target := s.URL(req)
	log := logger().With(zap.String("url", target))

	log.Info("rendering listing page")
	html, err := s.loader.Load(ctx, target)
	if err != nil {
		return nil, err
	}

	log.Debug("extracting colleges", zap.Int("html_bytes", len(html)))
	colleges, err := Extract(html, s.site.Locators)
	if err != nil {
		return nil, err
	}

	log.Info("extracted colleges", zap.Int("count", len(colleges)))
	return colleges, nil
}
