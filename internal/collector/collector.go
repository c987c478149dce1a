package collector

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/models"
	"mspro-labs/college-scout/internal/scraper"
	"mspro-labs/college-scout/internal/sheets"
)

// WarnNoColleges is the warning reported when a scrape yields nothing.
const WarnNoColleges = "no colleges found"

// Scraper renders and extracts one listing page.
type Scraper interface {
	URL(req models.ScrapeRequest) string
	Run(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error)
}

// Appender persists a result set to the spreadsheet at sheetURL.
type Appender interface {
	Append(ctx context.Context, sheetURL string, rs models.ResultSet) (*sheets.AppendResult, error)
}

// OpenFunc builds an Appender on demand, so credential problems only
// affect the append step.
type OpenFunc func(ctx context.Context) (Appender, error)

// Request is one user action: what to scrape and where to put it.
// An empty SheetURL means display only.
type Request struct {
	Scrape   models.ScrapeRequest
	SheetURL string
}

// Report is the structured outcome of Collect.
type Report struct {
	Request   Request
	URL       string
	Colleges  models.ResultSet
	Warning   string
	ScrapeErr error
	Append    *sheets.AppendResult
	AppendErr error
}

// Appended reports whether rows reached the sheet.
func (r *Report) Appended() bool {
	return r.Append != nil && r.AppendErr == nil && r.Append.Rows > 0
}

// Collector runs the scrape-then-append pipeline.
type Collector struct {
	scraper Scraper
	open    OpenFunc
}

func New(s Scraper, open OpenFunc) *Collector {
	return &Collector{scraper: s, open: open}
}

// Collect scrapes req and, when colleges were found and a sheet URL is set,
// appends them. Only a browser launch failure is returned as an error; all
// other failures are recorded in the Report.
func (c *Collector) Collect(ctx context.Context, req Request) (*Report, error) {
	rep := &Report{Request: req, URL: c.scraper.URL(req.Scrape)}
	log := zap.L().Named("collector").With(
		zap.String("stream", req.Scrape.Stream),
		zap.String("city", req.Scrape.City),
	)

	colleges, err := c.scraper.Run(ctx, req.Scrape)
	if err != nil {
		if errors.Is(err, scraper.ErrLaunch) {
			return nil, err
		}
		log.Warn(WarnNoColleges, zap.Error(err))
		rep.Warning = WarnNoColleges
		rep.ScrapeErr = err
		return rep, nil
	}
	if len(colleges) == 0 {
		rep.Warning = WarnNoColleges
		return rep, nil
	}
	rep.Colleges = colleges

	if strings.TrimSpace(req.SheetURL) == "" {
		return rep, nil
	}

	if c.open == nil {
		rep.AppendErr = eris.New("collector: no sheet sink configured")
		return rep, nil
	}
	sink, err := c.open(ctx)
	if err != nil {
		log.Error("sheet sink unavailable", zap.Error(err))
		rep.AppendErr = err
		return rep, nil
	}
	rep.Append, rep.AppendErr = sink.Append(ctx, req.SheetURL, colleges)
	if rep.AppendErr != nil {
		log.Error("append failed", zap.Error(rep.AppendErr))
	}
	return rep, nil
}
