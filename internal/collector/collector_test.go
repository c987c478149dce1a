package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mspro-labs/college-scout/internal/config"
	"mspro-labs/college-scout/internal/models"
	"mspro-labs/college-scout/internal/scraper"
	"mspro-labs/college-scout/internal/sheets"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// delhiListing has three names, three cities, one email and three courses.
const delhiListing = `
<html><body>
  <a class="college_name" href="/c/0">name0</a>
  <a class="college_name" href="/c/1">name1</a>
  <a class="college_name" href="/c/2">name2</a>
  <span class="location">city0</span>
  <span class="location">city1</span>
  <span class="location">city2</span>
  <a href="mailto:email0">email0</a>
  <span class="fee-shorm-form">course0</span>
  <span class="fee-shorm-form">course1</span>
  <span class="fee-shorm-form">course2</span>
</body></html>`

type stubBrowser struct {
	html     string
	err      error
	launches int
	closes   int
	url      string
}

func (b *stubBrowser) launch(context.Context) (scraper.Browser, error) {
	b.launches++
	return b, nil
}

func (b *stubBrowser) Render(_ context.Context, url string, _ scraper.RenderOptions) (string, error) {
	b.url = url
	return b.html, b.err
}

func (b *stubBrowser) Close() error {
	b.closes++
	return nil
}

type recordingSink struct {
	err   error
	calls int
	url   string
	got   models.ResultSet
}

func (s *recordingSink) Append(_ context.Context, sheetURL string, rs models.ResultSet) (*sheets.AppendResult, error) {
	s.calls++
	s.url = sheetURL
	s.got = rs
	if s.err != nil {
		return nil, s.err
	}
	return &sheets.AppendResult{SpreadsheetID: "id", SheetTitle: "Sheet1", Rows: len(rs)}, nil
}

func openWith(s *recordingSink) OpenFunc {
	return func(context.Context) (Appender, error) { return s, nil }
}

func newCollector(b *stubBrowser, open OpenFunc) *Collector {
	site := config.DefaultSiteConfig()
	return New(scraper.New(&site, b.launch), open)
}

func delhiRequest(t *testing.T, sheetURL string) Request {
	t.Helper()
	sr, err := models.NewScrapeRequest("engineering", "delhi")
	require.NoError(t, err)
	return Request{Scrape: sr, SheetURL: sheetURL}
}

const target = "https://docs.google.com/spreadsheets/d/abc/edit"

func TestCollect_EndToEnd(t *testing.T) {
	b := &stubBrowser{html: delhiListing}
	sink := &recordingSink{}

	rep, err := newCollector(b, openWith(sink)).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err)

	want := models.ResultSet{
		{Name: "name0", City: "city0", Email: "email0", Course: "course0"},
		{Name: "name1", City: "city1", Email: "N/A", Course: "course1"},
		{Name: "name2", City: "city2", Email: "N/A", Course: "course2"},
	}
	assert.Equal(t, want, rep.Colleges)
	assert.Empty(t, rep.Warning)
	assert.Equal(t, "https://collegedunia.com/engineering/delhi-colleges", rep.URL)
	assert.Equal(t, rep.URL, b.url)

	require.NoError(t, rep.AppendErr)
	assert.True(t, rep.Appended())
	assert.Equal(t, 3, rep.Append.Rows)
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, target, sink.url)
	assert.Equal(t, want, sink.got)

	assert.Equal(t, 1, b.launches)
	assert.Equal(t, 1, b.closes)
}

func TestCollect_ReadinessTimeout(t *testing.T) {
	b := &stubBrowser{err: eris.Wrap(scraper.ErrNotReady, "waiting for college names")}
	sink := &recordingSink{}
	opened := 0
	open := func(context.Context) (Appender, error) {
		opened++
		return sink, nil
	}

	rep, err := newCollector(b, open).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err, "readiness failure is not an error to the caller")

	assert.Empty(t, rep.Colleges)
	assert.Equal(t, WarnNoColleges, rep.Warning)
	assert.ErrorIs(t, rep.ScrapeErr, scraper.ErrNotReady)
	assert.False(t, rep.Appended())
	assert.Zero(t, opened)
	assert.Zero(t, sink.calls, "zero rows appended")
	assert.Equal(t, 1, b.launches)
	assert.Equal(t, 1, b.closes)
}

func TestCollect_LayoutChanged(t *testing.T) {
	b := &stubBrowser{html: "<html><body><div>redesigned</div></body></html>"}
	sink := &recordingSink{}

	rep, err := newCollector(b, openWith(sink)).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err)
	assert.Equal(t, WarnNoColleges, rep.Warning)
	assert.ErrorIs(t, rep.ScrapeErr, scraper.ErrNoColleges)
	assert.Zero(t, sink.calls)
}

func TestCollect_LaunchFailureIsFatal(t *testing.T) {
	site := config.DefaultSiteConfig()
	launch := func(context.Context) (scraper.Browser, error) { return nil, errors.New("no chrome") }
	c := New(scraper.New(&site, launch), openWith(&recordingSink{}))

	rep, err := c.Collect(context.Background(), delhiRequest(t, target))
	assert.ErrorIs(t, err, scraper.ErrLaunch)
	assert.Nil(t, rep)
}

func TestCollect_DisplayOnly(t *testing.T) {
	b := &stubBrowser{html: delhiListing}
	open := func(context.Context) (Appender, error) {
		t.Fatal("sink must not be opened without a sheet URL")
		return nil, nil
	}

	rep, err := newCollector(b, open).Collect(context.Background(), delhiRequest(t, "  "))
	require.NoError(t, err)
	assert.Len(t, rep.Colleges, 3)
	assert.Nil(t, rep.Append)
	assert.NoError(t, rep.AppendErr)
}

func TestCollect_CredentialFailureKeepsResults(t *testing.T) {
	b := &stubBrowser{html: delhiListing}
	open := func(context.Context) (Appender, error) {
		return nil, eris.Wrap(sheets.ErrCredentials, "no credentials file or JSON configured")
	}

	rep, err := newCollector(b, open).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err)
	assert.Len(t, rep.Colleges, 3)
	assert.ErrorIs(t, rep.AppendErr, sheets.ErrCredentials)
	assert.False(t, rep.Appended())
}

func TestCollect_AppendFailureKeepsResults(t *testing.T) {
	b := &stubBrowser{html: delhiListing}
	sink := &recordingSink{err: eris.Wrap(sheets.ErrAppend, "quota exceeded")}

	rep, err := newCollector(b, openWith(sink)).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err)
	assert.Len(t, rep.Colleges, 3)
	assert.ErrorIs(t, rep.AppendErr, sheets.ErrAppend)
	assert.Nil(t, rep.Append)
	assert.Equal(t, 1, sink.calls)
}

func TestCollect_NoSinkConfigured(t *testing.T) {
	rep, err := newCollector(&stubBrowser{html: delhiListing}, nil).Collect(context.Background(), delhiRequest(t, target))
	require.NoError(t, err)
	assert.Error(t, rep.AppendErr)
	assert.Len(t, rep.Colleges, 3)
}
