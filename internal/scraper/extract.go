package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/rotisserie/eris"

	"mspro-labs/college-scout/internal/config"
	"mspro-labs/college-scout/internal/models"
)

// Extract parses html and zips the four locator lists into colleges.
func Extract(html string, loc config.Locators) (models.ResultSet, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrapf(ErrExtraction, "parse HTML: %v", err)
	}
	return ExtractDocument(doc, loc)
}

// ExtractDocument builds one College per element matching loc.Name. The
// secondary lists are aligned to the name list by position only; a list
// that runs short yields models.NotAvailable for the remaining entries.
func ExtractDocument(doc *goquery.Document, loc config.Locators) (rs models.ResultSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			rs, err = nil, eris.Wrapf(ErrExtraction, "panic: %v", r)
		}
	}()

	if doc == nil {
		return nil, eris.Wrap(ErrExtraction, "nil document")
	}

	names, err := texts(doc, loc.Name)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, eris.Wrapf(ErrNoColleges, "nothing matches %q", loc.Name)
	}
	cities, err := texts(doc, loc.City)
	if err != nil {
		return nil, err
	}
	emails, err := texts(doc, loc.Email)
	if err != nil {
		return nil, err
	}
	courses, err := texts(doc, loc.Course)
	if err != nil {
		return nil, err
	}

	rs = make(models.ResultSet, 0, len(names))
	for i, name := range names {
		rs = append(rs, models.College{
			Name:   name,
			City:   at(cities, i),
			Email:  at(emails, i),
			Course: at(courses, i),
		})
	}
	return rs, nil
}

// texts returns the trimmed text of every element matching selector, in
// document order. An empty selector locates nothing.
func texts(doc *goquery.Document, selector string) ([]string, error) {
	if selector == "" {
		return nil, nil
	}
	// goquery treats an invalid selector as matching nothing, which would
	// hide a layout change behind N/A values.
	if _, err := cascadia.Compile(selector); err != nil {
		return nil, eris.Wrapf(ErrExtraction, "selector %q: %v", selector, err)
	}
	return doc.Find(selector).Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	}), nil
}

func at(list []string, i int) string {
	if i < len(list) {
		return list[i]
	}
	return models.NotAvailable
}
