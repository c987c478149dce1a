package models

import (
	"errors"
	"net/url"
	"strings"
)

// NotAvailable is written in place of a field whose element list ran short.
const NotAvailable = "N/A"

// Header is the column layout of every row handed to the sheet.
var Header = []string{"College Name", "City", "Email", "Course Name"}

// ErrInvalidRequest is returned when a stream or city is missing.
var ErrInvalidRequest = errors.New("models: invalid scrape request")

// ScrapeRequest identifies one listing page: a stream (discipline) in a city.
type ScrapeRequest struct {
	Stream string
	City   string
}

// NewScrapeRequest normalises both fields to trimmed lower case.
func NewScrapeRequest(stream, city string) (ScrapeRequest, error) {
	req := ScrapeRequest{
		Stream: strings.ToLower(strings.TrimSpace(stream)),
		City:   strings.ToLower(strings.TrimSpace(city)),
	}
	if req.Stream == "" || req.City == "" {
		return ScrapeRequest{}, ErrInvalidRequest
	}
	return req, nil
}

// URL builds the listing URL. pathTemplate holds {stream} and {city}
// placeholders; both values are percent-encoded as path segments.
func (r ScrapeRequest) URL(baseURL, pathTemplate string) string {
	path := strings.NewReplacer(
		"{stream}", url.PathEscape(r.Stream),
		"{city}", url.PathEscape(r.City),
	).Replace(pathTemplate)

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// College holds the fields scraped for a single listing entry.
type College struct {
	Name   string
	City   string
	Email  string
	Course string
}

// Row returns the college in Header order.
func (c College) Row() []string {
	return []string{c.Name, c.City, c.Email, c.Course}
}

// ResultSet is the ordered output of one scrape. Order follows the page.
type ResultSet []College

// Rows converts the result set into sheet rows, without the header.
func (rs ResultSet) Rows() [][]string {
	rows := make([][]string, 0, len(rs))
	for _, c := range rs {
		rows = append(rows, c.Row())
	}
	return rows
}
