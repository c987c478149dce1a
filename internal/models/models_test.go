package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScrapeRequest(t *testing.T) {
	req, err := NewScrapeRequest("  Engineering ", "DELHI")
	require.NoError(t, err)
	assert.Equal(t, ScrapeRequest{Stream: "engineering", City: "delhi"}, req)

	for _, tc := range []struct{ stream, city string }{
		{"", "delhi"},
		{"engineering", "   "},
		{"", ""},
	} {
		_, err := NewScrapeRequest(tc.stream, tc.city)
		assert.ErrorIs(t, err, ErrInvalidRequest, "stream=%q city=%q", tc.stream, tc.city)
	}
}

func TestScrapeRequest_URL(t *testing.T) {
	tests := []struct {
		name     string
		req      ScrapeRequest
		base     string
		template string
		want     string
	}{
		{
			name:     "plain",
			req:      ScrapeRequest{Stream: "engineering", City: "delhi"},
			base:     "https://collegedunia.com",
			template: "/{stream}/{city}-colleges",
			want:     "https://collegedunia.com/engineering/delhi-colleges",
		},
		{
			name:     "trailing slash and relative template",
			req:      ScrapeRequest{Stream: "law", City: "pune"},
			base:     "https://collegedunia.com/",
			template: "{stream}/{city}-colleges",
			want:     "https://collegedunia.com/law/pune-colleges",
		},
		{
			name:     "unsafe characters are escaped",
			req:      ScrapeRequest{Stream: "arts/design", City: "new delhi"},
			base:     "https://collegedunia.com",
			template: "/{stream}/{city}-colleges",
			want:     "https://collegedunia.com/arts%2Fdesign/new%20delhi-colleges",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.URL(tt.base, tt.template))
		})
	}
}

func TestResultSet_Rows(t *testing.T) {
	rs := ResultSet{
		{Name: "IIT Delhi", City: "New Delhi", Email: NotAvailable, Course: "B.Tech"},
		{Name: "DTU", City: "Delhi", Email: "info@dtu.ac.in", Course: "M.Tech"},
	}

	rows := rs.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"IIT Delhi", "New Delhi", "N/A", "B.Tech"}, rows[0])
	assert.Equal(t, []string{"DTU", "Delhi", "info@dtu.ac.in", "M.Tech"}, rows[1])
	assert.Len(t, rows[0], len(Header))

	assert.Empty(t, ResultSet{}.Rows())
}
