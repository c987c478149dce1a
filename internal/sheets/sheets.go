package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"mspro-labs/college-scout/internal/models"
)

var (
	ErrSheetURL = errors.New("sheets: spreadsheet not resolvable")
	ErrAppend   = errors.New("sheets: append failed")
)

var reSpreadsheetID = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// ParseSpreadsheetID pulls the ID out of a spreadsheet edit URL such as
// https://docs.google.com/spreadsheets/d/<id>/edit#gid=0.
func ParseSpreadsheetID(sheetURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(sheetURL))
	if err != nil || u.Host == "" {
		return "", eris.Wrapf(ErrSheetURL, "%q is not a URL", sheetURL)
	}
	m := reSpreadsheetID.FindStringSubmatch(u.Path)
	if m == nil {
		return "", eris.Wrapf(ErrSheetURL, "%q has no spreadsheet ID", sheetURL)
	}
	return m[1], nil
}

// AppendResult describes a completed append.
type AppendResult struct {
	SpreadsheetID string
	SheetTitle    string
	Rows          int  // college rows written, excluding the header
	HeaderWritten bool // the sheet was empty and received models.Header first
	UpdatedRange  string
}

// Sink appends result sets to the first sheet of a spreadsheet.
type Sink struct {
	srv *gsheets.Service
}

// New creates a Sink. Pass option.WithCredentials for production use.
func New(ctx context.Context, opts ...option.ClientOption) (*Sink, error) {
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: create service")
	}
	return &Sink{srv: srv}, nil
}

// Open loads credentials from src and creates a Sink with them.
func Open(ctx context.Context, src CredentialSource) (*Sink, error) {
	creds, err := LoadCredentials(ctx, src)
	if err != nil {
		return nil, err
	}
	return New(ctx, option.WithCredentials(creds))
}

// Append writes rs after the existing content of the first sheet. Nothing
// is overwritten or deduplicated. The header row is written only when
// columns A:D hold no values at all. An empty rs is a successful no-op.
func (s *Sink) Append(ctx context.Context, sheetURL string, rs models.ResultSet) (*AppendResult, error) {
	id, err := ParseSpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	res := &AppendResult{SpreadsheetID: id}
	if len(rs) == 0 {
		return res, nil
	}
	log := zap.L().Named("sheets").With(zap.String("spreadsheet_id", id))

	title, err := s.firstSheet(ctx, id)
	if err != nil {
		return nil, err
	}
	res.SheetTitle = title

	empty, err := s.isEmpty(ctx, id, title)
	if err != nil {
		return nil, err
	}

	values := make([][]interface{}, 0, len(rs)+1)
	if empty {
		values = append(values, toRow(models.Header))
		res.HeaderWritten = true
	}
	for _, row := range rs.Rows() {
		values = append(values, toRow(row))
	}

	resp, err := s.srv.Spreadsheets.Values.
		Append(id, a1(title, "A1"), &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, eris.Wrapf(ErrAppend, "%s: %v", title, err)
	}
	if resp.Updates != nil {
		res.UpdatedRange = resp.Updates.UpdatedRange
	}
	res.Rows = len(rs)

	log.Info("appended rows",
		zap.String("sheet", title),
		zap.Int("rows", res.Rows),
		zap.Bool("header", res.HeaderWritten),
		zap.String("range", res.UpdatedRange),
	)
	return res, nil
}

func (s *Sink) firstSheet(ctx context.Context, id string) (string, error) {
	ss, err := s.srv.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		if isUnresolvable(err) {
			return "", eris.Wrapf(ErrSheetURL, "%s: %v", id, err)
		}
		return "", eris.Wrapf(ErrAppend, "get spreadsheet %s: %v", id, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", eris.Wrapf(ErrSheetURL, "%s has no sheets", id)
	}
	return ss.Sheets[0].Properties.Title, nil
}

func (s *Sink) isEmpty(ctx context.Context, id, title string) (bool, error) {
	vr, err := s.srv.Spreadsheets.Values.Get(id, a1(title, "A:D")).Context(ctx).Do()
	if err != nil {
		return false, eris.Wrapf(ErrAppend, "read %s: %v", title, err)
	}
	return len(vr.Values) == 0, nil
}

func isUnresolvable(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusNotFound || gerr.Code == http.StatusForbidden
}

// a1 quotes the sheet title for use in A1 notation.
func a1(title, cells string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'!" + cells
}

func toRow(cells []string) []interface{} {
	row := make([]interface{}, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
