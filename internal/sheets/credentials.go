package sheets

import (
	"context"
	"errors"
	"os"

	"github.com/rotisserie/eris"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	gsheets "google.golang.org/api/sheets/v4"
)

// ErrCredentials covers a missing, unreadable or malformed service-account key.
var ErrCredentials = errors.New("sheets: invalid credentials")

// Scopes granted to the service account: spreadsheet read/write and access
// to files the account opens.
var Scopes = []string{gsheets.SpreadsheetsScope, drive.DriveFileScope}

// CredentialSource names where the service-account key lives. JSON is the
// raw key injected by a hosting environment and wins over File.
type CredentialSource struct {
	File string
	JSON string
}

// LoadCredentials reads and parses the key with Scopes applied.
func LoadCredentials(ctx context.Context, src CredentialSource) (*google.Credentials, error) {
	var data []byte
	switch {
	case src.JSON != "":
		data = []byte(src.JSON)
	case src.File != "":
		b, err := os.ReadFile(src.File)
		if err != nil {
			return nil, eris.Wrapf(ErrCredentials, "read key file %q: %v", src.File, err)
		}
		data = b
	default:
		return nil, eris.Wrap(ErrCredentials, "no credentials file or JSON configured")
	}

	creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
	if err != nil {
		return nil, eris.Wrapf(ErrCredentials, "parse key: %v", err)
	}
	return creds, nil
}
