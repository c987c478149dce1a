package web

import (
	"embed"
)

// Embed the 'templates' directory.
//
//go:embed templates
var Assets embed.FS

// GetTemplatesFS returns the embedded filesystem.
func GetTemplatesFS() embed.FS {
	return Assets
}
