// Package gcp builds client options shared by the Google API backends.
package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Credentials points at a service-account key, inline or on disk.
type Credentials struct {
	File string
	JSON string
}

// Scopes needed to read/write sheets and create documents in Drive folders.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	docs.DocumentsScope,
	drive.DriveScope,
}

// ClientOptions returns options for c, falling back to the
// GOOGLE_APPLICATION_CREDENTIALS[_JSON] environment variables. An empty result
// means application default credentials.
func ClientOptions(c Credentials) []option.ClientOption {
	creds := strings.TrimSpace(c.JSON)
	if creds == "" {
		creds = strings.TrimSpace(c.File)
	}
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	}
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	opts := []option.ClientOption{option.WithScopes(Scopes...)}
	if creds == "" {
		return opts
	}
	if strings.HasPrefix(creds, "{") {
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	} else {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}
