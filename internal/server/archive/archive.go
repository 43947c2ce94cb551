// Package archive stores admin exports in object storage and hands back a
// short-lived download link.
package archive

import "context"

// Archiver uploads body under key and returns a URL the caller can use to
// download it.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
