// Package storage holds the object store drivers used for blog images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ObjectStore is the subset of a bucket the site needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, keys []string) error
	// PathFromURL maps a public URL back to its key. ok is false for URLs
	// that were not issued by this store.
	PathFromURL(rawURL string) (key string, ok bool)
}

// ErrNoStore is returned by nil stores.
var ErrNoStore = errors.New("storage: no store configured")

// PostImageKey builds the key for a newly uploaded blog image,
// posts/<uuid>.<ext>. The extension is taken from filename and falls back to
// "bin".
func PostImageKey(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.TrimSpace(filename)), "."))
	if ext == "" || strings.ContainsAny(ext, `/\ `) {
		ext = "bin"
	}
	return fmt.Sprintf("posts/%s.%s", uuid.NewString(), ext)
}

// publicURL joins base and key with exactly one slash.
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

// keyFromURL strips base from rawURL. Query strings and fragments are ignored.
func keyFromURL(base, rawURL string) (string, bool) {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	rawURL = strings.TrimSpace(rawURL)
	if base == "" || rawURL == "" {
		return "", false
	}
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	rest, ok := strings.CutPrefix(rawURL, base+"/")
	if !ok || rest == "" {
		return "", false
	}
	key, err := sanitizeKey(rest)
	if err != nil {
		return "", false
	}
	return key, true
}
