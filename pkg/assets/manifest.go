// Package assets resolves the URLs of static files and product images.
//
// Static files, such as the browser client, are fingerprinted at startup. The
// manifest maps a source name to a name carrying a content hash, so the server
// can serve them with immutable cache headers:
//
//	m, _ := assets.Fingerprint(client.FS, "storefront.js")
//	m.Resolve("storefront.js") // "storefront.3f9a1c02.js"
//
// Product images live behind an ImageResolver: a static URL prefix in
// development, or S3 presigned URLs in production.
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// hashLen is the number of hex digits of the content hash kept in a name.
const hashLen = 8

// Manifest maps source asset names to fingerprinted names.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
	sources map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
		sources: make(map[string]string),
	}
}

// Fingerprint reads the named files from fsys and builds a manifest from
// their content hashes.
func Fingerprint(fsys fs.FS, names ...string) (*Manifest, error) {
	m := NewManifest()
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("fingerprint %s: %w", name, err)
		}
		m.Set(name, FingerprintName(name, data))
	}
	return m, nil
}

// FingerprintName inserts the content hash of data before name's extension.
func FingerprintName(name string, data []byte) string {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])[:hashLen]
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hash + ext
}

// Load reads a manifest file of the form {"source.js": "source.abc123.js"}.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filename, err)
	}
	m := NewManifest()
	for source, resolved := range entries {
		m.Set(source, resolved)
	}
	return m, nil
}

// Resolve returns the fingerprinted name for source, or source unchanged
// when the manifest has no entry for it.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Source returns the source name behind a fingerprinted name.
func (m *Manifest) Source(resolved string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	source, ok := m.sources[resolved]
	return source, ok
}

// Set adds or replaces an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.entries[source]; ok {
		delete(m.sources, old)
	}
	m.entries[source] = resolved
	m.sources[resolved] = source
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// All returns a copy of all entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}
