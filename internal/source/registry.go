// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Decoder loads a complete clip from r.
type Decoder interface {
	Decode(r io.ReadSeeker) (*MemSource, error)
}

// Registry maps file extensions to decoders.
type Registry struct {
	mtx    sync.Mutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".wav", WavDecoder{})
	r.Register(".wave", WavDecoder{})
	r.Register(".aif", AiffDecoder{})
	r.Register(".aiff", AiffDecoder{})
	r.Register(".mp3", Mp3Decoder{})
	r.Register(".ogg", VorbisDecoder{})
	return r
}

// Register adds or replaces the decoder for ext. The extension is matched
// case-insensitively and may be given with or without the leading dot.
func (r *Registry) Register(ext string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.codecs[normalizeExt(ext)] = d
}

// Get returns the decoder registered for ext.
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	d, ok := r.codecs[normalizeExt(ext)]
	return d, ok
}

// Extensions returns the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	exts := make([]string, 0, len(r.codecs))
	for ext := range r.codecs {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Open decodes the file at path with the decoder registered for its
// extension.
func (r *Registry) Open(path string) (*MemSource, error) {
	ext := filepath.Ext(path)
	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return src, nil
}

// Open decodes the file at path using the default registry.
func Open(path string) (*MemSource, error) {
	return DefaultRegistry().Open(path)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
