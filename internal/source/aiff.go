// SPDX-License-Identifier: MIT
package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// AiffDecoder decodes uncompressed AIFF files.
type AiffDecoder struct{}

func (AiffDecoder) Decode(r io.ReadSeeker) (*MemSource, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("read aiff header: %w", err)
	}

	format := dec.Format()
	if format == nil {
		return nil, ErrInvalidFormat
	}

	var data []int
	chunk := &audio.IntBuffer{Format: format, Data: make([]int, 4096)}
	for {
		n, err := dec.PCMBuffer(chunk)
		data = append(data, chunk.Data[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read aiff samples: %w", err)
		}
		if n == 0 || err != nil {
			break
		}
	}

	return intBufferSource(&audio.IntBuffer{Format: format, Data: data}, int(dec.BitDepth), 0)
}
