// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"io"

	"github.com/go-audio/wav"
)

// WavDecoder decodes integer PCM RIFF/WAVE files.
type WavDecoder struct{}

func (WavDecoder) Decode(r io.ReadSeeker) (*MemSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read wav samples: %w", err)
	}

	offset := 0
	if dec.BitDepth == 8 {
		offset = 128
	}
	return intBufferSource(buf, int(dec.BitDepth), offset)
}
