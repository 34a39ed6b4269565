// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis files.
type VorbisDecoder struct{}

func (VorbisDecoder) Decode(r io.ReadSeeker) (*MemSource, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, ErrInvalidFormat
	}
	return NewMemSource(data, format.Channels, format.SampleRate), nil
}
