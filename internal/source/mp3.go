// SPDX-License-Identifier: MIT
package source

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// Mp3Decoder decodes MPEG-1/2 Layer III streams. go-mp3 always produces
// 16-bit stereo.
type Mp3Decoder struct{}

func (Mp3Decoder) Decode(r io.ReadSeeker) (*MemSource, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read mp3 samples: %w", err)
	}
	return NewMemSource(int16LEToFloat(data), 2, dec.SampleRate()), nil
}
