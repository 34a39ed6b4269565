// SPDX-License-Identifier: MIT
package source

import "errors"

var (
	ErrUnsupportedFormat = errors.New("unsupported audio file format")
	ErrNotWavFile        = errors.New("not a valid WAV file")
	ErrNotAiffFile       = errors.New("not a valid AIFF file")
	ErrInvalidFormat     = errors.New("invalid audio format")
)
