// SPDX-License-Identifier: MIT
package onset

import "errors"

var (
	ErrUnknownMethod     = errors.New("unknown onset detection method")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrInvalidWindow     = errors.New("invalid window or hop size")
)
