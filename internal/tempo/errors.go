// SPDX-License-Identifier: MIT
package tempo

import (
	"errors"
	"fmt"
)

// ErrAnalysisFailed matches every estimation failure. The kinds below wrap
// it so callers can check either the specific cause or the outcome.
var ErrAnalysisFailed = errors.New("bpm analysis failed")

var (
	ErrNoSource           = fmt.Errorf("%w: no audio source", ErrAnalysisFailed)
	ErrStreamExhausted    = fmt.Errorf("%w: source produced no samples", ErrAnalysisFailed)
	ErrInsufficientOnsets = fmt.Errorf("%w: fewer than two onsets", ErrAnalysisFailed)
	ErrDegenerateTiming   = fmt.Errorf("%w: onsets span no time", ErrAnalysisFailed)
)
