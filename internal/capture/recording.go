// SPDX-License-Identifier: MIT
package capture

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"tempo/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

type fileCloser interface {
	io.WriteSeeker
	io.Closer
}

// StartRecording writes the raw multi-channel input to a WAV file with
// the given bit depth (16, 24 or 32).
func (e *Engine) StartRecording(filename string, bitDepth int) error {
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("unsupported recording bit depth %d", bitDepth)
	}
	if e.isRecording.Load() {
		return errors.New("already recording")
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}

	e.recMu.Lock()
	e.outputFile = file
	e.wavEncoder = wav.NewEncoder(file, int(e.opts.SampleRate), bitDepth, e.opts.Channels, 1)
	e.sampleBuf = &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: e.opts.Channels,
			SampleRate:  int(e.opts.SampleRate),
		},
		SourceBitDepth: bitDepth,
		Data:           make([]int, e.opts.FramesPerBuffer*e.opts.Channels),
	}
	e.sampleScale = float32(int64(1)<<(bitDepth-1) - 1)
	e.recMu.Unlock()

	e.isRecording.Store(true)
	log.Infof("capture: recording to %s", filename)
	return nil
}

func (e *Engine) writeRecording(buffer []float32) {
	e.recMu.Lock()
	defer e.recMu.Unlock()
	if e.wavEncoder == nil {
		return
	}

	e.sampleBuf.Data = e.sampleBuf.Data[:len(buffer)]
	for i, v := range buffer {
		v = min(max(v, -1), 1)
		e.sampleBuf.Data[i] = int(math.Round(float64(v * e.sampleScale)))
	}
	if err := e.wavEncoder.Write(e.sampleBuf); err != nil {
		log.Errorf("capture: error writing to WAV file: %v", err)
	}
}

// StopRecording finalizes the WAV file. It is a no-op when not recording.
func (e *Engine) StopRecording() error {
	if !e.isRecording.Swap(false) {
		return nil
	}

	e.recMu.Lock()
	defer e.recMu.Unlock()

	var errs []error
	if e.wavEncoder != nil {
		errs = append(errs, e.wavEncoder.Close())
		e.wavEncoder = nil
	}
	if e.outputFile != nil {
		errs = append(errs, e.outputFile.Close())
		e.outputFile = nil
	}
	return errors.Join(errs...)
}

// IsRecording reports whether input is being written to a file.
func (e *Engine) IsRecording() bool {
	return e.isRecording.Load()
}
