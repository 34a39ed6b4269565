// SPDX-License-Identifier: MIT
/*
Package capture reads live audio from a PortAudio input device and hands it
to the analysis one hop at a time:
  - float32 input stream with one callback per hop
  - extraction of the first channel into a reused mono block
  - noise gate that silences blocks below a peak threshold
  - optional WAV recording of the raw input

Buffers are allocated up front; the callback does not allocate.
*/
package capture

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"tempo/internal/config"
	"tempo/internal/log"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
)

// BlockHandler receives each mono block. The slice is reused after the
// handler returns.
type BlockHandler func(block []float32)

// Options configures an Engine.
type Options struct {
	DeviceID        int
	Channels        int
	SampleRate      float64
	FramesPerBuffer int // One analysis hop.
	LowLatency      bool
	GateThreshold   float64 // 0 disables the gate.
}

// OptionsFromConfig builds engine options for blocks of hop frames.
func OptionsFromConfig(c config.CaptureConfig, hop int) Options {
	return Options{
		DeviceID:        c.InputDevice,
		Channels:        c.InputChannels,
		SampleRate:      c.SampleRate,
		FramesPerBuffer: hop,
		LowLatency:      c.LowLatency,
		GateThreshold:   c.GateThreshold,
	}
}

// stream is the part of *portaudio.Stream the engine drives.
type stream interface {
	Start() error
	Stop() error
	Close() error
}

type Engine struct {
	opts    Options
	handler BlockHandler

	// Audio input handling.
	inputBuffer  []float32
	inputDevice  *portaudio.DeviceInfo
	inputLatency time.Duration
	inputStream  stream

	monoBlock []float32
	blocks    atomic.Int64

	// Noise gate.
	gateEnabled   bool
	gateThreshold float32 // Peak amplitude, 0..1

	// Recording state and buffers.
	isRecording atomic.Bool
	recMu       sync.Mutex // Guards the encoder between callback and Stop
	outputFile  fileCloser
	wavEncoder  *wav.Encoder
	sampleBuf   *audio.IntBuffer
	sampleScale float32
}

// NewEngine resolves the input device and allocates the stream buffers.
// PortAudio must be initialized.
func NewEngine(opts Options, handler BlockHandler) (*Engine, error) {
	if opts.Channels <= 0 || opts.FramesPerBuffer <= 0 || opts.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid capture options: %d channels, %d frames, %g Hz",
			opts.Channels, opts.FramesPerBuffer, opts.SampleRate)
	}
	inputDevice, err := InputDevice(opts.DeviceID)
	if err != nil {
		return nil, err
	}

	e := newEngine(opts, handler)
	e.inputDevice = inputDevice
	if opts.LowLatency {
		e.inputLatency = inputDevice.DefaultLowInputLatency
	} else {
		e.inputLatency = inputDevice.DefaultHighInputLatency
	}
	return e, nil
}

func newEngine(opts Options, handler BlockHandler) *Engine {
	e := &Engine{
		opts:        opts,
		handler:     handler,
		inputBuffer: make([]float32, opts.FramesPerBuffer*opts.Channels),
		monoBlock:   make([]float32, opts.FramesPerBuffer),
	}
	e.SetGateThreshold(opts.GateThreshold)
	e.gateEnabled = opts.GateThreshold > 0
	return e
}

// DeviceName returns the name of the input device.
func (e *Engine) DeviceName() string {
	if e.inputDevice == nil {
		return ""
	}
	return e.inputDevice.Name
}

// Blocks returns the number of blocks delivered so far.
func (e *Engine) Blocks() int64 {
	return e.blocks.Load()
}

func (e *Engine) StartInputStream() error {
	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Channels: e.opts.Channels,
			Device:   e.inputDevice,
			Latency:  e.inputLatency,
		},
		FramesPerBuffer: e.opts.FramesPerBuffer,
		SampleRate:      e.opts.SampleRate,
	}

	s, err := portaudio.OpenStream(params, e.processInputStream)
	if err != nil {
		return fmt.Errorf("open input stream: %w", err)
	}
	e.inputStream = s

	if err := e.inputStream.Start(); err != nil {
		e.inputStream.Close()
		e.inputStream = nil
		return fmt.Errorf("start input stream: %w", err)
	}
	log.Infof("capture: listening on %s (%d ch, %.0f Hz, %d frames)",
		e.DeviceName(), e.opts.Channels, e.opts.SampleRate, e.opts.FramesPerBuffer)
	return nil
}

func (e *Engine) StopInputStream() error {
	if e.inputStream == nil {
		return nil
	}
	stopErr := e.inputStream.Stop()
	closeErr := e.inputStream.Close()
	e.inputStream = nil
	return errors.Join(stopErr, closeErr)
}

// processInputStream is the PortAudio callback. It runs on the audio
// thread and uses pre-allocated buffers only.
func (e *Engine) processInputStream(in []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	n := copy(e.inputBuffer, in)
	clear(e.inputBuffer[n:])

	if e.isRecording.Load() {
		e.writeRecording(e.inputBuffer)
	}
	e.processBuffer(e.inputBuffer)
}

// processBuffer extracts the first channel, applies the gate and hands the
// block to the handler.
func (e *Engine) processBuffer(buffer []float32) {
	channels := e.opts.Channels
	for i := range e.monoBlock {
		if idx := i * channels; idx < len(buffer) {
			e.monoBlock[i] = buffer[idx]
		} else {
			e.monoBlock[i] = 0
		}
	}

	if e.gateEnabled && peak(e.monoBlock) < e.gateThreshold {
		clear(e.monoBlock)
	}

	e.blocks.Add(1)
	if e.handler != nil {
		e.handler(e.monoBlock)
	}
}

func peak(block []float32) float32 {
	var m float32
	for _, v := range block {
		if v < 0 {
			v = -v
		}
		m = max(m, v)
	}
	return m
}

// Close stops recording and the input stream. The stream is stopped even
// when finalizing the recording fails.
func (e *Engine) Close() error {
	recErr := e.StopRecording()
	return errors.Join(recErr, e.StopInputStream())
}
