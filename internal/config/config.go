// SPDX-License-Identifier: MIT
package config

import "time"

// Core configuration constants that define the boundaries and defaults
// of analysis, capture and publishing.
const (
	// Analysis defaults
	DefaultMethod      = "default"
	DefaultWindowSize  = 1024
	DefaultHopSize     = 512
	DefaultThreshold   = 0.3
	DefaultSilenceDB   = -90.0
	DefaultMinInterval = 50 * time.Millisecond
	DefaultFFTWindow   = "hann"

	// Capture defaults
	DefaultDeviceID      = MinDeviceID // System default input
	DefaultChannels      = 1           // Mono audio
	DefaultSampleRate    = 44100       // CD-quality audio
	DefaultLowLatency    = false       // Standard latency mode
	DefaultGateThreshold = 0.0         // Gate disabled
	DefaultBitDepth      = 16          // Recording bit depth

	// Transport defaults
	DefaultTransportKind      = TransportNone
	DefaultWebSocketAddr      = "127.0.0.1:8090"
	DefaultUDPTargetAddress   = "127.0.0.1:9090"
	DefaultUDPSendInterval    = 100 * time.Millisecond
	DefaultMaxEventsPerSecond = 20.0

	// History defaults
	DefaultHistoryEnabled = true
	DefaultHistoryPath    = "tempo.db"

	DefaultLogLevel = "info"

	// Hardware and processing limits
	MinDeviceID   = -1     // -1 represents the system default device
	MinSampleRate = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate = 192000 // Maximum supported sample rate (Hz)
	MaxWindowSize = 16384  // Largest analysis window (power of 2)
	MaxChannels   = 32     // Largest input channel count
)

// DefaultFileName is the config file searched for when no path is given.
const DefaultFileName = "tempo.yaml"

// Transport kinds.
const (
	TransportNone      = "none"
	TransportLog       = "log"
	TransportWebSocket = "websocket"
	TransportUDP       = "udp"
)

// Config is the application configuration, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // "debug", "info", "warn" or "error".
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Capture   CaptureConfig   `yaml:"capture"`
	Transport TransportConfig `yaml:"transport"`
	History   HistoryConfig   `yaml:"history"`
}

// AnalysisConfig holds the onset detection and tempo estimation settings.
type AnalysisConfig struct {
	Method      string        `yaml:"method"`                   // Detection method id.
	WindowSize  int           `yaml:"window_size"`              // Analysis window in samples (power of 2).
	HopSize     int           `yaml:"hop_size"`                 // Block size in samples.
	Threshold   float64       `yaml:"threshold"`                // Peak picking threshold.
	SilenceDB   float64       `yaml:"silence_db"`               // Frames below this level are ignored.
	MinInterval time.Duration `yaml:"min_interval"`             // Minimum distance between onsets.
	FFTWindow   string        `yaml:"fft_window"`               // Window function name.
	Length      float64       `yaml:"length_seconds,omitempty"` // Seconds to analyse, 0 for the whole clip.
}

// CaptureConfig holds the live input settings.
type CaptureConfig struct {
	InputDevice   int           `yaml:"input_device"`   // PortAudio device index (-1 for default).
	InputChannels int           `yaml:"input_channels"` // Channels opened; analysis uses the first.
	SampleRate    float64       `yaml:"sample_rate"`
	LowLatency    bool          `yaml:"low_latency"`
	GateThreshold float64       `yaml:"gate_threshold"` // Blocks with a lower peak are zeroed.
	RecordFile    string        `yaml:"record_file,omitempty"`
	BitDepth      int           `yaml:"bit_depth"`          // Recording bit depth.
	Duration      time.Duration `yaml:"duration,omitempty"` // 0 runs until interrupted.
}

// TransportConfig selects where onset and tempo events are published.
type TransportConfig struct {
	Kind               string        `yaml:"kind"` // none, log, websocket or udp.
	WebSocketAddr      string        `yaml:"websocket_addr"`
	UDPTargetAddress   string        `yaml:"udp_target_address"`
	UDPSendInterval    time.Duration `yaml:"udp_send_interval"`
	MaxEventsPerSecond float64       `yaml:"max_events_per_second"` // 0 disables throttling.
}

// HistoryConfig controls the analysis history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NewConfig returns a Config holding the built-in defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Analysis: AnalysisConfig{
			Method:      DefaultMethod,
			WindowSize:  DefaultWindowSize,
			HopSize:     DefaultHopSize,
			Threshold:   DefaultThreshold,
			SilenceDB:   DefaultSilenceDB,
			MinInterval: DefaultMinInterval,
			FFTWindow:   DefaultFFTWindow,
		},
		Capture: CaptureConfig{
			InputDevice:   DefaultDeviceID,
			InputChannels: DefaultChannels,
			SampleRate:    DefaultSampleRate,
			LowLatency:    DefaultLowLatency,
			GateThreshold: DefaultGateThreshold,
			BitDepth:      DefaultBitDepth,
		},
		Transport: TransportConfig{
			Kind:               DefaultTransportKind,
			WebSocketAddr:      DefaultWebSocketAddr,
			UDPTargetAddress:   DefaultUDPTargetAddress,
			UDPSendInterval:    DefaultUDPSendInterval,
			MaxEventsPerSecond: DefaultMaxEventsPerSecond,
		},
		History: HistoryConfig{
			Enabled: DefaultHistoryEnabled,
			Path:    DefaultHistoryPath,
		},
	}
}
