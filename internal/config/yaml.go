// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"tempo/internal/fft"
	"tempo/internal/log"
	"tempo/internal/onset"
	"tempo/internal/tempo"
	"tempo/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file specified by path. If path is empty,
// it searches the working directory for tempo.yaml. If no file is found, it uses the
// built-in defaults. After loading it applies environment variable overrides and
// validates the final configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		candidates := []string{DefaultFileName}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment overrides win over the file.
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not a known level", c.LogLevel))
	}
	if err := c.Analysis.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Capture.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Transport.validate(); err != nil {
		errs = append(errs, err)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		errs = append(errs, errors.New("history.path must be set when history is enabled"))
	}
	return errors.Join(errs...)
}

func (a AnalysisConfig) validate() error {
	if _, err := onset.ParseMethod(a.Method); err != nil {
		return fmt.Errorf("analysis.method: %w", err)
	}
	if _, err := fft.ParseWindowFunc(a.FFTWindow); err != nil {
		return fmt.Errorf("analysis.fft_window: %w", err)
	}
	if !bitint.IsPowerOfTwo(a.WindowSize) || a.WindowSize > MaxWindowSize {
		return fmt.Errorf("analysis.window_size %d must be a power of 2 up to %d", a.WindowSize, MaxWindowSize)
	}
	if a.HopSize <= 0 || a.HopSize > a.WindowSize {
		return fmt.Errorf("analysis.hop_size %d must be in 1..%d", a.HopSize, a.WindowSize)
	}
	if a.Threshold < 0 {
		return fmt.Errorf("analysis.threshold %g must not be negative", a.Threshold)
	}
	if a.MinInterval < 0 {
		return fmt.Errorf("analysis.min_interval %s must not be negative", a.MinInterval)
	}
	if a.Length < 0 {
		return fmt.Errorf("analysis.length_seconds %g must not be negative", a.Length)
	}
	return nil
}

func (c CaptureConfig) validate() error {
	if c.InputDevice < MinDeviceID {
		return fmt.Errorf("capture.input_device %d must be >= %d", c.InputDevice, MinDeviceID)
	}
	if c.InputChannels < 1 || c.InputChannels > MaxChannels {
		return fmt.Errorf("capture.input_channels %d must be in 1..%d", c.InputChannels, MaxChannels)
	}
	if c.SampleRate < MinSampleRate || c.SampleRate > MaxSampleRate {
		return fmt.Errorf("capture.sample_rate %g must be in %d..%d", c.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.GateThreshold < 0 || c.GateThreshold > 1 {
		return fmt.Errorf("capture.gate_threshold %g must be in 0..1", c.GateThreshold)
	}
	switch c.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("capture.bit_depth %d must be 16, 24 or 32", c.BitDepth)
	}
	if c.Duration < 0 {
		return fmt.Errorf("capture.duration %s must not be negative", c.Duration)
	}
	return nil
}

func (t TransportConfig) validate() error {
	switch t.Kind {
	case TransportNone, TransportLog:
	case TransportWebSocket:
		if t.WebSocketAddr == "" {
			return errors.New("transport.websocket_addr must be set for the websocket transport")
		}
	case TransportUDP:
		if t.UDPTargetAddress == "" {
			return errors.New("transport.udp_target_address must be set for the udp transport")
		}
		if !strings.Contains(t.UDPTargetAddress, ":") {
			return fmt.Errorf("transport.udp_target_address '%s' appears invalid (missing port?)", t.UDPTargetAddress)
		}
		if t.UDPSendInterval <= 0 {
			return errors.New("transport.udp_send_interval must be positive for the udp transport")
		}
	default:
		return fmt.Errorf("transport.kind %q must be one of none, log, websocket, udp", t.Kind)
	}
	if t.MaxEventsPerSecond < 0 {
		return fmt.Errorf("transport.max_events_per_second %g must not be negative", t.MaxEventsPerSecond)
	}
	return nil
}

// EstimatorOptions converts the analysis section to estimator options.
func (a AnalysisConfig) EstimatorOptions() (tempo.Options, error) {
	method, err := onset.ParseMethod(a.Method)
	if err != nil {
		return tempo.Options{}, err
	}
	window, err := fft.ParseWindowFunc(a.FFTWindow)
	if err != nil {
		return tempo.Options{}, err
	}
	return tempo.Options{
		Method:      method,
		WindowSize:  a.WindowSize,
		HopSize:     a.HopSize,
		Threshold:   a.Threshold,
		SilenceDB:   a.SilenceDB,
		MinInterval: a.MinInterval,
		Window:      window,
	}, nil
}

// applyEnvOverrides replaces settings with TEMPO_* environment variables.
// Values that fail to parse are ignored.
func (c *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("TEMPO_LOG_LEVEL"); ok {
		c.LogLevel = val
		log.Debugf("configuration: overriding log_level from env: %s", val)
	}

	// TEMPO_METHOD
	if val, ok := os.LookupEnv("TEMPO_METHOD"); ok {
		c.Analysis.Method = val
		log.Debugf("configuration: overriding analysis.method from env: %s", val)
	}

	// TEMPO_TRANSPORT, TEMPO_WEBSOCKET_ADDR, TEMPO_UDP_{...}
	if val, ok := os.LookupEnv("TEMPO_TRANSPORT"); ok {
		c.Transport.Kind = val
		log.Debugf("configuration: overriding transport.kind from env: %s", val)
	}
	if val, ok := os.LookupEnv("TEMPO_WEBSOCKET_ADDR"); ok {
		c.Transport.WebSocketAddr = val
		log.Debugf("configuration: overriding transport.websocket_addr from env: %s", val)
	}
	if val, ok := os.LookupEnv("TEMPO_UDP_TARGET_ADDRESS"); ok {
		c.Transport.UDPTargetAddress = val
		log.Debugf("configuration: overriding transport.udp_target_address from env: %s", val)
	}
	if val, ok := os.LookupEnv("TEMPO_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			c.Transport.UDPSendInterval = dur
			log.Debugf("configuration: overriding transport.udp_send_interval from env: %s", dur)
		}
	}

	// TEMPO_HISTORY_{...}
	if val, ok := os.LookupEnv("TEMPO_HISTORY_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.History.Enabled = bVal
			log.Debugf("configuration: overriding history.enabled from env: %v", bVal)
		}
	}
	if val, ok := os.LookupEnv("TEMPO_HISTORY_PATH"); ok {
		c.History.Path = val
		log.Debugf("configuration: overriding history.path from env: %s", val)
	}
}
