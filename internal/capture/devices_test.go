// SPDX-License-Identifier: MIT
package capture

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gordonklaus/portaudio"
)

func mockDevices(t *testing.T, devices []*portaudio.DeviceInfo, err error) {
	t.Helper()
	origDevices := paLibDevicesFunc
	origDefault := paLibDefaultInputDeviceFunc
	t.Cleanup(func() {
		paLibDevicesFunc = origDevices
		paLibDefaultInputDeviceFunc = origDefault
	})
	paLibDevicesFunc = func() ([]*portaudio.DeviceInfo, error) {
		return devices, err
	}
	paLibDefaultInputDeviceFunc = func() (*portaudio.DeviceInfo, error) {
		for _, d := range devices {
			if d.MaxInputChannels > 0 {
				return d, nil
			}
		}
		return nil, errors.New("no default input")
	}
}

func testDevices() []*portaudio.DeviceInfo {
	return []*portaudio.DeviceInfo{
		{Name: "Speakers", MaxOutputChannels: 2, DefaultSampleRate: 48000},
		{
			Name:                    "Microphone",
			MaxInputChannels:        2,
			DefaultSampleRate:       44100,
			DefaultLowInputLatency:  5 * time.Millisecond,
			DefaultHighInputLatency: 20 * time.Millisecond,
		},
		{Name: "Interface", MaxInputChannels: 8, MaxOutputChannels: 8, DefaultSampleRate: 96000},
	}
}

func TestInitializeTerminate(t *testing.T) {
	origInit, origTerm := paLibInitialize, paLibTerminate
	t.Cleanup(func() { paLibInitialize, paLibTerminate = origInit, origTerm })

	paLibInitialize = func() error { return errors.New("no host api") }
	paLibTerminate = func() error { return nil }

	if err := Initialize(); err == nil || !strings.Contains(err.Error(), "no host api") {
		t.Errorf("Initialize() error = %v", err)
	}
	if err := Terminate(); err != nil {
		t.Errorf("Terminate() error = %v", err)
	}
}

func TestHostDevices(t *testing.T) {
	mockDevices(t, testDevices(), nil)

	devices, err := HostDevices()
	if err != nil {
		t.Fatalf("HostDevices error: %v", err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices, want 3", len(devices))
	}
	for i, d := range devices {
		if d.ID != i {
			t.Errorf("Device ID mismatch: got %d, want %d", d.ID, i)
		}
	}
	if devices[0].IsInput() || !devices[1].IsInput() {
		t.Error("IsInput mismatch")
	}
	if devices[1].LowInputLatency != 5*time.Millisecond {
		t.Errorf("latency = %v", devices[1].LowInputLatency)
	}
}

func TestHostDevices_paDevicesError(t *testing.T) {
	mockDevices(t, nil, errors.New("mock error"))

	_, err := HostDevices()
	if err == nil || !strings.Contains(err.Error(), "mock error") {
		t.Errorf("expected mock error, got %v", err)
	}
}

func TestInputDevice(t *testing.T) {
	mockDevices(t, testDevices(), nil)

	tests := []struct {
		id      int
		want    string
		wantErr string
	}{
		{id: -1, want: "Microphone"},
		{id: 1, want: "Microphone"},
		{id: 2, want: "Interface"},
		{id: 0, wantErr: "does not support input"},
		{id: 3, wantErr: "invalid device ID"},
		{id: -2, wantErr: "invalid device ID"},
	}
	for _, tt := range tests {
		dev, err := InputDevice(tt.id)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("InputDevice(%d) error = %v, want %q", tt.id, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("InputDevice(%d) error = %v", tt.id, err)
			continue
		}
		if dev.Name != tt.want {
			t.Errorf("InputDevice(%d) = %q, want %q", tt.id, dev.Name, tt.want)
		}
	}
}

func TestListDevices(t *testing.T) {
	mockDevices(t, testDevices(), nil)

	var buf bytes.Buffer
	if err := ListDevices(&buf); err != nil {
		t.Fatalf("ListDevices error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"3 audio devices",
		"  0  Speakers [out]",
		"  1  Microphone [in]",
		"  2  Interface [in/out]",
		"input latency 5ms to 20ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNewEngine(t *testing.T) {
	mockDevices(t, testDevices(), nil)

	e, err := NewEngine(Options{DeviceID: 1, Channels: 2, SampleRate: 44100, FramesPerBuffer: 512, LowLatency: true}, nil)
	if err != nil {
		t.Fatalf("NewEngine error: %v", err)
	}
	if e.DeviceName() != "Microphone" {
		t.Errorf("DeviceName() = %q", e.DeviceName())
	}
	if e.inputLatency != 5*time.Millisecond {
		t.Errorf("inputLatency = %v, want low latency", e.inputLatency)
	}

	if _, err := NewEngine(Options{DeviceID: 0, Channels: 2, SampleRate: 44100, FramesPerBuffer: 512}, nil); err == nil {
		t.Error("expected error for output-only device")
	}
	if _, err := NewEngine(Options{DeviceID: 1, Channels: 0, SampleRate: 44100, FramesPerBuffer: 512}, nil); err == nil {
		t.Error("expected error for zero channels")
	}
}
