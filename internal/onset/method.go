// SPDX-License-Identifier: MIT
package onset

import (
	"fmt"
	"strings"
)

// Method selects the onset detection function.
type Method int

const (
	Default Method = iota
	SpecDiff
	HFC
	Energy
	Phase
	Complex
)

var methodNames = [...]string{
	Default:  "default",
	SpecDiff: "specdiff",
	HFC:      "hfc",
	Energy:   "energy",
	Phase:    "phase",
	Complex:  "complex",
}

var methodDescriptions = [...]string{
	Default:  "Default (high frequency content)",
	SpecDiff: "Spectral difference",
	HFC:      "High frequency content",
	Energy:   "Energy",
	Phase:    "Phase deviation",
	Complex:  "Complex domain",
}

// Methods returns every detection method in menu order.
func Methods() []Method {
	return []Method{Default, SpecDiff, HFC, Energy, Phase, Complex}
}

// String returns the method id used in configuration files and flags.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// Description returns the human-readable name of the method.
func (m Method) Description() string {
	if m < 0 || int(m) >= len(methodDescriptions) {
		return "Unknown"
	}
	return methodDescriptions[m]
}

// Valid reports whether m is one of the six known methods.
func (m Method) Valid() bool {
	return m >= Default && m <= Complex
}

// ParseMethod converts a method id (case-insensitive) to a Method. An empty
// id selects Default.
func ParseMethod(id string) (Method, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Default, nil
	}
	for m, name := range methodNames {
		if name == id {
			return Method(m), nil
		}
	}
	return Default, fmt.Errorf("%w: %q", ErrUnknownMethod, id)
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
