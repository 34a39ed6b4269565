// SPDX-License-Identifier: MIT
package transport

import (
	"encoding/json"

	"tempo/internal/log"
)

// LoggingTransport implements the Transport interface by logging events.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	log.Debugf("Transport: Using LoggingTransport")
	return &LoggingTransport{}
}

// Send logs the event as JSON, or with %+v when it cannot be marshaled.
func (lt *LoggingTransport) Send(data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Infof("event (%T): %+v", data, data)
		return nil
	}
	log.Infof("event: %s", jsonData)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
