// SPDX-License-Identifier: MIT
//
// Package transport publishes onset and tempo events to the outside world:
// the process log, WebSocket clients or a UDP listener.
package transport

import (
	"fmt"

	"tempo/internal/config"
	"tempo/internal/log"
	"tempo/internal/tempo"
	"tempo/internal/transport/udp"
)

// Transport defines a generic interface for sending events.
// Implementations are safe for concurrent use.
type Transport interface {
	Send(data any) error
	Close() error
}

// OnsetEvent reports one detected onset.
type OnsetEvent struct {
	Type   string  `json:"type"`
	Source string  `json:"source"`
	Time   float64 `json:"time"` // Seconds from the start of the stream.
}

// NewOnsetEvent returns an onset event for src at t seconds.
func NewOnsetEvent(src string, t float64) OnsetEvent {
	return OnsetEvent{Type: "onset", Source: src, Time: t}
}

// EstimateEvent reports the outcome of one tempo estimate.
type EstimateEvent struct {
	Type   string  `json:"type"`
	Source string  `json:"source"`
	Method string  `json:"method"`
	BPM    float64 `json:"bpm"`
	Onsets int     `json:"onsets"`
	Error  string  `json:"error,omitempty"`
}

// NewEstimateEvent builds the event for a finished estimate.
func NewEstimateEvent(src string, res tempo.Result, err error) EstimateEvent {
	ev := EstimateEvent{
		Type:   "estimate",
		Source: src,
		Method: res.Method.String(),
		BPM:    res.Value(),
		Onsets: len(res.Onsets),
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// NopTransport discards every event.
type NopTransport struct{}

func (NopTransport) Send(any) error { return nil }
func (NopTransport) Close() error { return nil }

// New builds the transport selected by cfg, throttled to
// cfg.MaxEventsPerSecond onset events when that is positive.
func New(cfg config.TransportConfig) (Transport, error) {
	var t Transport
	switch cfg.Kind {
	case config.TransportNone, "":
		return NopTransport{}, nil
	case config.TransportLog:
		t = NewLoggingTransport()
	case config.TransportWebSocket:
		ws, err := NewWebSocketTransport(cfg.WebSocketAddr)
		if err != nil {
			return nil, err
		}
		t = ws
	case config.TransportUDP:
		sender, err := udp.NewUDPSender(cfg.UDPTargetAddress)
		if err != nil {
			return nil, err
		}
		monitor := NewMonitor(DefaultMonitorWindow)
		pub, err := udp.NewUDPPublisher(cfg.UDPSendInterval, sender, monitor)
		if err != nil {
			sender.Close()
			return nil, err
		}
		pub.Start()
		t = &udpTransport{Monitor: monitor, publisher: pub, sender: sender}
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Kind)
	}

	if cfg.MaxEventsPerSecond > 0 {
		t = NewThrottled(t, cfg.MaxEventsPerSecond)
	}
	log.Debugf("Transport: using %s", cfg.Kind)
	return t, nil
}

// udpTransport feeds events into a Monitor that a UDP publisher samples.
type udpTransport struct {
	*Monitor
	publisher *udp.UDPPublisher
	sender    *udp.UDPSender
}

func (u *udpTransport) Close() error {
	if err := u.publisher.Stop(); err != nil {
		return err
	}
	return u.sender.Close()
}
