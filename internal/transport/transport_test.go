// SPDX-License-Identifier: MIT
package transport

import (
	"bytes"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"tempo/internal/config"
	"tempo/internal/log"
	"tempo/internal/onset"
	"tempo/internal/tempo"
	"tempo/internal/transport/udp"

	"github.com/gorilla/websocket"
)

type countingTransport struct {
	events []any
	closed bool
}

func (c *countingTransport) Send(data any) error { c.events = append(c.events, data); return nil }
func (c *countingTransport) Close() error { c.closed = true; return nil }

func TestNewEstimateEvent(t *testing.T) {
	res := tempo.Result{BPM: 120, Onsets: []float64{0, 0.5, 1}, Method: onset.Energy}
	ev := NewEstimateEvent("a.wav", res, nil)
	if ev.Type != "estimate" || ev.Method != "energy" || ev.BPM != 120 || ev.Onsets != 3 || ev.Error != "" {
		t.Errorf("event = %+v", ev)
	}

	failed := NewEstimateEvent("b.wav", tempo.Result{BPM: tempo.Failed}, tempo.ErrInsufficientOnsets)
	if failed.BPM != tempo.Failed || !strings.Contains(failed.Error, "fewer than two onsets") {
		t.Errorf("failed event = %+v", failed)
	}
}

func TestMonitor(t *testing.T) {
	m := NewMonitor(4)
	if snap := m.Snapshot(); snap.BPM != -1 || snap.Onsets != 0 {
		t.Fatalf("initial snapshot = %+v", snap)
	}

	m.Send(NewOnsetEvent("live", 0))
	if snap := m.Snapshot(); snap.BPM != -1 || snap.Onsets != 1 {
		t.Errorf("one onset snapshot = %+v", snap)
	}
	for _, ts := range []float64{0.5, 1.0, 1.5} {
		m.Send(NewOnsetEvent("live", ts))
	}
	if snap := m.Snapshot(); snap.BPM != 120 || snap.Onsets != 4 {
		t.Errorf("snapshot = %+v", snap)
	}

	// Older onsets fall out of the window.
	for _, ts := range []float64{2.0, 2.25, 2.5, 2.75} {
		m.Send(NewOnsetEvent("live", ts))
	}
	if snap := m.Snapshot(); snap.BPM != 240 || snap.Onsets != 8 {
		t.Errorf("windowed snapshot = %+v", snap)
	}

	m.Send(EstimateEvent{Type: "estimate", BPM: 98, Onsets: 30})
	if snap := m.Snapshot(); snap.BPM != 98 || snap.Onsets != 30 {
		t.Errorf("estimate snapshot = %+v", snap)
	}
}

func TestThrottledDropsOnlyOnsets(t *testing.T) {
	inner := &countingTransport{}
	th := NewThrottled(inner, 2)
	for i := range 10 {
		th.Send(NewOnsetEvent("x", float64(i)))
	}
	th.Send(EstimateEvent{Type: "estimate"})

	onsets := 0
	estimates := 0
	for _, ev := range inner.events {
		switch ev.(type) {
		case OnsetEvent:
			onsets++
		case EstimateEvent:
			estimates++
		}
	}
	if onsets < 1 || onsets > 3 {
		t.Errorf("forwarded %d onsets, want about the burst of 2", onsets)
	}
	if estimates != 1 {
		t.Errorf("forwarded %d estimates", estimates)
	}
	if th.Dropped() != int64(10-onsets) {
		t.Errorf("Dropped() = %d", th.Dropped())
	}
	th.Close()
	if !inner.closed {
		t.Error("Close not forwarded")
	}
}

func TestLoggingTransport(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(nil)

	lt := NewLoggingTransport()
	if err := lt.Send(NewOnsetEvent("file.wav", 1.5)); err != nil {
		t.Fatal(err)
	}
	if err := lt.Send(func() {}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"type":"onset"`) || !strings.Contains(out, `"time":1.5`) {
		t.Errorf("log output = %q", out)
	}
}

func TestNewKinds(t *testing.T) {
	tr, err := New(config.TransportConfig{Kind: config.TransportNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(NopTransport); !ok {
		t.Errorf("none -> %T", tr)
	}

	tr, err = New(config.TransportConfig{Kind: config.TransportLog, MaxEventsPerSecond: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tr.(*Throttled); !ok {
		t.Errorf("throttled log -> %T", tr)
	}
	tr.Close()

	if _, err := New(config.TransportConfig{Kind: "smoke"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestNewUDP(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	tr, err := New(config.TransportConfig{
		Kind:             config.TransportUDP,
		UDPTargetAddress: conn.LocalAddr().String(),
		UDPSendInterval:  5 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer tr.Close()
	tr.Send(EstimateEvent{Type: "estimate", BPM: 140, Onsets: 12})

	buf := make([]byte, 64)
	deadline := time.Now().Add(2 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			t.Fatalf("ReadFromUDP: %v", err)
		}
		p, err := udp.DecodePacket(buf[:n])
		if err != nil {
			t.Fatal(err)
		}
		if p.BPM == 140 && p.Onsets == 12 {
			break
		}
	}
}

func TestWebSocketBroadcast(t *testing.T) {
	wst, err := NewWebSocketTransport("127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewWebSocketTransport: %v", err)
	}
	defer wst.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+wst.Addr()+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for wst.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if err := wst.Send(NewOnsetEvent("live", 2.5)); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got OnsetEvent
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if got != NewOnsetEvent("live", 2.5) {
		t.Errorf("received %+v", got)
	}

	if err := wst.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := wst.Send(NewOnsetEvent("live", 3)); err == nil {
		t.Error("Send after Close should fail")
	}
	if err := wst.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWebSocketListenError(t *testing.T) {
	wst, err := NewWebSocketTransport("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer wst.Close()
	if _, err := NewWebSocketTransport(wst.Addr()); err == nil {
		t.Error("expected error for an address in use")
	}
	var opErr *net.OpError
	_, err = NewWebSocketTransport(wst.Addr())
	if !errors.As(err, &opErr) {
		t.Errorf("err = %v, want a *net.OpError", err)
	}
}
