// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	applog "tempo/internal/log"
)

// Snapshot is the tempo state sent in each packet.
type Snapshot struct {
	BPM    float32 // -1 while no tempo is known
	Onsets uint32
}

// TempoProvider supplies the current tempo state.
type TempoProvider interface {
	Snapshot() Snapshot
}

// PacketSize is the encoded length of a Packet.
const PacketSize = 4 + 8 + 4 + 4

/*
UDP Packet Structure (BigEndian)

|<---- 4 Bytes ---->|<------ 8 Bytes ------>|<-- 4 Bytes -->|<-- 4 Bytes -->|
+-------------------+-----------------------+---------------+---------------+
|  Sequence Number  |       Timestamp       |      BPM      |  Onset Count  |
|      (uint32)     |  (int64, ns of epoch) |   (float32)   |    (uint32)   |
+-------------------+-----------------------+---------------+---------------+
*/

// Packet is one decoded tempo packet.
type Packet struct {
	Sequence  uint32
	Timestamp int64
	BPM       float32
	Onsets    uint32
}

// DecodePacket parses a packet produced by UDPPublisher.
func DecodePacket(b []byte) (Packet, error) {
	var p Packet
	if len(b) != PacketSize {
		return p, fmt.Errorf("packet is %d bytes, want %d", len(b), PacketSize)
	}
	err := binary.Read(bytes.NewReader(b), binary.BigEndian, &p)
	return p, err
}

// UDPPublisher periodically samples a TempoProvider and sends the result
// as a binary packet. It runs in a separate goroutine managed by Start and
// Stop.
type UDPPublisher struct {
	sender   *UDPSender
	provider TempoProvider
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker and doneChan during Start/Stop.

	sequenceNum  uint32
	packetBuffer *bytes.Buffer
}

// NewUDPPublisher creates a publisher. If interval is not positive it
// defaults to 100ms.
func NewUDPPublisher(interval time.Duration, sender *UDPSender, provider TempoProvider) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("UDPPublisher: tempo provider cannot be nil")
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
		applog.Warnf("UDPPublisher: Invalid interval provided, defaulting to %s", interval)
	}

	return &UDPPublisher{
		sender:       sender,
		provider:     provider,
		interval:     interval,
		packetBuffer: bytes.NewBuffer(make([]byte, 0, PacketSize)),
	}, nil
}

// Start launches the publishing goroutine. Calling Start on a running
// publisher is a no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running.")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Debugf("UDPPublisher: started (interval %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.buildAndSendPacket()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publishing goroutine to exit and waits for it. It is
// safe to call Stop multiple times.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}
	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Debugf("UDPPublisher: stopped after %d packets", p.sequenceNum)
	return nil
}

func (p *UDPPublisher) buildAndSendPacket() {
	snap := p.provider.Snapshot()

	p.sequenceNum++
	packet := Packet{
		Sequence:  p.sequenceNum,
		Timestamp: time.Now().UnixNano(),
		BPM:       snap.BPM,
		Onsets:    snap.Onsets,
	}

	p.packetBuffer.Reset()
	if err := binary.Write(p.packetBuffer, binary.BigEndian, packet); err != nil {
		applog.Errorf("UDPPublisher: Error packing data into binary buffer: %v", err)
		return
	}

	// Send errors are logged by the sender.
	if err := p.sender.Send(p.packetBuffer.Bytes()); err == nil {
		applog.Debugf("UDPPublisher: Sent packet %d (%d bytes)", p.sequenceNum, p.packetBuffer.Len())
	}
}

// Close stops the publisher.
func (p *UDPPublisher) Close() error {
	return p.Stop()
}

var _ interface{ Close() error } = (*UDPPublisher)(nil)
