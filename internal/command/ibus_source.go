// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package command

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"sync"

	serial "github.com/jacobsa/go-serial/serial"
)

// FlySky iBus frame layout: two header bytes, 14 little-endian channel
// words, and a 16-bit checksum (0xFFFF minus the sum of everything
// before it).
const (
	ibusHeader1     = 0x20
	ibusHeader2     = 0x40
	ibusNumChannels = 14
	ibusFrameSize   = 2 + ibusNumChannels*2 + 2
)

// Channel assignment follows the usual AETR transmitter layout: roll
// (aileron) on channel 1, throttle on channel 3.
const (
	channelRoll     = 0
	channelVertical = 2
)

// IBusSource reads pilot commands from an RC receiver speaking the
// iBus protocol over a serial port. A background goroutine keeps the
// latest valid frame; the control loop samples it once per tick.
type IBusSource struct {
	port io.ReadCloser

	mu       sync.RWMutex
	channels [ibusNumChannels]uint16
}

// NewIBusSource opens the serial port and starts the reader goroutine.
// Until the first valid frame arrives all channels report center stick.
func NewIBusSource(portName string, baudRate uint) (*IBusSource, error) {
	opts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}
	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ibus: open %s: %w", portName, err)
	}
	log.Printf("ibus: serial port opened on %s at %d baud", portName, baudRate)

	s := &IBusSource{port: port}
	for i := range s.channels {
		s.channels[i] = 1500
	}
	go s.readLoop(port)
	return s, nil
}

// Close stops the reader by closing the underlying port.
func (s *IBusSource) Close() error {
	return s.port.Close()
}

// VerticalCommand reports the throttle stick in [-1, 1].
func (s *IBusSource) VerticalCommand() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return normalizeStick(s.channels[channelVertical])
}

// RollCommand reports the roll stick in [-1, 1].
func (s *IBusSource) RollCommand() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return normalizeStick(s.channels[channelRoll])
}

// readLoop resynchronizes on the two header bytes, collects one frame
// at a time, and publishes every frame that passes the checksum.
func (s *IBusSource) readLoop(r io.Reader) {
	reader := bufio.NewReader(r)
	frame := make([]byte, ibusFrameSize)

	for {
		b, err := reader.ReadByte()
		if err != nil {
			log.Printf("ibus: read error: %v", err)
			return
		}
		if b != ibusHeader1 {
			continue
		}
		b, err = reader.ReadByte()
		if err != nil {
			log.Printf("ibus: read error: %v", err)
			return
		}
		if b != ibusHeader2 {
			continue
		}

		frame[0] = ibusHeader1
		frame[1] = ibusHeader2
		if _, err := io.ReadFull(reader, frame[2:]); err != nil {
			log.Printf("ibus: read error: %v", err)
			return
		}

		channels, ok := decodeFrame(frame)
		if !ok {
			// Checksum mismatch; likely lost a byte mid-frame. The
			// next header search resynchronizes.
			continue
		}

		s.mu.Lock()
		s.channels = channels
		s.mu.Unlock()
	}
}

// decodeFrame validates the checksum of a complete frame and unpacks
// the channel words.
func decodeFrame(frame []byte) ([ibusNumChannels]uint16, bool) {
	var channels [ibusNumChannels]uint16
	if len(frame) != ibusFrameSize {
		return channels, false
	}

	sum := uint16(0xFFFF)
	for _, b := range frame[:ibusFrameSize-2] {
		sum -= uint16(b)
	}
	got := uint16(frame[ibusFrameSize-2]) | uint16(frame[ibusFrameSize-1])<<8
	if sum != got {
		return channels, false
	}

	for i := 0; i < ibusNumChannels; i++ {
		channels[i] = uint16(frame[2+2*i]) | uint16(frame[3+2*i])<<8
	}
	return channels, true
}
