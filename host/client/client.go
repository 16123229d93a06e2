package client

import (
	"errors"
	"fmt"
	"io"
	"time"

	"sidetone/core"
	"sidetone/host/config"
	"sidetone/host/serial"
	"sidetone/protocol"
)

var (
	ErrNotConnected = errors.New("not connected to sidetone firmware")
)

// State is a decoded tone_state response
type State struct {
	Pin     uint32
	Freq    uint32
	Playing bool
}

// Client talks to the sidetone firmware over a HostTransport
type Client struct {
	transport *protocol.HostTransport

	// registry mirrors the firmware's command table; only IDs and formats
	// are used on this side
	registry *core.CommandRegistry

	// ResponseTimeout bounds how long GetTone waits for tone_state
	ResponseTimeout time.Duration
}

// New wraps an already open port
func New(port io.ReadWriteCloser) *Client {
	registry := core.NewCommandRegistry()
	core.RegisterToneCommands(registry)

	return &Client{
		transport:       protocol.NewHostTransport(port),
		registry:        registry,
		ResponseTimeout: time.Second,
	}
}

// Connect opens a serial port and returns a client using it
func Connect(cfg *serial.Config) (*Client, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}

	c := New(port)

	// Give the firmware time to settle if opening the port reset it
	time.Sleep(100 * time.Millisecond)

	return c, nil
}

// Close closes the transport and its port
func (c *Client) Close() error {
	if c.transport == nil {
		return nil
	}
	return c.transport.Close()
}

// ConfigTone resets the generator and leaves pin low
func (c *Client) ConfigTone(pin uint32) error {
	return c.send(core.CmdConfigTone, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, pin)
	})
}

// Tone starts hz on pin. A non-zero duration has the firmware stop the
// tone on its own; durations are sent with millisecond resolution.
func (c *Client) Tone(pin, hz uint32, duration time.Duration) error {
	if err := config.CheckDuration(duration); err != nil {
		return err
	}
	ms := uint32(duration / time.Millisecond)
	return c.send(core.CmdTone, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, pin)
		protocol.EncodeVLQUint(output, hz)
		protocol.EncodeVLQUint(output, ms)
	})
}

// NoTone silences the active tone
func (c *Client) NoTone(pin uint32) error {
	return c.send(core.CmdNoTone, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, pin)
	})
}

// GetTone queries the firmware's generator state
func (c *Client) GetTone() (State, error) {
	resp, ok := c.registry.GetCommandByName(core.RespToneState)
	if !ok {
		return State{}, fmt.Errorf("response %s not registered", core.RespToneState)
	}

	if err := c.send(core.CmdGetTone, nil); err != nil {
		return State{}, err
	}

	deadline := time.Now().Add(c.ResponseTimeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return State{}, fmt.Errorf("no %s response within %v", core.RespToneState, c.ResponseTimeout)
		}

		msg, err := c.transport.ReceiveResponse(remaining)
		if err != nil {
			return State{}, fmt.Errorf("failed to receive %s: %w", core.RespToneState, err)
		}
		if msg.CmdID != resp.ID {
			// Unrelated output, keep waiting
			continue
		}
		return decodeState(msg.Args)
	}
}

// CommandID returns the wire ID of a named command or response
func (c *Client) CommandID(name string) (uint16, bool) {
	cmd, ok := c.registry.GetCommandByName(name)
	if !ok {
		return 0, false
	}
	return cmd.ID, true
}

func (c *Client) send(name string, args func(output protocol.OutputBuffer)) error {
	if c.transport == nil {
		return ErrNotConnected
	}

	cmdID, ok := c.CommandID(name)
	if !ok {
		return fmt.Errorf("unknown command: %s", name)
	}

	if err := c.transport.SendCommand(cmdID, args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// decodeState parses tone_state pin=%u freq=%u playing=%c
func decodeState(args []byte) (State, error) {
	var s State
	var err error

	if s.Pin, err = protocol.DecodeVLQUint(&args); err != nil {
		return State{}, fmt.Errorf("failed to decode pin: %w", err)
	}
	if s.Freq, err = protocol.DecodeVLQUint(&args); err != nil {
		return State{}, fmt.Errorf("failed to decode freq: %w", err)
	}
	playing, err := protocol.DecodeVLQUint(&args)
	if err != nil {
		return State{}, fmt.Errorf("failed to decode playing: %w", err)
	}
	s.Playing = playing != 0

	return s, nil
}
