package core

import (
	"sidetone/protocol"
)

// Tone command and response names
const (
	CmdConfigTone = "config_tone"
	CmdTone       = "tone"
	CmdNoTone     = "no_tone"
	CmdGetTone    = "get_tone"
	RespToneState = "tone_state"
)

// InitToneCommands registers the tone commands with the global registry
func InitToneCommands() {
	RegisterToneCommands(globalRegistry)
}

// RegisterToneCommands registers the tone commands with r.
// The host calls this on an empty registry to learn the firmware's IDs, so
// the order here is part of the wire format.
func RegisterToneCommands(r *CommandRegistry) {
	r.Register(CmdConfigTone, "pin=%u", handleConfigTone)
	r.Register(CmdTone, "pin=%u freq=%u duration_ms=%u", handleTone)
	r.Register(CmdNoTone, "pin=%u", handleNoTone)
	r.Register(CmdGetTone, "", func(data *[]byte) error {
		return handleGetTone(r)
	})
	r.Register(RespToneState, "pin=%u freq=%u playing=%c", nil)
}

// handleConfigTone resets the generator and leaves pin silent
// Format: config_tone pin=%u
func handleConfigTone(data *[]byte) error {
	pin, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	if err := ToneInit(); err != nil {
		return err
	}
	return NoTone(GPIOPin(pin))
}

// handleTone starts a tone, optionally for a limited time
// Format: tone pin=%u freq=%u duration_ms=%u
func handleTone(data *[]byte) error {
	pin, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	freq, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	durationMS, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}
	if durationMS > MaxToneMS {
		return ErrDurationTooLong
	}

	return ToneFor(GPIOPin(pin), freq, TimerFromMS(durationMS))
}

// handleNoTone silences the active tone
// Format: no_tone pin=%u
func handleNoTone(data *[]byte) error {
	pin, err := protocol.DecodeVLQUint(data)
	if err != nil {
		return err
	}

	return NoTone(GPIOPin(pin))
}

// handleGetTone reports the generator state as a tone_state response
func handleGetTone(r *CommandRegistry) error {
	if toneGenerator == nil {
		return ErrNoTone
	}
	pin, freq, playing := toneGenerator.Active()

	SendResponse(r, RespToneState, func(output protocol.OutputBuffer) {
		protocol.EncodeVLQUint(output, uint32(pin))
		protocol.EncodeVLQUint(output, freq)
		if playing {
			protocol.EncodeVLQUint(output, 1)
		} else {
			protocol.EncodeVLQUint(output, 0)
		}
	})
	return nil
}
