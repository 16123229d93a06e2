package protocol

import "sync/atomic"

// CommandHandler is a function type for handling decoded commands
type CommandHandler func(cmdID uint16, data *[]byte) error

// Transport is the firmware side of the protocol: it parses frames from the
// host, dispatches each command in them and acknowledges every frame
type Transport struct {
	nextSequence  uint32 // atomic; expected sequence from host (0x10-0x1F)
	output        OutputBuffer
	handler       CommandHandler
	resetCallback func() // Called when host reset is detected
	flushCallback func() // Called to push an ACK out immediately
	errors        uint32 // atomic; handler and framing errors seen
}

// NewTransport creates a new Transport instance
func NewTransport(output OutputBuffer, handler CommandHandler) *Transport {
	return &Transport{
		nextSequence: MessageDest,
		output:       output,
		handler:      handler,
	}
}

// Receive consumes every complete frame available in input
func (t *Transport) Receive(input InputBuffer) {
	data := input.Data()
	total := 0

	for {
		frame, consumed, err := NextFrame(data[total:])
		total += consumed
		if err == ErrNeedMore {
			break
		}
		if err != nil {
			atomic.AddUint32(&t.errors, 1)
			continue
		}

		expected := uint8(atomic.LoadUint32(&t.nextSequence))
		if frame.Sequence == MessageDest && expected != MessageDest {
			// Host restarted its sequence
			expected = MessageDest
			if t.resetCallback != nil {
				t.resetCallback()
			}
		}

		if frame.Sequence == expected {
			atomic.StoreUint32(&t.nextSequence, uint32(nextSeq(expected)))
			if err := t.parseFrame(frame.Payload); err != nil {
				atomic.AddUint32(&t.errors, 1)
			}
		}
		// A stale sequence still gets an ACK; it doubles as a NAK naming the
		// sequence we expect
		t.encodeAckNak()
	}

	if total > 0 {
		input.Pop(total)
	}
}

// parseFrame dispatches every command packed into one frame
func (t *Transport) parseFrame(payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrBadFrame
		}
	}()

	for len(payload) > 0 {
		cmdID, err := DecodeVLQUint(&payload)
		if err != nil {
			return err
		}
		if t.handler == nil {
			continue
		}
		if err := t.handler(uint16(cmdID), &payload); err != nil {
			// Remaining arguments can't be located after a failed handler
			return err
		}
	}
	return nil
}

// encodeAckNak queues an empty frame carrying the next expected sequence
func (t *Transport) encodeAckNak() {
	seq := uint8(atomic.LoadUint32(&t.nextSequence))
	_ = AppendFrame(t.output, seq, nil)

	if t.flushCallback != nil {
		t.flushCallback()
	}
}

// SendCommand queues a response message to the host
func (t *Transport) SendCommand(cmdID uint16, args func(output OutputBuffer)) {
	seq := uint8(atomic.LoadUint32(&t.nextSequence))
	_ = AppendFrame(t.output, seq, func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(cmdID))
		if args != nil {
			args(output)
		}
	})
}

// Reset returns the transport to its power-on state
func (t *Transport) Reset() {
	atomic.StoreUint32(&t.nextSequence, MessageDest)
	if t.resetCallback != nil {
		t.resetCallback()
	}
}

// Errors returns how many malformed frames and failed commands were seen
func (t *Transport) Errors() uint32 {
	return atomic.LoadUint32(&t.errors)
}

// SetResetCallback sets a callback to be called when host reset is detected
func (t *Transport) SetResetCallback(callback func()) {
	t.resetCallback = callback
}

// SetFlushCallback sets a callback to push ACKs out as soon as they are queued
func (t *Transport) SetFlushCallback(callback func()) {
	t.flushCallback = callback
}
