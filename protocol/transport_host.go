package protocol

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	ErrTransportClosed = errors.New("transport stopped")
)

// ResponseHandler is a function type for handling received responses from MCU
type ResponseHandler func(msg *Message)

// Message is a response frame from the firmware, split into command ID and
// the still-encoded arguments
type Message struct {
	Sequence uint8
	CmdID    uint16
	Args     []byte
}

// HostTransport is the host side of the protocol: it sends command frames,
// waits for their ACK and collects responses
type HostTransport struct {
	port io.ReadWriteCloser

	// writeMutex serializes send+ack so one command is in flight at a time
	writeMutex sync.Mutex
	currentSeq uint8

	input        *FifoBuffer
	ackChan      chan uint8
	responseChan chan *Message

	handlerMu       sync.Mutex
	responseHandler ResponseHandler

	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once
}

// NewHostTransport creates a host transport and starts its reader goroutine
func NewHostTransport(port io.ReadWriteCloser) *HostTransport {
	t := &HostTransport{
		port:         port,
		currentSeq:   MessageDest,
		input:        NewFifoBuffer(512),
		ackChan:      make(chan uint8, 1),
		responseChan: make(chan *Message, 16),
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}

	go t.readLoop()

	return t
}

// SendCommand sends a command to the MCU and waits for ACK
func (t *HostTransport) SendCommand(cmdID uint16, args func(output OutputBuffer)) error {
	return t.SendCommandWithTimeout(cmdID, args, 2*time.Second)
}

// SendCommandWithTimeout sends a command with a custom ACK timeout
func (t *HostTransport) SendCommandWithTimeout(cmdID uint16, args func(output OutputBuffer), timeout time.Duration) error {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()

	output := NewScratchOutput()
	err := AppendFrame(output, t.currentSeq, func(o OutputBuffer) {
		EncodeVLQUint(o, uint32(cmdID))
		if args != nil {
			args(o)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to build command: %w", err)
	}

	// Drop any ACK left over from an earlier timeout
	select {
	case <-t.ackChan:
	default:
	}

	msg := output.Result()
	n, err := t.port.Write(msg)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if n != len(msg) {
		return fmt.Errorf("incomplete write: %d/%d bytes", n, len(msg))
	}

	return t.waitForAck(timeout)
}

// waitForAck waits for the ACK naming the sequence after ours.
// Must be called with writeMutex held.
func (t *HostTransport) waitForAck(timeout time.Duration) error {
	want := nextSeq(t.currentSeq)

	select {
	case seq := <-t.ackChan:
		if seq != want {
			// NAK: the MCU expects a different sequence; adopt it for the retry
			t.currentSeq = seq
			return fmt.Errorf("sequence mismatch: expected 0x%02x, got 0x%02x", want, seq)
		}
		t.currentSeq = want
		return nil

	case <-time.After(timeout):
		return fmt.Errorf("ACK timeout after %v", timeout)

	case <-t.stopChan:
		return ErrTransportClosed
	}
}

// ReceiveResponse waits for the next response message
func (t *HostTransport) ReceiveResponse(timeout time.Duration) (*Message, error) {
	select {
	case resp := <-t.responseChan:
		return resp, nil

	case <-time.After(timeout):
		return nil, fmt.Errorf("response timeout after %v", timeout)

	case <-t.stopChan:
		return nil, ErrTransportClosed
	}
}

// SetResponseHandler sets a callback invoked for each response on the reader goroutine
func (t *HostTransport) SetResponseHandler(handler ResponseHandler) {
	t.handlerMu.Lock()
	defer t.handlerMu.Unlock()
	t.responseHandler = handler
}

// readLoop continuously reads from the port and dispatches frames
func (t *HostTransport) readLoop() {
	defer close(t.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		n, err := t.port.Read(buffer)
		if n > 0 {
			t.input.Write(buffer[:n])
			t.processFrames()
		}
		if err != nil {
			if errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				return
			}
			// Serial read timeouts surface as EOF; keep polling
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// processFrames parses and dispatches all complete frames in the input buffer
func (t *HostTransport) processFrames() {
	data := t.input.Data()
	total := 0

	for {
		frame, consumed, err := NextFrame(data[total:])
		total += consumed
		if err == ErrNeedMore {
			break
		}
		if err != nil {
			continue
		}
		t.dispatchFrame(frame)
	}

	t.input.Pop(total)
}

// dispatchFrame routes an ACK to the waiting sender and anything else to
// the response handler and channel
func (t *HostTransport) dispatchFrame(frame Frame) {
	if frame.IsAck() {
		select {
		case t.ackChan <- frame.Sequence:
		default:
		}
		return
	}

	// Payload aliases the FIFO, copy before handing it out
	payload := make([]byte, len(frame.Payload))
	copy(payload, frame.Payload)

	cmdID, err := DecodeVLQUint(&payload)
	if err != nil {
		return
	}
	msg := &Message{Sequence: frame.Sequence, CmdID: uint16(cmdID), Args: payload}

	t.handlerMu.Lock()
	handler := t.responseHandler
	t.handlerMu.Unlock()
	if handler != nil {
		handler(msg)
	}

	select {
	case t.responseChan <- msg:
	default:
		// Full: drop the oldest response to make room
		select {
		case <-t.responseChan:
		default:
		}
		t.responseChan <- msg
	}
}

// Close stops the reader and closes the port
func (t *HostTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stopChan)
		if t.port != nil {
			err = t.port.Close()
		}
		<-t.doneChan
	})
	return err
}

// GetCurrentSequence returns the sequence the next command will use
func (t *HostTransport) GetCurrentSequence() uint8 {
	t.writeMutex.Lock()
	defer t.writeMutex.Unlock()
	return t.currentSeq
}
