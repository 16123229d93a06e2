package protocol

import "errors"

var (
	ErrNeedMore     = errors.New("incomplete frame")
	ErrBadFrame     = errors.New("malformed frame")
	ErrFrameTooLong = errors.New("frame exceeds maximum length")
)

// Frame is one decoded message block
type Frame struct {
	Sequence uint8
	Payload  []byte // Data between header and trailer; aliases the input
}

// IsAck reports whether the frame carries no payload (ACK/NAK)
func (f Frame) IsAck() bool {
	return len(f.Payload) == 0
}

// AppendFrame writes a complete frame to output: header, whatever body
// writes, CRC and sync byte
func AppendFrame(output OutputBuffer, seq uint8, body func(output OutputBuffer)) error {
	cursor := output.CurPosition()
	output.Output([]byte{0, seq})
	if body != nil {
		body(output)
	}

	length := len(output.DataSince(cursor)) + MessageTrailerSize
	if length > MessageLengthMax {
		return ErrFrameTooLong
	}
	output.Update(cursor+MessagePositionLen, uint8(length))

	crc := CRC16(output.DataSince(cursor))
	output.Output([]byte{uint8(crc >> 8), uint8(crc), MessageValueSync})
	return nil
}

// EncodeFrame returns a standalone frame holding payload
func EncodeFrame(seq uint8, payload []byte) ([]byte, error) {
	output := NewScratchOutput()
	err := AppendFrame(output, seq, func(o OutputBuffer) {
		o.Output(payload)
	})
	if err != nil {
		return nil, err
	}
	result := make([]byte, len(output.Result()))
	copy(result, output.Result())
	return result, nil
}

// NextFrame parses the first frame in data.
// consumed is how many bytes of data the caller should drop, including any
// leading sync bytes. On ErrNeedMore nothing past the sync bytes is consumed;
// on ErrBadFrame everything up to the next sync byte is consumed so the
// caller can resynchronize.
func NextFrame(data []byte) (frame Frame, consumed int, err error) {
	for consumed < len(data) && data[consumed] == MessageValueSync {
		consumed++
	}
	data = data[consumed:]

	if len(data) < MessageLengthMin {
		return Frame{}, consumed, ErrNeedMore
	}

	msgLen := int(data[MessagePositionLen])
	seq := data[MessagePositionSeq]
	if msgLen < MessageLengthMin || msgLen > MessageLengthMax || seq&^MessageSeqMask != MessageDest {
		return Frame{}, consumed + resync(data), ErrBadFrame
	}
	if len(data) < msgLen {
		return Frame{}, consumed, ErrNeedMore
	}
	if data[msgLen-MessageTrailerSync] != MessageValueSync {
		return Frame{}, consumed + resync(data), ErrBadFrame
	}

	crc := uint16(data[msgLen-MessageTrailerCRC])<<8 | uint16(data[msgLen-MessageTrailerCRC+1])
	if crc != CRC16(data[:msgLen-MessageTrailerSize]) {
		return Frame{}, consumed + msgLen, ErrBadFrame
	}

	return Frame{
		Sequence: seq,
		Payload:  data[MessageHeaderSize : msgLen-MessageTrailerSize],
	}, consumed + msgLen, nil
}

// resync returns the offset just past the next sync byte, or len(data)
func resync(data []byte) int {
	for i, b := range data {
		if b == MessageValueSync {
			return i + 1
		}
	}
	return len(data)
}
