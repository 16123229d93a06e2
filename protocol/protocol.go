// Package protocol implements the framed serial protocol spoken between the
// sidetone host tool and the firmware. Frames follow Klipper's layout:
// length, sequence, VLQ payload, CRC16, 0x7E sync.
package protocol

// Version represents the sidetone firmware version
const Version = "0.1.0"

// Frame layout constants
const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
	MessageSeqMask     = 0x0F

	// MessageMax sizes scratch buffers; several frames may be queued at once
	MessageMax = 256
)

// nextSeq advances a sequence byte within the 0x10-0x1F window
func nextSeq(seq uint8) uint8 {
	return ((seq + 1) & MessageSeqMask) | MessageDest
}
