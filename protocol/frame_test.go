package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeFrameLayout(t *testing.T) {
	frame, err := EncodeFrame(MessageDest, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("EncodeFrame failed: %v", err)
	}

	if len(frame) != 7 {
		t.Fatalf("Expected 7-byte frame, got %d", len(frame))
	}
	if frame[MessagePositionLen] != 7 || frame[MessagePositionSeq] != MessageDest {
		t.Errorf("Bad header %v", frame[:2])
	}
	crc := CRC16(frame[:4])
	if frame[4] != uint8(crc>>8) || frame[5] != uint8(crc) {
		t.Errorf("Bad CRC bytes %02x %02x, want %04x", frame[4], frame[5], crc)
	}
	if frame[6] != MessageValueSync {
		t.Errorf("Missing trailing sync byte")
	}
}

func TestEncodeFrameTooLong(t *testing.T) {
	if _, err := EncodeFrame(MessageDest, make([]byte, MessageLengthMax)); err != ErrFrameTooLong {
		t.Errorf("Expected ErrFrameTooLong, got %v", err)
	}
}

func TestNextFrame(t *testing.T) {
	frame, _ := EncodeFrame(0x13, []byte{0x05, 0x06, 0x07})

	// Leading sync bytes are skipped
	data := append([]byte{MessageValueSync, MessageValueSync}, frame...)
	got, consumed, err := NextFrame(data)
	if err != nil {
		t.Fatalf("NextFrame failed: %v", err)
	}
	if consumed != len(data) {
		t.Errorf("Expected %d bytes consumed, got %d", len(data), consumed)
	}
	if got.Sequence != 0x13 || !bytes.Equal(got.Payload, []byte{0x05, 0x06, 0x07}) {
		t.Errorf("Unexpected frame %+v", got)
	}
}

func TestNextFramePartial(t *testing.T) {
	frame, _ := EncodeFrame(MessageDest, []byte{0x05, 0x06, 0x07})

	for n := 0; n < len(frame); n++ {
		_, consumed, err := NextFrame(frame[:n])
		if err != ErrNeedMore {
			t.Errorf("%d bytes: expected ErrNeedMore, got %v", n, err)
		}
		if consumed != 0 {
			t.Errorf("%d bytes: partial frame consumed %d bytes", n, consumed)
		}
	}
}

func TestNextFrameResync(t *testing.T) {
	good, _ := EncodeFrame(MessageDest, []byte{0x01})
	corrupt, _ := EncodeFrame(MessageDest, []byte{0x01})
	corrupt[2] ^= 0xFF // payload no longer matches CRC

	data := append(corrupt, good...)
	_, consumed, err := NextFrame(data)
	if err != ErrBadFrame {
		t.Fatalf("Expected ErrBadFrame for CRC mismatch, got %v", err)
	}

	frame, _, err := NextFrame(data[consumed:])
	if err != nil {
		t.Fatalf("Did not recover after bad frame: %v", err)
	}
	if !bytes.Equal(frame.Payload, []byte{0x01}) {
		t.Errorf("Unexpected payload after resync: %v", frame.Payload)
	}

	// Garbage with a bogus length byte skips to the next sync byte
	garbage := append([]byte{0xFF, 0x00, 0x00, 0x00, 0x00, MessageValueSync}, good...)
	_, consumed, err = NextFrame(garbage)
	if err != ErrBadFrame || consumed != 6 {
		t.Errorf("Expected ErrBadFrame consuming 6 bytes, got %v consuming %d", err, consumed)
	}
}

func TestAckFrame(t *testing.T) {
	ack, _ := EncodeFrame(0x11, nil)
	frame, _, err := NextFrame(ack)
	if err != nil {
		t.Fatalf("NextFrame failed: %v", err)
	}
	if !frame.IsAck() || frame.Sequence != 0x11 {
		t.Errorf("Expected ACK with sequence 0x11, got %+v", frame)
	}
}
