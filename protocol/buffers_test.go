package protocol

import (
	"bytes"
	"testing"
)

func TestScratchOutput(t *testing.T) {
	scratch := NewScratchOutput()

	scratch.Output([]byte{1, 2, 3})
	if scratch.CurPosition() != 3 {
		t.Errorf("Expected position 3, got %d", scratch.CurPosition())
	}

	scratch.Output([]byte{4, 5})
	scratch.Update(0, 99)
	if result := scratch.Result(); !bytes.Equal(result, []byte{99, 2, 3, 4, 5}) {
		t.Errorf("Unexpected result %v", result)
	}

	if since := scratch.DataSince(2); !bytes.Equal(since, []byte{3, 4, 5}) {
		t.Errorf("DataSince(2) failed: expected [3 4 5], got %v", since)
	}

	// Update past the written data is ignored
	scratch.Update(10, 1)
	if scratch.CurPosition() != 5 {
		t.Errorf("Update moved the write position to %d", scratch.CurPosition())
	}

	scratch.Reset()
	if scratch.CurPosition() != 0 {
		t.Errorf("After reset, expected position 0, got %d", scratch.CurPosition())
	}
}

func TestFifoBuffer(t *testing.T) {
	fifo := NewFifoBuffer(10)

	if fifo.Available() != 0 {
		t.Errorf("Empty FIFO should have 0 available, got %d", fifo.Available())
	}

	if written := fifo.Write([]byte{1, 2, 3, 4, 5}); written != 5 {
		t.Errorf("Expected to write 5 bytes, wrote %d", written)
	}

	fifo.Pop(3)
	if data := fifo.Data(); !bytes.Equal(data, []byte{4, 5}) {
		t.Errorf("After popping 3, expected [4 5], got %v", data)
	}

	fifo.Reset()
	bigData := make([]byte, 12)
	if written := fifo.Write(bigData); written != 9 { // one slot reserved
		t.Errorf("Expected to write 9 bytes to size-10 FIFO, wrote %d", written)
	}

	fifo.Pop(100)
	if fifo.Available() != 0 {
		t.Errorf("Pop past the end left %d bytes", fifo.Available())
	}
}

func TestFifoBufferWrapAround(t *testing.T) {
	fifo := NewFifoBuffer(5)

	fifo.Write([]byte{1, 2, 3, 4})
	fifo.Pop(2)

	// Wraps past the end of the backing array
	if written := fifo.Write([]byte{5, 6}); written != 2 {
		t.Errorf("Expected to write 2 bytes, wrote %d", written)
	}

	if data := fifo.Data(); !bytes.Equal(data, []byte{3, 4, 5, 6}) {
		t.Errorf("Wrap-around data mismatch: got %v", data)
	}
	if fifo.Available() != 4 {
		t.Errorf("Expected 4 available, got %d", fifo.Available())
	}
}
