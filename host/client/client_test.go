package client

import (
	"io"
	"testing"
	"time"

	"sidetone/core"
	"sidetone/protocol"
)

// pipePort joins the read end of one pipe with the write end of another
type pipePort struct {
	r *io.PipeReader
	w *io.PipeWriter
}

func (p *pipePort) Read(b []byte) (int, error)  { return p.r.Read(b) }
func (p *pipePort) Write(b []byte) (int, error) { return p.w.Write(b) }
func (p *pipePort) Close() error {
	p.r.Close()
	return p.w.Close()
}

// recordingDriver is a FrequencyDriver that only remembers the last call
type recordingDriver struct {
	freq map[core.GPIOPin]uint32
}

func (d *recordingDriver) SetFrequency(pin core.GPIOPin, hz uint32) error {
	d.freq[pin] = hz
	return nil
}

func (d *recordingDriver) Silence(pin core.GPIOPin) error {
	d.freq[pin] = 0
	return nil
}

// startFirmware runs the core tone command set behind a firmware Transport,
// the same way the rp2040 main loop does. Each batch of input advances the
// clock by one second so timed tones expire before the next command.
func startFirmware(t *testing.T) io.ReadWriteCloser {
	t.Helper()

	core.SetTime(0)
	core.SetToneGenerator(core.NewNativeTone(&recordingDriver{freq: make(map[core.GPIOPin]uint32)}))

	registry := core.NewCommandRegistry()
	core.RegisterToneCommands(registry)

	hostToMCUr, hostToMCUw := io.Pipe()
	mcuToHostr, mcuToHostw := io.Pipe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer mcuToHostw.Close()

		output := protocol.NewScratchOutput()
		input := protocol.NewFifoBuffer(256)
		transport := protocol.NewTransport(output, registry.Dispatch)
		core.SetResponseSender(transport)

		buf := make([]byte, 64)
		for {
			n, err := hostToMCUr.Read(buf)
			if err != nil {
				return
			}
			input.Write(buf[:n])
			transport.Receive(input)

			core.SetTime(core.GetTime() + core.TimerFromMS(1000))
			core.ProcessTimers()

			if len(output.Result()) > 0 {
				if _, err := mcuToHostw.Write(output.Result()); err != nil {
					return
				}
				output.Reset()
			}
		}
	}()

	// Runs after the test's deferred Close, which ends the goroutine
	t.Cleanup(func() {
		hostToMCUw.Close()
		<-done
		core.SetResponseSender(nil)
		core.SetToneGenerator(nil)
	})

	return &pipePort{r: mcuToHostr, w: hostToMCUw}
}

func TestClientCommandIDsMatchFirmware(t *testing.T) {
	c := New(startFirmware(t))
	defer c.Close()

	fw := core.NewCommandRegistry()
	core.RegisterToneCommands(fw)

	for _, name := range []string{core.CmdConfigTone, core.CmdTone, core.CmdNoTone, core.CmdGetTone, core.RespToneState} {
		want, _ := fw.GetCommandByName(name)
		got, ok := c.CommandID(name)
		if !ok || got != want.ID {
			t.Errorf("%s: ID %d, firmware has %d", name, got, want.ID)
		}
	}
}

func TestClientToneRoundTrip(t *testing.T) {
	c := New(startFirmware(t))
	defer c.Close()

	if err := c.ConfigTone(4); err != nil {
		t.Fatalf("ConfigTone failed: %v", err)
	}

	if err := c.Tone(4, 700, 0); err != nil {
		t.Fatalf("Tone failed: %v", err)
	}
	state, err := c.GetTone()
	if err != nil {
		t.Fatalf("GetTone failed: %v", err)
	}
	if state != (State{Pin: 4, Freq: 700, Playing: true}) {
		t.Errorf("Expected 700 Hz playing on pin 4, got %+v", state)
	}

	if err := c.NoTone(4); err != nil {
		t.Fatalf("NoTone failed: %v", err)
	}
	state, err = c.GetTone()
	if err != nil {
		t.Fatalf("GetTone failed: %v", err)
	}
	if state.Playing {
		t.Errorf("Tone still playing after NoTone: %+v", state)
	}
}

func TestClientTimedToneExpires(t *testing.T) {
	c := New(startFirmware(t))
	defer c.Close()

	if err := c.Tone(4, 900, 200*time.Millisecond); err != nil {
		t.Fatalf("Tone failed: %v", err)
	}

	// The firmware clock has moved a full second since the tone started
	state, err := c.GetTone()
	if err != nil {
		t.Fatalf("GetTone failed: %v", err)
	}
	if state.Playing || state.Freq != 900 {
		t.Errorf("Expected expired 900 Hz tone, got %+v", state)
	}
}

func TestClientRejectsUntimeableDuration(t *testing.T) {
	c := &Client{}
	if err := c.Tone(4, 700, -time.Millisecond); err == nil {
		t.Fatal("Expected error for negative duration")
	}
	if err := c.Tone(4, 700, 50*time.Minute); err == nil {
		t.Fatal("Expected error for a duration the firmware cannot time")
	}
}

func TestClientNotConnected(t *testing.T) {
	c := &Client{}
	if err := c.NoTone(4); err != ErrNotConnected {
		t.Errorf("Expected ErrNotConnected, got %v", err)
	}
}

func TestDecodeState(t *testing.T) {
	output := protocol.NewScratchOutput()
	protocol.EncodeVLQUint(output, 4)
	protocol.EncodeVLQUint(output, 1500)
	protocol.EncodeVLQUint(output, 1)

	state, err := decodeState(output.Result())
	if err != nil {
		t.Fatalf("decodeState failed: %v", err)
	}
	if state != (State{Pin: 4, Freq: 1500, Playing: true}) {
		t.Errorf("Unexpected state %+v", state)
	}

	if _, err := decodeState(output.Result()[:1]); err == nil {
		t.Error("Expected error for truncated tone_state")
	}
}
