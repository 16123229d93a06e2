package core

import "testing"

func TestDumpToneEvents(t *testing.T) {
	tone, _, _ := newTestEmulatedTone()

	var lines []string
	SetDebugWriter(func(s string) {
		lines = append(lines, s)
	})

	SetTime(42)
	tone.SetTone(4, 700)
	tone.StopTone(4)
	DumpToneEvents()

	want := []string{
		"[TONE] === Event Dump ===",
		"[TONE] SET pin=4 clock=42 v1=700 v2=0",
		"[TONE] RECONFIG pin=4 clock=42 v1=6 v2=177",
		"[TONE] STOP pin=4 clock=42 v1=4 v2=0",
		"[TONE] === End Dump ===",
	}
	if len(lines) != len(want) {
		t.Fatalf("Expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestToneEventsKeepsNewest(t *testing.T) {
	resetToneState()

	for i := uint32(0); i < ToneRingSize+2; i++ {
		RecordToneEvent(EvtToneSet, 4, i, 0)
	}

	events := ToneEvents()
	if len(events) != ToneRingSize {
		t.Fatalf("Expected %d events, got %d", ToneRingSize, len(events))
	}
	if events[0].Value1 != 2 || events[len(events)-1].Value1 != ToneRingSize+1 {
		t.Errorf("Expected events 2..%d, got %d..%d", ToneRingSize+1, events[0].Value1, events[len(events)-1].Value1)
	}
}

func TestDebugMessagesOnlyWhenEnabled(t *testing.T) {
	tone, _, _ := newTestEmulatedTone()

	var lines []string
	SetDebugWriter(func(s string) {
		lines = append(lines, s)
	})

	// Above the 4MHz ceiling of an 8MHz timer, so every retune clamps
	tone.SetTone(4, 5000000)
	tone.StopTone(5)
	if len(lines) != 0 {
		t.Fatalf("Debug output while disabled: %q", lines)
	}

	SetDebugEnabled(true)
	tone.Init()
	tone.SetTone(4, 5000000)
	tone.StopTone(5)
	if len(lines) != 2 {
		t.Errorf("Expected clamp and pin mismatch messages, got %q", lines)
	}
}

func TestDisabledDebugDoesNotAllocate(t *testing.T) {
	tone, _, _ := newTestEmulatedTone()
	tone.SetTone(4, 5000000)

	allocs := testing.AllocsPerRun(100, func() {
		tone.Init()
		tone.SetTone(4, 5000000)
		tone.StopTone(5)
	})
	if allocs != 0 {
		t.Errorf("Clamp and stop paths allocated %.1f times per run with debug off", allocs)
	}
}
