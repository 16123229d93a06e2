package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// ToneEvent captures a tone driver event for post-mortem analysis
type ToneEvent struct {
	EventType uint8   // Event type code
	Pin       GPIOPin // Pin the event applied to
	Clock     uint32  // System clock at event
	Value1    uint32  // Context-dependent value
	Value2    uint32  // Context-dependent value
}

// Event type codes
const (
	EvtToneSet      = 1 // SetTone called (v1=hz)
	EvtToneReconfig = 2 // Timer reprogrammed (v1=prescale step, v2=compare)
	EvtToneClamp    = 3 // Requested frequency out of range (v1=requested hz, v2=actual hz)
	EvtToneStop     = 4 // StopTone called (v1=requested pin)
	EvtToneSwitch   = 5 // Toggle target moved to another pin (v1=previous pin)
	EvtToneExpire   = 6 // Timed tone reached its duration
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	toneRing     [ToneRingSize]ToneEvent
	toneRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to UART, USB, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordToneEvent captures an event in the ring buffer.
// Never allocates, safe to call from the main line while the timer runs.
func RecordToneEvent(eventType uint8, pin GPIOPin, value1, value2 uint32) {
	idx := toneRingHead
	toneRing[idx] = ToneEvent{
		EventType: eventType,
		Pin:       pin,
		Clock:     GetTime(),
		Value1:    value1,
		Value2:    value2,
	}
	toneRingHead = (idx + 1) % ToneRingSize
}

// ToneEvents returns recorded events from oldest to newest
func ToneEvents() []ToneEvent {
	events := make([]ToneEvent, 0, ToneRingSize)
	start := toneRingHead
	for i := uint8(0); i < ToneRingSize; i++ {
		evt := toneRing[(start+i)%ToneRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpToneEvents outputs the event ring through the debug writer
func DumpToneEvents() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TONE] === Event Dump ===")
	for _, evt := range ToneEvents() {
		var name string
		switch evt.EventType {
		case EvtToneSet:
			name = "SET"
		case EvtToneReconfig:
			name = "RECONFIG"
		case EvtToneClamp:
			name = "CLAMP!"
		case EvtToneStop:
			name = "STOP"
		case EvtToneSwitch:
			name = "SWITCH"
		case EvtToneExpire:
			name = "EXPIRE"
		default:
			name = "UNKNOWN"
		}

		debugPrintln("[TONE] " + name +
			" pin=" + utoa(uint32(evt.Pin)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TONE] === End Dump ===")
}

// ClearToneEvents clears the event ring
func ClearToneEvents() {
	for i := range toneRing {
		toneRing[i] = ToneEvent{}
	}
	toneRingHead = 0
}
