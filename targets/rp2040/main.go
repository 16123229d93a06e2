//go:build rp2040

package main

import (
	"machine"
	"time"

	"sidetone/core"
	"sidetone/protocol"
)

var (
	// Buffers for communication
	inputBuffer  *protocol.FifoBuffer
	outputBuffer *protocol.ScratchOutput
	transport    *protocol.Transport

	// Debug counters
	messagesReceived uint32
	messagesSent     uint32
	msgerrors        uint32

	// USB connection state tracking
	usbWasDisconnected       bool
	consecutiveWriteFailures uint32
)

func main() {
	// Clear any watchdog state left from a previous reset
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitClock()

	// Debug text shares the CDC port; the host skips it while resyncing
	core.SetDebugWriter(func(msg string) {
		USBWriteBytes([]byte(msg + "\r\n"))
	})
	core.SetDebugEnabled(debugTone)

	core.SetGPIODriver(NewRPGPIODriver())

	// Keep the speaker quiet until the first tone claims the pin
	gpio := core.MustGPIO()
	if err := gpio.ConfigureOutput(TonePin); err != nil {
		return
	}
	_ = gpio.SetPin(TonePin, false)

	freqDriver := newFrequencyDriver()
	core.SetFrequencyDriver(freqDriver)
	core.SetToneGenerator(core.NewNativeTone(freqDriver))

	core.InitToneCommands()
	if err := core.ToneInit(); err != nil {
		return
	}

	inputBuffer = protocol.NewFifoBuffer(256)
	outputBuffer = protocol.NewScratchOutput()

	transport = protocol.NewTransport(outputBuffer, handleCommand)
	transport.SetResetCallback(func() {
		// Host restarted: drop stale bytes and silence the speaker
		inputBuffer.Reset()
		outputBuffer.Reset()
		_ = core.NoTone(TonePin)
		if core.IsDebugEnabled() {
			core.DumpToneEvents()
			core.ClearToneEvents()
		}
	})
	// ACKs go out as soon as they are queued
	transport.SetFlushCallback(func() {
		writeUSB()
	})
	core.SetResponseSender(transport)

	go usbReaderLoop()

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					msgerrors++
					inputBuffer.Reset()
					outputBuffer.Reset()
				}
			}()

			UpdateSystemTime()

			if inputBuffer.Available() > 0 {
				transport.Receive(inputBuffer)
				messagesReceived++
			}

			if len(outputBuffer.Result()) > 0 {
				writeUSB()
				messagesSent++
			}

			// Timed tones stop from here
			core.ProcessTimers()
		}()

		time.Sleep(10 * time.Microsecond)
	}
}

// usbReaderLoop runs in a goroutine to continuously read USB data
func usbReaderLoop() {
	defer func() {
		if r := recover(); r != nil {
			msgerrors++
			time.Sleep(100 * time.Millisecond)
			go usbReaderLoop()
		}
	}()

	for {
		if USBAvailable() > 0 {
			data, err := USBRead()
			if err != nil {
				msgerrors++
				time.Sleep(1 * time.Millisecond)
				continue
			}

			// First byte after a disconnect starts a fresh session
			if usbWasDisconnected {
				usbWasDisconnected = false
				inputBuffer.Reset()
				outputBuffer.Reset()
				transport.Reset()
				messagesReceived = 0
				messagesSent = 0
				consecutiveWriteFailures = 0
			}

			if inputBuffer.Write([]byte{data}) == 0 {
				msgerrors++
				time.Sleep(10 * time.Millisecond)
			}
		}
		time.Sleep(100 * time.Microsecond)
	}
}

// handleCommand dispatches received commands to the command registry
func handleCommand(cmdID uint16, data *[]byte) error {
	return core.DispatchCommand(cmdID, data)
}

// writeUSB writes available data from output buffer to USB
func writeUSB() {
	result := outputBuffer.Result()
	if len(result) == 0 {
		return
	}

	written := 0
	for written < len(result) {
		n, err := USBWriteBytes(result[written:])
		if err != nil || n == 0 {
			// Repeated failures mean the host went away
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				usbWasDisconnected = true
				consecutiveWriteFailures = 0
				outputBuffer.Reset()
				inputBuffer.Reset()
				_ = core.NoTone(TonePin)
			}
			return
		}
		written += n
	}

	consecutiveWriteFailures = 0
	outputBuffer.Reset()
}
