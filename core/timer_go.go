//go:build !tinygo

package core

// systemTicks is written by tests through SetTime
var systemTicks uint32

func getSystemTicks() uint32 {
	return systemTicks
}

func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
