//go:build !tinygo

package core

// State stands in for the saved interrupt mask on host builds
type State uintptr

// disableInterrupts is a no-op on host builds; there is no interrupt context
// to race with
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on host builds
func restoreInterrupts(state State) {}
