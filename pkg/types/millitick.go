// Package types holds small value types shared across the scheduler,
// simulation and reporting packages.
package types

import "fmt"

// Millitick is a uint32 wrapper representing a duration in milliticks
// (1/1000 of a scheduling tick), the accounting unit runtime, vruntime and
// timeslice are all expressed in.
type Millitick uint32

// Ticks returns the duration as whole ticks (1 tick = 1000 milliticks).
func (m Millitick) Ticks() float64 { return float64(m) / 1000 }

// String renders "<n>mt" for sub-tick durations and "<n.nnn>t" once the
// value reaches a full tick, so short timeslices stay readable and long
// cumulative runtimes don't print as a wall of digits.
func (m Millitick) String() string {
	if m < 1000 {
		return fmt.Sprintf("%dmt", uint32(m))
	}
	return fmt.Sprintf("%.3ft", m.Ticks())
}
