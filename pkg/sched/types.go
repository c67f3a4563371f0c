package sched

import "github.com/cfssim/cfssim/pkg/weight"

// State is a process's scheduling state.
type State int

const (
	Unused State = iota
	Embryo
	Sleeping
	Runnable
	Running
	Zombie
)

func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case Embryo:
		return "embryo"
	case Sleeping:
		return "sleep"
	case Runnable:
		return "runble"
	case Running:
		return "run"
	case Zombie:
		return "zombie"
	default:
		return "???"
	}
}

// PCB is a process control block's scheduling-relevant fields. It is kept
// in-place inside a Table's slot slice; callers never hold a PCB outside
// the table's lock for longer than a single call.
type PCB struct {
	PID        int32
	Name       string
	State      State
	Nice       uint8
	Runtime    uint32
	VRuntime   uint32
	Timeslice  uint32
	Chan       uintptr
	Parent     int32 // slot index into Table.procs, -1 if none
	ParentGen  uint32
	Killed     bool
	Generation uint32
}

func zeroed(slot int, gen uint32) PCB {
	return PCB{
		Parent:     -1,
		Generation: gen,
		State:      Unused,
		Nice:       weight.Neutral,
	}
}
