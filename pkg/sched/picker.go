package sched

import "github.com/cfssim/cfssim/pkg/weight"

// quantumMillitick is the picker's base quantum: 10 ticks expressed in
// milliticks, prorated by the chosen process's share of total ready-set
// weight.
const quantumMillitick = 10 * 1000

// Pick scans the table once for the RUNNABLE process with the smallest
// vruntime (ties broken by table order, first hit wins), computes its
// timeslice as a share of total ready-set weight, and transitions it
// RUNNABLE -> RUNNING. ok is false if no process is runnable, in which
// case no state changes.
//
// timeslice := 10_000 * weight(chosen.Nice) / total_weight
//
// Integer division; when the chosen process's weight is under 1/10_000 of
// the total (e.g. one nice-39 process against two nice-0 ones) this
// truncates to 0.
func (t *Table) Pick() (pid int32, timeslice uint32, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var (
		minVrun     uint32
		chosen      = -1
		totalWeight uint32
		foundAny    bool
	)

	for i := range t.procs {
		p := &t.procs[i]
		if p.State != Runnable {
			continue
		}
		totalWeight += weight.Weight(p.Nice)
		if !foundAny || p.VRuntime < minVrun {
			minVrun = p.VRuntime
			chosen = i
		}
		foundAny = true
	}

	if !foundAny {
		return 0, 0, false
	}

	p := &t.procs[chosen]
	ts := quantumMillitick * weight.Weight(p.Nice) / totalWeight
	p.Timeslice = ts
	p.State = Running

	return p.PID, ts, true
}
