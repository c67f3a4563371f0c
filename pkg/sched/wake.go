package sched

import "github.com/cfssim/cfssim/pkg/weight"

// oneTickMillitick is the fixed head-start cost subtracted from the ready
// set's minimum vruntime when waking a process: one tick's worth of
// virtual time at the woken process's own nice value.
const oneTickMillitick = 1000

// Wakeup transitions every SLEEPING process waiting on chanID to RUNNABLE,
// assigning each a fresh vruntime:
//
//   - if no process anywhere in the table is currently RUNNABLE, the woken
//     process's vruntime resets to 0 (nothing to race against, so anchor
//     to zero to keep values bounded);
//   - otherwise it is set to (minimum RUNNABLE vruntime) minus one tick's
//     worth of virtual time at its own nice value, giving it a slight
//     head start without letting a long-sleeping task (which would
//     otherwise still carry a very low vruntime) dominate the CPU.
//
// The subtraction is unsigned uint32 arithmetic and wraps on underflow.
// This mirrors the source exactly and is a known hazard (see DESIGN.md);
// VRuntimeLess is provided for callers that want wrap-aware comparison
// instead, but Wakeup and Pick both use raw order for fidelity.
func (t *Table) Wakeup(chanID uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()

	minVrun, anyRunnable := uint32(0), false
	for i := range t.procs {
		p := &t.procs[i]
		if p.State != Runnable {
			continue
		}
		if !anyRunnable || p.VRuntime < minVrun {
			minVrun = p.VRuntime
		}
		anyRunnable = true
	}

	for i := range t.procs {
		p := &t.procs[i]
		if p.State != Sleeping || p.Chan != chanID {
			continue
		}
		if !anyRunnable {
			p.VRuntime = 0
		} else {
			p.VRuntime = minVrun - weight.Scale(oneTickMillitick, p.Nice)
		}
		p.State = Runnable
	}
}

// VRuntimeLess compares two vruntime values as if they were signed deltas
// (a - b interpreted as int32), which stays correct across the uint32
// wraparound that Wakeup's subtraction can introduce once values span more
// than 2^31. The picker does not use this — it preserves the source's raw
// unsigned comparison — but it is exposed for callers building their own
// fairness checks on top of this package.
func VRuntimeLess(a, b uint32) bool {
	return int32(a-b) < 0
}
