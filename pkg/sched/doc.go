// Package sched implements a CFS-style process scheduler core: a process
// table (Table), the picker that chooses the next runnable process and
// sizes its timeslice, the accounting hooks that advance runtime/vruntime,
// and the wake policy that assigns a fair vruntime to a process returning
// from sleep.
//
// All mutating operations hold Table's internal lock; Ps is the one
// deliberate exception, trading consistency for liveness when dumping the
// table for debugging.
package sched
