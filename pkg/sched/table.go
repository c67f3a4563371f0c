package sched

import (
	"fmt"
	"sync"

	"github.com/cfssim/cfssim/pkg/weight"
)

// DefaultCapacity mirrors xv6's NPROC: a fixed-size process table.
const DefaultCapacity = 64

// Table is the process table: a fixed arena of PCB slots protected by a
// single lock ("the scheduler lock" in spec terms). Every field read or
// write on a PCB happens while that lock is held, except Ps's deliberately
// unlocked scan.
type Table struct {
	mu         sync.Mutex
	cond       *sync.Cond
	procs      []PCB
	nextPID    int32
	totalTicks uint64
}

// NewTable allocates a Table with the given slot capacity, all slots
// starting UNUSED.
func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	t := &Table{
		procs:   make([]PCB, capacity),
		nextPID: 1,
	}
	for i := range t.procs {
		t.procs[i] = zeroed(i, 0)
	}
	t.cond = sync.NewCond(&t.mu)
	return t
}

// findLocked returns the slot index of pid, or -1. Caller must hold mu.
func (t *Table) findLocked(pid int32) int {
	for i := range t.procs {
		if t.procs[i].State != Unused && t.procs[i].PID == pid {
			return i
		}
	}
	return -1
}

// AllocProc finds an UNUSED slot, marks it EMBRYO with default scheduling
// fields (nice=20, runtime=0, vruntime=0), and returns its pid.
// Returns ErrNoSlot if the table is full.
func (t *Table) AllocProc(name string) (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.procs {
		if t.procs[i].State == Unused {
			gen := t.procs[i].Generation
			pid := t.nextPID
			t.nextPID++
			t.procs[i] = PCB{
				PID:        pid,
				Name:       name,
				State:      Embryo,
				Nice:       weight.Neutral,
				Runtime:    0,
				VRuntime:   0,
				Parent:     -1,
				Generation: gen,
			}
			return pid, nil
		}
	}
	return 0, ErrNoSlot
}

// UserInit creates the first process and makes it RUNNABLE directly,
// confirming the same nice/runtime/vruntime initialization AllocProc
// already applied (xv6's userinit redundantly re-zeroes these at the
// RUNNABLE transition; preserved here for fidelity).
func (t *Table) UserInit(name string) (int32, error) {
	pid, err := t.AllocProc(name)
	if err != nil {
		return 0, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.findLocked(pid)
	t.procs[i].State = Runnable
	t.procs[i].Nice = weight.Neutral
	t.procs[i].Runtime = 0
	t.procs[i].VRuntime = 0
	return pid, nil
}

// Fork allocates a child process that inherits the parent's nice, runtime
// and vruntime wholesale (the fairness anomaly documented in DESIGN.md:
// canonical CFS instead floors a new task's vruntime at the current
// minimum, but this implementation preserves the source's verbatim-copy
// behavior). The child is left RUNNABLE.
func (t *Table) Fork(parentPID int32, childName string) (int32, error) {
	childPID, err := t.AllocProc(childName)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	pi := t.findLocked(parentPID)
	if pi < 0 {
		// Parent vanished between AllocProc and here; undo the allocation.
		ci := t.findLocked(childPID)
		t.procs[ci] = zeroed(ci, t.procs[ci].Generation+1)
		return 0, ErrNotFound
	}
	ci := t.findLocked(childPID)

	t.procs[ci].Nice = t.procs[pi].Nice
	t.procs[ci].Runtime = t.procs[pi].Runtime
	t.procs[ci].VRuntime = t.procs[pi].VRuntime
	t.procs[ci].Parent = int32(pi)
	t.procs[ci].ParentGen = t.procs[pi].Generation
	t.procs[ci].State = Runnable

	return childPID, nil
}

// Account advances pid's runtime and vruntime by delta milliticks of
// actual CPU time, and advances the table-wide tick counter ps reports.
// It must be called at every RUNNING-exit transition: yield, sleep, and
// exit all call it before changing state.
func (t *Table) Account(pid int32, delta uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.accountLocked(pid, delta)
}

func (t *Table) accountLocked(pid int32, delta uint32) error {
	i := t.findLocked(pid)
	if i < 0 {
		return ErrNotFound
	}
	p := &t.procs[i]
	p.Runtime += delta
	p.VRuntime += weight.Scale(delta, p.Nice)
	t.totalTicks += uint64(delta)
	return nil
}

// Yield accounts delta milliticks of CPU the process just consumed, then
// transitions it RUNNING -> RUNNABLE.
func (t *Table) Yield(pid int32, delta uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.accountLocked(pid, delta); err != nil {
		return err
	}
	i := t.findLocked(pid)
	if t.procs[i].State != Running {
		panic(fmt.Sprintf("sched: yield called on pid %d not RUNNING (state=%s)", pid, t.procs[i].State))
	}
	t.procs[i].State = Runnable
	return nil
}

// Sleep accounts delta milliticks, then transitions the process
// RUNNING -> SLEEPING on chan.
func (t *Table) Sleep(pid int32, chanID uintptr, delta uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.accountLocked(pid, delta); err != nil {
		return err
	}
	i := t.findLocked(pid)
	if t.procs[i].State != Running {
		panic(fmt.Sprintf("sched: sleep called on pid %d not RUNNING (state=%s)", pid, t.procs[i].State))
	}
	t.procs[i].State = Sleeping
	t.procs[i].Chan = chanID
	return nil
}

// Exit accounts delta milliticks, transitions the process to ZOMBIE, and
// wakes any parent blocked in Wait.
func (t *Table) Exit(pid int32, delta uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.accountLocked(pid, delta); err != nil {
		return err
	}
	i := t.findLocked(pid)
	if t.procs[i].State != Running {
		panic(fmt.Sprintf("sched: exit called on pid %d not RUNNING (state=%s)", pid, t.procs[i].State))
	}
	t.procs[i].State = Zombie

	// Reparent this process's own children to nobody in particular here;
	// a full init-reparenting policy is the caller's (the simulation's)
	// responsibility, since this table has no notion of a distinguished
	// init process.
	t.cond.Broadcast()
	return nil
}

// Wait blocks until a ZOMBIE child of parentPID exists, reclaims its slot
// to UNUSED, and returns its pid. Returns ErrNoChildren immediately if
// parentPID currently has no children at all (living or zombie).
func (t *Table) Wait(parentPID int32) (int32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		havekids := false
		for i := range t.procs {
			if t.procs[i].State == Unused {
				continue
			}
			if t.procs[i].Parent < 0 || int(t.procs[i].Parent) >= len(t.procs) {
				continue
			}
			if t.procs[t.procs[i].Parent].PID != parentPID || t.procs[i].ParentGen != t.procs[t.procs[i].Parent].Generation {
				continue
			}
			havekids = true
			if t.procs[i].State == Zombie {
				pid := t.procs[i].PID
				t.procs[i] = zeroed(i, t.procs[i].Generation+1)
				return pid, nil
			}
		}
		if !havekids {
			return 0, ErrNoChildren
		}
		t.cond.Wait()
	}
}

// Kill flags pid as killed. A SLEEPING target is promoted directly to
// RUNNABLE without any vruntime adjustment — the documented edge case
// where a long-sleeping process can dominate the ready set until its
// vruntime catches up.
func (t *Table) Kill(pid int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.findLocked(pid)
	if i < 0 {
		return ErrNotFound
	}
	t.procs[i].Killed = true
	if t.procs[i].State == Sleeping {
		t.procs[i].State = Runnable
	}
	return nil
}

// GetNice returns pid's nice value, or ErrNotFound.
func (t *Table) GetNice(pid int32) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.findLocked(pid)
	if i < 0 {
		return -1, ErrNotFound
	}
	return int(t.procs[i].Nice), nil
}

// SetNice validates nice is within [0,39] and writes it, or returns
// ErrInvalidNice / ErrNotFound.
func (t *Table) SetNice(pid int32, nice int) error {
	if !weight.Valid(nice) {
		return ErrInvalidNice
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.findLocked(pid)
	if i < 0 {
		return ErrNotFound
	}
	t.procs[i].Nice = uint8(nice)
	return nil
}

// TotalTicks returns the table-wide accumulated millitick counter ps
// reports as its header's tick field.
func (t *Table) TotalTicks() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalTicks
}

// Snapshot returns a locked copy of every non-UNUSED PCB, for callers
// (reporters, metrics exporters) that need a consistent view without
// reaching into Table internals.
func (t *Table) Snapshot() []PCB {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]PCB, 0, len(t.procs))
	for _, p := range t.procs {
		if p.State != Unused {
			out = append(out, p)
		}
	}
	return out
}
