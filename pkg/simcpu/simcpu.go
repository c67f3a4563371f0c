package simcpu

import (
	"context"
	"sync"
	"time"

	"github.com/cfssim/cfssim/pkg/sched"
)

// ProcessSpec describes one simulated process: its scheduling nice value and
// the total amount of CPU time (in milliticks) it needs before it exits.
type ProcessSpec struct {
	Name      string
	Nice      uint8
	TotalWork uint32
}

// Simulation owns a process table and the bookkeeping simcpu needs on top of
// it: how much work each spawned process has left. The table itself remains
// the only source of truth for scheduling state; Simulation only decides
// when a running process should yield versus exit.
type Simulation struct {
	Table *sched.Table

	mu        sync.Mutex
	seedPID   int32
	remaining map[int32]uint32
	onTick    func(pid int32, delta uint32)
}

// NewSimulation wraps an existing table. Callers that also want metrics or
// a live dashboard should use OnTick to observe every accounted tick.
func NewSimulation(table *sched.Table) *Simulation {
	return &Simulation{
		Table:     table,
		remaining: make(map[int32]uint32),
	}
}

// OnTick registers a callback invoked synchronously once per CPU-loop step
// with the milliticks that step is about to account to a process, before
// the table accounts them and changes the process's state. It is
// called with the simulation's internal lock held, so it must not call back
// into Spawn or Run.
func (s *Simulation) OnTick(fn func(pid int32, delta uint32)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onTick = fn
}

// Spawn adds a process to the simulation. The first call seeds the table via
// UserInit; every subsequent call forks from that seed process, so all
// simulated processes are siblings under a common root, then overrides the
// forked nice value with the one requested.
func (s *Simulation) Spawn(spec ProcessSpec) (int32, error) {
	s.mu.Lock()
	seed := s.seedPID
	s.mu.Unlock()

	var (
		pid int32
		err error
	)
	if seed == 0 {
		pid, err = s.Table.UserInit(spec.Name)
	} else {
		pid, err = s.Table.Fork(seed, spec.Name)
	}
	if err != nil {
		return 0, err
	}
	if err := s.Table.SetNice(pid, int(spec.Nice)); err != nil {
		return 0, err
	}

	s.mu.Lock()
	if s.seedPID == 0 {
		s.seedPID = pid
	}
	s.remaining[pid] = spec.TotalWork
	s.mu.Unlock()

	return pid, nil
}

// Remaining reports how many milliticks of work pid has left.
func (s *Simulation) Remaining(pid int32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining[pid]
}

// Run starts n virtual CPU loops and blocks until ctx is canceled or every
// spawned process has exited, whichever comes first.
func (s *Simulation) Run(ctx context.Context, n int) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			s.cpuLoop(ctx)
		}()
	}

	go func() {
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
			if s.allDone() {
				return
			}
		}
	}()

	wg.Wait()
}

func (s *Simulation) allDone() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, left := range s.remaining {
		if left > 0 {
			return false
		}
	}
	return len(s.remaining) > 0
}

// cpuLoop is one virtual CPU: repeatedly step, backing off briefly instead
// of spinning the host CPU when nothing is runnable.
func (s *Simulation) cpuLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !s.step() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}
}

// step picks the next process, runs it for its awarded timeslice (capped by
// remaining work), accounts the result, and transitions it to RUNNABLE or
// ZOMBIE. It returns false if nothing was runnable, in which case nothing
// happened.
func (s *Simulation) step() bool {
	pid, ts, ok := s.Table.Pick()
	if !ok {
		return false
	}

	s.mu.Lock()
	left := s.remaining[pid]
	run := ts
	if left < run {
		run = left
	}
	if s.onTick != nil {
		s.onTick(pid, run)
	}
	s.remaining[pid] = left - run
	done := s.remaining[pid] == 0
	s.mu.Unlock()

	if done {
		_ = s.Table.Exit(pid, run)
	} else {
		_ = s.Table.Yield(pid, run)
	}
	return true
}
