package simcpu

import (
	"testing"

	"github.com/cfssim/cfssim/pkg/sched"
	"github.com/cfssim/cfssim/pkg/weight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawn_FirstSeedsRestFork(t *testing.T) {
	sim := NewSimulation(sched.NewTable(8))

	a, err := sim.Spawn(ProcessSpec{Name: "a", Nice: 20, TotalWork: 1000})
	require.NoError(t, err)
	b, err := sim.Spawn(ProcessSpec{Name: "b", Nice: 10, TotalWork: 2000})
	require.NoError(t, err)

	assert.Equal(t, uint32(1000), sim.Remaining(a))
	assert.Equal(t, uint32(2000), sim.Remaining(b))

	byPID := map[int32]sched.PCB{}
	for _, p := range sim.Table.Snapshot() {
		byPID[p.PID] = p
	}
	assert.Equal(t, uint8(20), byPID[a].Nice)
	assert.Equal(t, uint8(10), byPID[b].Nice)
}

// TestStep_EqualNiceProcessesTrackEachOther exercises the fairness property
// the whole package exists to surface: two processes at the same nice value,
// stepped to completion one quantum at a time, never drift far apart in
// accounted runtime, because the picker always hands the next quantum to
// whichever one currently has the smaller vruntime.
func TestStep_EqualNiceProcessesTrackEachOther(t *testing.T) {
	sim := NewSimulation(sched.NewTable(8))
	a, err := sim.Spawn(ProcessSpec{Name: "a", Nice: 20, TotalWork: 100_000})
	require.NoError(t, err)
	b, err := sim.Spawn(ProcessSpec{Name: "b", Nice: 20, TotalWork: 100_000})
	require.NoError(t, err)

	maxGap := uint32(0)
	for i := 0; i < 10_000; i++ {
		if !sim.step() {
			break
		}
		byPID := map[int32]sched.PCB{}
		for _, p := range sim.Table.Snapshot() {
			byPID[p.PID] = p
		}
		pa, pb := byPID[a], byPID[b]
		if pa.State == sched.Zombie || pb.State == sched.Zombie {
			break
		}
		gap := pa.Runtime - pb.Runtime
		if pb.Runtime > pa.Runtime {
			gap = pb.Runtime - pa.Runtime
		}
		if gap > maxGap {
			maxGap = gap
		}
	}

	assert.LessOrEqual(t, maxGap, uint32(10_000), "equal-weight processes should never drift by more than one full quantum")
}

// TestStep_WeightProportionality checks that over a run where both
// processes remain continuously runnable, the ratio of accounted runtime
// between a heavy (nice 0) and light (nice 39) process converges toward the
// ratio of their CFS weights, since the picker always favors whichever has
// accrued the least virtual time and virtual time advances inversely with
// weight.
func TestStep_WeightProportionality(t *testing.T) {
	sim := NewSimulation(sched.NewTable(8))
	heavy, err := sim.Spawn(ProcessSpec{Name: "heavy", Nice: 0, TotalWork: 100_000_000})
	require.NoError(t, err)
	light, err := sim.Spawn(ProcessSpec{Name: "light", Nice: 39, TotalWork: 100_000_000})
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		if !sim.step() {
			break
		}
	}

	heavyRuntime := sim.Table.Snapshot()
	var hr, lr uint32
	for _, p := range heavyRuntime {
		switch p.PID {
		case heavy:
			hr = p.Runtime
		case light:
			lr = p.Runtime
		}
	}
	require.NotZero(t, lr, "light process must have made some progress")

	gotRatio := float64(hr) / float64(lr)
	wantRatio := float64(weight.Weight(0)) / float64(weight.Weight(39))

	// Loose tolerance: early steps before the ready set settles can skew
	// the ratio, and both runtimes are integer-truncated per step.
	assert.InEpsilon(t, wantRatio, gotRatio, 0.25)
}
