//go:build linux

package hostseed

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	me := os.Getpid()
	assert.True(t, Exists(me), "current PID should exist")
	assert.False(t, Exists(999999), "very large PID should not exist")
}

func TestReadStat_Self(t *testing.T) {
	me := os.Getpid()
	s, err := ReadStat(me)
	require.NoError(t, err)
	assert.Equal(t, me, s.PID)
	assert.NotEmpty(t, s.Comm)
	assert.GreaterOrEqual(t, s.Utime, uint64(0))
	assert.GreaterOrEqual(t, s.Stime, uint64(0))
}

func TestReadStat_NoSuchPid(t *testing.T) {
	_, err := ReadStat(999999)
	require.Error(t, err)
}

func TestKernelNice(t *testing.T) {
	assert.Equal(t, uint8(20), KernelNice(0))
	assert.Equal(t, uint8(0), KernelNice(-20))
	assert.Equal(t, uint8(39), KernelNice(19))
	assert.Equal(t, uint8(0), KernelNice(-99), "clamps below range")
	assert.Equal(t, uint8(39), KernelNice(99), "clamps above range")
}

func TestListPIDs(t *testing.T) {
	pids, err := ListPIDs()
	require.NoError(t, err)
	assert.Contains(t, pids, os.Getpid())
}

func TestSeed(t *testing.T) {
	procs, err := Seed(5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(procs), 5)
	for _, p := range procs {
		assert.LessOrEqual(t, p.Nice, uint8(39))
	}
}
