//go:build linux

// Package hostseed reads real Linux process nice values and scheduling
// counters out of /proc so a simulated workload can be seeded from an
// actual running system instead of synthetic numbers.
package hostseed

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Exists reports whether a given PID currently exists in /proc.
func Exists(pid int) bool {
	_, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	return err == nil
}

// Sample holds the subset of /proc/<pid>/stat fields relevant to seeding
// a simulated scheduling entity: its current nice value and the CPU time
// (in clock ticks) it has accumulated in user + kernel mode.
type Sample struct {
	PID   int
	Comm  string
	Nice  int64
	Utime uint64
	Stime uint64
}

// ReadStat parses /proc/<pid>/stat and extracts comm, nice, utime and stime.
//
// Field order follows proc(5): comm (field 2) is parenthesized and may
// contain spaces, so everything up to the last ")" is treated as
// "pid (comm)" and only the remainder is split on whitespace. Relative to
// that remainder, nice is field 19 overall (index 16), utime is field 14
// (index 11), stime is field 15 (index 12).
func ReadStat(pid int) (Sample, error) {
	f, err := os.Open(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return Sample{}, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return Sample{}, ErrNoStat
	}
	line := sc.Text()

	open := strings.IndexByte(line, '(')
	close := strings.LastIndexByte(line, ')')
	if open < 0 || close < 0 || close < open {
		return Sample{}, ErrNoStat
	}
	comm := line[open+1 : close]

	fields := strings.Fields(line[close+2:])
	get := func(idx int) (int64, error) {
		if idx >= len(fields) {
			return 0, ErrShortStat
		}
		return strconv.ParseInt(fields[idx], 10, 64)
	}

	utime, err := get(11)
	if err != nil {
		return Sample{}, err
	}
	stime, err := get(12)
	if err != nil {
		return Sample{}, err
	}
	nice, err := get(16)
	if err != nil {
		return Sample{}, err
	}

	return Sample{
		PID:   pid,
		Comm:  comm,
		Nice:  nice,
		Utime: uint64(utime),
		Stime: uint64(stime),
	}, nil
}

// KernelNice converts the user-visible nice value /proc/<pid>/stat reports
// (-20..19, low is high priority) into the kernel-internal 0..39 range the
// scheduler's weight table is indexed by (nice 20 == user nice 0).
func KernelNice(userNice int64) uint8 {
	kn := userNice + 20
	switch {
	case kn < 0:
		return 0
	case kn > 39:
		return 39
	default:
		return uint8(kn)
	}
}

// ListPIDs returns every numeric entry directly under /proc, i.e. every
// PID currently visible to the caller.
func ListPIDs() ([]int, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		pids = append(pids, pid)
	}
	return pids, nil
}
