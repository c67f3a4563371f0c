//go:build linux

package hostseed

import "sort"

// Proc is one seedable entry: a name and a kernel-range nice value, ready
// to be handed to a scheduler's process-creation call.
type Proc struct {
	Name string
	Nice uint8
}

// Seed samples up to limit live PIDs from /proc and returns their name and
// kernel nice value, sorted by PID for reproducible ordering. It skips PIDs
// that disappear between listing and reading (a race is expected — /proc is
// a live view of a changing system).
func Seed(limit int) ([]Proc, error) {
	pids, err := ListPIDs()
	if err != nil {
		return nil, err
	}
	if len(pids) == 0 {
		return nil, ErrNoPIDs
	}
	sort.Ints(pids)
	if limit > 0 && len(pids) > limit {
		pids = pids[:limit]
	}

	out := make([]Proc, 0, len(pids))
	for _, pid := range pids {
		s, err := ReadStat(pid)
		if err != nil {
			continue
		}
		out = append(out, Proc{Name: s.Comm, Nice: KernelNice(s.Nice)})
	}
	if len(out) == 0 {
		return nil, ErrNoStat
	}
	return out, nil
}
