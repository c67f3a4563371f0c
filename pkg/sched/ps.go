package sched

import (
	"fmt"
	"strings"

	"github.com/cfssim/cfssim/pkg/weight"
)

// psHeader and the row layout below are byte-compatible with spec's console
// format: name(16), pid(11), state(14), priority(13), runtime/weight(17),
// runtime(13), vruntime(14, header label only — the row's vruntime field is
// unpadded since nothing follows it but the newline). The header's trailing
// field is "tick <total_ticks*1000>".
const (
	colName     = 16
	colPID      = 11
	colState    = 14
	colPriority = 13
	colRTWeight = 17
	colRuntime  = 13
	colVRuntime = 14
)

func padded(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Ps writes a header and, for pid == 0, one row per non-UNUSED process, or
// for pid > 0, the single matching process (nothing if it doesn't exist).
// It deliberately does not take the table lock: spec invariant 5 singles
// this operation out as tolerating an inconsistent snapshot, trading
// consistency for the ability to dump a wedged table.
func (t *Table) Ps(pid int32) string {
	var b strings.Builder

	b.WriteString(padded("name", colName))
	b.WriteString(padded("pid", colPID))
	b.WriteString(padded("state", colState))
	b.WriteString(padded("priority", colPriority))
	b.WriteString(padded("runtime/weight", colRTWeight))
	b.WriteString(padded("runtime", colRuntime))
	b.WriteString(padded("vruntime", colVRuntime))
	fmt.Fprintf(&b, "tick %d\n", t.totalTicks*1000)

	for i := range t.procs {
		p := &t.procs[i]
		if p.State == Unused {
			continue
		}
		if pid > 0 && p.PID != pid {
			continue
		}
		b.WriteString(psRow(p))
		if pid > 0 {
			break
		}
	}
	return b.String()
}

func psRow(p *PCB) string {
	var b strings.Builder
	b.WriteString(padded(p.Name, colName))
	b.WriteString(padded(fmt.Sprintf("%d", p.PID), colPID))
	b.WriteString(padded(p.State.String(), colState))
	b.WriteString(padded(fmt.Sprintf("%d", p.Nice), colPriority))
	rtWeight := p.Runtime / weight.Weight(p.Nice)
	b.WriteString(padded(fmt.Sprintf("%d", rtWeight), colRTWeight))
	b.WriteString(padded(fmt.Sprintf("%d", p.Runtime), colRuntime))
	fmt.Fprintf(&b, "%d\n", p.VRuntime)
	return b.String()
}
