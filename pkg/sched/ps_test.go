package sched

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cfssim/cfssim/pkg/weight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPs_HeaderReportsTotalTicksInMilliticks(t *testing.T) {
	tbl := NewTable(4)
	pid, err := tbl.UserInit("p")
	require.NoError(t, err)
	_, _, ok := tbl.Pick()
	require.True(t, ok)
	require.NoError(t, tbl.Yield(pid, 7))

	out := tbl.Ps(0)
	header := strings.SplitN(out, "\n", 2)[0]
	assert.True(t, strings.HasSuffix(header, "tick 7000"), "header %q should end with tick 7000", header)
}

func TestPs_ZeroPidListsEveryProcess(t *testing.T) {
	tbl := NewTable(4)
	a, err := tbl.UserInit("a")
	require.NoError(t, err)
	_, err = tbl.Fork(a, "b")
	require.NoError(t, err)

	out := tbl.Ps(0)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per process")
	assert.True(t, strings.HasPrefix(lines[1], "a"))
	assert.True(t, strings.HasPrefix(lines[2], "b"))
}

func TestPs_PositivePidFiltersToOneRow(t *testing.T) {
	tbl := NewTable(4)
	a, err := tbl.UserInit("a")
	require.NoError(t, err)
	_, err = tbl.Fork(a, "b")
	require.NoError(t, err)

	out := tbl.Ps(a)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2, "header plus exactly the matching row")
	assert.True(t, strings.HasPrefix(lines[1], "a"))
}

func TestPs_UnknownPidYieldsOnlyHeader(t *testing.T) {
	tbl := NewTable(4)
	_, err := tbl.UserInit("a")
	require.NoError(t, err)

	out := tbl.Ps(999)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 1, "a pid with no matching process should print nothing beyond the header")
}

func TestPs_RuntimeWeightColumnIsRuntimeDividedByWeight(t *testing.T) {
	tbl := NewTable(4)
	pid, err := tbl.UserInit("p")
	require.NoError(t, err)
	require.NoError(t, tbl.SetNice(pid, 0))
	_, _, ok := tbl.Pick()
	require.True(t, ok)
	require.NoError(t, tbl.Yield(pid, 5000))

	out := tbl.Ps(pid)
	row := strings.Split(strings.TrimRight(out, "\n"), "\n")[1]

	want := uint32(5000) / weight.Weight(0)
	wantField := padded(fmt.Sprintf("%d", want), colRTWeight)
	assert.Contains(t, row, wantField, "row %q should contain runtime/weight field %q (runtime divided by weight, not multiplied)", row, wantField)
}
