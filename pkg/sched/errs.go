package sched

import "errors"

var (
	// ErrNotFound indicates no PCB with the given pid exists in the table.
	ErrNotFound = errors.New("sched: pid not found")

	// ErrInvalidNice indicates a nice value outside [weight.Min, weight.Max].
	ErrInvalidNice = errors.New("sched: nice out of range")

	// ErrNoSlot indicates the table has no UNUSED slot for a new process.
	ErrNoSlot = errors.New("sched: process table full")

	// ErrNoChildren indicates Wait was called by a process with no children.
	ErrNoChildren = errors.New("sched: no children")
)
