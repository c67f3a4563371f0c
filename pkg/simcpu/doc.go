// Package simcpu drives a sched.Table with one or more virtual CPU loops,
// each repeatedly picking a process, running it for its timeslice (or less,
// if its remaining work is shorter), and accounting the result back to the
// table. It exists to make the scheduler's emergent fairness behavior
// observable end-to-end instead of only through single-call unit tests.
package simcpu
