// Package hostseed reads /proc on Linux to seed a simulated scheduler
// workload with nice values and names borrowed from real, currently running
// processes, instead of synthetic ones.
//
// Seed is the entry point most callers want; ReadStat and ListPIDs are
// exposed for callers that want to sample a specific PID set themselves.
package hostseed
