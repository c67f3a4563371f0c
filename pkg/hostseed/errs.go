package hostseed

import "errors"

var (
	// ErrNoStat indicates that /proc/<pid>/stat was empty or malformed.
	ErrNoStat = errors.New("hostseed: malformed or empty stat")

	// ErrShortStat indicates that /proc/<pid>/stat had fewer fields than expected.
	ErrShortStat = errors.New("hostseed: short stat")

	// ErrNoPIDs means /proc listed no PIDs to seed from.
	ErrNoPIDs = errors.New("hostseed: no pids")
)
