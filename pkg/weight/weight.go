// Package weight holds the CFS nice-to-weight table and the virtual-time
// scaling derived from it.
package weight

// table maps nice value (0..39) to scheduling weight. Nice 20 is the
// neutral reference (weight 1024); lower nice means higher weight means a
// larger CPU share. Values match Linux's kernel/sched/core.c weight table.
var table = [40]uint32{
	/*  0*/ 88761, 71755, 56483, 46273, 36291,
	/*  5*/ 29154, 23254, 18705, 14949, 11916,
	/* 10*/ 9548, 7620, 6100, 4904, 3906,
	/* 15*/ 3121, 2501, 1991, 1586, 1277,
	/* 20*/ 1024, 820, 655, 526, 423,
	/* 25*/ 335, 272, 215, 172, 137,
	/* 30*/ 110, 87, 70, 56, 45,
	/* 35*/ 36, 29, 23, 18, 15,
}

// Neutral is the nice value whose weight is the reference point (1024) that
// all vruntime scaling is normalized against.
const Neutral uint8 = 20

// Min and Max are the inclusive bounds of a valid nice value.
const (
	Min uint8 = 0
	Max uint8 = 39
)

// Valid reports whether nice falls within [Min, Max].
func Valid(nice int) bool {
	return nice >= int(Min) && nice <= int(Max)
}

// Weight returns the scheduling weight for nice. nice must be in [0,39];
// callers that accept nice from outside the process (setnice) must validate
// with Valid first — Weight panics on an out-of-range value because at that
// point it indicates a bug in the caller, not bad user input.
func Weight(nice uint8) uint32 {
	if !Valid(int(nice)) {
		panic("weight: nice out of range")
	}
	return table[nice]
}

// Scale converts delta milliticks of actual CPU time into virtual
// milliticks for a process at the given nice value:
//
//	vscale(delta, nice) = delta * weight(Neutral) / weight(nice)
//
// Division truncates. Scale(0, nice) is 0 for any valid nice.
func Scale(delta uint32, nice uint8) uint32 {
	if delta == 0 {
		return 0
	}
	return uint32((uint64(delta) * uint64(Weight(Neutral))) / uint64(Weight(nice)))
}
