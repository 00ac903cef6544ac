package compiler

// Options gates the peephole and loop-shape rewrites Compile applies. The
// zero value is the most conservative configuration (every rewrite
// disabled); use DefaultOptions for the configuration the reference
// implementation ships with.
type Options struct {
	FuseAdjacent     bool // coalesce runs of identical primitives into one Instr
	FuseSetAdd       bool // fold a run of +/- into a preceding Set
	LoopSetZero      bool // [-] / [+] -> Set 0
	LoopCopyMultiply bool // [->+<]-shaped loops -> CMul/CNMul + Set 0
	LoopSeekLR       bool // [<] / [>] -> SeekL / SeekR
	LoopSetJump      bool // dead-loop elision / unconditional back-edge
}

// DefaultOptions matches the option set spec.md documents as the reference
// configuration: every rewrite enabled except LoopSeekLR.
func DefaultOptions() Options {
	return Options{
		FuseAdjacent:     true,
		FuseSetAdd:       true,
		LoopSetZero:      true,
		LoopCopyMultiply: true,
		LoopSeekLR:       false,
		LoopSetJump:      true,
	}
}
