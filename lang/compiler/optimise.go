package compiler

// optimiseLoop is invoked by Compile every time a ']' closes a loop. instrs
// is the full instruction stream built so far, already containing the just
// emitted JNZ at index here := len(instrs)-1, whose matching JZ sits at
// index start. It tries the rewrites below in fixed priority order and
// returns the first one that applies, along with true. If no rewrite
// applies it returns (nil, false) and the caller leaves instrs untouched.
//
// Order matters: set-zero subsumes a subset of the copy-multiply cases but
// produces a smaller result, and set-jump must run last because it is the
// only rewrite that looks outside the loop body.
func optimiseLoop(instrs Instructions, start int, opts Options) (Instructions, bool) {
	here := len(instrs) - 1 // index of the JNZ just emitted
	body := instrs[start+1 : here]

	if opts.LoopSetZero {
		if repl, ok := tryLoopSetZero(body); ok {
			return repl, true
		}
	}
	if opts.LoopCopyMultiply {
		if repl, ok := tryLoopCopyMultiply(body); ok {
			return repl, true
		}
	}
	if opts.LoopSeekLR {
		if repl, ok := tryLoopSeekLR(body); ok {
			return repl, true
		}
	}
	if opts.LoopSetJump {
		if repl, ok := tryLoopSetJump(instrs, start, here); ok {
			return repl, true
		}
	}
	return nil, false
}

// tryLoopSetZero implements rewrite 1: a loop body made up exclusively of
// Add/Sub instructions whose signed sum is nonzero always runs the cell down
// to zero, so the whole loop is equivalent to Set 0.
func tryLoopSetZero(body Instructions) (Instructions, bool) {
	sum := 0
	for _, in := range body {
		switch in.Op {
		case Add:
			sum += int(in.Arg)
		case Sub:
			sum -= int(in.Arg)
		default:
			return nil, false
		}
	}
	if sum == 0 {
		// Either an infinite loop (cell nonzero) or a no-op: do not rewrite.
		return nil, false
	}
	return Instructions{{Op: Set, Arg: 0}}, true
}

// cmulDelta is one accumulated contribution to a copy-multiply rewrite.
type cmulDelta struct {
	delta int
	off   int32
}

// tryLoopCopyMultiply implements rewrite 2: a loop of the form
// [-+ shape] that moves/scales the entry cell into one or more other cells
// and zeroes the entry cell.
func tryLoopCopyMultiply(body Instructions) (Instructions, bool) {
	if len(body) == 0 {
		return nil, false
	}

	var (
		off    int32
		fstDel int
		deltas []cmulDelta
	)
	for _, in := range body {
		switch in.Op {
		case Right:
			off += int32(in.Arg)
		case Left:
			// Syntactic guard: only accept a Left that stays within the
			// cells visited so far relative to the loop's entry cell.
			if int32(in.Arg) > off {
				return nil, false
			}
			off -= int32(in.Arg)
		case Add:
			if off == 0 {
				fstDel += int(in.Arg)
			} else {
				deltas = append(deltas, cmulDelta{delta: int(in.Arg), off: off})
			}
		case Sub:
			if off == 0 {
				fstDel -= int(in.Arg)
			} else {
				deltas = append(deltas, cmulDelta{delta: -int(in.Arg), off: off})
			}
		default:
			return nil, false
		}
	}
	if off != 0 || fstDel != -1 {
		return nil, false
	}

	repl := make(Instructions, 0, len(deltas)+1)
	for _, d := range deltas {
		if d.delta > 0 {
			repl = append(repl, Instr{Op: CMul, Arg: uint8(d.delta), Off: d.off})
		} else {
			repl = append(repl, Instr{Op: CNMul, Arg: uint8(-d.delta), Off: d.off})
		}
	}
	repl = append(repl, Instr{Op: Set, Arg: 0})
	return repl, true
}

// tryLoopSeekLR implements rewrite 3: a loop body of exactly one Left 1 or
// Right 1 instruction is a scan for the next/previous zero cell.
func tryLoopSeekLR(body Instructions) (Instructions, bool) {
	if len(body) != 1 {
		return nil, false
	}
	in := body[0]
	switch {
	case in.Op == Left && in.Arg == 1:
		return Instructions{{Op: SeekL}}, true
	case in.Op == Right && in.Arg == 1:
		return Instructions{{Op: SeekR}}, true
	}
	return nil, false
}

// tryLoopSetJump implements rewrite 4. Unlike the other three, it looks at
// the instructions surrounding the loop, not just its body.
func tryLoopSetJump(instrs Instructions, start, here int) (Instructions, bool) {
	if start > 0 {
		if prev := instrs[start-1]; prev.Op == Set && prev.Arg == 0 {
			// The loop can never run: the cell it tests is already zero.
			return Instructions{}, true
		}
	}

	if here-1 >= 0 {
		if last := instrs[here-1]; last.Op == Set {
			repl := make(Instructions, here-start)
			copy(repl, instrs[start:here])
			if last.Arg == 0 {
				// The JNZ would never be taken: drop it and make the
				// opener land one instruction earlier, since the
				// replacement is one instruction shorter than the
				// original start..here range (the removed JNZ is gone
				// and nothing replaces it).
				repl[0].Off--
			} else {
				// The JNZ would always be taken: make the back-edge
				// unconditional instead of dropping it.
				repl = append(repl, Instr{Op: J, Off: instrs[here].Off})
			}
			return repl, true
		}
	}
	return nil, false
}
