package machine

import (
	"fmt"
	"io"
	"strings"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"

	"github.com/mna/bfo/lang/compiler"
)

// Stats is an opcode execution-frequency counter, purely observational: it
// never influences Run's semantics. It is backed by the same swiss-table
// hash map the scripting-language machine this compiler is descended from
// uses for its own Map value, repurposed here for a hot-path counter keyed
// by the small, closed Op enumeration.
type Stats struct {
	counts *swiss.Map[compiler.Op, uint64]
}

func newStats() *Stats {
	return &Stats{counts: swiss.NewMap[compiler.Op, uint64](16)}
}

func (s *Stats) count(op compiler.Op) {
	n, _ := s.counts.Get(op)
	s.counts.Put(op, n+1)
}

// Counts returns a snapshot of the per-Op execution counts as a plain map.
func (s *Stats) Counts() map[compiler.Op]uint64 {
	out := make(map[compiler.Op]uint64, s.counts.Count())
	s.counts.Iter(func(op compiler.Op, n uint64) bool {
		out[op] = n
		return false
	})
	return out
}

// Format renders a deterministic, op-ordered frequency report. The
// underlying swiss.Map has no stable iteration order, so the counts are
// collected into a plain map first and sorted by Op value before printing.
func (s *Stats) Format() string {
	counts := s.Counts()
	ops := make([]compiler.Op, 0, len(counts))
	for op := range counts {
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b compiler.Op) int { return int(a) - int(b) })

	var b strings.Builder
	for _, op := range ops {
		fmt.Fprintf(&b, "%-8s %d\n", op, counts[op])
	}
	return b.String()
}

// RunWithStats behaves like Run but also returns an opcode execution-
// frequency report.
func RunWithStats(ins compiler.Instructions, stdin io.Reader, stdout io.Writer) (*Stats, error) {
	stats := newStats()
	_, err := run(ins, stdin, stdout, stats)
	return stats, err
}
