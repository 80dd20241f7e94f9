package pattern

import "math"

// DiscUnit is the evaluator's fixed-point scale: one disc of advantage
// is worth DiscUnit evaluation units (spec.md §4.2 "units: 1/128 of a
// disc").
const DiscUnit = 128

// MidgameWin is the sentinel added to the degenerate "one side has no
// discs" evaluation (spec.md §4.2 "Degenerate positions"), grounded on
// the reference engine's MIDGAME_WIN constant (original_source
// getcoeff.c/eval.c).
const MidgameWin = 10000

// generateTerminalTable builds the terminal-phase (stage 60) "disc
// count" table for shape s: entry v decodes to a disc placement, and
// each cell's contribution is ±DiscUnit apportioned by how many other
// pattern instances also cover that physical square, so summing every
// shape's terminal contribution across the whole pattern set yields
// the disc differential up to rounding, since each table entry is
// rounded to an integer (spec.md §4.2, §9 "pattern_evaluation").
func generateTerminalTable(s Shape) []int16 {
	rep := shapeCellRepetition(s)
	table := make([]int16, s.Table)
	digits := make([]int, s.CellCount)
	for v := 0; v < s.Table; v++ {
		rem := v
		for i := s.CellCount - 1; i >= 0; i-- {
			digits[i] = rem % 3
			rem /= 3
		}
		sum := 0.0
		for i, d := range digits {
			switch d {
			case 0: // black
				sum += float64(DiscUnit) / float64(rep[i])
			case 2: // white
				sum -= float64(DiscUnit) / float64(rep[i])
			}
		}
		table[v] = int16(math.Round(sum))
	}
	return table
}
