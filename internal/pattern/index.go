package pattern

import "github.com/hailam/othello/internal/board"

// colorDigit maps a board color to the base-3 digit
// original_source/.../constant.h's BLACKSQ=0, EMPTY=1, WHITESQ=2 uses.
// Empty must be the self-complementing middle digit: evaluator.go's
// white-side indexing (idx = s.Table - 1 - v) relies on the digit
// complement 2-d being exactly a black<->white swap (spec.md §4.2,
// "indexed by max_v - v ... equivalently: swap color roles"), which
// only holds when empty maps to 1.
func colorDigit(c board.Color) int {
	switch c {
	case board.Black:
		return 0
	case board.White:
		return 2
	default:
		return 1
	}
}

// patternValue packs a pattern instance's cells into a single base-3
// integer, cell 0 contributing the most significant digit (the
// "pattern = 3*pattern + board[cell]" construction in
// original_source/getcoeff.c).
func patternValue(b *board.Board, cells []board.Square) int {
	v := 0
	for _, sq := range cells {
		v = 3*v + colorDigit(b.At(sq))
	}
	return v
}

// squareRepetition[sq] counts how many pattern instances (across every
// shape) include sq. Used to apportion the terminal-phase disc-count
// table so that summing every pattern's contribution yields the exact
// disc differential rather than a multiple of it (spec.md §4.2
// "Terminal phase").
var squareRepetition = func() [100]int {
	var rep [100]int
	for _, s := range Shapes {
		for _, inst := range s.Instances {
			for _, sq := range inst {
				rep[sq]++
			}
		}
	}
	return rep
}()

// shapeCellRepetition returns, for each cell position within a shape's
// canonical cell list, how many pattern instances touch the actual
// board square occupying that position — well defined because the
// board's dihedral symmetry makes every rotated instance of a shape
// touch squares with identical repetition counts at the same position.
func shapeCellRepetition(s Shape) []int {
	rep := make([]int, s.CellCount)
	for i, sq := range s.Instances[0] {
		rep[i] = squareRepetition[sq]
	}
	return rep
}
