package pattern

import "github.com/hailam/othello/internal/board"

// Adjustments holds the optional post-hoc disc/edge/corner/X-square
// encouragements spec.md §4.2 mentions alongside the pattern sum, each
// in DiscUnit-scaled evaluation points per occurrence. Grounded on
// original_source/getcoeff.c's eval_adjustment (disc_adjust,
// edge_adjust, corner_adjust, x_adjust), reworked as a small
// table-driven pass over the four corners rather than the original's
// inlined per-corner branches.
type Adjustments struct {
	DiscWeight   int
	EdgeWeight   int
	CornerWeight int
	XSquareWeight int
}

// DefaultAdjustments are modest nudges on top of the pattern tables:
// the tables already capture most corner/edge structure, so these
// exist to break ties consistently rather than to dominate the score.
var DefaultAdjustments = Adjustments{
	DiscWeight:    1,
	EdgeWeight:    2,
	CornerWeight:  8,
	XSquareWeight: 6,
}

type cornerXPair struct {
	corner board.Square
	x      board.Square
}

// cornerXPairs lists each corner and its one diagonally adjacent
// X-square (a1/b2, h1/g2, a8/b7, h8/g7); occupying the X-square while
// the corner is still empty is the classic Othello liability.
var cornerXPairs = [4]cornerXPair{
	{board.NewSquare(1, 1), board.NewSquare(2, 2)},
	{board.NewSquare(1, 8), board.NewSquare(2, 7)},
	{board.NewSquare(8, 1), board.NewSquare(7, 2)},
	{board.NewSquare(8, 8), board.NewSquare(7, 7)},
}

var allCorners = [4]board.Square{
	board.NewSquare(1, 1), board.NewSquare(1, 8),
	board.NewSquare(8, 1), board.NewSquare(8, 8),
}

func isEdgeNonCorner(sq board.Square) bool {
	r, c := sq.Row(), sq.Col()
	onEdge := r == 1 || r == 8 || c == 1 || c == 8
	isCorner := (r == 1 || r == 8) && (c == 1 || c == 8)
	return onEdge && !isCorner
}

func signFor(c, side board.Color) int {
	switch {
	case c == side:
		return 1
	case c == side.Other():
		return -1
	default:
		return 0
	}
}

// apply computes the total post-hoc adjustment from side's
// perspective (positive favors side), matching the sign convention of
// Evaluator.Evaluate.
func (a Adjustments) apply(b *board.Board, side board.Color) int {
	total := 0

	total += a.DiscWeight * (b.Count(side) - b.Count(side.Other()))

	for _, corner := range allCorners {
		total += a.CornerWeight * signFor(b.At(corner), side)
	}

	for _, pair := range cornerXPairs {
		if b.At(pair.corner) != board.Empty {
			continue
		}
		total -= a.XSquareWeight * signFor(b.At(pair.x), side)
	}

	for r := 1; r <= 8; r++ {
		for c := 1; c <= 8; c++ {
			sq := board.NewSquare(r, c)
			if isEdgeNonCorner(sq) {
				total += a.EdgeWeight * signFor(b.At(sq), side)
			}
		}
	}

	return total
}
