package search

import "github.com/hailam/othello/internal/board"

// Score sentinels at the public API boundary (spec.md §9): load-bearing
// constants preserved exactly so book files and hash stores round-trip.
const (
	ConfirmedWin  = 30000
	UnwantedDraw  = ConfirmedWin - 1
	InfiniteWin   = 32000
	SearchAbort   = -27000
)

// Evaluation is the typed result spec.md §4.4/§7 describes: how a
// score was obtained (Kind), the score itself (Black-relative, spec.md
// §4.2's "higher = better for Black" convention, in pattern.DiscUnit
// units), the chosen move, and the principal variation.
type Evaluation struct {
	Kind  Kind
	Score int
	Move  board.Move
	PV    []board.Move
	Nodes uint64
}

// blackRelative converts a mover-relative score (positive good for
// side) into the Black-relative convention the public API returns.
func blackRelative(side board.Color, moverRelative int) int {
	if side == board.White {
		return -moverRelative
	}
	return moverRelative
}
