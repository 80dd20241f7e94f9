package search

import "github.com/hailam/othello/internal/board"

// MaxPly bounds the PV/search-stack depth (spec.md §3 "Search frame").
const MaxPly = 64

// Orderer is the per-stage self-organizing candidate-square list
// spec.md §4.4 describes: `sorted_move_order[stage][0..]`, permuted
// between iterations to bring still-empty squares to the front, with
// new stages inheriting an already-tuned same-parity stage's order
// when available. Grounded on internal/engine/ordering.go's
// PickMove/SortMoves selection-sort idiom, generalized from
// MVV-LVA/killer/history scoring (chess-specific) to Othello's
// position-only candidate-square ordering.
type Orderer struct {
	order     [61][]board.Square
	seeded    [61]bool
	hashFloat bool
}

// NewOrderer seeds every stage with the same corner-first square
// priority the move generator uses, so a brand new search still visits
// strong squares first before any self-organization has happened.
func NewOrderer(basePriority []board.Square) *Orderer {
	o := &Orderer{}
	base := make([]board.Square, len(basePriority))
	copy(base, basePriority)
	for s := range o.order {
		o.order[s] = append([]board.Square(nil), base...)
		o.seeded[s] = true
	}
	return o
}

// seedStageIfNeeded copies a same-parity earlier stage's order into an
// unseeded stage (spec.md §4.4 "inherits from earlier same-parity
// stages when available"). All stages start seeded by NewOrderer, so
// this only matters if a caller ever grows the table; kept for
// parity with the spec's described inheritance behavior.
func (o *Orderer) seedStageIfNeeded(stage int) {
	if o.seeded[stage] || stage < 2 {
		return
	}
	if o.seeded[stage-2] {
		o.order[stage] = append([]board.Square(nil), o.order[stage-2]...)
		o.seeded[stage] = true
	}
}

// PromoteEmpty moves sq toward the front of stage's candidate list,
// the "bring empties to the front" self-organization step. Called
// after a move at sq is undone (the square becomes empty again and is
// likely to be a relevant candidate again soon).
func (o *Orderer) PromoteEmpty(stage int, sq board.Square) {
	list := o.order[stage]
	for i, s := range list {
		if s == sq {
			if i > 0 {
				copy(list[1:i+1], list[0:i])
				list[0] = sq
			}
			return
		}
	}
}

// OrderMoves returns legal's moves (or a lone Pass) arranged by stage's
// candidate-square priority, with hashMove floated to the front if it
// is among the legal moves (spec.md §4.4 "hash-move ... floated to the
// front").
func (o *Orderer) OrderMoves(stage int, legal *board.MoveList, hashMove board.Move) *board.MoveList {
	o.seedStageIfNeeded(stage)
	out := board.NewMoveList()

	if legal.Len() == 1 && legal.Get(0) == board.PassMove {
		out.Add(board.PassMove)
		return out
	}

	if hashMove != board.NoMove && legal.Contains(hashMove) {
		out.Add(hashMove)
	}
	for _, sq := range o.order[stage] {
		m := board.Move(sq)
		if m == hashMove {
			continue
		}
		if legal.Contains(m) {
			out.Add(m)
		}
	}
	return out
}
