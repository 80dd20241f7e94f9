package search

import (
	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/pattern"
)

// infinity bounds the alpha-beta window; kept distinct from the public
// InfiniteWin sentinel so internal arithmetic never overflows int16
// storage in the transposition table.
const infinity = 1 << 20

// selectivityBound maps a ProbCut selectivity level (0..5, 0 = exact
// no cutting) to a score margin (in pattern.DiscUnit units) used to
// decide whether a shallow reduced-depth probe is confident enough to
// stand in for a full-depth search. New code: the reference engine
// this module is modeled on has no analogous mechanism (chess engines
// use null-move pruning instead), so these are grounded directly on
// spec.md §4.4's description of selectivity-controlled ProbCut rather
// than on any teacher file.
var selectivityBound = [6]int{infinity, 233 * pattern.DiscUnit / 100, 175 * pattern.DiscUnit / 100,
	133 * pattern.DiscUnit / 100, 100 * pattern.DiscUnit / 100, 66 * pattern.DiscUnit / 100}

// probeDepthReduction is how many plies a ProbCut probe is shallower
// than the main search at each selectivity level.
const probeDepthReduction = 2

// Searcher performs negascout (PVS) search with transposition-table
// move ordering and ProbCut-style selective cutoffs (spec.md §4.4).
// Grounded on internal/engine/search.go's negamax/alpha-beta skeleton
// and PV-table shape, generalized to Othello's flat midgame/endgame
// split (no quiescence search — static evaluation doubles as the leaf
// in both phases) and to the self-organizing Orderer instead of
// MVV-LVA/killer-history move scoring.
type Searcher struct {
	tt      *Table
	orderer *Orderer
	eval    *pattern.Evaluator
	timer   *Timer

	nodes uint64

	pvLen [MaxPly]int
	pv    [MaxPly][MaxPly]board.Move
}

// NewSearcher builds a Searcher sharing tt and eval across searches;
// orderer carries the self-organizing candidate-square lists across
// calls by design (spec.md §4.4 "between iterations it is permuted").
func NewSearcher(tt *Table, orderer *Orderer, eval *pattern.Evaluator) *Searcher {
	return &Searcher{tt: tt, orderer: orderer, eval: eval}
}

// Nodes returns the number of nodes visited since the Searcher was
// created; the counter is not reset between searches.
func (s *Searcher) Nodes() uint64 { return s.nodes }

func (s *Searcher) updatePV(ply int, m board.Move) {
	s.pv[ply][ply] = m
	for i := ply + 1; i < s.pvLen[ply+1]; i++ {
		s.pv[ply][i] = s.pv[ply+1][i]
	}
	s.pvLen[ply] = s.pvLen[ply+1]
	if s.pvLen[ply] <= ply {
		s.pvLen[ply] = ply + 1
	}
}

// PV returns the principal variation found by the most recent search,
// rooted at ply 0.
func (s *Searcher) PV() []board.Move {
	out := make([]board.Move, s.pvLen[0])
	copy(out, s.pv[0][:s.pvLen[0]])
	return out
}

// evalTerminal returns the exact mover-relative score of a position
// where neither side can move (spec.md §8 S4: "Black ahead 40-24"
// scores +(40-24)*128 from Black's perspective; this returns the
// equivalent value relative to side).
func evalTerminal(b *board.Board, side board.Color) int {
	diff := b.Count(board.Black) - b.Count(board.White)
	return blackRelative(side, diff*pattern.DiscUnit)
}

// negascout searches to depth plies (mover-relative score, positive
// good for side), storing/consulting the transposition table and
// applying ProbCut-style selective cutoffs when selectivity > 0.
func (s *Searcher) negascout(b *board.Board, side board.Color, depth, ply int, alpha, beta int, selectivity int8) int {
	s.nodes++
	s.pvLen[ply] = ply

	if s.timer != nil && s.nodes&1023 == 0 && s.timer.ShouldAbort() {
		return SearchAbort
	}

	legal := b.Generate(side)
	if legal.Len() == 1 && legal.Get(0) == board.PassMove {
		if !b.HasLegalMove(side.Other()) {
			return evalTerminal(b, side)
		}
		if _, err := b.Apply(side, board.PassMove, true); err != nil {
			return evalTerminal(b, side)
		}
		score := -s.negascout(b, side.Other(), depth, ply+1, -beta, -alpha, selectivity)
		b.Undo(side, board.PassMove)
		if score != SearchAbort && score != -SearchAbort {
			s.pv[ply][ply] = board.PassMove
			s.pvLen[ply] = ply + 1
		}
		return score
	}

	if depth <= 0 {
		return s.eval.Evaluate(b, side)
	}

	hash := b.Hash()
	ttMove := board.NoMove
	if entry, ok := s.tt.Probe(hash, false); ok {
		ttMove = entry.BestMove
		if int(entry.Draft) >= depth {
			switch entry.Kind {
			case Exact, Wld, Forced:
				return int(entry.Score)
			}
		}
	}

	if selectivity > 0 && depth > probeDepthReduction+1 {
		if s.probCut(b, side, depth, ply, alpha, beta, selectivity) {
			s.tt.Store(hash, int16(clampScore(beta)), ttMove, Selective, depth, selectivity, false)
			return beta
		}
	}

	stage := b.Count(board.Empty)
	ordered := s.orderer.OrderMoves(stage, legal, ttMove)

	best := -infinity
	bestMove := board.NoMove
	a := alpha
	kind := Midgame
	if depth >= stage {
		kind = Wld
	}

	for i := 0; i < ordered.Len(); i++ {
		mv := ordered.Get(i)
		if _, err := b.Apply(side, mv, true); err != nil {
			continue
		}

		var score int
		if i == 0 {
			score = -s.negascout(b, side.Other(), depth-1, ply+1, -beta, -a, selectivity)
		} else {
			score = -s.negascout(b, side.Other(), depth-1, ply+1, -a-1, -a, selectivity)
			if score > a && score < beta {
				score = -s.negascout(b, side.Other(), depth-1, ply+1, -beta, -score, selectivity)
			}
		}
		b.Undo(side, mv)
		s.orderer.PromoteEmpty(stage, board.Square(mv))

		if score == SearchAbort || score == -SearchAbort {
			return SearchAbort
		}

		if score > best {
			best = score
			bestMove = mv
			s.updatePV(ply, mv)
		}
		if best > a {
			a = best
		}
		if a >= beta {
			break
		}
	}

	if bestMove == board.NoMove {
		return best
	}

	storeKind := kind
	if best <= alpha {
		storeKind = Selective
	}
	s.tt.Store(hash, int16(clampScore(best)), bestMove, storeKind, depth, selectivity, false)

	return best
}

// probCut runs a shallow, reduced-depth probe with a widened window to
// decide whether the full-depth search at this node is likely to fail
// high; returning true means the probe itself already cleared beta by
// margin, so the caller returns beta as a Selective-kind cutoff instead
// of continuing the full-width search.
func (s *Searcher) probCut(b *board.Board, side board.Color, depth, ply int, alpha, beta int, selectivity int8) bool {
	margin := selectivityBound[selectivity]
	probeDepth := depth - probeDepthReduction
	if probeDepth < 1 {
		return false
	}
	score := s.negascout(b, side, probeDepth, ply, beta+margin-1, beta+margin, 0)
	return score >= beta+margin
}

func clampScore(v int) int {
	if v > ConfirmedWin {
		return ConfirmedWin
	}
	if v < -ConfirmedWin {
		return -ConfirmedWin
	}
	return v
}
