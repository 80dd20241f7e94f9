package search

import (
	"sort"

	"github.com/hailam/othello/internal/board"
)

// aspirationWindow is the initial half-width of the score window
// around the previous iteration's result (spec.md §4.4 "Aspiration
// around the previous iteration's score is used").
const aspirationWindow = 200

// Config bundles the depth/time parameters compute_move and
// extended_compute_move take (spec.md §4.4).
type Config struct {
	MidDepth    int
	ExactDepth  int
	WldDepth    int
	Selectivity int8
	TimeControl TimeControl
}

// ComputeMove chooses a move for side on b, following spec.md §4.4's
// order: forced-move/pass short-circuit, then iterative-deepening
// midgame search transitioning into an endgame solve once the empty
// count drops to cfg.WldDepth/cfg.ExactDepth. Book and Thor-oracle
// lookups are the caller's responsibility (internal/book,
// internal/thor) — ComputeMove is the pure-search fallback those
// layers call into once a position isn't found in either source.
func (s *Searcher) ComputeMove(b *board.Board, side board.Color, cfg Config) Evaluation {
	s.timer = NewTimer(cfg.TimeControl)

	legal := b.Generate(side)
	if legal.Len() == 1 && legal.Get(0) == board.PassMove {
		if !b.HasLegalMove(side.Other()) {
			return Evaluation{Kind: Exact, Move: board.PassMove, Score: blackRelative(side, evalTerminal(b, side))}
		}
		return Evaluation{Kind: Pass, Move: board.PassMove, Score: blackRelative(side, 0)}
	}
	if legal.Len() == 1 {
		return s.forcedMoveEvaluation(b, side, legal.Get(0))
	}

	return s.iterativeDeepen(b, side, cfg)
}

// forcedMoveEvaluation reports the lone legal move without running a
// tree search, labelling the result Forced (spec.md §8 S2). A plain
// static evaluation of the resulting position is still attached so
// callers have a usable score, distinguishing "no tree search" from
// "no information at all".
func (s *Searcher) forcedMoveEvaluation(b *board.Board, side board.Color, mv board.Move) Evaluation {
	score := 0
	if _, err := b.Apply(side, mv, true); err == nil {
		score = blackRelative(side, -s.eval.Evaluate(b, side.Other()))
		b.Undo(side, mv)
	}
	return Evaluation{Kind: Forced, Move: mv, Score: score}
}

func (s *Searcher) iterativeDeepen(b *board.Board, side board.Color, cfg Config) Evaluation {
	stage := b.Count(board.Empty)

	targetDepth := cfg.MidDepth
	selectivity := cfg.Selectivity
	solving := false
	if stage <= cfg.ExactDepth || stage <= cfg.WldDepth {
		targetDepth = stage
		selectivity = 0
		solving = true
	}
	if targetDepth > stage {
		targetDepth = stage
	}

	var best Evaluation
	score := 0
	depth := 2
	if depth > targetDepth {
		depth = targetDepth
	}

	for {
		result := s.searchWithAspiration(b, side, depth, score, selectivity)
		if result == SearchAbort {
			break
		}
		score = result

		pv := s.PV()
		mv := board.Move(board.NoMove)
		if len(pv) > 0 {
			mv = pv[0]
		}

		kind := Midgame
		if solving && depth >= stage {
			if stage <= cfg.ExactDepth {
				kind = Exact
			} else {
				kind = Wld
			}
		}

		best = Evaluation{Kind: kind, Score: blackRelative(side, score), Move: mv, PV: pv, Nodes: s.Nodes()}

		if depth >= targetDepth || s.timer.ShouldAbort() {
			break
		}
		depth += 2
	}

	if best.Move == board.NoMove {
		return s.onePlyFallback(b, side)
	}
	return best
}

// searchWithAspiration runs negascout at depth around a window
// centered on prevScore, widening and re-searching on a window miss
// (spec.md §4.4).
func (s *Searcher) searchWithAspiration(b *board.Board, side board.Color, depth, prevScore int, selectivity int8) int {
	window := aspirationWindow
	alpha, beta := prevScore-window, prevScore+window
	for {
		result := s.negascout(b, side, depth, 0, alpha, beta, selectivity)
		if result == SearchAbort {
			return SearchAbort
		}
		if result <= alpha && alpha > -infinity {
			alpha -= window * 2
			if alpha < -infinity {
				alpha = -infinity
			}
			continue
		}
		if result >= beta && beta < infinity {
			beta += window * 2
			if beta > infinity {
				beta = infinity
			}
			continue
		}
		return result
	}
}

// onePlyFallback is used when the search was interrupted before even
// depth-2 completed: a 1-ply lookup labelled Interrupted (spec.md §7
// "User-visible behavior").
func (s *Searcher) onePlyFallback(b *board.Board, side board.Color) Evaluation {
	legal := b.Generate(side)
	best := board.Move(board.NoMove)
	bestScore := -infinity
	for i := 0; i < legal.Len(); i++ {
		mv := legal.Get(i)
		if mv == board.PassMove {
			best = mv
			break
		}
		if _, err := b.Apply(side, mv, true); err != nil {
			continue
		}
		score := -s.eval.Evaluate(b, side.Other())
		b.Undo(side, mv)
		if score > bestScore {
			bestScore = score
			best = mv
		}
	}
	return Evaluation{Kind: Interrupted, Move: best, Score: blackRelative(side, bestScore)}
}

// MoveEvaluation pairs a legal move with its searched Evaluation, the
// element type of ExtendedComputeMove's result list.
type MoveEvaluation struct {
	Move       board.Move
	Evaluation Evaluation
}

// ExtendedComputeMove evaluates every legal move for side (spec.md
// §4.4 "extended_compute_move"). Each move gets one iterativeDeepen
// search under cfg, and the list is sorted by score once, after every
// move has been searched (best for side first). The (mid, exact, wld)
// depths of cfg are used as given; they are not raised between
// iterations and the list is not re-sorted between them. bookMoves,
// if non-nil, supplies
// pre-computed evaluations for moves the opening book already knows;
// those are not re-searched.
func (s *Searcher) ExtendedComputeMove(b *board.Board, side board.Color, cfg Config, bookMoves map[board.Move]Evaluation) []MoveEvaluation {
	legal := b.Generate(side)
	out := make([]MoveEvaluation, 0, legal.Len())

	for i := 0; i < legal.Len(); i++ {
		mv := legal.Get(i)
		if bookMoves != nil {
			if ev, ok := bookMoves[mv]; ok {
				out = append(out, MoveEvaluation{Move: mv, Evaluation: ev})
				continue
			}
		}
		if mv == board.PassMove {
			out = append(out, MoveEvaluation{Move: mv, Evaluation: Evaluation{Kind: Pass, Move: mv}})
			continue
		}

		if _, err := b.Apply(side, mv, true); err != nil {
			continue
		}
		reply := s.iterativeDeepen(b, side.Other(), cfg)
		b.Undo(side, mv)

		ev := Evaluation{
			Kind:  reply.Kind,
			Score: blackRelative(side, -blackRelative(side.Other(), reply.Score)),
			Move:  mv,
			Nodes: reply.Nodes,
		}
		out = append(out, MoveEvaluation{Move: mv, Evaluation: ev})
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Evaluation.Score, out[j].Evaluation.Score
		if side == board.White {
			return si < sj
		}
		return si > sj
	})
	return out
}
