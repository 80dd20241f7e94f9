// Package driver implements compute_move/extended_compute_move (spec.md
// §4.4, §4.6): the orchestration layer that tries, in order, a forced
// move or pass, an external Thor-oracle lookup, an opening-book lookup,
// and finally the iterative-deepening searcher with its midgame ->
// endgame transition. It bundles the board, transposition table, move
// orderer, pattern evaluator, searcher, opening book and Thor oracle
// into one Engine value, per spec.md §9's guidance to thread what the
// original keeps as module-level globals through an explicit value
// instead. Grounded on cmd/chessplay-uci/main.go's engine-construction
// shape and internal/uci/uci.go's position/search orchestration, far
// simplified since this module has no protocol layer to serve.
package driver

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/book"
	"github.com/hailam/othello/internal/bookstore"
	"github.com/hailam/othello/internal/pattern"
	"github.com/hailam/othello/internal/search"
	"github.com/hailam/othello/internal/thor"
)

// SideConfig holds one color's per-move search depths (spec.md §6 "-l
// <bd> [<be> <bw>] <wd> [<we> <ww>]"): a midgame depth plus optional
// exact/WLD endgame thresholds. MidDepth == 0 means "human input" at
// the CLI boundary (spec.md §6); the driver itself never special-cases
// that value, since it's the caller's job to not call ComputeMove for
// a human-controlled side.
type SideConfig struct {
	MidDepth   int
	ExactDepth int
	WldDepth   int
}

// Config bundles the per-side search depths and the optional
// collaborators (book, Thor oracle) compute_move consults before
// falling back to search (spec.md §4.4, §4.6).
type Config struct {
	Black, White SideConfig

	UseBook     bool
	UseThor     bool
	Selectivity int8

	// UpdateBookSlack mirrors get_book_move's update_slack parameter
	// (spec.md §4.5): true during ordinary play, false when merely
	// previewing a book move (e.g. -analyze).
	UpdateBookSlack bool
}

func (c Config) sideConfig(side board.Color) SideConfig {
	if side == board.White {
		return c.White
	}
	return c.Black
}

func (sc SideConfig) searchConfig(selectivity int8, tc search.TimeControl) search.Config {
	return search.Config{
		MidDepth:    sc.MidDepth,
		ExactDepth:  sc.ExactDepth,
		WldDepth:    sc.WldDepth,
		Selectivity: selectivity,
		TimeControl: tc,
	}
}

// Engine is the module's top-level value: the board plus every
// subsystem compute_move coordinates. Exactly one Engine should drive
// one game at a time (the board's flip stack is not safe for
// concurrent play), matching spec.md §5's single-threaded cooperative
// model.
type Engine struct {
	Board *board.Board

	TT       *search.Table
	Orderer  *search.Orderer
	Eval     *pattern.Evaluator
	Searcher *search.Searcher
	Book     *book.Book
	Oracle   thor.Oracle

	rng  *rand.Rand
	seed uint64
}

// New builds an Engine with a fresh board, a 2^hashBits transposition
// table, a pattern evaluator built from stages, and an empty opening
// book seeded from seed (spec.md §5 "PRNG": reproducible given the
// same seed). Oracle defaults to thor.NoopOracle{} (spec.md §1: the
// Thor database is an external collaborator, not built here).
func New(hashBits int, stages []pattern.Stage, seed uint64) (*Engine, error) {
	eval, err := pattern.NewEvaluator(stages)
	if err != nil {
		return nil, fmt.Errorf("driver: build evaluator: %w", err)
	}
	tt := search.NewTable(hashBits)
	orderer := search.NewOrderer(board.SquarePriorityOrder())
	return &Engine{
		Board:    board.NewBoard(),
		TT:       tt,
		Orderer:  orderer,
		Eval:     eval,
		Searcher: search.NewSearcher(tt, orderer, eval),
		Book:     book.New(seed),
		Oracle:   thor.NoopOracle{},
		rng:      rand.New(rand.NewSource(int64(seed))),
		seed:     seed,
	}, nil
}

// ResetGame reinitializes the board to the starting position,
// clearing neither the transposition table nor the opening book
// (spec.md §3 "Lifecycle": game_init resets the board; the TT and book
// are independent, longer-lived resources).
func (e *Engine) ResetGame() {
	e.Board.Reset()
}

// ErrIllegalMove is returned by ApplyMove for a move that flips no
// discs and is not a legitimate pass (spec.md §7 "IllegalMove").
var ErrIllegalMove = board.ErrIllegalMove

// ApplyMove plays move for side on the engine's board, keeping the
// hash key incrementally maintained.
func (e *Engine) ApplyMove(side board.Color, move board.Move) error {
	_, err := e.Board.Apply(side, move, true)
	if err != nil {
		return fmt.Errorf("driver: %w", err)
	}
	return nil
}

// UndoMove reverses the most recent ApplyMove for side.
func (e *Engine) UndoMove(side board.Color, move board.Move) {
	e.Board.Undo(side, move)
}

// ComputeMove chooses a move for side on the engine's current board,
// following spec.md §4.4's order: forced-move/pass short-circuit
// (handled by Searcher.ComputeMove itself once reached), Thor-oracle
// lookup, opening-book lookup, then iterative-deepening search. tc
// controls the timed/untimed behavior of the search fallback.
func (e *Engine) ComputeMove(side board.Color, cfg Config, tc search.TimeControl) (board.Move, search.Evaluation) {
	legal := e.Board.Generate(side)
	if legal.Len() == 1 && legal.Get(0) == board.PassMove {
		if !e.Board.HasLegalMove(side.Other()) {
			diff := e.Board.Count(board.Black) - e.Board.Count(board.White)
			return board.PassMove, search.Evaluation{Kind: search.Exact, Move: board.PassMove, Score: diff * pattern.DiscUnit}
		}
		return board.PassMove, search.Evaluation{Kind: search.Pass, Move: board.PassMove}
	}
	if legal.Len() == 1 {
		mv := legal.Get(0)
		ev := e.Searcher.ComputeMove(e.Board, side, cfg.sideConfig(side).searchConfig(cfg.Selectivity, tc))
		return mv, ev
	}

	if cfg.UseThor && e.Oracle.Available() {
		if mv, ok := e.thorMove(side); ok {
			return mv, search.Evaluation{Kind: search.Midgame, Move: mv}
		}
	}

	if cfg.UseBook {
		if mv, ev, ok := e.Book.GetBookMove(e.Searcher, e.Board, side, cfg.UpdateBookSlack); ok {
			return mv, ev
		}
	}

	sc := cfg.sideConfig(side)
	ev := e.Searcher.ComputeMove(e.Board, side, sc.searchConfig(cfg.Selectivity, tc))
	return ev.Move, ev
}

// thorMove consults the Thor oracle for the current position and
// returns its most-played legal continuation, if any (spec.md §4.6
// "Thor opening lookup (external)"). Only legal, on-board candidates
// are accepted — an oracle is an untrusted external collaborator per
// spec.md §1.
func (e *Engine) thorMove(side board.Color) (board.Move, bool) {
	stats, ok := e.Oracle.Query(e.Board, side)
	if !ok {
		return board.NoMove, false
	}
	cand, ok := thor.BestCandidate(stats)
	if !ok {
		return board.NoMove, false
	}
	if !e.Board.Generate(side).Contains(cand.Move) {
		return board.NoMove, false
	}
	return cand.Move, true
}

// ExtendedComputeMove evaluates every legal move for side (spec.md
// §4.4 "extended_compute_move"), substituting already-known book moves
// instead of re-searching them when cfg.UseBook is set.
func (e *Engine) ExtendedComputeMove(side board.Color, cfg Config, tc search.TimeControl) []search.MoveEvaluation {
	var bookMoves map[board.Move]search.Evaluation
	if cfg.UseBook {
		bookMoves = e.collectBookMoves(side)
	}
	sc := cfg.sideConfig(side).searchConfig(cfg.Selectivity, tc)
	return e.Searcher.ExtendedComputeMove(e.Board, side, sc, bookMoves)
}

// collectBookMoves lists every legal move from the current position
// that leads to an existing book child, with that child's reported
// score, plus the node's own deviation move if present — the candidate
// set perform_extended_solve annotates with book data instead of a
// fresh search (spec.md §2 "perform_extended_solve compute all-moves
// annotations").
func (e *Engine) collectBookMoves(side board.Color) map[board.Move]search.Evaluation {
	idx, orientation, ok := e.Book.Lookup(e.Board)
	if !ok {
		return nil
	}
	node := e.Book.Node(idx)
	out := make(map[board.Move]search.Evaluation)

	legal := e.Board.Generate(side)
	for i := 0; i < legal.Len(); i++ {
		mv := legal.Get(i)
		if mv == board.PassMove {
			continue
		}
		if _, err := e.Board.Apply(side, mv, true); err != nil {
			continue
		}
		if childIdx, _, childOK := e.Book.Lookup(e.Board); childOK {
			child := e.Book.Node(childIdx)
			kind := search.Midgame
			if child.Flags&book.FullSolved != 0 {
				kind = search.Exact
			} else if child.Flags&book.WldSolved != 0 {
				kind = search.Wld
			}
			score := child.ScoreBlack
			if side == board.White {
				score = -score
			}
			out[mv] = search.Evaluation{Kind: kind, Move: mv, Score: score}
		}
		e.Board.Undo(side, mv)
	}
	if node.BestAlternativeMove != board.NoMove {
		mv := board.InverseMapMove(orientation, node.BestAlternativeMove)
		if !legal.Contains(mv) {
			return out
		}
		score := node.AlternativeScore
		if side != e.bookSide(idx) {
			score = -score
		}
		if _, exists := out[mv]; !exists {
			out[mv] = search.Evaluation{Kind: search.Midgame, Move: mv, Score: score}
		}
	}
	return out
}

func (e *Engine) bookSide(idx int) board.Color {
	n := e.Book.Node(idx)
	if n.Flags&book.BlackToMove != 0 {
		return board.Black
	}
	return board.White
}

// AddGame records a played game into the opening book (spec.md §4.5
// "add_new_game"), using the engine's own searcher for any solves or
// deviation searches it needs along the way.
func (e *Engine) AddGame(moveList []board.Move, minEmpties, fullSolveCutoff, wldSolveCutoff int, private bool) error {
	return e.Book.AddNewGame(e.Searcher, moveList, minEmpties, fullSolveCutoff, wldSolveCutoff, private)
}

// SaveBook persists the engine's opening book to dir (spec.md §6
// "Persisted state: only the book file is written ... under normal
// play (learning mode)").
func (e *Engine) SaveBook(dir string) error {
	store, err := bookstore.Open(dir)
	if err != nil {
		return fmt.Errorf("driver: open book store: %w", err)
	}
	defer store.Close()
	if err := store.Save(e.Book, e.seed); err != nil {
		return fmt.Errorf("driver: save book: %w", err)
	}
	return nil
}

// LoadBook replaces the engine's opening book with the one persisted
// at dir, if any. ok reports whether a book was actually found there.
func (e *Engine) LoadBook(dir string) (ok bool, err error) {
	bk, found, err := bookstore.Load(dir)
	if err != nil {
		return false, fmt.Errorf("driver: load book: %w", err)
	}
	if found {
		e.Book = bk
	}
	return found, nil
}

// errNotInBook mirrors spec.md §7's NotInBook: "ordinary control flow,
// not an error" — exposed so callers (e.g. the CLI's -analyze mode)
// can report it distinctly from a real failure without importing
// internal/book directly.
var errNotInBook = errors.New("driver: position not in book")

// BookEvaluation reports the current position's book status, or
// errNotInBook if the position has never been visited.
func (e *Engine) BookEvaluation(side board.Color) (search.Evaluation, error) {
	idx, _, ok := e.Book.Lookup(e.Board)
	if !ok {
		return search.Evaluation{}, errNotInBook
	}
	node := e.Book.Node(idx)
	score := node.ScoreBlack
	if side == board.White {
		score = -score
	}
	kind := search.Midgame
	if node.Flags&book.FullSolved != 0 {
		kind = search.Exact
	} else if node.Flags&book.WldSolved != 0 {
		kind = search.Wld
	}
	return search.Evaluation{Kind: kind, Score: score}, nil
}
