package main

import (
	"bufio"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hailam/othello/internal/board"
	"github.com/hailam/othello/internal/driver"
	"github.com/hailam/othello/internal/gamefile"
	"github.com/hailam/othello/internal/search"
)

// runOptions bundles the per-run settings game.go's modes share,
// threaded explicitly rather than read from globals (SPEC_FULL.md §1
// "Concurrency primitives retained but demoted": a single cooperative
// run, no package-level mutable state).
type runOptions struct {
	cfg    driver.Config
	timing timeSpec

	statusOutput bool
	pvDisplay    bool
	waitForKey   bool
	wld          bool
	line         bool

	randMoveFreq int
	komi         int

	learn       learnSpec
	privateGame bool

	rng *rand.Rand
}

// gameResult is what one played game hands back to the caller for
// book learning and reporting.
type gameResult struct {
	moves              []board.Move
	blackDiscs, whiteDiscs int
}

// resolveOpening builds the forced opening move list from -seq and/or
// -seqfile (spec.md §6): -seq's packed string first, then any moves
// recorded in -seqfile appended after it.
func resolveOpening(seq, seqFile string) ([]board.Move, error) {
	var moves []board.Move
	if seq != "" {
		ms, err := gamefile.ParseMoveSequence(seq)
		if err != nil {
			return nil, fmt.Errorf("-seq: %w", err)
		}
		moves = append(moves, ms...)
	}
	if seqFile != "" {
		data, err := os.ReadFile(seqFile)
		if err != nil {
			return nil, fmt.Errorf("-seqfile: %w", err)
		}
		ms, err := gamefile.ParseMoveSequence(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("-seqfile: %w", err)
		}
		moves = append(moves, ms...)
	}
	return moves, nil
}

// timeControlFor builds the per-side search.TimeControl opts.timing
// describes, or an untimed control when -time was never given.
func timeControlFor(opts runOptions, side board.Color) search.TimeControl {
	if !opts.timing.set {
		return search.TimeControl{}
	}
	if side == board.Black {
		return search.TimeControl{Budget: opts.timing.blackTime, Increment: opts.timing.blackInc, UseTimer: true}
	}
	return search.TimeControl{Budget: opts.timing.whiteTime, Increment: opts.timing.whiteInc, UseTimer: true}
}

// runGame plays one game to completion: opening moves are replayed
// forced, then each side in turn either asks a human (MidDepth == 0,
// spec.md §6 "depth 0 = human input") or computes a move via the
// engine, with -randmove's chance of substituting a uniformly random
// legal move instead.
func runGame(eng *driver.Engine, opts runOptions, opening []board.Move) gameResult {
	eng.ResetGame()
	stdin := bufio.NewReader(os.Stdin)

	side := board.Black
	var played []board.Move
	for _, mv := range opening {
		if err := eng.ApplyMove(side, mv); err != nil {
			log.Printf("othello: opening move %v illegal at ply %d, stopping replay: %v", mv, len(played), err)
			break
		}
		played = append(played, mv)
		side = side.Other()
	}

	for {
		legal := eng.Board.Generate(side)
		if legal.Len() == 1 && legal.Get(0) == board.PassMove && !eng.Board.HasLegalMove(side.Other()) {
			break
		}

		sc := sideConfig(opts.cfg, side)
		var mv board.Move
		var ev search.Evaluation
		switch {
		case sc.MidDepth == 0:
			mv = readHumanMove(stdin, eng.Board, side)
		case opts.randMoveFreq > 0 && opts.rng.Intn(100) < opts.randMoveFreq:
			mv = legal.Get(opts.rng.Intn(legal.Len()))
			ev = search.Evaluation{Kind: search.Midgame, Move: mv}
		default:
			mv, ev = eng.ComputeMove(side, opts.cfg, timeControlFor(opts, side))
		}

		if err := eng.ApplyMove(side, mv); err != nil {
			log.Printf("othello: illegal move %v for %s: %v", mv, side, err)
			break
		}
		played = append(played, mv)

		if opts.statusOutput {
			printStatus(eng, opts, side, mv, ev)
		}
		if opts.waitForKey {
			fmt.Fprint(os.Stderr, "-- press Enter for next move --")
			stdin.ReadString('\n')
		}

		side = side.Other()
		if !eng.Board.HasLegalMove(board.Black) && !eng.Board.HasLegalMove(board.White) {
			break
		}
	}

	res := gameResult{
		moves:      played,
		blackDiscs: eng.Board.Count(board.Black),
		whiteDiscs: eng.Board.Count(board.White),
	}
	printResult(res, opts.komi)
	return res
}

// sideConfig picks cfg's per-color depths; driver.Config keeps its own
// accessor unexported since only internal/driver's ComputeMove needs
// it internally, so the CLI's human-input check (MidDepth == 0) reads
// the exported fields directly instead.
func sideConfig(cfg driver.Config, side board.Color) driver.SideConfig {
	if side == board.White {
		return cfg.White
	}
	return cfg.Black
}

func readHumanMove(in *bufio.Reader, b *board.Board, side board.Color) board.Move {
	legal := b.Generate(side)
	if legal.Len() == 1 && legal.Get(0) == board.PassMove {
		fmt.Printf("%s has no legal move; passing.\n", side)
		return board.PassMove
	}
	for {
		fmt.Printf("%s to move (e.g. d3, or PASS): ", side)
		line, err := in.ReadString('\n')
		if err != nil {
			return board.PassMove
		}
		mv, err := gamefile.ParseMoveNotation(strings.TrimSpace(line))
		if err != nil || !legal.Contains(mv) {
			fmt.Println("illegal move, try again")
			continue
		}
		return mv
	}
}

func printStatus(eng *driver.Engine, opts runOptions, side board.Color, mv board.Move, ev search.Evaluation) {
	score := fmt.Sprintf("%d", ev.Score)
	if opts.wld {
		score = wldLabel(ev.Score)
	}
	fmt.Printf("%s plays %s  [%s score=%s nodes=%s hashfull=%d/1000]\n",
		side, gamefile.FormatMoveNotation(mv), ev.Kind, score,
		humanize.Comma(int64(ev.Nodes)), eng.TT.HashFull())
	if opts.pvDisplay && opts.line && len(ev.PV) > 0 {
		var sb strings.Builder
		for _, m := range ev.PV {
			sb.WriteString(gamefile.FormatMoveNotation(m))
		}
		fmt.Printf("  pv: %s\n", sb.String())
	}
}

func wldLabel(blackRelativeScore int) string {
	switch {
	case blackRelativeScore > 0:
		return "Black wins"
	case blackRelativeScore < 0:
		return "White wins"
	default:
		return "Draw"
	}
}

func printResult(res gameResult, komi int) {
	black := res.blackDiscs + komi
	white := res.whiteDiscs
	var verdict string
	switch {
	case black > white:
		verdict = "Black wins"
	case white > black:
		verdict = "White wins"
	default:
		verdict = "Draw"
	}
	fmt.Printf("final: Black %d - White %d (%s)\n", res.blackDiscs, res.whiteDiscs, verdict)
}

// runAnalyze prints every legal move's evaluation for the position
// reached after replaying opening, then exits (spec.md §4.4
// "extended_compute_move").
func runAnalyze(eng *driver.Engine, opts runOptions, opening []board.Move) {
	eng.ResetGame()
	side := board.Black
	for _, mv := range opening {
		if err := eng.ApplyMove(side, mv); err != nil {
			log.Fatalf("othello: -analyze: opening move %v illegal: %v", mv, err)
		}
		side = side.Other()
	}

	results := eng.ExtendedComputeMove(side, opts.cfg, timeControlFor(opts, side))
	for _, r := range results {
		fmt.Printf("%s  %s  score=%d nodes=%s\n",
			gamefile.FormatMoveNotation(r.Move), r.Evaluation.Kind,
			r.Evaluation.Score, humanize.Comma(int64(r.Evaluation.Nodes)))
	}
}

// runScript batches a simple line-oriented format: each line of in is
// a position dump (spec.md §6 "Position dump"), and the corresponding
// output line is the position, the chosen move, and its score. This
// generalizes spec.md §4.5's correct_tree "script mode" (external
// solving) to the CLI's standalone -script flag, whose exact file
// format spec.md leaves unspecified; see DESIGN.md for this Open
// Question resolution.
func runScript(eng *driver.Engine, opts runOptions, inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		b, side, err := gamefile.ParsePositionDump(line)
		if err != nil {
			return fmt.Errorf("parse position: %w", err)
		}
		*eng.Board = *b
		mv, ev := eng.ComputeMove(side, opts.cfg, timeControlFor(opts, side))
		fmt.Fprintf(out, "%s %s %d\n", line, gamefile.FormatMoveNotation(mv), ev.Score)
	}
	return scanner.Err()
}

// runSelfTest exercises the engine against the start position only
// (spec.md §8's S1 scenario: a legal move with a Midgame evaluation)
// and returns the process exit code. No terminal or other constructed
// position is checked; -test is a quick install sanity check, not a
// full test suite.
func runSelfTest(eng *driver.Engine) int {
	eng.ResetGame()
	cfg := driver.Config{Black: driver.SideConfig{MidDepth: 4}, White: driver.SideConfig{MidDepth: 4}}

	mv, ev := eng.ComputeMove(board.Black, cfg, search.TimeControl{})
	if !eng.Board.Generate(board.Black).Contains(mv) {
		fmt.Println("FAIL: opening move is not legal")
		return 1
	}
	if ev.Kind != search.Midgame {
		fmt.Printf("FAIL: expected Midgame evaluation, got %s\n", ev.Kind)
		return 1
	}
	fmt.Printf("PASS: opening move %s, score %d\n", gamefile.FormatMoveNotation(mv), ev.Score)
	return 0
}

// runTournament plays every ordered pair of distinct levels against
// each other once per side assignment (spec.md §6 "-t <k> <triples>":
// round-robin tournament of k levels), reporting each match's result.
func runTournament(eng *driver.Engine, opts runOptions, levels []driver.SideConfig) {
	for i, black := range levels {
		for j, white := range levels {
			if i == j {
				continue
			}
			cfg := opts.cfg
			cfg.Black, cfg.White = black, white
			matchOpts := opts
			matchOpts.cfg = cfg
			start := time.Now()
			res := runGame(eng, matchOpts, nil)
			fmt.Printf("level %d (Black) vs level %d (White): %d-%d (%s)\n",
				i, j, res.blackDiscs, res.whiteDiscs, time.Since(start).Round(time.Millisecond))
		}
	}
}
