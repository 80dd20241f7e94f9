// Command othello is the driver spec.md §6 describes: a flag-parsed
// entry point that plays games (human or engine on either side),
// manages the opening book, and offers analysis/scripting modes.
// Grounded on cmd/chessplay-uci/main.go's flag-based startup (the
// standard library flag package, auto-discovered asset files) and
// internal/uci/uci.go's bufio.Scanner-driven interaction loop,
// generalized from UCI's position/go/stop vocabulary to this CLI's
// flag surface and -seq/-seqfile/-w flow (SPEC_FULL.md §9).
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/hailam/othello/internal/book"
	"github.com/hailam/othello/internal/bookstore"
	"github.com/hailam/othello/internal/driver"
	"github.com/hailam/othello/internal/pattern"
)

// Default weight-file search locations, mirroring
// cmd/chessplay-uci/main.go's autoLoadNNUE search-path list.
const defaultWeightFile = "weights.gz"

func weightSearchPaths() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return []string{
		".",
		filepath.Join(home, ".othello"),
	}
}

func main() {
	log.SetFlags(0)

	fs := flag.NewFlagSet("othello", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var statusOutput, pvDisplay, randomizeSeed, waitForKey, useBook, wldToggle, lineToggle zeroOne
	fs.Var(&statusOutput, "e", "toggle status output: 0 or 1")
	hashBits := fs.Int("h", 20, "transposition table size = 2^n slots (n >= 1)")
	var depths depthSpec
	fs.Var(&depths, "l", `per-color search depths: "bd wd" or "bd be bw wd" or "bd be bw wd we ww" (depth 0 = human input)`)
	fs.Var(&pvDisplay, "p", "toggle principal-variation display: 0 or 1")
	fs.Var(&randomizeSeed, "r", "1 = seed PRNG from the clock, 0 = deterministic seed 1")
	var tournament tournamentSpec
	fs.Var(&tournament, "t", `round-robin tournament: "k d1 e1 w1 d2 e2 w2 ..." (k levels)`)
	var timing timeSpec
	fs.Var(&timing, "time", `game clock: "blackSecs blackIncr whiteSecs whiteIncr"`)
	fs.Var(&waitForKey, "w", "wait for a key between moves: 0 or 1")
	fs.Var(&useBook, "b", "use the opening book: 0 or 1")
	var learn learnSpec
	fs.Var(&learn, "learn", `book learning: "minEmpties solveCutoff"`)
	slack := fs.Int("slack", 0, "book candidate slack, in disc units, shared by both colors")
	var dev devSpec
	fs.Var(&dev, "dev", `deviation bonus: "lowThreshold highThreshold bonusPerDisc"`)
	logFile := fs.String("log", "", "write status/log output to this file instead of stderr")
	private := fs.Bool("private", false, "record played games as private book nodes")
	public := fs.Bool("public", false, "record played games as public book nodes (default)")
	keepDraw := fs.Bool("keepdraw", false, "report solved draws as a loss for whichever side reached them")
	draw2black := fs.Bool("draw2black", false, "report solved draws as a win for Black")
	draw2white := fs.Bool("draw2white", false, "report solved draws as a win for White")
	draw2none := fs.Bool("draw2none", false, "report solved draws as a true draw (default)")
	test := fs.Bool("test", false, "run the built-in self-check and exit")
	seq := fs.String("seq", "", "packed opening move sequence to play before normal play begins")
	seqFile := fs.String("seqfile", "", "file containing a packed opening move sequence")
	repeat := fs.Int("repeat", 1, "number of games to play in sequence")
	thorK := fs.Int("thor", 0, "consult the Thor oracle for up to k candidate moves (0 disables)")
	analyze := fs.Bool("analyze", false, "print every legal move's evaluation for the current position and exit")
	randMove := fs.Int("randmove", 0, "percent chance (0-100) of playing a uniformly random legal move instead of the engine's choice")
	fs.Var(&wldToggle, "wld", "display WLD labels instead of numeric scores: 0 or 1")
	fs.Var(&lineToggle, "line", "print the chosen move's principal variation as a line: 0 or 1")
	var script scriptSpec
	fs.Var(&script, "script", `batch mode: "inputFile outputFile"`)
	komi := fs.Int("komi", 0, "disc handicap added to Black's final count when judging the winner")

	fs.Usage = func() { printUsage(fs) }
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "othello: unrecognized arguments: %v\n", fs.Args())
		fs.Usage()
		os.Exit(1)
	}

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("othello: open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	seed := uint64(1)
	if bool(randomizeSeed) {
		seed = uint64(time.Now().UnixNano())
	}

	stages, err := loadWeights()
	if err != nil {
		log.Printf("othello: no weight file found, using a flat zero-weight evaluator: %v", err)
		stages = []pattern.Stage{pattern.ZeroStage(0), pattern.ZeroStage(60)}
	}

	eng, err := driver.New(*hashBits, stages, seed)
	if err != nil {
		log.Fatalf("othello: build engine: %v", err)
	}

	if bool(useBook) {
		dir, err := bookstore.BookDir()
		if err != nil {
			log.Printf("othello: book directory unavailable: %v", err)
		} else if ok, err := eng.LoadBook(dir); err != nil {
			log.Printf("othello: load book: %v", err)
		} else if ok {
			log.Printf("othello: loaded opening book from %s (%d nodes)", dir, eng.Book.Size())
		}
	}

	configureBook(eng.Book, bookSettings{
		private:    *private,
		public:     *public,
		keepDraw:   *keepDraw,
		draw2black: *draw2black,
		draw2white: *draw2white,
		draw2none:  *draw2none,
		slack:      *slack,
		dev:        dev,
	})

	cfg := driver.Config{
		Black:           depths.black,
		White:           depths.white,
		UseBook:         bool(useBook),
		UseThor:         *thorK > 0,
		UpdateBookSlack: true,
	}
	if *thorK > 0 && !eng.Oracle.Available() {
		log.Printf("othello: -thor %d requested but no Thor database is wired in; oracle lookups will be skipped", *thorK)
	}

	opts := runOptions{
		cfg:          cfg,
		timing:       timing,
		statusOutput: bool(statusOutput),
		pvDisplay:    bool(pvDisplay),
		waitForKey:   bool(waitForKey),
		wld:          bool(wldToggle),
		line:         bool(lineToggle),
		randMoveFreq: *randMove,
		komi:         *komi,
		learn:        learn,
		privateGame:  *private,
		rng:          rand.New(rand.NewSource(int64(seed))),
	}

	seqMoves, err := resolveOpening(*seq, *seqFile)
	if err != nil {
		log.Fatalf("othello: %v", err)
	}

	switch {
	case *test:
		os.Exit(runSelfTest(eng))
	case script.set:
		if err := runScript(eng, opts, script.in, script.out); err != nil {
			log.Fatalf("othello: script mode: %v", err)
		}
	case *analyze:
		runAnalyze(eng, opts, seqMoves)
	case tournament.set:
		runTournament(eng, opts, tournament.levels)
	default:
		for i := 0; i < *repeat; i++ {
			if *repeat > 1 {
				log.Printf("othello: game %d/%d", i+1, *repeat)
			}
			result := runGame(eng, opts, seqMoves)
			if bool(useBook) {
				if err := eng.AddGame(result.moves, learn.minEmpties, learn.cutoff, learn.cutoff, opts.privateGame); err != nil {
					log.Printf("othello: add game to book: %v", err)
				}
			}
		}
		if bool(useBook) {
			saveBook(eng)
		}
	}
}

// loadWeights tries each of weightSearchPaths() for defaultWeightFile
// and returns the first one that parses, mirroring
// cmd/chessplay-uci/main.go's autoLoadNNUE multi-location probe.
func loadWeights() ([]pattern.Stage, error) {
	var lastErr error
	for _, dir := range weightSearchPaths() {
		path := filepath.Join(dir, defaultWeightFile)
		f, err := os.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		stages, err := pattern.ReadWeights(f)
		f.Close()
		if err != nil {
			lastErr = err
			continue
		}
		log.Printf("othello: loaded weights from %s", path)
		return stages, nil
	}
	if lastErr == nil {
		lastErr = os.ErrNotExist
	}
	return nil, lastErr
}

type bookSettings struct {
	private, public                             bool
	keepDraw, draw2black, draw2white, draw2none bool
	slack                                        int
	dev                                          devSpec
}

// configureBook applies the CLI's book-related flags to bk's
// draw-adjustment and slack/deviation parameters (spec.md §4.5
// "Draw/game modes", "Deviation bonus"). GameMode and the per-game
// Private flag are two related but distinct concerns spec.md keeps
// orthogonal; this CLI drives both from the same -private/-public
// toggle, documented as an Open Question resolution in DESIGN.md.
func configureBook(bk *book.Book, s bookSettings) {
	// -public is the default; -private overrides it when both are
	// given, so only the negative case needs a branch.
	bk.GameMode = book.GamePublic
	if s.private {
		bk.GameMode = book.GamePrivate
	}

	switch {
	case s.draw2black:
		bk.DrawMode = book.DrawBlackWins
	case s.draw2white:
		bk.DrawMode = book.DrawWhiteWins
	case s.keepDraw:
		bk.DrawMode = book.DrawOpponentWins
	default:
		bk.DrawMode = book.DrawNeutral
	}

	bk.SlackBlack = s.slack * pattern.DiscUnit
	bk.SlackWhite = s.slack * pattern.DiscUnit
	if s.dev.set {
		bk.Deviation = s.dev.bonus
	}
}

func saveBook(eng *driver.Engine) {
	dir, err := bookstore.BookDir()
	if err != nil {
		log.Printf("othello: book directory unavailable: %v", err)
		return
	}
	if err := eng.SaveBook(dir); err != nil {
		log.Printf("othello: save book: %v", err)
		return
	}
	log.Printf("othello: saved opening book to %s (%d nodes)", dir, eng.Book.Size())
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: othello [flags]")
	fs.PrintDefaults()
}
