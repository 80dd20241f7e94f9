package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/othello/internal/book"
	"github.com/hailam/othello/internal/driver"
)

// zeroOne is a flag.Value for spec.md §6's "<0|1>" toggle flags.
// Deliberately has no IsBoolFlag method, so flag.Parse requires an
// explicit argument token ("-e 1", not bare "-e"), matching the
// spec's required-argument grammar instead of Go's usual boolean-flag
// shortcut.
type zeroOne bool

func (z *zeroOne) String() string {
	if z == nil || !bool(*z) {
		return "0"
	}
	return "1"
}

func (z *zeroOne) Set(s string) error {
	switch s {
	case "0":
		*z = false
	case "1":
		*z = true
	default:
		return fmt.Errorf("expected 0 or 1, got %q", s)
	}
	return nil
}

func splitInts(name, s string) ([]int, error) {
	fields := strings.Fields(s)
	nums := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("-%s: %q is not an integer: %w", name, f, err)
		}
		nums = append(nums, n)
	}
	return nums, nil
}

// depthSpec parses spec.md §6's "-l <bd> [<be> <bw>] <wd> [<we> <ww>]"
// as a single whitespace-separated token (quoted on the command line),
// since the stdlib flag package gives each flag exactly one argument
// string — see DESIGN.md's CLI section for this Open Question
// resolution. 2 numbers supply only the midgame depths; 4 numbers are
// black's full triple followed by white's midgame depth; 6 numbers are
// both colors' full triples.
type depthSpec struct {
	set          bool
	black, white driver.SideConfig
}

func (d *depthSpec) String() string { return "" }

func (d *depthSpec) Set(s string) error {
	nums, err := splitInts("l", s)
	if err != nil {
		return err
	}
	switch len(nums) {
	case 2:
		d.black = driver.SideConfig{MidDepth: nums[0]}
		d.white = driver.SideConfig{MidDepth: nums[1]}
	case 4:
		d.black = driver.SideConfig{MidDepth: nums[0], ExactDepth: nums[1], WldDepth: nums[2]}
		d.white = driver.SideConfig{MidDepth: nums[3]}
	case 6:
		d.black = driver.SideConfig{MidDepth: nums[0], ExactDepth: nums[1], WldDepth: nums[2]}
		d.white = driver.SideConfig{MidDepth: nums[3], ExactDepth: nums[4], WldDepth: nums[5]}
	default:
		return fmt.Errorf("-l: expected 2, 4 or 6 space-separated integers, got %d", len(nums))
	}
	d.set = true
	return nil
}

// timeSpec parses spec.md §6's "-time <bt> <bi> <wt> <wi>": per-color
// game-clock seconds and increment.
type timeSpec struct {
	set                                       bool
	blackTime, blackInc, whiteTime, whiteInc time.Duration
}

func (t *timeSpec) String() string { return "" }

func (t *timeSpec) Set(s string) error {
	nums, err := splitInts("time", s)
	if err != nil {
		return err
	}
	if len(nums) != 4 {
		return fmt.Errorf("-time: expected 4 integers (bt bi wt wi), got %d", len(nums))
	}
	t.blackTime = time.Duration(nums[0]) * time.Second
	t.blackInc = time.Duration(nums[1]) * time.Second
	t.whiteTime = time.Duration(nums[2]) * time.Second
	t.whiteInc = time.Duration(nums[3]) * time.Second
	t.set = true
	return nil
}

// learnSpec parses spec.md §6's "-learn <depth> <cutoff>": the minimum
// empty-square count add_new_game walks down to before stopping, and
// the endgame-solve cutoff it applies to both the full and WLD solve
// thresholds (spec.md §4.5 "add_new_game(... min_empties,
// full_solve_cutoff, wld_solve_cutoff ...)" collapsed to one shared
// cutoff value for this CLI flag).
type learnSpec struct {
	set                    bool
	minEmpties, cutoff int
}

func (l *learnSpec) String() string { return "" }

func (l *learnSpec) Set(s string) error {
	nums, err := splitInts("learn", s)
	if err != nil {
		return err
	}
	if len(nums) != 2 {
		return fmt.Errorf("-learn: expected 2 integers (depth cutoff), got %d", len(nums))
	}
	l.minEmpties, l.cutoff = nums[0], nums[1]
	l.set = true
	return nil
}

// devSpec parses spec.md §6's "-dev <low> <high> <bonus>" into a
// book.DeviationBonus (spec.md §4.5 "Deviation bonus").
type devSpec struct {
	set   bool
	bonus book.DeviationBonus
}

func (d *devSpec) String() string { return "" }

func (d *devSpec) Set(s string) error {
	nums, err := splitInts("dev", s)
	if err != nil {
		return err
	}
	if len(nums) != 3 {
		return fmt.Errorf("-dev: expected 3 integers (low high bonus), got %d", len(nums))
	}
	d.bonus = book.DeviationBonus{LowThreshold: nums[0], HighThreshold: nums[1], BonusPerDisc: nums[2]}
	d.set = true
	return nil
}

// tournamentSpec parses spec.md §6's "-t <k> <triples...>": a
// round-robin of k levels, each given as a depth/exact/wld triple.
type tournamentSpec struct {
	set    bool
	levels []driver.SideConfig
}

func (t *tournamentSpec) String() string { return "" }

func (t *tournamentSpec) Set(s string) error {
	nums, err := splitInts("t", s)
	if err != nil {
		return err
	}
	if len(nums) < 1 {
		return fmt.Errorf("-t: expected a level count k followed by k triples")
	}
	k := nums[0]
	rest := nums[1:]
	if len(rest) != 3*k {
		return fmt.Errorf("-t: expected %d levels x 3 values = %d integers after k, got %d", k, 3*k, len(rest))
	}
	t.levels = make([]driver.SideConfig, k)
	for i := 0; i < k; i++ {
		t.levels[i] = driver.SideConfig{
			MidDepth:   rest[3*i],
			ExactDepth: rest[3*i+1],
			WldDepth:   rest[3*i+2],
		}
	}
	t.set = true
	return nil
}

// scriptSpec parses spec.md §6's "-script <in> <out>" batch-mode paths.
type scriptSpec struct {
	set      bool
	in, out string
}

func (s *scriptSpec) String() string { return "" }

func (s *scriptSpec) Set(v string) error {
	fields := strings.Fields(v)
	if len(fields) != 2 {
		return fmt.Errorf("-script: expected 2 paths (input output), got %d", len(fields))
	}
	s.in, s.out = fields[0], fields[1]
	s.set = true
	return nil
}
