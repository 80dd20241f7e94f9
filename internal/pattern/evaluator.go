package pattern

import (
	"fmt"
	"sort"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/hailam/othello/internal/board"
)

// Evaluator answers static position scores using the base-3 pattern
// tables (spec.md §4.2). It owns the calibrated stage list, a bounded
// pool of interpolated/derived stages (spec.md §4.2, §9 "Memory"), and
// the terminal-phase table built by NewEvaluator.
type Evaluator struct {
	calibrated []Stage // sorted by Phase, ascending
	pool       *ristretto.Cache[int, *Stage]
	terminal   Stage
	adjust     Adjustments
}

// poolCapacity is the "~200 entries" free-list size spec.md §9
// recommends for the weight pool.
const poolCapacity = 200

// NewEvaluator builds an Evaluator from a set of calibrated stages.
// Stages need not be sorted or include phase 60; the terminal table is
// always generated, never loaded from a file.
func NewEvaluator(stages []Stage) (*Evaluator, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pattern: evaluator requires at least one calibrated stage")
	}
	cp := make([]Stage, len(stages))
	copy(cp, stages)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Phase < cp[j].Phase })

	cache, err := ristretto.NewCache(&ristretto.Config[int, *Stage]{
		NumCounters: poolCapacity * 10,
		MaxCost:     poolCapacity,
		BufferItems: 64,
		Cost:        func(*Stage) int64 { return 1 },
	})
	if err != nil {
		return nil, fmt.Errorf("pattern: allocate weight pool: %w", err)
	}

	e := &Evaluator{
		calibrated: cp,
		pool:       cache,
		adjust:     DefaultAdjustments,
	}
	e.terminal = e.buildTerminalStage()
	return e, nil
}

// SetAdjustments replaces the post-hoc disc/edge/corner/X-square
// encouragement weights (spec.md §4.2 "optional post-hoc adjustments").
func (e *Evaluator) SetAdjustments(a Adjustments) { e.adjust = a }

func (e *Evaluator) buildTerminalStage() Stage {
	st := Stage{Phase: 60, Tables: make([][]int16, len(Shapes))}
	for i, s := range Shapes {
		st.Tables[i] = generateTerminalTable(s)
	}
	return st
}

// stageFor returns the weight tables to use at the given phase,
// generating and pool-caching an interpolated stage on first request
// for any phase that is not itself calibrated (spec.md §4.2 "Phase
// handling").
func (e *Evaluator) stageFor(phase int) *Stage {
	if phase >= 60 {
		return &e.terminal
	}
	for i := range e.calibrated {
		if e.calibrated[i].Phase == phase {
			return &e.calibrated[i]
		}
	}
	if cached, ok := e.pool.Get(phase); ok {
		return cached
	}

	st := e.interpolate(phase)
	e.pool.Set(phase, st, 1)
	e.pool.Wait()
	return st
}

// interpolate builds the weight tables for an uncalibrated phase by
// linear interpolation between the nearest calibrated phases below and
// above it, weighted by distance and rounded (spec.md §4.2). Phases
// outside the calibrated range clamp to the nearest boundary stage.
func (e *Evaluator) interpolate(phase int) *Stage {
	lowIdx, highIdx := -1, -1
	for i, st := range e.calibrated {
		if st.Phase <= phase {
			lowIdx = i
		}
		if st.Phase >= phase && highIdx == -1 {
			highIdx = i
		}
	}
	if lowIdx == -1 {
		lowIdx = 0
	}
	if highIdx == -1 {
		highIdx = len(e.calibrated) - 1
	}

	low, high := e.calibrated[lowIdx], e.calibrated[highIdx]
	if low.Phase == high.Phase {
		cp := low
		cp.Tables = cloneTables(low.Tables)
		return &cp
	}

	distLow := phase - low.Phase
	distHigh := high.Phase - phase
	total := high.Phase - low.Phase

	out := Stage{
		Phase:    phase,
		Tables:   make([][]int16, len(Shapes)),
		Constant: weightedRound(int(low.Constant), int(high.Constant), distLow, distHigh, total),
		Parity:   weightedRound(int(low.Parity), int(high.Parity), distLow, distHigh, total),
	}
	for i, s := range Shapes {
		table := make([]int16, s.Table)
		lt, ht := low.Tables[i], high.Tables[i]
		for v := 0; v < s.Table; v++ {
			table[v] = weightedRound(int(lt[v]), int(ht[v]), distLow, distHigh, total)
		}
		out.Tables[i] = table
	}
	return &out
}

func cloneTables(src [][]int16) [][]int16 {
	out := make([][]int16, len(src))
	for i, t := range src {
		cp := make([]int16, len(t))
		copy(cp, t)
		out[i] = cp
	}
	return out
}

// weightedRound interpolates between lowVal and highVal with weights
// proportional to the distance to the *other* endpoint, matching
// spec.md §4.2's "weights proportional to distance (weighted average
// rounded)": the value closer to phase counts for more.
func weightedRound(lowVal, highVal, distLow, distHigh, total int) int16 {
	if total == 0 {
		return int16(lowVal)
	}
	num := lowVal*distHigh + highVal*distLow
	if num >= 0 {
		return int16((num + total/2) / total)
	}
	return int16(-((-num + total/2) / total))
}

// Evaluate scores board from side's perspective: positive means good
// for side (spec.md §4.2). Contract: Evaluate(b, Black) ==
// Evaluate(swapColors(b), White) for any b (the same position with the
// colors renamed, scored for its side to move; as Black-relative
// scores the two are negatives of each other), which holds because
// swapping colors flips every digit 0<->2 (black<->white) and fixes
// digit 1 (empty), and the White-side indexing (max_v - v) is exactly
// the digit-complement transform that undoes a 0<->2 swap in the
// base-3 packing.
func (e *Evaluator) Evaluate(b *board.Board, side board.Color) int {
	if b.Count(board.Black) == 0 || b.Count(board.White) == 0 {
		if b.Count(side) == 0 {
			return -(MidgameWin + 64)
		}
		return MidgameWin + 64
	}

	phase := b.DisksPlayed()
	if phase > 60 {
		phase = 60
	}
	st := e.stageFor(phase)

	sum := 0
	for i, s := range Shapes {
		table := st.Tables[i]
		for _, cells := range s.Instances {
			v := patternValue(b, cells)
			idx := v
			if side == board.White {
				idx = s.Table - 1 - v
			}
			sum += int(table[idx])
		}
	}
	sum += int(st.Constant)

	emptyCount := 64 - b.Count(board.Black) - b.Count(board.White)
	if emptyCount%2 == 1 {
		sum += int(st.Parity)
	} else {
		sum -= int(st.Parity)
	}

	sum += e.adjust.apply(b, side)
	return sum
}
