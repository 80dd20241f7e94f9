package pattern

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// Weight-file magics: two 16-bit values at the start of the
// gzip-compressed stream (spec.md §6 "Weight file"), used to detect a
// mismatched or corrupt file before any allocation is attempted.
const (
	weightMagic1 uint16 = 0x5A17
	weightMagic2 uint16 = 0xB00C
)

// ErrFormat reports a weight file that fails the magic check or is
// otherwise structurally malformed (spec.md §7 "FormatError").
type ErrFormat struct{ Reason string }

func (e *ErrFormat) Error() string { return "pattern: " + e.Reason }

// Stage holds one calibrated phase's weight tables, one slice per
// entry of Shapes, plus the constant and parity terms spec.md §4.2's
// sum includes alongside the 46 pattern lookups.
type Stage struct {
	Phase    int
	Tables   [][]int16 // parallel to Shapes
	Constant int16
	Parity   int16
}

// mirrorIndex returns the index of the left-right mirrored pattern
// value for shape s: the base-3 digits of v in reverse order. Weight
// files store only one representative per {v, mirrorIndex(v)} pair
// (spec.md §6 "symmetry-folded form ... caller-supplied mirror map"),
// generalizing the reference engine's flip8 table (defined only for
// 8-cell line patterns) to every shape in this module.
func mirrorIndex(s Shape, v int) int {
	digits := make([]int, s.CellCount)
	rem := v
	for i := s.CellCount - 1; i >= 0; i-- {
		digits[i] = rem % 3
		rem /= 3
	}
	m := 0
	for i := s.CellCount - 1; i >= 0; i-- {
		m = 3*m + digits[i]
	}
	return m
}

// foldedClasses returns, for shape s, one representative index per
// mirror-equivalence class, smallest index first.
func foldedClasses(s Shape) []int {
	seen := make([]bool, s.Table)
	var classes []int
	for v := 0; v < s.Table; v++ {
		if seen[v] {
			continue
		}
		m := mirrorIndex(s, v)
		seen[v] = true
		seen[m] = true
		classes = append(classes, v)
	}
	return classes
}

// WriteWeights serializes stages to w as a gzip-compressed,
// symmetry-folded stream (spec.md §6 "Weight file").
func WriteWeights(w io.Writer, stages []Stage) error {
	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("pattern: open gzip writer: %w", err)
	}
	defer gz.Close()

	if err := binary.Write(gz, binary.LittleEndian, weightMagic1); err != nil {
		return err
	}
	if err := binary.Write(gz, binary.LittleEndian, weightMagic2); err != nil {
		return err
	}
	if err := binary.Write(gz, binary.LittleEndian, uint16(len(stages))); err != nil {
		return err
	}

	for _, st := range stages {
		if err := binary.Write(gz, binary.LittleEndian, uint16(st.Phase)); err != nil {
			return err
		}
		for i, s := range Shapes {
			classes := foldedClasses(s)
			if err := binary.Write(gz, binary.LittleEndian, uint32(len(classes))); err != nil {
				return err
			}
			folded := make([]int16, len(classes))
			for ci, v := range classes {
				folded[ci] = st.Tables[i][v]
			}
			if err := binary.Write(gz, binary.LittleEndian, folded); err != nil {
				return err
			}
		}
		if err := binary.Write(gz, binary.LittleEndian, st.Constant); err != nil {
			return err
		}
		if err := binary.Write(gz, binary.LittleEndian, st.Parity); err != nil {
			return err
		}
	}
	return gz.Close()
}

// ReadWeights parses a stream written by WriteWeights, unfolding each
// shape's stored classes back into a full base-3-indexed table.
func ReadWeights(r io.Reader) ([]Stage, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &ErrFormat{Reason: fmt.Sprintf("not a gzip stream: %v", err)}
	}
	defer gz.Close()

	var m1, m2 uint16
	if err := binary.Read(gz, binary.LittleEndian, &m1); err != nil {
		return nil, &ErrFormat{Reason: "truncated header"}
	}
	if err := binary.Read(gz, binary.LittleEndian, &m2); err != nil {
		return nil, &ErrFormat{Reason: "truncated header"}
	}
	if m1 != weightMagic1 || m2 != weightMagic2 {
		return nil, &ErrFormat{Reason: fmt.Sprintf("magic mismatch: got %04x %04x", m1, m2)}
	}

	var stageCount uint16
	if err := binary.Read(gz, binary.LittleEndian, &stageCount); err != nil {
		return nil, &ErrFormat{Reason: "truncated stage count"}
	}

	stages := make([]Stage, 0, stageCount)
	for i := 0; i < int(stageCount); i++ {
		var phase uint16
		if err := binary.Read(gz, binary.LittleEndian, &phase); err != nil {
			return nil, &ErrFormat{Reason: "truncated stage header"}
		}
		st := Stage{Phase: int(phase), Tables: make([][]int16, len(Shapes))}
		for si, s := range Shapes {
			var count uint32
			if err := binary.Read(gz, binary.LittleEndian, &count); err != nil {
				return nil, &ErrFormat{Reason: "truncated pattern class count"}
			}
			classes := foldedClasses(s)
			if int(count) != len(classes) {
				return nil, &ErrFormat{Reason: fmt.Sprintf("shape %s: expected %d folded classes, file has %d", s.Name, len(classes), count)}
			}
			folded := make([]int16, count)
			if err := binary.Read(gz, binary.LittleEndian, &folded); err != nil {
				return nil, &ErrFormat{Reason: "truncated pattern table"}
			}
			table := make([]int16, s.Table)
			for ci, v := range classes {
				table[v] = folded[ci]
				table[mirrorIndex(s, v)] = folded[ci]
			}
			st.Tables[si] = table
		}
		if err := binary.Read(gz, binary.LittleEndian, &st.Constant); err != nil {
			return nil, &ErrFormat{Reason: "truncated constant term"}
		}
		if err := binary.Read(gz, binary.LittleEndian, &st.Parity); err != nil {
			return nil, &ErrFormat{Reason: "truncated parity term"}
		}
		stages = append(stages, st)
	}
	return stages, nil
}
