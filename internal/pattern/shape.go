// Package pattern implements the base-3 board-pattern static evaluator
// named in spec.md §4.2: eleven pattern geometries, 46 rotated
// instances of them, per-phase weight tables, and lazy interpolation
// between calibrated phases.
package pattern

import "github.com/hailam/othello/internal/board"

// Shape is one of the eleven pattern geometries spec.md §4.2 names.
// CellCount is the number of board cells the pattern reads; Table is
// 3^CellCount, the size of a single phase's weight table for this
// shape. Instances lists every rotated/reflected occurrence of the
// shape on the actual board, cell 0 first (most significant base-3
// digit), matching the cell-reading order the reference engine's
// pattern-coefficient code uses (original_source/getcoeff.c).
type Shape struct {
	Name      string
	CellCount int
	Table     int
	Instances [][]board.Square
}

// line returns count cells starting at (row,col) and stepping by
// (dRow,dCol) each time, the building block every line-shaped pattern
// (files, diagonals) is assembled from (original_source/patterns.c
// "add_multiple").
func line(row, col, dRow, dCol, count int) []board.Square {
	cells := make([]board.Square, count)
	r, c := row, col
	for i := 0; i < count; i++ {
		cells[i] = board.NewSquare(r, c)
		r += dRow
		c += dCol
	}
	return cells
}

func concat(parts ...[]board.Square) []board.Square {
	var out []board.Square
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func pow3(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 3
	}
	return v
}

// Shapes is every pattern geometry with all of its rotated instances,
// in the fixed evaluation order spec.md §9 requires ("sums 46 pattern
// lookups ... in a fixed order"). Cell membership and orientation
// count are grounded on original_source/patterns.c's
// pattern_dependency() table; the 5x2 corner cell count follows
// spec.md's explicit "5x2 corner (59049 entries)" rather than the
// reference engine's 4x2 variant of the same corner block.
var Shapes = []Shape{
	{
		Name:      "afilex",
		CellCount: 10,
		Table:     pow3(10),
		Instances: [][]board.Square{
			concat(line(1, 1, 1, 0, 8), line(2, 2, 0, 0, 1), line(7, 2, 0, 0, 1)),
			concat(line(1, 8, 1, 0, 8), line(2, 7, 0, 0, 1), line(7, 7, 0, 0, 1)),
			concat(line(1, 1, 0, 1, 8), line(2, 2, 0, 0, 1), line(2, 7, 0, 0, 1)),
			concat(line(8, 1, 0, 1, 8), line(7, 2, 0, 0, 1), line(7, 7, 0, 0, 1)),
		},
	},
	{
		Name:      "bfile",
		CellCount: 8,
		Table:     pow3(8),
		Instances: [][]board.Square{
			line(1, 2, 1, 0, 8),
			line(1, 7, 1, 0, 8),
			line(2, 1, 0, 1, 8),
			line(7, 1, 0, 1, 8),
		},
	},
	{
		Name:      "cfile",
		CellCount: 8,
		Table:     pow3(8),
		Instances: [][]board.Square{
			line(1, 3, 1, 0, 8),
			line(1, 6, 1, 0, 8),
			line(3, 1, 0, 1, 8),
			line(6, 1, 0, 1, 8),
		},
	},
	{
		Name:      "dfile",
		CellCount: 8,
		Table:     pow3(8),
		Instances: [][]board.Square{
			line(1, 4, 1, 0, 8),
			line(1, 5, 1, 0, 8),
			line(4, 1, 0, 1, 8),
			line(5, 1, 0, 1, 8),
		},
	},
	{
		Name:      "diag8",
		CellCount: 8,
		Table:     pow3(8),
		Instances: [][]board.Square{
			line(1, 1, 1, 1, 8),
			line(1, 8, 1, -1, 8),
		},
	},
	{
		Name:      "diag7",
		CellCount: 7,
		Table:     pow3(7),
		Instances: [][]board.Square{
			line(1, 2, 1, 1, 7),
			line(2, 1, 1, 1, 7),
			line(7, 1, -1, 1, 7),
			line(8, 2, -1, 1, 7),
		},
	},
	{
		Name:      "diag6",
		CellCount: 6,
		Table:     pow3(6),
		Instances: [][]board.Square{
			line(1, 3, 1, 1, 6),
			line(3, 1, 1, 1, 6),
			line(6, 1, -1, 1, 6),
			line(8, 3, -1, 1, 6),
		},
	},
	{
		Name:      "diag5",
		CellCount: 5,
		Table:     pow3(5),
		Instances: [][]board.Square{
			line(1, 4, 1, 1, 5),
			line(4, 1, 1, 1, 5),
			line(5, 1, -1, 1, 5),
			line(8, 4, -1, 1, 5),
		},
	},
	{
		Name:      "diag4",
		CellCount: 4,
		Table:     pow3(4),
		Instances: [][]board.Square{
			line(1, 5, 1, 1, 4),
			line(5, 1, 1, 1, 4),
			line(4, 1, -1, 1, 4),
			line(8, 5, -1, 1, 4),
		},
	},
	{
		Name:      "corner33",
		CellCount: 9,
		Table:     pow3(9),
		Instances: [][]board.Square{
			concat(line(1, 1, 0, 1, 3), line(2, 1, 0, 1, 3), line(3, 1, 0, 1, 3)),
			concat(line(8, 1, 0, 1, 3), line(7, 1, 0, 1, 3), line(6, 1, 0, 1, 3)),
			concat(line(1, 6, 0, 1, 3), line(2, 6, 0, 1, 3), line(3, 6, 0, 1, 3)),
			concat(line(8, 6, 0, 1, 3), line(7, 6, 0, 1, 3), line(6, 6, 0, 1, 3)),
		},
	},
	{
		Name:      "corner52",
		CellCount: 10,
		Table:     pow3(10),
		Instances: [][]board.Square{
			concat(line(1, 1, 0, 1, 5), line(2, 1, 0, 1, 5)),
			concat(line(8, 1, 0, 1, 5), line(7, 1, 0, 1, 5)),
			concat(line(1, 8, 0, -1, 5), line(2, 8, 0, -1, 5)),
			concat(line(8, 8, 0, -1, 5), line(7, 8, 0, -1, 5)),
			concat(line(1, 1, 1, 0, 5), line(1, 2, 1, 0, 5)),
			concat(line(1, 8, 1, 0, 5), line(1, 7, 1, 0, 5)),
			concat(line(8, 1, -1, 0, 5), line(8, 2, -1, 0, 5)),
			concat(line(8, 8, -1, 0, 5), line(8, 7, -1, 0, 5)),
		},
	},
}

// InstanceCount is the total number of rotated pattern instances
// summed across every shape: 46, per spec.md §9.
var InstanceCount = func() int {
	n := 0
	for _, s := range Shapes {
		n += len(s.Instances)
	}
	return n
}()
