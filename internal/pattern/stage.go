package pattern

// ZeroStage returns a calibrated stage with every table entry zero,
// useful as a starting point before any tuned weight file has been
// loaded (this module only consumes weight files; it does not derive
// them, spec.md §1 "Non-goals").
func ZeroStage(phase int) Stage {
	st := Stage{Phase: phase, Tables: make([][]int16, len(Shapes))}
	for i, s := range Shapes {
		st.Tables[i] = make([]int16, s.Table)
	}
	return st
}
