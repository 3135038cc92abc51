package model

type Timetabler interface {
	// Build completes the initial schedule. A nil schedule with a nil error means there is no solution
	Build(
		problem Problem,
		initial Schedule,
	) (schedule *Schedule, stats SearchStats, err error)

	Verify(
		schedule Schedule,
		problem Problem,
	) bool
}

// SearchStats counts the work done by a single Build
type SearchStats struct {
	Nodes      uint64 // Search frames entered
	Checks     uint64 // Full constraint evaluations, including the ones made by the selection heuristic
	Backtracks uint64 // Frames that exhausted their candidates
}
