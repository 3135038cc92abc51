package model

import (
	"fmt"
	"math"
)

// courseSelector picks the next course to branch on, it returns false once every course is assigned
type courseSelector func(state *searchState, schedule Schedule) (uint64, bool)

type backtrackingTimetabler struct {
	selector courseSelector
}

// NewBacktrackingTimetabler returns a depth-first search that branches on the most constrained course first
func NewBacktrackingTimetabler() Timetabler {
	return &backtrackingTimetabler{selector: selectMostConstrained}
}

// NewStaticOrderTimetabler returns a depth-first search that branches on courses in definition order
func NewStaticOrderTimetabler() Timetabler {
	return &backtrackingTimetabler{selector: selectFirstUnassigned}
}

type searchState struct {
	problem Problem
	checker *ConstraintChecker
	slots   []Slot
	stats   SearchStats
}

func (timetabler *backtrackingTimetabler) Build(problem Problem, initial Schedule) (*Schedule, SearchStats, error) {
	if initial.Len() != len(problem.Courses) {
		return nil, SearchStats{}, fmt.Errorf("initial schedule holds %d courses but the problem defines %d", initial.Len(), len(problem.Courses))
	}

	state := &searchState{
		problem: problem,
		checker: NewConstraintChecker(problem),
		slots:   CandidateSlots(problem),
	}

	//** Verify pre-fixed assignments
	schedule := initial.Clone()
	for course := range schedule.assignments {
		state.stats.Checks++
		if !state.checker.CheckAll(&schedule, uint64(course)) {
			return nil, state.stats, nil
		}
	}

	//** Search
	solution, ok := timetabler.backtrack(state, schedule)
	if !ok {
		return nil, state.stats, nil
	}
	return &solution, state.stats, nil
}

func (timetabler *backtrackingTimetabler) backtrack(state *searchState, schedule Schedule) (Schedule, bool) {
	state.stats.Nodes++

	if schedule.Complete() {
		return schedule, true
	}

	course, ok := timetabler.selector(state, schedule)
	if !ok {
		return Schedule{}, false
	}

	for _, slot := range state.slots {
		// Every branch works on its own copy so that a failed branch leaves nothing behind
		branch := schedule.Clone()
		branch.Assign(state.problem, course, slot.Time, slot.Room)

		state.stats.Checks++
		if !state.checker.CheckAll(&branch, course) {
			continue
		}

		if solution, ok := timetabler.backtrack(state, branch); ok {
			return solution, true
		}
	}

	state.stats.Backtracks++
	return Schedule{}, false
}

func (timetabler *backtrackingTimetabler) Verify(schedule Schedule, problem Problem) bool {
	return Validate(schedule, problem).Valid()
}

// selectMostConstrained picks the unassigned course with the fewest slots that pass every constraint against the
// courses already assigned. Ties keep the earliest course. A course without feasible slots is still selected
func selectMostConstrained(state *searchState, schedule Schedule) (uint64, bool) {
	selected, found := uint64(0), false
	minimum := math.MaxInt

	for _, course := range schedule.Unassigned() {
		feasible := 0
		tentative := schedule.Clone() // Assign overwrites the whole assignment, one private copy per course suffices
		for _, slot := range state.slots {
			tentative.Assign(state.problem, course, slot.Time, slot.Room)

			state.stats.Checks++
			if state.checker.CheckAll(&tentative, course) {
				feasible++
			}
		}

		if feasible < minimum {
			minimum = feasible
			selected, found = course, true
		}
	}

	return selected, found
}

func selectFirstUnassigned(_ *searchState, schedule Schedule) (uint64, bool) {
	unassigned := schedule.Unassigned()
	if len(unassigned) == 0 {
		return 0, false
	}
	return unassigned[0], true
}
