package model

import "fmt"

type Constraint int

const (
	WorkingHoursConstraint Constraint = iota
	PrecedenceConstraint
	AbsoluteTimeConstraint
	RoomCapacityConstraint
	InstructorAvailabilityConstraint
	NoOverlapConstraint
	NoConstraint Constraint = -1
)

// Constraints lists every constraint in evaluation order
var Constraints = []Constraint{
	WorkingHoursConstraint,
	PrecedenceConstraint,
	AbsoluteTimeConstraint,
	RoomCapacityConstraint,
	InstructorAvailabilityConstraint,
	NoOverlapConstraint,
}

var constraintNames = map[Constraint]string{
	WorkingHoursConstraint:           "working-hours",
	PrecedenceConstraint:             "precedence",
	AbsoluteTimeConstraint:           "absolute-time",
	RoomCapacityConstraint:           "room-capacity",
	InstructorAvailabilityConstraint: "instructor-availability",
	NoOverlapConstraint:              "no-overlap",
	NoConstraint:                     "none",
}

func (constraint Constraint) String() string {
	if name, ok := constraintNames[constraint]; ok {
		return name
	}
	return fmt.Sprintf("Constraint(%d)", int(constraint))
}

// ConstraintChecker evaluates the hard constraints of one problem against schedules of that problem
type ConstraintChecker struct {
	problem   Problem
	evaluator predicateEvaluator
}

func NewConstraintChecker(problem Problem) *ConstraintChecker {
	return &ConstraintChecker{
		problem:   problem,
		evaluator: newPredicateEvaluator(problem),
	}
}

// Check evaluates a single constraint for the course
func (checker *ConstraintChecker) Check(constraint Constraint, schedule *Schedule, course uint64) bool {
	switch constraint {
	case WorkingHoursConstraint:
		return checker.evaluator.WorkingHours(schedule, course)
	case PrecedenceConstraint:
		return checker.evaluator.Precedence(schedule, course)
	case AbsoluteTimeConstraint:
		return checker.evaluator.AbsoluteTime(schedule, course)
	case RoomCapacityConstraint:
		return checker.evaluator.RoomCapacity(schedule, course)
	case InstructorAvailabilityConstraint:
		return checker.evaluator.InstructorAvailability(schedule, course)
	case NoOverlapConstraint:
		return checker.evaluator.NoOverlap(schedule, course)
	}
	panic(fmt.Sprintf("unknown constraint: %v", constraint))
}

// CheckAll evaluates every constraint for the course in order and stops at the first violation.
// The course's end time is materialized in the schedule before any predicate runs
func (checker *ConstraintChecker) CheckAll(schedule *Schedule, course uint64) bool {
	if assignment, ok := schedule.Get(course); !ok || !assignment.Assigned() {
		return true
	}

	// A course without definition cannot be valid
	if !schedule.derive(checker.problem, course) {
		return false
	}

	return checker.evaluator.WorkingHours(schedule, course) &&
		checker.evaluator.Precedence(schedule, course) &&
		checker.evaluator.AbsoluteTime(schedule, course) &&
		checker.evaluator.RoomCapacity(schedule, course) &&
		checker.evaluator.InstructorAvailability(schedule, course) &&
		checker.evaluator.NoOverlap(schedule, course)
}

// CheckAllConstraints is a one-shot form of ConstraintChecker.CheckAll
func CheckAllConstraints(schedule *Schedule, course uint64, problem Problem) bool {
	return NewConstraintChecker(problem).CheckAll(schedule, course)
}
