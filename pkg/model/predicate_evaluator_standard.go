package model

import (
	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	problem        Problem
	predecessors   map[uint64][]uint64    // Courses that must finish before the key course starts
	bounds         map[uint64][]TimeBound // Absolute-time bounds per course
	unavailability map[uint64][]Interval  // Blocked intervals per instructor
}

func newPredicateEvaluator(problem Problem) predicateEvaluator {
	evaluator := predicateEvaluatorStandard{
		problem:        problem,
		predecessors:   make(map[uint64][]uint64),
		bounds:         lo.GroupBy(problem.TimeBounds, func(bound TimeBound) uint64 { return bound.Course }),
		unavailability: make(map[uint64][]Interval),
	}

	for _, precedence := range problem.Precedences {
		evaluator.predecessors[precedence.After] = append(evaluator.predecessors[precedence.After], precedence.Before)
	}
	for _, instructor := range problem.Instructors {
		if len(instructor.Unavailability) > 0 {
			evaluator.unavailability[instructor.Id] = instructor.Unavailability
		}
	}

	return &evaluator
}

// assigned returns the course's interval when it is assigned and defined by the problem
func (evaluator *predicateEvaluatorStandard) assigned(schedule *Schedule, course uint64) (Interval, bool) {
	assignment, ok := schedule.Get(course)
	if !ok || !assignment.assigned || course >= uint64(len(evaluator.problem.Courses)) {
		return Interval{}, false
	}
	return schedule.interval(evaluator.problem, course), true
}

func (evaluator *predicateEvaluatorStandard) WorkingHours(schedule *Schedule, course uint64) bool {
	interval, ok := evaluator.assigned(schedule, course)
	if !ok {
		return true
	}
	return evaluator.problem.WorkingHours.Contains(interval)
}

func (evaluator *predicateEvaluatorStandard) Precedence(schedule *Schedule, course uint64) bool {
	interval, ok := evaluator.assigned(schedule, course)
	if !ok {
		return true
	}

	return !lo.SomeBy(evaluator.predecessors[course], func(predecessor uint64) bool {
		predecessorInterval, ok := evaluator.assigned(schedule, predecessor)
		// An unassigned predecessor cannot be checked yet
		return ok && interval.Start < predecessorInterval.End
	})
}

func (evaluator *predicateEvaluatorStandard) AbsoluteTime(schedule *Schedule, course uint64) bool {
	interval, ok := evaluator.assigned(schedule, course)
	if !ok {
		return true
	}

	return lo.EveryBy(evaluator.bounds[course], func(bound TimeBound) bool {
		switch bound.Kind {
		case StartAfter:
			return interval.Start >= bound.Value
		case StartBefore:
			return interval.Start <= bound.Value
		case EndAfter:
			return interval.End >= bound.Value
		case EndBefore:
			return interval.End <= bound.Value
		}
		return true
	})
}

func (evaluator *predicateEvaluatorStandard) RoomCapacity(schedule *Schedule, course uint64) bool {
	if _, ok := evaluator.assigned(schedule, course); !ok {
		return true
	}

	// A missing or unknown room is a failure
	assignment := schedule.assignments[course]
	if !assignment.HasRoom() || assignment.room >= uint64(len(evaluator.problem.Rooms)) {
		return false
	}
	return evaluator.problem.Rooms[assignment.room].Capacity >= evaluator.problem.Courses[course].Students
}

func (evaluator *predicateEvaluatorStandard) InstructorAvailability(schedule *Schedule, course uint64) bool {
	interval, ok := evaluator.assigned(schedule, course)
	if !ok {
		return true
	}

	instructor := evaluator.problem.Courses[course].Instructor
	return !lo.SomeBy(evaluator.unavailability[instructor], func(blocked Interval) bool {
		return interval.Overlaps(blocked)
	})
}

func (evaluator *predicateEvaluatorStandard) NoOverlap(schedule *Schedule, course uint64) bool {
	interval, ok := evaluator.assigned(schedule, course)
	if !ok {
		return true
	}

	room := schedule.assignments[course].room
	instructor := evaluator.problem.Courses[course].Instructor

	for other := range schedule.assignments {
		otherCourse := uint64(other)
		if otherCourse == course {
			continue
		}

		otherInterval, ok := evaluator.assigned(schedule, otherCourse)
		if !ok || !interval.Overlaps(otherInterval) {
			continue
		}

		otherAssignment := schedule.assignments[otherCourse]
		// Only real rooms can be shared, the sentinels never collide with each other
		if schedule.assignments[course].HasRoom() && otherAssignment.HasRoom() && room == otherAssignment.room {
			return false
		}
		if instructor == evaluator.problem.Courses[otherCourse].Instructor {
			return false
		}
	}
	return true
}
