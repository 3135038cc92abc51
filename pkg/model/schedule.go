package model

import (
	"math"
	"slices"

	"github.com/samber/lo"
)

const (
	NoRoom      uint64 = math.MaxUint64     // The course has not been given a room
	UnknownRoom uint64 = math.MaxUint64 - 1 // The course was given a room that does not exist in the problem
)

// Assignment holds a course's start time, its derived end time and its room.
// A course is unassigned if and only if its start time is absent.
type Assignment struct {
	start    float64
	end      float64
	room     uint64
	assigned bool
	derived  bool // Whether end has been derived from start and the course's duration
}

func (assignment Assignment) Assigned() bool { return assignment.assigned }

func (assignment Assignment) Start() float64 { return assignment.start }

// End returns the derived end time, the second value is false while it has not been derived yet
func (assignment Assignment) End() (float64, bool) { return assignment.end, assignment.derived }

func (assignment Assignment) Room() uint64 { return assignment.room }

func (assignment Assignment) HasRoom() bool {
	return assignment.room != NoRoom && assignment.room != UnknownRoom
}

// Schedule maps every course of a problem (by index) to its assignment
type Schedule struct {
	assignments []Assignment
}

func NewSchedule(problem Problem) Schedule {
	return newSchedule(len(problem.Courses))
}

func newSchedule(courses int) Schedule {
	assignments := make([]Assignment, courses)
	for i := range assignments {
		assignments[i].room = NoRoom
	}
	return Schedule{assignments: assignments}
}

func (schedule Schedule) Len() int { return len(schedule.assignments) }

func (schedule Schedule) Get(course uint64) (Assignment, bool) {
	if course >= uint64(len(schedule.assignments)) {
		return Assignment{}, false
	}
	return schedule.assignments[course], true
}

// Assign sets the course's start, room and the end derived from the course's duration
func (schedule *Schedule) Assign(problem Problem, course uint64, start float64, room uint64) {
	schedule.assignments[course] = Assignment{
		start:    start,
		end:      start + problem.Courses[course].Duration,
		room:     room,
		assigned: true,
		derived:  true,
	}
}

// Place sets the course's start and room, leaving the end to be derived on evaluation
func (schedule *Schedule) Place(course uint64, start float64, room uint64) {
	schedule.assignments[course] = Assignment{
		start:    start,
		room:     room,
		assigned: true,
	}
}

func (schedule *Schedule) Clear(course uint64) {
	schedule.assignments[course] = Assignment{room: NoRoom}
}

// Clone returns a schedule that shares no state with the receiver
func (schedule Schedule) Clone() Schedule {
	return Schedule{assignments: slices.Clone(schedule.assignments)}
}

func (schedule Schedule) Complete() bool {
	return lo.EveryBy(schedule.assignments, func(assignment Assignment) bool { return assignment.assigned })
}

func (schedule Schedule) Unassigned() []uint64 {
	unassigned := make([]uint64, 0)
	for course, assignment := range schedule.assignments {
		if !assignment.assigned {
			unassigned = append(unassigned, uint64(course))
		}
	}
	return unassigned
}

// interval returns the assigned course's [start, end) interval, deriving the end if needed without storing it
func (schedule Schedule) interval(problem Problem, course uint64) Interval {
	assignment := schedule.assignments[course]
	if assignment.derived {
		return Interval{Start: assignment.start, End: assignment.end}
	}
	return Interval{Start: assignment.start, End: assignment.start + problem.Courses[course].Duration}
}

// derive materializes the course's end time in place, it returns false if the course is not defined by the problem
func (schedule *Schedule) derive(problem Problem, course uint64) bool {
	if course >= uint64(len(problem.Courses)) {
		return false
	}
	assignment := &schedule.assignments[course]
	if assignment.assigned && !assignment.derived {
		assignment.end = assignment.start + problem.Courses[course].Duration
		assignment.derived = true
	}
	return true
}
