package model

// predicateEvaluator holds the hard constraints of a problem. Every predicate holds trivially for an unassigned course
type predicateEvaluator interface {
	// Checks whether the course lies within the global working hours
	WorkingHours(schedule *Schedule, course uint64) bool

	// Checks whether the course starts after every assigned course it depends on has ended
	Precedence(schedule *Schedule, course uint64) bool

	// Checks whether the course's start and end respect every absolute-time bound naming it
	AbsoluteTime(schedule *Schedule, course uint64) bool

	// Checks whether the course has a room and its students fit in it
	RoomCapacity(schedule *Schedule, course uint64) bool

	// Checks whether the course's instructor is not blocked during the course
	InstructorAvailability(schedule *Schedule, course uint64) bool

	// Checks whether no other assigned course overlapping in time shares the course's room or instructor
	NoOverlap(schedule *Schedule, course uint64) bool
}
