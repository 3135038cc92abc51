package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrUnknownCourse  = errors.New("unknown course")
)

type RawCourse struct {
	Name       string
	Duration   float64
	Instructor string
	Students   uint64
}

type RawRoom struct {
	Name         string
	Capacity     uint64
	Availability [][]float64
}

type RawPrecedence struct {
	Before string // Course that must finish first
	After  string // Course that may only start once "Before" has finished
}

type RawTimeBound struct {
	Course string
	Kind   string
	Value  float64
}

type RawUnavailability struct {
	Instructor string
	Intervals  [][]float64
}

type RawConstraints struct {
	Precedence               []RawPrecedence
	AbsoluteTime             []RawTimeBound      `mapstructure:"absoluteTime"`
	WorkingHours             []float64           `mapstructure:"workingHours"`
	InstructorUnavailability []RawUnavailability `mapstructure:"instructorUnavailability"`
}

type RawProblemInput struct {
	Courses     []RawCourse
	Rooms       []RawRoom
	Constraints RawConstraints
}

type Interval struct {
	Start float64
	End   float64
}

// Overlaps reports whether the half-open intervals [Start, End) and [other.Start, other.End) intersect
func (interval Interval) Overlaps(other Interval) bool {
	return interval.Start < other.End && other.Start < interval.End
}

// Contains reports whether other lies entirely inside the interval
func (interval Interval) Contains(other Interval) bool {
	return interval.Start <= other.Start && other.End <= interval.End
}

type Course struct {
	Id         uint64
	Name       string
	Duration   float64
	Instructor uint64
	Students   uint64
}

type Room struct {
	Id           uint64
	Name         string
	Capacity     uint64
	Availability []Interval // Only the first interval is consulted when generating candidate slots
}

type Instructor struct {
	Id             uint64
	Name           string
	Unavailability []Interval
}

type Precedence struct {
	Before uint64
	After  uint64
}

type BoundKind int

const (
	StartAfter BoundKind = iota
	StartBefore
	EndAfter
	EndBefore
)

var boundKinds = map[string]BoundKind{
	"start_after":  StartAfter,
	"start_before": StartBefore,
	"end_after":    EndAfter,
	"end_before":   EndBefore,
}

func (kind BoundKind) String() string {
	name, ok := lo.FindKey(boundKinds, kind)
	if !ok {
		return fmt.Sprintf("BoundKind(%d)", int(kind))
	}
	return name
}

type TimeBound struct {
	Course uint64
	Kind   BoundKind
	Value  float64
}

type Problem struct {
	Courses      []Course
	Rooms        []Room
	Instructors  []Instructor
	Precedences  []Precedence
	TimeBounds   []TimeBound
	WorkingHours Interval
}

func (problem *Problem) CourseByName(name string) (Course, bool) {
	return lo.Find(problem.Courses, func(course Course) bool { return course.Name == name })
}

func (problem *Problem) RoomByName(name string) (Room, bool) {
	return lo.Find(problem.Rooms, func(room Room) bool { return room.Name == name })
}

func ProblemFromJson(file string) (Problem, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Problem{}, err
	}
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Problem{}, err
	}

	var rawInput RawProblemInput
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return Problem{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return ProcessRawInput(rawInput)
}

func ProcessRawInput(rawInput RawProblemInput) (Problem, error) {
	problem := Problem{}

	//** Manage working hours
	workingHours, err := toInterval(rawInput.Constraints.WorkingHours)
	if err != nil {
		return Problem{}, fmt.Errorf("working hours: %w", err)
	}
	problem.WorkingHours = workingHours

	//** Manage instructors
	instructors := make(map[string]uint64)
	internInstructor := func(name string) uint64 {
		if id, ok := instructors[name]; ok {
			return id
		}
		id := uint64(len(problem.Instructors))
		instructors[name] = id
		problem.Instructors = append(problem.Instructors, Instructor{Id: id, Name: name})
		return id
	}

	//** Manage courses
	courses := make(map[string]uint64)
	for _, rawCourse := range rawInput.Courses {
		if _, ok := courses[rawCourse.Name]; ok {
			return Problem{}, fmt.Errorf("%w: duplicate course \"%v\"", ErrMalformedInput, rawCourse.Name)
		} else if rawCourse.Duration <= 0 {
			return Problem{}, fmt.Errorf("%w: course \"%v\" must have a positive duration: %v", ErrMalformedInput, rawCourse.Name, rawCourse.Duration)
		}

		course := Course{
			Id:         uint64(len(problem.Courses)),
			Name:       rawCourse.Name,
			Duration:   rawCourse.Duration,
			Instructor: internInstructor(rawCourse.Instructor),
			Students:   rawCourse.Students,
		}
		courses[course.Name] = course.Id
		problem.Courses = append(problem.Courses, course)
	}

	//** Manage rooms
	rooms := make(map[string]bool)
	for _, rawRoom := range rawInput.Rooms {
		if rooms[rawRoom.Name] {
			return Problem{}, fmt.Errorf("%w: duplicate room \"%v\"", ErrMalformedInput, rawRoom.Name)
		}
		rooms[rawRoom.Name] = true

		availability, err := toIntervals(rawRoom.Availability)
		if err != nil {
			return Problem{}, fmt.Errorf("room \"%v\": %w", rawRoom.Name, err)
		}
		problem.Rooms = append(problem.Rooms, Room{
			Id:           uint64(len(problem.Rooms)),
			Name:         rawRoom.Name,
			Capacity:     rawRoom.Capacity,
			Availability: availability,
		})
	}

	lookupCourse := func(name string) (uint64, error) {
		id, ok := courses[name]
		if !ok {
			return 0, fmt.Errorf("%w: \"%v\"", ErrUnknownCourse, name)
		}
		return id, nil
	}

	//** Manage precedence constraints
	for _, rawPrecedence := range rawInput.Constraints.Precedence {
		before, err := lookupCourse(rawPrecedence.Before)
		if err != nil {
			return Problem{}, fmt.Errorf("precedence constraint: %w", err)
		}
		after, err := lookupCourse(rawPrecedence.After)
		if err != nil {
			return Problem{}, fmt.Errorf("precedence constraint: %w", err)
		}
		problem.Precedences = append(problem.Precedences, Precedence{Before: before, After: after})
	}

	//** Manage absolute-time constraints
	for _, rawBound := range rawInput.Constraints.AbsoluteTime {
		course, err := lookupCourse(rawBound.Course)
		if err != nil {
			return Problem{}, fmt.Errorf("absolute-time constraint: %w", err)
		}
		kind, ok := boundKinds[rawBound.Kind]
		if !ok {
			return Problem{}, fmt.Errorf("%w: absolute-time constraint on \"%v\" has unknown kind \"%v\"", ErrMalformedInput, rawBound.Course, rawBound.Kind)
		}
		problem.TimeBounds = append(problem.TimeBounds, TimeBound{Course: course, Kind: kind, Value: rawBound.Value})
	}

	//** Manage instructor-unavailability constraints
	for _, rawUnavailability := range rawInput.Constraints.InstructorUnavailability {
		intervals, err := toIntervals(rawUnavailability.Intervals)
		if err != nil {
			return Problem{}, fmt.Errorf("unavailability of \"%v\": %w", rawUnavailability.Instructor, err)
		}
		// An instructor without courses is still interned so that its blocked intervals are kept
		id := internInstructor(rawUnavailability.Instructor)
		problem.Instructors[id].Unavailability = append(problem.Instructors[id].Unavailability, intervals...)
	}

	return problem, nil
}

func toInterval(pair []float64) (Interval, error) {
	if len(pair) != 2 {
		return Interval{}, fmt.Errorf("%w: an interval must be a [start, end] pair: %v", ErrMalformedInput, pair)
	}
	return Interval{Start: pair[0], End: pair[1]}, nil
}

func toIntervals(pairs [][]float64) ([]Interval, error) {
	intervals := make([]Interval, 0, len(pairs))
	for _, pair := range pairs {
		interval, err := toInterval(pair)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, interval)
	}
	return intervals, nil
}
