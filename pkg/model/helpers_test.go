package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const problemsDirectory = "../../test/problems/"

// Five one-hour courses, three rooms open from 9 to 17, "A" before "B", "D" starting at 13 or later,
// "E" ending by 12 and instructor "Y" blocked from 10 to 11
func sampleRawInput() RawProblemInput {
	return RawProblemInput{
		Courses: []RawCourse{
			{Name: "A", Duration: 1, Instructor: "X", Students: 30},
			{Name: "B", Duration: 1, Instructor: "Y", Students: 25},
			{Name: "C", Duration: 1, Instructor: "Z", Students: 20},
			{Name: "D", Duration: 1, Instructor: "Y", Students: 28},
			{Name: "E", Duration: 1, Instructor: "X", Students: 35},
		},
		Rooms: []RawRoom{
			{Name: "Room1", Capacity: 30, Availability: [][]float64{{9, 17}}},
			{Name: "Room2", Capacity: 25, Availability: [][]float64{{9, 17}}},
			{Name: "Room3", Capacity: 40, Availability: [][]float64{{9, 17}}},
		},
		Constraints: RawConstraints{
			Precedence: []RawPrecedence{{Before: "A", After: "B"}},
			AbsoluteTime: []RawTimeBound{
				{Course: "D", Kind: "start_after", Value: 13},
				{Course: "E", Kind: "end_before", Value: 12},
			},
			WorkingHours: []float64{9, 17},
			InstructorUnavailability: []RawUnavailability{
				{Instructor: "Y", Intervals: [][]float64{{10, 11}}},
			},
		},
	}
}

func sampleProblem(t *testing.T) Problem {
	problem, err := ProcessRawInput(sampleRawInput())
	require.NoError(t, err)
	return problem
}

type placement struct {
	course string
	start  float64
	room   string
}

// manualSchedule places courses by name the way a caller-supplied schedule arrives, leaving end times underived
func manualSchedule(t *testing.T, problem Problem, placements ...placement) Schedule {
	schedule := NewSchedule(problem)
	for _, p := range placements {
		course, ok := problem.CourseByName(p.course)
		require.True(t, ok, "course %v", p.course)
		room, ok := problem.RoomByName(p.room)
		require.True(t, ok, "room %v", p.room)
		schedule.Place(course.Id, p.start, room.Id)
	}
	return schedule
}

func courseId(t *testing.T, problem Problem, name string) uint64 {
	course, ok := problem.CourseByName(name)
	require.True(t, ok, "course %v", name)
	return course.Id
}
