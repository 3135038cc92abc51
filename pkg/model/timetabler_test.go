package model

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacktrackingTimetabler(t *testing.T) {
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, NewBacktrackingTimetabler())
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, NewBacktrackingTimetabler())
	})
}

func TestStaticOrderTimetabler(t *testing.T) {
	t.Run("Satisfiable instances", func(t *testing.T) {
		satisfiableExecution(t, NewStaticOrderTimetabler())
	})
	t.Run("Unsatisfiable instances", func(t *testing.T) {
		unsatisfiableExecution(t, NewStaticOrderTimetabler())
	})
}

func satisfiableExecution(t *testing.T, timetabler Timetabler) {
	//** Arrange
	problem := sampleProblem(t)
	slots := CandidateSlots(problem)

	//** Act
	schedule, stats, err := timetabler.Build(problem, NewSchedule(problem))

	//** Assert
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.True(t, schedule.Complete())
	assert.True(t, timetabler.Verify(*schedule, problem))
	assert.NotZero(t, stats.Nodes)
	assert.NotZero(t, stats.Checks)

	checker := NewConstraintChecker(problem)
	for course := range problem.Courses {
		for _, constraint := range Constraints {
			assert.True(t, checker.Check(constraint, schedule, uint64(course)), "%v violates %v", problem.Courses[course].Name, constraint)
		}

		assignment, _ := schedule.Get(uint64(course))
		assert.True(t, lo.Contains(slots, Slot{Time: assignment.Start(), Room: assignment.Room()}))
		end, derived := assignment.End()
		assert.True(t, derived)
		assert.Equal(t, assignment.Start()+problem.Courses[course].Duration, end)
	}

	get := func(name string) Assignment {
		assignment, _ := schedule.Get(courseId(t, problem, name))
		return assignment
	}
	aEnd, _ := get("A").End()
	eEnd, _ := get("E").End()
	assert.GreaterOrEqual(t, get("B").Start(), aEnd)
	assert.GreaterOrEqual(t, get("D").Start(), 13.0)
	assert.LessOrEqual(t, eEnd, 12.0)
}

func unsatisfiableExecution(t *testing.T, timetabler Timetabler) {
	//** Arrange
	problem, err := ProblemFromJson(problemsDirectory + "infeasible.json")
	require.NoError(t, err)

	//** Act
	schedule, stats, err := timetabler.Build(problem, NewSchedule(problem))

	//** Assert
	assert.NoError(t, err)
	assert.Nil(t, schedule)
	assert.NotZero(t, stats.Backtracks)
}

func TestBuildIsDeterministic(t *testing.T) {
	problem := sampleProblem(t)
	timetabler := NewBacktrackingTimetabler()

	first, _, err := timetabler.Build(problem, NewSchedule(problem))
	require.NoError(t, err)
	second, _, err := timetabler.Build(problem, NewSchedule(problem))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildFromInitialSchedule(t *testing.T) {
	problem := sampleProblem(t)
	timetabler := NewBacktrackingTimetabler()

	t.Run("Pre-fixed assignments are kept", func(t *testing.T) {
		//** Arrange
		initial := manualSchedule(t, problem, placement{"A", 15, "Room3"})

		//** Act
		schedule, _, err := timetabler.Build(problem, initial)

		//** Assert
		require.NoError(t, err)
		require.NotNil(t, schedule)
		assert.True(t, timetabler.Verify(*schedule, problem))
		a, _ := schedule.Get(courseId(t, problem, "A"))
		assert.Equal(t, 15.0, a.Start())
		assert.Equal(t, uint64(2), a.Room())
		b, _ := schedule.Get(courseId(t, problem, "B"))
		assert.Equal(t, 16.0, b.Start())

		// The caller's schedule is left untouched
		_, derived := lo.Must(initial.Get(courseId(t, problem, "A"))).End()
		assert.False(t, derived)
		assert.Len(t, initial.Unassigned(), 4)
	})

	t.Run("Invalid pre-fixed assignments admit no solution", func(t *testing.T) {
		initial := manualSchedule(t, problem, placement{"A", 9, "Room2"})

		schedule, _, err := timetabler.Build(problem, initial)

		assert.NoError(t, err)
		assert.Nil(t, schedule)
	})

	t.Run("Initial schedule of another problem", func(t *testing.T) {
		_, _, err := timetabler.Build(problem, newSchedule(2))
		assert.Error(t, err)
	})

	t.Run("Problem without courses", func(t *testing.T) {
		empty := Problem{WorkingHours: Interval{Start: 9, End: 17}}
		schedule, _, err := timetabler.Build(empty, NewSchedule(empty))
		require.NoError(t, err)
		require.NotNil(t, schedule)
		assert.Zero(t, schedule.Len())
	})
}

func TestSelectMostConstrained(t *testing.T) {
	newState := func(problem Problem) *searchState {
		return &searchState{
			problem: problem,
			checker: NewConstraintChecker(problem),
			slots:   CandidateSlots(problem),
		}
	}

	t.Run("Fewest feasible slots", func(t *testing.T) {
		// "E" only fits in Room3 and must end by 12, leaving 3 slots against 16, 21, 24 and 8 for the others
		problem := sampleProblem(t)
		course, ok := selectMostConstrained(newState(problem), NewSchedule(problem))
		assert.True(t, ok)
		assert.Equal(t, courseId(t, problem, "E"), course)
	})

	t.Run("Counts only against assigned courses", func(t *testing.T) {
		// With "E" placed, "D" has the fewest slots left
		problem := sampleProblem(t)
		schedule := NewSchedule(problem)
		schedule.Assign(problem, courseId(t, problem, "E"), 9, 2)
		course, ok := selectMostConstrained(newState(problem), schedule)
		assert.True(t, ok)
		assert.Equal(t, courseId(t, problem, "D"), course)
	})

	t.Run("Ties keep the earliest course", func(t *testing.T) {
		raw := sampleRawInput()
		raw.Constraints = RawConstraints{WorkingHours: []float64{9, 17}}
		lo.ForEach(raw.Courses, func(_ RawCourse, i int) { raw.Courses[i].Students = 10 })
		problem, err := ProcessRawInput(raw)
		require.NoError(t, err)

		course, ok := selectMostConstrained(newState(problem), NewSchedule(problem))
		assert.True(t, ok)
		assert.Equal(t, uint64(0), course)
	})

	t.Run("Courses without feasible slots are still selected", func(t *testing.T) {
		raw := sampleRawInput()
		raw.Courses = append(raw.Courses, RawCourse{Name: "F", Duration: 1, Instructor: "W", Students: 500})
		problem, err := ProcessRawInput(raw)
		require.NoError(t, err)

		course, ok := selectMostConstrained(newState(problem), NewSchedule(problem))
		assert.True(t, ok)
		assert.Equal(t, courseId(t, problem, "F"), course)
	})

	t.Run("Nothing to select once every course is assigned", func(t *testing.T) {
		problem := sampleProblem(t)
		schedule := NewSchedule(problem)
		for course := range problem.Courses {
			schedule.Assign(problem, uint64(course), 9, 0)
		}
		_, ok := selectMostConstrained(newState(problem), schedule)
		assert.False(t, ok)
		_, ok = selectFirstUnassigned(newState(problem), schedule)
		assert.False(t, ok)
	})
}
