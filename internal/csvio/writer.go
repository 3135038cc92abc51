package csvio

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/coursescheduling/pkg/model"
	"github.com/samber/lo"
)

const (
	Unscheduled = "unscheduled"
	unknownRoom = "?"
)

type ScheduleRow struct {
	Course     string `csv:"course"`
	Instructor string `csv:"instructor"`
	Start      string `csv:"start"`
	End        string `csv:"end"`
	Room       string `csv:"room"`
}

// FormatTime formats decimal hours as "HH:MM", e.g. 9.5 as "09:30"
func FormatTime(hours float64) string {
	whole := int(hours)
	minutes := int(math.Round((hours - float64(whole)) * 60))
	if minutes == 60 {
		whole, minutes = whole+1, 0
	}
	return fmt.Sprintf("%02d:%02d", whole, minutes)
}

// ScheduleRows formats the schedule ordered by start time, unassigned courses come last
func ScheduleRows(schedule model.Schedule, problem model.Problem) []*ScheduleRow {
	courses := slices.Clone(problem.Courses)
	startOf := func(course model.Course) float64 {
		assignment, ok := schedule.Get(course.Id)
		if !ok || !assignment.Assigned() {
			return math.Inf(1)
		}
		return assignment.Start()
	}
	slices.SortStableFunc(courses, func(a, b model.Course) int { return cmp.Compare(startOf(a), startOf(b)) })

	return lo.Map(courses, func(course model.Course, _ int) *ScheduleRow {
		row := &ScheduleRow{
			Course:     course.Name,
			Instructor: problem.Instructors[course.Instructor].Name,
			Start:      Unscheduled,
		}

		assignment, ok := schedule.Get(course.Id)
		if !ok || !assignment.Assigned() {
			return row
		}

		row.Start = FormatTime(assignment.Start())
		row.End = FormatTime(assignment.Start() + course.Duration)
		switch {
		case assignment.HasRoom() && assignment.Room() < uint64(len(problem.Rooms)):
			row.Room = problem.Rooms[assignment.Room()].Name
		case assignment.Room() != model.NoRoom:
			row.Room = unknownRoom
		}
		return row
	})
}

// ExportSchedule writes the schedule as CSV rows
func ExportSchedule(out io.Writer, delim rune, schedule model.Schedule, problem model.Problem) error {
	rows := ScheduleRows(schedule, problem)
	return WriteRows(out, delim, &rows)
}

// ExportScheduleFile writes the schedule to the file at path, replacing it if it exists
func ExportScheduleFile(path string, delim rune, schedule model.Schedule, problem model.Problem) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer out.Close()

	return ExportSchedule(out, delim, schedule, problem)
}

// WriteRows marshals a pointer to a slice of csv-tagged structs
func WriteRows(out io.Writer, delim rune, rows any) error {
	writer := csv.NewWriter(out)
	writer.Comma = delim
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("cannot write rows: %w", err)
	}
	return nil
}
