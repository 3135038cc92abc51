package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/coursescheduling/pkg/model"
)

// AssignmentRow is one caller-supplied assignment, start is given either as decimal hours ("9.5") or as "HH:MM"
type AssignmentRow struct {
	Course string `csv:"course"`
	Start  string `csv:"start"`
	Room   string `csv:"room"`
}

// LoadAssignmentsFile reads a schedule from the CSV file at path, see LoadAssignments
func LoadAssignmentsFile(path string, delim rune, problem model.Problem) (model.Schedule, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("cannot open assignments file: %w", err)
	}
	defer file.Close()

	return LoadAssignments(file, delim, problem)
}

// LoadAssignments builds a schedule of the problem from CSV rows. Unscheduled rows are skipped, unknown
// rooms are kept as model.UnknownRoom so that validation reports them, and unknown courses are an error
func LoadAssignments(in io.Reader, delim rune, problem model.Problem) (model.Schedule, error) {
	reader := csv.NewReader(in)
	reader.Comma = delim
	reader.TrimLeadingSpace = true

	rows := []*AssignmentRow{}
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return model.Schedule{}, fmt.Errorf("%w: cannot parse assignments: %v", model.ErrMalformedInput, err)
	}

	schedule := model.NewSchedule(problem)
	for line, row := range rows {
		course, ok := problem.CourseByName(strings.TrimSpace(row.Course))
		if !ok {
			return model.Schedule{}, fmt.Errorf("row %d: %w: \"%v\"", line+1, model.ErrUnknownCourse, row.Course)
		}

		if start := strings.TrimSpace(row.Start); start == "" || start == Unscheduled {
			continue
		}
		start, err := ParseTime(row.Start)
		if err != nil {
			return model.Schedule{}, fmt.Errorf("row %d: %w", line+1, err)
		}

		room := model.NoRoom
		if name := strings.TrimSpace(row.Room); name != "" {
			room = model.UnknownRoom
			if found, ok := problem.RoomByName(name); ok {
				room = found.Id
			}
		}

		schedule.Place(course.Id, start, room)
	}

	return schedule, nil
}

// ParseTime reads either decimal hours ("13", "9.5") or a clock time ("09:30")
func ParseTime(value string) (float64, error) {
	value = strings.TrimSpace(value)

	hoursStr, minutesStr, isClock := strings.Cut(value, ":")
	if !isClock {
		hours, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid time \"%v\"", model.ErrMalformedInput, value)
		}
		return hours, nil
	}

	hours, err := strconv.Atoi(hoursStr)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: invalid hours in \"%v\"", model.ErrMalformedInput, value)
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes < 0 || minutes >= 60 {
		return 0, fmt.Errorf("%w: invalid minutes in \"%v\"", model.ErrMalformedInput, value)
	}
	return float64(hours) + float64(minutes)/60, nil
}
