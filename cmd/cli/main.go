package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/limaJavier/coursescheduling/internal/archive"
	"github.com/limaJavier/coursescheduling/internal/config"
	"github.com/limaJavier/coursescheduling/internal/csvio"
	"github.com/limaJavier/coursescheduling/pkg/model"
	"github.com/samber/lo"
)

const (
	exitSolved   = 10
	exitInvalid  = 15
	exitNoSolved = 20
)

var (
	validModes      = []string{"solve", "validate"}
	validStrategies = []string{"mcv", "static"}
	timetablers     = map[string]func() model.Timetabler{
		"mcv":    model.NewBacktrackingTimetabler,
		"static": model.NewStaticOrderTimetabler,
	}
)

func main() {
	cfg, err := config.LoadBesideExecutable()
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}

	// Define arguments
	modePtr := flag.String("mode", "solve", `Mode of operation. Allowed values are:
- "solve" (Build a complete schedule with the backtracking search, starting from the assignments given by -schedule if any) and
- "validate" (Check the assignments given by -schedule and report the first violated constraint of every course), where "solve" is the default`)
	strategyPtr := flag.String("strategy", cfg.Strategy, `Course ordering used by the search. Allowed values are "mcv" (most constrained course first) and "static" (definition order)`)
	filePathPtr := flag.String("file", "", "Path to the problem file (JSON)")
	schedulePathPtr := flag.String("schedule", "", "Path to a CSV file with caller-supplied assignments (course,start,room)")
	outFilePathPtr := flag.String("out", "", "Path to the file where the schedule will be written as CSV; if empty, a table is written into the Standard Output")
	reassignPtr := flag.Bool("reassign", false, "In validate mode, choose rooms anew for the given start times before validating")
	archivePathPtr := flag.String("archive", cfg.Archive, "Path to a sqlite database where the run is recorded; if empty, nothing is recorded")
	flag.Parse()
	mode := strings.ToLower(*modePtr)
	strategy := strings.ToLower(*strategyPtr)
	filePath := *filePathPtr
	schedulePath := *schedulePathPtr

	// Validate arguments
	if !slices.Contains(validModes, mode) {
		log.Fatalf("%v is not a valid mode", mode)
	} else if !slices.Contains(validStrategies, strategy) {
		log.Fatalf("%v is not a valid strategy", strategy)
	} else if filePath == "" {
		log.Fatal("an input file must be specified")
	} else if mode == "validate" && schedulePath == "" {
		log.Fatal("validate mode requires a schedule file")
	}
	delim, err := cfg.DelimiterRune()
	if err != nil {
		log.Fatal(err)
	}

	// Extract input
	problem, err := model.ProblemFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	schedule := model.NewSchedule(problem)
	if schedulePath != "" {
		schedule, err = csvio.LoadAssignmentsFile(schedulePath, delim, problem)
		if err != nil {
			log.Fatalf("cannot parse schedule file: %v", err)
		}
	}

	run := archive.Run{
		Problem:  path.Base(filePath),
		Mode:     mode,
		Strategy: strategy,
	}
	var exitCode int
	start := time.Now()

	switch mode {
	case "solve":
		timetabler := timetablers[strategy]()
		solution, stats, err := timetabler.Build(problem, schedule)
		if err != nil {
			log.Fatalf("an error occurred during schedule construction: %v", err)
		}
		run.DurationMs = float64(time.Since(start).Microseconds()) / 1000
		run.Nodes, run.Checks, run.Backtracks = stats.Nodes, stats.Checks, stats.Backtracks

		if solution == nil {
			fmt.Printf("No schedule satisfies every constraint (%.2f ms)\n", run.DurationMs)
			run.Outcome = "unsatisfiable"
			exitCode = exitNoSolved
			break
		}

		// Verify schedule correctness
		if !timetabler.Verify(*solution, problem) {
			log.Fatal("verification failed")
		}
		fmt.Printf("Schedule found (%.2f ms, %d nodes, %d checks, %d backtracks)\n", run.DurationMs, stats.Nodes, stats.Checks, stats.Backtracks)
		run.Outcome = "solved"
		schedule = *solution
		exitCode = exitSolved

	case "validate":
		if *reassignPtr {
			reassigned, err := model.ReassignRooms(schedule, problem)
			if err != nil {
				log.Printf("cannot reassign rooms: %v", err)
			} else {
				schedule = reassigned
			}
		}

		report := model.Validate(schedule, problem)
		run.DurationMs = float64(time.Since(start).Microseconds()) / 1000
		printReport(os.Stdout, report, schedule, problem)

		run.Outcome = "valid"
		exitCode = exitSolved
		if !report.Valid() {
			run.Outcome = "invalid"
			exitCode = exitInvalid
		}
	}

	// Verify outfile is empty, if so then write the schedule to the Standard Output
	if *outFilePathPtr == "" {
		printSchedule(os.Stdout, schedule, problem)
	} else if err := csvio.ExportScheduleFile(*outFilePathPtr, delim, schedule, problem); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}

	if *archivePathPtr != "" {
		record(*archivePathPtr, run, delim, schedule, problem)
	}

	os.Exit(exitCode)
}

func record(archivePath string, run archive.Run, delim rune, schedule model.Schedule, problem model.Problem) {
	var buffer bytes.Buffer
	if err := csvio.ExportSchedule(&buffer, delim, schedule, problem); err != nil {
		log.Printf("cannot format schedule for the archive: %v", err)
		return
	}
	run.Schedule = buffer.String()

	runs, err := archive.Open(archivePath)
	if err != nil {
		log.Printf("cannot open archive: %v", err)
		return
	}
	defer runs.Close()

	if _, err := runs.Record(run); err != nil {
		log.Printf("cannot record run: %v", err)
	}
}

func printReport(out io.Writer, report model.Report, schedule model.Schedule, problem model.Problem) {
	unassigned := len(schedule.Unassigned())
	violations := report.Violations()

	if unassigned > 0 {
		fmt.Fprintf(out, "[FAIL]: Completeness check (%d unassigned courses).\n", unassigned)
	} else {
		fmt.Fprintln(out, "[  OK]: Completeness check.")
	}

	for _, constraint := range model.Constraints {
		violating := lo.Filter(violations, func(courseReport model.CourseReport, _ int) bool { return courseReport.Violated == constraint })
		if len(violating) == 0 {
			fmt.Fprintf(out, "[  OK]: %v check.\n", constraint)
			continue
		}
		fmt.Fprintf(out, "[FAIL]: %v check.\n", constraint)
		for _, courseReport := range violating {
			fmt.Fprintf(out, "    - %v\n", describe(courseReport, schedule, problem))
		}
	}
}

func describe(courseReport model.CourseReport, schedule model.Schedule, problem model.Problem) string {
	course := problem.Courses[courseReport.Course]
	assignment, _ := schedule.Get(course.Id)

	switch courseReport.Violated {
	case model.PrecedenceConstraint:
		predecessors := lo.FilterMap(problem.Precedences, func(precedence model.Precedence, _ int) (string, bool) {
			return problem.Courses[precedence.Before].Name, precedence.After == course.Id
		})
		return fmt.Sprintf("%v starts before %v ends", course.Name, strings.Join(predecessors, ", "))
	case model.AbsoluteTimeConstraint:
		bounds := lo.FilterMap(problem.TimeBounds, func(bound model.TimeBound, _ int) (string, bool) {
			return fmt.Sprintf("%v %v", strings.ReplaceAll(bound.Kind.String(), "_", " "), csvio.FormatTime(bound.Value)), bound.Course == course.Id
		})
		return fmt.Sprintf("%v must %v", course.Name, strings.Join(bounds, ", "))
	case model.RoomCapacityConstraint:
		if !assignment.HasRoom() || assignment.Room() >= uint64(len(problem.Rooms)) {
			return fmt.Sprintf("%v has no known room", course.Name)
		}
		room := problem.Rooms[assignment.Room()]
		return fmt.Sprintf("%v has %d students but %v seats %d", course.Name, course.Students, room.Name, room.Capacity)
	case model.InstructorAvailabilityConstraint:
		instructor := problem.Instructors[course.Instructor]
		blocked := lo.Map(instructor.Unavailability, func(interval model.Interval, _ int) string {
			return fmt.Sprintf("[%v-%v]", csvio.FormatTime(interval.Start), csvio.FormatTime(interval.End))
		})
		return fmt.Sprintf("%v is unavailable at %v: %v", instructor.Name, csvio.FormatTime(assignment.Start()), strings.Join(blocked, ", "))
	case model.NoOverlapConstraint:
		return fmt.Sprintf("%v shares its room or instructor with another course at %v", course.Name, csvio.FormatTime(assignment.Start()))
	case model.NoConstraint:
		return fmt.Sprintf("%v is not defined by the problem", course.Name)
	}
	return fmt.Sprintf("%v is out of the working hours", course.Name)
}

func printSchedule(out io.Writer, schedule model.Schedule, problem model.Problem) {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "Course\tInstructor\tTime\tRoom")
	for _, row := range csvio.ScheduleRows(schedule, problem) {
		period := row.Start
		if row.Start != csvio.Unscheduled {
			period = row.Start + " - " + row.End
		}
		fmt.Fprintf(writer, "%v\t%v\t%v\t%v\n", row.Course, row.Instructor, period, lo.Ternary(row.Room == "", "---", row.Room))
	}
	writer.Flush()
}
