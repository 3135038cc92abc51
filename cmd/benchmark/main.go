package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/limaJavier/coursescheduling/internal/csvio"
	"github.com/limaJavier/coursescheduling/pkg/model"
	"github.com/samber/lo"
)

const problemsDirectory = "../../test/problems/"

type ResultType int

const (
	solved ResultType = iota
	unsatisfiable
	failed
)

var (
	strategies = map[string]func() model.Timetabler{
		"mcv":    model.NewBacktrackingTimetabler,
		"static": model.NewStaticOrderTimetabler,
	}
	resultTypes = map[ResultType]string{
		solved:        "solved",
		unsatisfiable: "unsatisfiable",
		failed:        "failed",
	}
)

type TestMetadata struct {
	Name        string
	Problem     model.Problem
	Courses     int
	Rooms       int
	Instructors int
	Precedences int
	TimeBounds  int
}

type BenchmarkResult struct {
	Strategy    string  `csv:"strategy"`
	Test        string  `csv:"test"`
	Courses     int     `csv:"courses"`
	Rooms       int     `csv:"rooms"`
	Instructors int     `csv:"instructors"`
	Precedences int     `csv:"precedences"`
	TimeBounds  int     `csv:"time_bounds"`
	Duration    float64 `csv:"duration_ms"`
	Nodes       uint64  `csv:"nodes"`
	Checks      uint64  `csv:"checks"`
	Backtracks  uint64  `csv:"backtracks"`
	Result      string  `csv:"result"`
}

func main() {
	directoryPtr := flag.String("dir", problemsDirectory, "Directory holding the problem files (JSON) to benchmark")
	outFilePathPtr := flag.String("out", "benchmark_results.csv", "Path to the CSV file where the results will be written")
	flag.Parse()

	tests := getTests(*directoryPtr)
	results := make([]*BenchmarkResult, 0, len(tests)*len(strategies))

	for _, test := range tests {
		for _, strategy := range getStrategies() {
			fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\"\n", test.Name, strategy)
			results = append(results, measure(strategy, test))
		}
	}

	toCsv(*outFilePathPtr, results)
}

func getTests(directory string) []TestMetadata {
	testFiles, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(testFiles))
	for _, file := range testFiles {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		filename := path.Join(directory, file.Name())
		problem, err := model.ProblemFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:        filename,
			Problem:     problem,
			Courses:     len(problem.Courses),
			Rooms:       len(problem.Rooms),
			Instructors: len(problem.Instructors),
			Precedences: len(problem.Precedences),
			TimeBounds:  len(problem.TimeBounds),
		})
	}

	return tests
}

// getStrategies returns the strategy names in a fixed order
func getStrategies() []string {
	return []string{"mcv", "static"}
}

func measure(strategy string, test TestMetadata) *BenchmarkResult {
	timetabler := strategies[strategy]()

	start := time.Now()
	schedule, stats, err := timetabler.Build(test.Problem, model.NewSchedule(test.Problem))
	duration := time.Since(start)

	result := solved
	if err != nil {
		log.Printf("an error occurred during the execution at test \"%v\" using strategy \"%v\": %v", test.Name, strategy, err)
		result = failed
	} else if schedule == nil {
		result = unsatisfiable
	} else if !timetabler.Verify(*schedule, test.Problem) {
		log.Printf("verification failed at test \"%v\" using strategy \"%v\"", test.Name, strategy)
		result = failed
	}

	return &BenchmarkResult{
		Strategy:    strategy,
		Test:        test.Name,
		Courses:     test.Courses,
		Rooms:       test.Rooms,
		Instructors: test.Instructors,
		Precedences: test.Precedences,
		TimeBounds:  test.TimeBounds,
		Duration:    toMilliseconds(duration),
		Nodes:       stats.Nodes,
		Checks:      stats.Checks,
		Backtracks:  stats.Backtracks,
		Result:      resultTypes[result],
	}
}

func toMilliseconds(duration time.Duration) float64 {
	return float64(duration.Microseconds()) / 1000
}

func toCsv(filePath string, results []*BenchmarkResult) {
	file, err := os.Create(filePath)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	if err := csvio.WriteRows(file, ',', &results); err != nil {
		log.Panicf("cannot write CSV records: %v", err)
	}

	unsolved := lo.CountBy(results, func(result *BenchmarkResult) bool { return result.Result != resultTypes[solved] })
	fmt.Printf("%d runs written to %v (%d unsolved)\n", len(results), filePath, unsolved)
}
