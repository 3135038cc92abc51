package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMilliseconds(t *testing.T) {
	assert.Equal(t, 61120.0, toMilliseconds(time.Minute+time.Second+120*time.Millisecond))
	assert.Equal(t, 0.5, toMilliseconds(500*time.Microsecond))
	assert.Equal(t, 0.0, toMilliseconds(0))
}

func TestGetTests(t *testing.T) {
	tests := getTests(problemsDirectory)

	names := lo.Map(tests, func(test TestMetadata, _ int) string { return filepath.Base(test.Name) })
	assert.ElementsMatch(t, []string{"infeasible.json", "sample.json"}, names)

	sample, ok := lo.Find(tests, func(test TestMetadata) bool { return filepath.Base(test.Name) == "sample.json" })
	require.True(t, ok)
	assert.Equal(t, 5, sample.Courses)
	assert.Equal(t, 3, sample.Rooms)
	assert.Equal(t, 3, sample.Instructors)
	assert.Equal(t, 1, sample.Precedences)
	assert.Equal(t, 2, sample.TimeBounds)
}

func TestMeasure(t *testing.T) {
	tests := lo.SliceToMap(getTests(problemsDirectory), func(test TestMetadata) (string, TestMetadata) {
		return filepath.Base(test.Name), test
	})

	for _, strategy := range getStrategies() {
		t.Run(strategy, func(t *testing.T) {
			result := measure(strategy, tests["sample.json"])
			assert.Equal(t, "solved", result.Result)
			assert.Equal(t, strategy, result.Strategy)
			assert.Positive(t, result.Nodes)
			assert.Positive(t, result.Checks)

			result = measure(strategy, tests["infeasible.json"])
			assert.Equal(t, "unsatisfiable", result.Result)
			assert.Positive(t, result.Backtracks)
		})
	}
}

func TestToCsv(t *testing.T) {
	//** Arrange
	filePath := filepath.Join(t.TempDir(), "results.csv")
	results := []*BenchmarkResult{
		{Strategy: "mcv", Test: "sample.json", Courses: 5, Duration: 1.5, Nodes: 6, Result: "solved"},
		{Strategy: "static", Test: "infeasible.json", Courses: 3, Backtracks: 4, Result: "unsatisfiable"},
	}

	//** Act
	toCsv(filePath, results)

	//** Assert
	file, err := os.Open(filePath)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"strategy", "test", "courses", "rooms", "instructors", "precedences", "time_bounds", "duration_ms", "nodes", "checks", "backtracks", "result"}, records[0])
	assert.Equal(t, "mcv", records[1][0])
	assert.Equal(t, "1.5", records[1][7])
	assert.Equal(t, "unsatisfiable", records[2][11])
}
