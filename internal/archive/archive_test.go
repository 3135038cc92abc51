package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	//** Arrange
	path := filepath.Join(t.TempDir(), "runs.db")
	archive, err := Open(path)
	require.NoError(t, err)
	defer archive.Close()

	createdAt := time.UnixMilli(1_700_000_000_000)
	solved := Run{
		Problem:    "sample.json",
		Mode:       "solve",
		Strategy:   "mcv",
		Outcome:    "solved",
		DurationMs: 1.25,
		Nodes:      6,
		Checks:     412,
		Schedule:   "course,instructor,start,end,room\nA,X,09:00,10:00,Room1\n",
		CreatedAt:  createdAt,
	}
	infeasible := Run{
		Problem:    "infeasible.json",
		Mode:       "solve",
		Strategy:   "static",
		Outcome:    "unsatisfiable",
		Backtracks: 3,
	}

	//** Act
	firstId, err := archive.Record(solved)
	require.NoError(t, err)
	secondId, err := archive.Record(infeasible)
	require.NoError(t, err)

	//** Assert
	assert.Less(t, firstId, secondId)

	all, err := archive.Runs("")
	require.NoError(t, err)
	require.Len(t, all, 2)
	solved.Id = firstId
	assert.Equal(t, solved, all[0])
	assert.Equal(t, "infeasible.json", all[1].Problem)
	assert.Equal(t, uint64(3), all[1].Backtracks)
	assert.False(t, all[1].CreatedAt.IsZero())

	filtered, err := archive.Runs("infeasible.json")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, secondId, filtered[0].Id)

	// Runs are kept across reopenings
	require.NoError(t, archive.Close())
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	all, err = reopened.Runs("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
