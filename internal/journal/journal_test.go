package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/examterm/internal/attempt"
	"github.com/examportal/examterm/internal/model"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndListByUser(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	exam := model.Exam{ID: 9, Title: "Networking Basics"}
	outcome := attempt.Outcome{
		Result:  model.Result{SessionID: "5"},
		Summary: attempt.ScoreSummary{Score: 10, TotalMarks: 20, Percentage: 50},
		Degradations: []string{
			"session start failed: conflict",
		},
		ResultPersisted: true,
	}

	require.NoError(t, j.Record(ctx, "attempt-1", 3, exam, outcome))

	entries, err := j.ListByUser(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "attempt-1", entry.ID)
	assert.Equal(t, int64(9), entry.ExamID)
	assert.Equal(t, "Networking Basics", entry.ExamTitle)
	assert.Equal(t, "5", entry.SessionID)
	assert.Equal(t, 10, entry.Score)
	assert.Equal(t, 20, entry.TotalMarks)
	assert.InDelta(t, 50.0, entry.Percentage, 0.001)
	assert.True(t, entry.Persisted)
	assert.Contains(t, entry.Degradations, "session start failed")
	assert.False(t, entry.SubmittedAt.IsZero())
}

func TestListByUserFiltersAndLimits(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	exam := model.Exam{ID: 9, Title: "Exam"}

	for i, userID := range []int64{3, 3, 3, 4} {
		id := string(rune('a' + i))
		require.NoError(t, j.Record(ctx, id, userID, exam, attempt.Outcome{}))
	}

	entries, err := j.ListByUser(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	entries, err = j.ListByUser(ctx, 4, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entries, err = j.ListByUser(ctx, 99, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnpersistedOutcomeIsMarked(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	outcome := attempt.Outcome{
		Result:          model.Result{SessionID: "fallback-9-123"},
		ResultPersisted: false,
	}
	require.NoError(t, j.Record(ctx, "attempt-x", 3, model.Exam{ID: 9}, outcome))

	entries, err := j.ListByUser(ctx, 3, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Persisted)
	assert.Equal(t, "fallback-9-123", entries[0].SessionID)
}
