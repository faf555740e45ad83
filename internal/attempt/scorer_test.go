package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/examterm/internal/model"
)

func TestScoreMatchesLetterPrefix(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectAnswer: "B", Marks: 5},
	}

	summary := Score(map[int64]string{1: "B) four bytes"}, questions)

	require.Len(t, summary.Details, 1)
	assert.True(t, summary.Details[0].IsCorrect)
	assert.Equal(t, 5, summary.Score)
	assert.Equal(t, 1, summary.CorrectCount)
}

func TestScoreIsCaseInsensitive(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectAnswer: "B", Marks: 2},
		{ID: 2, CorrectAnswer: "a", Marks: 2},
	}

	summary := Score(map[int64]string{1: "b", 2: "A) Paris"}, questions)

	assert.Equal(t, 4, summary.Score)
	assert.Equal(t, 2, summary.CorrectCount)
}

func TestScoreWrongAndMissingAnswers(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectAnswer: "A", Marks: 3},
		{ID: 2, CorrectAnswer: "C", Marks: 3},
	}

	summary := Score(map[int64]string{1: "B"}, questions)

	assert.Equal(t, 0, summary.Score)
	assert.Equal(t, 6, summary.TotalMarks)
	assert.Equal(t, 0, summary.CorrectCount)
	assert.Equal(t, 2, summary.TotalQuestions)
}

func TestScoreDefaultsMarksToOne(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectAnswer: "A"},
		{ID: 2, CorrectAnswer: "B", Marks: 0},
	}

	summary := Score(map[int64]string{1: "A", 2: "B"}, questions)

	assert.Equal(t, 2, summary.Score)
	assert.Equal(t, 2, summary.TotalMarks)
	assert.InDelta(t, 100.0, summary.Percentage, 0.001)
}

func TestScoreZeroQuestions(t *testing.T) {
	summary := Score(map[int64]string{}, nil)

	assert.Equal(t, 0, summary.TotalMarks)
	assert.Zero(t, summary.Percentage)
}

func TestScoreHalfCorrect(t *testing.T) {
	questions := []model.Question{
		{ID: 1, CorrectAnswer: "A", Marks: 10},
		{ID: 2, CorrectAnswer: "B", Marks: 10},
	}

	summary := Score(map[int64]string{1: "A", 2: "C"}, questions)

	assert.Equal(t, 10, summary.Score)
	assert.Equal(t, 20, summary.TotalMarks)
	assert.InDelta(t, 50.0, summary.Percentage, 0.001)
}
