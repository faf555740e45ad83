package attempt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

// LoadState classifies the outcome of the initial exam/question fetch.
// Degraded means the attempt proceeds on placeholder data; the caller decides
// whether to surface that. Fatal halts the attempt (authentication failures).
type LoadState string

const (
	LoadStateLoaded   LoadState = "loaded"
	LoadStateDegraded LoadState = "degraded"
	LoadStateFatal    LoadState = "fatal"
)

// LoadResult is the explicit outcome variant for the load step, so tests and
// monitoring can tell real data from masked failure.
type LoadResult struct {
	State     LoadState
	Exam      model.Exam
	Questions []model.Question
	Reasons   []string
	Err       error
}

// Loader fetches an exam and its questions, degrading to a fixed placeholder
// set instead of failing the attempt. The user is never stuck mid-exam over
// a data-fetch error; only a 401 aborts.
type Loader struct {
	client *api.Client
	log    zerolog.Logger
}

func NewLoader(client *api.Client, log zerolog.Logger) *Loader {
	return &Loader{
		client: client,
		log:    log.With().Str("component", "attempt_loader").Logger(),
	}
}

// Load fetches exam metadata then the question list, sequentially.
func (l *Loader) Load(ctx context.Context, cred api.Credential, examID int64) LoadResult {
	result := LoadResult{State: LoadStateLoaded}

	exam, err := l.client.GetExam(ctx, cred, examID)
	switch {
	case err == nil:
		result.Exam = exam
	case api.IsUnauthorized(err):
		l.log.Error().Err(err).Int64("exam_id", examID).Msg("authentication failed loading exam")
		return LoadResult{State: LoadStateFatal, Err: fmt.Errorf("authentication failed: %w", err)}
	default:
		l.log.Warn().Err(err).Int64("exam_id", examID).Msg("exam load failed, using placeholder")
		result.State = LoadStateDegraded
		result.Reasons = append(result.Reasons, fmt.Sprintf("exam load failed: %v", err))
		result.Exam = placeholderExam(examID)
	}

	questions, err := l.client.ListQuestionsByExam(ctx, cred, examID)
	switch {
	case err != nil:
		l.log.Warn().Err(err).Int64("exam_id", examID).Msg("question load failed, using placeholder set")
		result.State = LoadStateDegraded
		result.Reasons = append(result.Reasons, fmt.Sprintf("question load failed: %v", err))
		result.Questions = placeholderQuestions(examID)
	case len(questions) == 0:
		l.log.Warn().Int64("exam_id", examID).Msg("exam has no questions, using placeholder set")
		result.State = LoadStateDegraded
		result.Reasons = append(result.Reasons, "exam has no questions")
		result.Questions = placeholderQuestions(examID)
	default:
		result.Questions = questions
	}

	return result
}

// placeholderExam stands in when exam metadata cannot be loaded.
func placeholderExam(examID int64) model.Exam {
	return model.Exam{
		ID:              examID,
		Title:           "Practice Exam",
		Description:     "Offline practice set served while the exam service is unavailable.",
		DurationMinutes: 60,
		TotalMarks:      20,
		PassingMarks:    12,
		Status:          model.ExamStatusActive,
	}
}

// placeholderQuestions is the fixed degraded-mode question set.
func placeholderQuestions(examID int64) []model.Question {
	return []model.Question{
		{
			ID:            1,
			ExamID:        examID,
			QuestionText:  "What is the capital of France?",
			QuestionType:  model.QuestionTypeMultipleChoice,
			Options:       "A) Paris,B) London,C) Berlin,D) Madrid",
			CorrectAnswer: "A",
			Marks:         10,
		},
		{
			ID:            2,
			ExamID:        examID,
			QuestionText:  "Which programming language is primarily used for web front-ends?",
			QuestionType:  model.QuestionTypeMultipleChoice,
			Options:       "A) JavaScript,B) Python,C) C++,D) Java",
			CorrectAnswer: "A",
			Marks:         10,
		},
	}
}
