package attempt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

// Outcome is the submit step's explicit result variant. The user-facing
// surface reports success regardless (the flow never blocks the user once
// questions are loaded), but every degradation is recorded here so callers,
// tests and the local journal can tell a clean submit from a masked failure.
type Outcome struct {
	Result          model.Result
	Summary         ScoreSummary
	Degradations    []string
	ResultPersisted bool
}

// Clean reports whether the submission completed with no degradation.
func (o Outcome) Clean() bool {
	return o.ResultPersisted && len(o.Degradations) == 0
}

// Submitter persists an attempt: per-question answers and session finalize
// for real sessions, then always one Result record built from the local
// score, whether or not the session was real and whether or not any earlier
// write failed.
type Submitter struct {
	client *api.Client
	log    zerolog.Logger
}

func NewSubmitter(client *api.Client, log zerolog.Logger) *Submitter {
	return &Submitter{
		client: client,
		log:    log.With().Str("component", "submitter").Logger(),
	}
}

// Submit runs the whole persistence path. It never returns an error: every
// failure downgrades to a recorded degradation and the flow carries on to
// the next write.
func (s *Submitter) Submit(ctx context.Context, cred api.Credential, userID int64, exam model.Exam, ref SessionRef, answers map[int64]string, questions []model.Question) Outcome {
	outcome := Outcome{Summary: Score(answers, questions)}

	if ref.Real {
		s.submitAnswers(ctx, cred, ref, answers, questions, &outcome)

		if _, err := s.client.SubmitSession(ctx, cred, ref.RealID); err != nil {
			s.log.Warn().Err(err).Int64("session_id", ref.RealID).Msg("session submit failed")
			outcome.Degradations = append(outcome.Degradations, fmt.Sprintf("session submit failed: %v", err))
		}
	} else {
		s.log.Debug().Str("session_id", ref.ID).Msg("fallback session, skipping backend session writes")
	}

	outcome.Result = model.Result{
		UserID:     userID,
		ExamID:     exam.ID,
		SessionID:  ref.ID,
		Score:      outcome.Summary.Score,
		TotalMarks: outcome.Summary.TotalMarks,
		Percentage: outcome.Summary.Percentage,
		Status:     model.ResultStatusCompleted,
	}

	created, err := s.client.CreateResult(ctx, cred, outcome.Result)
	if err != nil {
		s.log.Error().Err(err).Int64("exam_id", exam.ID).Msg("result persist failed")
		outcome.Degradations = append(outcome.Degradations, fmt.Sprintf("result persist failed: %v", err))
		return outcome
	}

	outcome.Result = created
	outcome.ResultPersisted = true
	s.log.Info().
		Int64("exam_id", exam.ID).
		Int("score", outcome.Summary.Score).
		Int("total_marks", outcome.Summary.TotalMarks).
		Bool("fallback_session", ref.IsFallback()).
		Msg("result persisted")
	return outcome
}

// submitAnswers records each answered question against the session in
// question order. Individual failures are degradations, never fatal.
func (s *Submitter) submitAnswers(ctx context.Context, cred api.Credential, ref SessionRef, answers map[int64]string, questions []model.Question, outcome *Outcome) {
	for _, question := range questions {
		answer, ok := answers[question.ID]
		if !ok {
			continue
		}
		if err := s.client.SubmitAnswer(ctx, cred, ref.RealID, question.ID, answer); err != nil {
			s.log.Warn().Err(err).Int64("question_id", question.ID).Msg("answer submit failed")
			outcome.Degradations = append(outcome.Degradations,
				fmt.Sprintf("answer submit failed for question %d: %v", question.ID, err))
		}
	}
}
