package attempt

import (
	"strings"
	"unicode"

	"github.com/examportal/examterm/internal/model"
)

// QuestionScore is the per-question grading detail. It exists for diagnostics
// and the end-of-attempt review only; nothing persists it.
type QuestionScore struct {
	QuestionID    int64
	UserAnswer    string
	CorrectAnswer string
	Marks         int
	IsCorrect     bool
	Awarded       int
}

// ScoreSummary aggregates an attempt's local grading.
type ScoreSummary struct {
	Score          int
	TotalMarks     int
	Percentage     float64
	CorrectCount   int
	TotalQuestions int
	Details        []QuestionScore
}

// Score grades the answer map against the loaded questions. This is a local
// recomputation: the backend remains the authority for any score it derives
// itself, and this summary is what feeds the client-constructed Result.
//
// Per question: the stored answer is reduced to its leading letter (both "B"
// and "B) four bytes" reduce to "B") and compared case-insensitively against
// the question's correct-answer letter. A match awards the question's marks,
// anything else zero. Missing marks count as 1 toward the total.
func Score(answers map[int64]string, questions []model.Question) ScoreSummary {
	summary := ScoreSummary{
		TotalQuestions: len(questions),
		Details:        make([]QuestionScore, 0, len(questions)),
	}

	for _, question := range questions {
		marks := question.MarksValue()
		summary.TotalMarks += marks

		detail := QuestionScore{
			QuestionID:    question.ID,
			CorrectAnswer: strings.ToUpper(strings.TrimSpace(question.CorrectAnswer)),
			Marks:         marks,
		}

		raw, answered := answers[question.ID]
		if answered {
			detail.UserAnswer = answerLetter(raw)
		}

		if detail.UserAnswer != "" && detail.CorrectAnswer != "" &&
			detail.UserAnswer == detail.CorrectAnswer {
			detail.IsCorrect = true
			detail.Awarded = marks
			summary.Score += marks
			summary.CorrectCount++
		}

		summary.Details = append(summary.Details, detail)
	}

	if summary.TotalMarks > 0 {
		summary.Percentage = float64(summary.Score) / float64(summary.TotalMarks) * 100
	}
	return summary
}

// answerLetter extracts the leading letter token from a stored answer. Both
// the bare form ("b") and the option form ("B) four bytes") reduce to the
// uppercased first rune; empty input yields "".
func answerLetter(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	return string(unicode.ToUpper(runes[0]))
}
