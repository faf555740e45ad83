package model

import "strings"

// QuestionType enumerates supported question kinds. The portal only ever
// serves multiple-choice questions to the exam flow.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeTrueFalse      QuestionType = "TRUE_FALSE"
)

// DifficultyLevel tags a question's difficulty.
type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "EASY"
	DifficultyMedium DifficultyLevel = "MEDIUM"
	DifficultyHard   DifficultyLevel = "HARD"
)

// DefaultMarks returns the marks a question of this difficulty is worth when
// none are given explicitly.
func (d DifficultyLevel) DefaultMarks() int {
	switch d {
	case DifficultyMedium:
		return 2
	case DifficultyHard:
		return 5
	default:
		return 1
	}
}

// Question is a single exam question. Options arrive from the backend as one
// comma-separated string; CorrectAnswer is a letter token (A-D).
type Question struct {
	ID              int64           `json:"id"`
	QuestionText    string          `json:"questionText"`
	QuestionType    QuestionType    `json:"questionType,omitempty"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel,omitempty"`
	Marks           int             `json:"marks"`
	ExamID          int64           `json:"examId"`
	Options         string          `json:"options"`
	CorrectAnswer   string          `json:"correctAnswer"`
	Explanation     string          `json:"explanation,omitempty"`
	CreatedBy       int64           `json:"createdBy,omitempty"`
}

// OptionList splits the comma-separated options into trimmed entries.
func (q Question) OptionList() []string {
	if strings.TrimSpace(q.Options) == "" {
		return nil
	}
	parts := strings.Split(q.Options, ",")
	options := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	return options
}

// MarksValue returns the question's marks, defaulting to 1 when the backend
// record carries none.
func (q Question) MarksValue() int {
	if q.Marks <= 0 {
		return 1
	}
	return q.Marks
}

// CreateQuestionRequest is the payload for adding a question to an exam.
type CreateQuestionRequest struct {
	QuestionText    string          `json:"questionText"`
	QuestionType    QuestionType    `json:"questionType"`
	DifficultyLevel DifficultyLevel `json:"difficultyLevel"`
	Marks           int             `json:"marks"`
	ExamID          int64           `json:"examId"`
	Options         string          `json:"options"`
	CorrectAnswer   string          `json:"correctAnswer"`
	Explanation     string          `json:"explanation,omitempty"`
	CreatedBy       int64           `json:"createdBy,omitempty"`
}
