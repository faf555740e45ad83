// Package csvimport validates a question CSV locally before it is uploaded.
// The import endpoint silently skips malformed rows, so catching them here is
// the only way an author finds out a row was dropped.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/examportal/examterm/internal/model"
)

// Header is the exact column order the import endpoint expects.
var Header = []string{
	"questionText", "questionType", "difficultyLevel",
	"marks", "options", "correctAnswer", "explanation",
}

// Row is one parsed CSV record. Validation tags mirror what the import
// endpoint accepts; Marks stays a string here because an empty cell is legal
// (it defaults from the difficulty level).
type Row struct {
	QuestionText    string `validate:"required"`
	QuestionType    string `validate:"omitempty,oneof=MULTIPLE_CHOICE TRUE_FALSE"`
	DifficultyLevel string `validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Marks           string `validate:"omitempty,positivemarks"`
	Options         string `validate:"required"`
	CorrectAnswer   string `validate:"required,answerletter"`
	Explanation     string
}

// RowError attaches a validation failure to its CSV line number.
type RowError struct {
	Line  int
	Field string
	Msg   string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s %s", e.Line, e.Field, e.Msg)
}

// Report is the outcome of validating one CSV file.
type Report struct {
	Rows   []Row
	Errors []RowError
}

// Valid reports whether the file can be uploaded as-is.
func (r Report) Valid() bool {
	return len(r.Errors) == 0
}

// Questions converts the validated rows into question payloads for examID.
// Call only when Valid() is true.
func (r Report) Questions(examID, createdBy int64) []model.CreateQuestionRequest {
	requests := make([]model.CreateQuestionRequest, 0, len(r.Rows))
	for _, row := range r.Rows {
		requests = append(requests, row.toRequest(examID, createdBy))
	}
	return requests
}

func (row Row) toRequest(examID, createdBy int64) model.CreateQuestionRequest {
	questionType := model.QuestionType(strings.ToUpper(row.QuestionType))
	if row.QuestionType == "" {
		questionType = model.QuestionTypeMultipleChoice
	}
	difficulty := model.DifficultyLevel(strings.ToUpper(row.DifficultyLevel))
	if row.DifficultyLevel == "" {
		difficulty = model.DifficultyEasy
	}

	marks := difficulty.DefaultMarks()
	if row.Marks != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(row.Marks)); err == nil {
			marks = parsed
		}
	}

	return model.CreateQuestionRequest{
		QuestionText:    row.QuestionText,
		QuestionType:    questionType,
		DifficultyLevel: difficulty,
		Marks:           marks,
		ExamID:          examID,
		Options:         row.Options,
		CorrectAnswer:   row.CorrectAnswer,
		Explanation:     row.Explanation,
		CreatedBy:       createdBy,
	}
}

// Validator validates question CSV files.
type Validator struct {
	validate *govalidator.Validate
}

// NewValidator builds a Validator with the answerletter rule registered.
func NewValidator() *Validator {
	validate := govalidator.New()
	// correctAnswer must be a single option letter, upper or lower case.
	_ = validate.RegisterValidation("answerletter", func(fl govalidator.FieldLevel) bool {
		value := strings.TrimSpace(fl.Field().String())
		if len(value) != 1 {
			return false
		}
		letter := strings.ToUpper(value)
		return letter >= "A" && letter <= "D"
	})
	// marks, when present, must parse as a positive integer. A plain min=1
	// tag would check the string's length, not its value.
	_ = validate.RegisterValidation("positivemarks", func(fl govalidator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n >= 1
	})
	return &Validator{validate: validate}
}

// Validate parses and validates a question CSV. It reads the whole file;
// parse failures and per-row validation failures both land in the report so
// the author sees every problem at once.
func (v *Validator) Validate(reader io.Reader) (Report, error) {
	parser := csv.NewReader(reader)
	parser.TrimLeadingSpace = true
	parser.FieldsPerRecord = -1

	header, err := parser.Read()
	if err == io.EOF {
		return Report{Errors: []RowError{{Line: 1, Field: "file", Msg: "is empty"}}}, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("reading csv header: %w", err)
	}

	index := headerIndex(header)
	if _, ok := index["questiontext"]; !ok {
		return Report{Errors: []RowError{{Line: 1, Field: "header", Msg: "is missing the questionText column"}}}, nil
	}

	report := Report{}
	line := 1
	for {
		record, err := parser.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			report.Errors = append(report.Errors, RowError{Line: line, Field: "row", Msg: err.Error()})
			continue
		}

		row := Row{
			QuestionText:    field(record, index, "questiontext"),
			QuestionType:    field(record, index, "questiontype"),
			DifficultyLevel: field(record, index, "difficultylevel"),
			Marks:           field(record, index, "marks"),
			Options:         field(record, index, "options"),
			CorrectAnswer:   field(record, index, "correctanswer"),
			Explanation:     field(record, index, "explanation"),
		}

		if err := v.validate.Struct(row); err != nil {
			report.Errors = append(report.Errors, translateRowErrors(line, err)...)
			continue
		}
		report.Rows = append(report.Rows, row)
	}

	if len(report.Rows) == 0 && len(report.Errors) == 0 {
		report.Errors = append(report.Errors, RowError{Line: line, Field: "file", Msg: "has no question rows"})
	}
	return report, nil
}

// headerIndex maps lower-cased column names to their position. The import
// endpoint matches headers case-insensitively, so the client does the same.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func translateRowErrors(line int, err error) []RowError {
	ve, ok := err.(govalidator.ValidationErrors)
	if !ok {
		return []RowError{{Line: line, Field: "row", Msg: err.Error()}}
	}

	errors := make([]RowError, 0, len(ve))
	for _, fe := range ve {
		msg := "is invalid"
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "oneof":
			msg = "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
		case "positivemarks":
			msg = "must be a positive number"
		case "answerletter":
			msg = "must be a single letter A-D"
		}
		errors = append(errors, RowError{Line: line, Field: fieldColumn(fe.Field()), Msg: msg})
	}
	return errors
}

// fieldColumn maps a struct field name back to its CSV column name.
func fieldColumn(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
