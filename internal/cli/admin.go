package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/examportal/examterm/internal/auth"
	"github.com/examportal/examterm/internal/csvimport"
	"github.com/examportal/examterm/internal/model"
)

var errStaffOnly = errors.New("requires a teacher or admin account")

func (a *App) requireStaff() (*auth.Session, error) {
	session, err := a.requireSession()
	if err != nil {
		return nil, err
	}
	if !a.isStaff() {
		return nil, errStaffOnly
	}
	return session, nil
}

func (a *App) runCreateExam(ctx context.Context) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}

	title, err := a.promptLine("title: ")
	if err != nil {
		return err
	}
	description, err := a.promptLine("description: ")
	if err != nil {
		return err
	}
	duration, err := a.promptInt("duration minutes [60]: ", 60)
	if err != nil {
		return err
	}
	totalMarks, err := a.promptInt("total marks [100]: ", 100)
	if err != nil {
		return err
	}
	passingMarks, err := a.promptInt("passing marks [40]: ", 40)
	if err != nil {
		return err
	}
	maxAttempts, err := a.promptInt("max attempts [1]: ", 1)
	if err != nil {
		return err
	}

	exam, err := a.client.CreateExam(ctx, session.Credential, model.CreateExamRequest{
		Title:           title,
		Description:     description,
		DurationMinutes: duration,
		TotalMarks:      totalMarks,
		PassingMarks:    passingMarks,
		MaxAttempts:     maxAttempts,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "created exam %d [%s]\n", exam.ID, exam.Status)
	return nil
}

func (a *App) runAddQuestion(ctx context.Context, args []string) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, "add-question <exam_id>")
	if err != nil {
		return err
	}

	text, err := a.promptLine("question text: ")
	if err != nil {
		return err
	}
	options, err := a.promptLine("options (comma separated, e.g. A) one,B) two): ")
	if err != nil {
		return err
	}
	correct, err := a.promptLine("correct answer letter: ")
	if err != nil {
		return err
	}
	marks, err := a.promptInt("marks [1]: ", 1)
	if err != nil {
		return err
	}
	explanation, err := a.promptLine("explanation (optional): ")
	if err != nil {
		return err
	}

	question, err := a.client.CreateQuestion(ctx, session.Credential, model.CreateQuestionRequest{
		QuestionText:    text,
		QuestionType:    model.QuestionTypeMultipleChoice,
		DifficultyLevel: model.DifficultyEasy,
		Marks:           marks,
		ExamID:          examID,
		Options:         options,
		CorrectAnswer:   correct,
		Explanation:     explanation,
		CreatedBy:       session.User.ID,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added question %d to exam %d\n", question.ID, examID)
	return nil
}

func (a *App) runTransition(ctx context.Context, action string, args []string) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, action+" <exam_id>")
	if err != nil {
		return err
	}

	var exam model.Exam
	switch action {
	case "publish":
		exam, err = a.client.PublishExam(ctx, session.Credential, examID)
	case "activate":
		exam, err = a.client.ActivateExam(ctx, session.Credential, examID)
	case "unpublish":
		exam, err = a.client.UnpublishExam(ctx, session.Credential, examID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exam %d is now %s\n", exam.ID, exam.Status)

	if action == "publish" {
		if err := a.client.NotifyExamPublished(ctx, session.Credential, exam.ID); err != nil {
			a.log.Warn().Err(err).Int64("exam_id", exam.ID).Msg("publish notification failed")
			fmt.Fprintln(a.out, "warning: students were not notified")
		}
	}
	return nil
}

// runImportQuestions validates the CSV locally and refuses to upload a file
// with invalid rows, since the import endpoint would drop them silently.
func (a *App) runImportQuestions(ctx context.Context, args []string) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, "import-questions <exam_id> <csv_file>")
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return errors.New("usage: import-questions <exam_id> <csv_file>")
	}
	path := args[1]

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	report, err := csvimport.NewValidator().Validate(file)
	if err != nil {
		return err
	}
	if !report.Valid() {
		fmt.Fprintf(a.out, "%s has invalid rows, nothing uploaded:\n", path)
		for _, rowErr := range report.Errors {
			fmt.Fprintf(a.out, "  %s\n", rowErr.Error())
		}
		return nil
	}

	if _, err := file.Seek(0, 0); err != nil {
		return err
	}
	resp, err := a.client.ImportQuestionsCSV(ctx, session.Credential, examID, session.User.ID, path, file)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %d questions: %s\n", resp.Count, resp.Message)
	return nil
}

func (a *App) runCSVTemplate(ctx context.Context, args []string) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}

	template, err := a.client.CSVTemplate(ctx, session.Credential)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		if err := os.WriteFile(args[0], template, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "template written to %s\n", args[0])
		return nil
	}
	fmt.Fprint(a.out, string(template))
	return nil
}

func (a *App) runNotify(ctx context.Context, args []string) error {
	session, err := a.requireStaff()
	if err != nil {
		return err
	}
	examID, err := parseID(args, 0, "notify <exam_id>")
	if err != nil {
		return err
	}
	if err := a.client.NotifyExamPublished(ctx, session.Credential, examID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "students notified about exam %d\n", examID)
	return nil
}
