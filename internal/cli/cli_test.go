package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/config"
	"github.com/examportal/examterm/internal/journal"
	"github.com/examportal/examterm/internal/model"
	"github.com/examportal/examterm/internal/stubportal"
)

// newTestApp wires an App to an in-process stub portal plus a temp journal,
// and returns the client for test-side seeding.
func newTestApp(t *testing.T) (*App, *api.Client) {
	t.Helper()
	stub := stubportal.New(stubportal.Options{}, zerolog.Nop())
	server := httptest.NewServer(stub.Router())
	t.Cleanup(server.Close)

	client := api.New(server.URL+"/api", server.Client(), zerolog.Nop())
	jnl, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = jnl.Close() })

	cfg := &config.Config{
		PortalURL:    server.URL + "/api",
		HTTPTimeout:  5 * time.Second,
		PollInterval: 10 * time.Millisecond,
	}
	return New(client, cfg, jnl, zerolog.Nop()), client
}

func seedActiveExam(t *testing.T, client *api.Client) model.Exam {
	t.Helper()
	ctx := context.Background()
	resp, err := client.Login(ctx, model.LoginRequest{Username: "teacher", Password: "teacher123"})
	require.NoError(t, err)
	cred := api.Credential{Token: resp.Token}

	exam, err := client.CreateExam(ctx, cred, model.CreateExamRequest{
		Title:           "Terminal Exam",
		DurationMinutes: 5,
		PassingMarks:    10,
	})
	require.NoError(t, err)

	for _, q := range []struct{ text, correct string }{
		{"first question", "A"},
		{"second question", "B"},
	} {
		_, err := client.CreateQuestion(ctx, cred, model.CreateQuestionRequest{
			QuestionText:  q.text,
			QuestionType:  model.QuestionTypeMultipleChoice,
			Marks:         10,
			ExamID:        exam.ID,
			Options:       "A) one,B) two,C) three",
			CorrectAnswer: q.correct,
		})
		require.NoError(t, err)
	}

	_, err = client.ActivateExam(ctx, cred, exam.ID)
	require.NoError(t, err)
	return exam
}

func runScript(t *testing.T, app *App, script string) string {
	t.Helper()
	var out bytes.Buffer
	err := app.Run(context.Background(), strings.NewReader(script), &out)
	require.NoError(t, err)
	return out.String()
}

func TestLoginAndWhoami(t *testing.T) {
	app, _ := newTestApp(t)

	output := runScript(t, app, "login student\nstudent123\nwhoami\nexit\n")

	assert.Contains(t, output, "logged in as student (STUDENT)")
	assert.Contains(t, output, "(id 3, role STUDENT)")
}

func TestCommandsRequireLogin(t *testing.T) {
	app, _ := newTestApp(t)

	output := runScript(t, app, "exams\nexit\n")

	assert.Contains(t, output, "not logged in")
}

func TestBadPasswordIsReported(t *testing.T) {
	app, _ := newTestApp(t)

	output := runScript(t, app, "login student\nwrong\nexit\n")

	assert.Contains(t, output, "error:")
	assert.NotContains(t, output, "logged in as")
}

func TestTakeExamEndToEnd(t *testing.T) {
	app, client := newTestApp(t)
	seedActiveExam(t, client)

	script := strings.Join([]string{
		"login student", "student123",
		"exams",
		"take 1",
		"yes", // begin
		"a",   // Q1 correct
		"c",   // Q2 wrong
		"submit",
		"history",
		"exit",
	}, "\n") + "\n"

	output := runScript(t, app, script)

	assert.Contains(t, output, "Terminal Exam")
	assert.Contains(t, output, "Exam submitted successfully!")
	assert.Contains(t, output, "score: 10/20 (50.0%), 1 of 2 correct")
	assert.Contains(t, output, "result: PASS")
	assert.NotContains(t, output, "not persisted")

	// The attempt landed in the local journal.
	assert.Contains(t, output, "Terminal Exam: 10/20")
}

func TestTakeUnknownExamDegradesToPracticeMode(t *testing.T) {
	app, _ := newTestApp(t)

	script := strings.Join([]string{
		"login student", "student123",
		"take 424242",
		"yes", // begin despite the notice
		"a",   // placeholder Q1 correct
		"a",   // placeholder Q2 correct
		"submit",
		"exit",
	}, "\n") + "\n"

	output := runScript(t, app, script)

	assert.Contains(t, output, "practice mode")
	assert.Contains(t, output, "Practice Exam")
	assert.Contains(t, output, "Exam submitted successfully!")
	assert.Contains(t, output, "score: 20/20")
}

func TestSubmitWithUnansweredQuestionsAsksFirst(t *testing.T) {
	app, client := newTestApp(t)
	seedActiveExam(t, client)

	script := strings.Join([]string{
		"login student", "student123",
		"take 1",
		"yes",
		"submit", // nothing answered yet
		"no",     // keep going
		"a",
		"submit",
		"yes", // one question still open
		"exit",
	}, "\n") + "\n"

	output := runScript(t, app, script)

	assert.Contains(t, output, "2 questions unanswered, submit anyway?")
	assert.Contains(t, output, "1 questions unanswered, submit anyway?")
	assert.Contains(t, output, "Exam submitted successfully!")
}

func TestStaffCommandsHiddenFromStudents(t *testing.T) {
	app, _ := newTestApp(t)

	output := runScript(t, app, "login student\nstudent123\ncreate-exam\nexit\n")

	assert.Contains(t, output, "requires a teacher or admin account")
}

func TestTeacherCreatesAndPublishesExam(t *testing.T) {
	app, _ := newTestApp(t)

	script := strings.Join([]string{
		"login teacher", "teacher123",
		"create-exam",
		"Algebra", "basic algebra", "45", "50", "25", "2",
		"publish 1",
		"exit",
	}, "\n") + "\n"

	output := runScript(t, app, script)

	assert.Contains(t, output, "created exam 1 [DRAFT]")
	assert.Contains(t, output, "exam 1 is now PUBLISHED")
}
