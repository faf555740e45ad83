//go:build e2e
// +build e2e

// End-to-end coverage of the full student journey against a portal instance.
// By default the suite starts an in-process stub portal; set BASE_URL to aim
// it at a running portal instead.
package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/attempt"
	"github.com/examportal/examterm/internal/auth"
	"github.com/examportal/examterm/internal/journal"
	"github.com/examportal/examterm/internal/model"
	"github.com/examportal/examterm/internal/stubportal"
)

var (
	client  *api.Client
	baseURL string
)

func TestMain(m *testing.M) {
	var server *httptest.Server

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		stub := stubportal.New(stubportal.Options{}, zerolog.Nop())
		server = httptest.NewServer(stub.Router())
		baseURL = server.URL + "/api"
	}

	client = api.New(baseURL, &http.Client{Timeout: 10 * time.Second}, zerolog.Nop())

	code := m.Run()
	if server != nil {
		server.Close()
	}
	os.Exit(code)
}

func mustLogin(t *testing.T, username, password string) *auth.Session {
	t.Helper()
	session, err := auth.Login(context.Background(), client, zerolog.Nop(), username, password)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return session
}

func TestStudentJourney(t *testing.T) {
	ctx := context.Background()
	teacher := mustLogin(t, "teacher", "teacher123")
	student := mustLogin(t, "student", "student123")

	// Teacher sets up and activates an exam.
	exam, err := client.CreateExam(ctx, teacher.Credential, model.CreateExamRequest{
		Title:           "E2E Networking",
		Description:     "end to end run",
		DurationMinutes: 5,
		PassingMarks:    10,
	})
	if err != nil {
		t.Fatalf("create exam: %v", err)
	}

	for i, correct := range []string{"A", "B"} {
		_, err := client.CreateQuestion(ctx, teacher.Credential, model.CreateQuestionRequest{
			QuestionText:  fmt.Sprintf("question %d", i+1),
			QuestionType:  model.QuestionTypeMultipleChoice,
			Marks:         10,
			ExamID:        exam.ID,
			Options:       "A) first,B) second,C) third",
			CorrectAnswer: correct,
		})
		if err != nil {
			t.Fatalf("create question: %v", err)
		}
	}

	if _, err := client.PublishExam(ctx, teacher.Credential, exam.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if err := client.NotifyExamPublished(ctx, teacher.Credential, exam.ID); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if _, err := client.ActivateExam(ctx, teacher.Credential, exam.ID); err != nil {
		t.Fatalf("activate: %v", err)
	}

	// Student sees the notification and the active exam.
	unread, err := client.ListUnreadNotifications(ctx, student.Credential, student.User.ID)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if len(unread) == 0 {
		t.Fatal("expected a publish notification")
	}

	// Student takes the exam: one right, one wrong.
	runner := attempt.NewRunner(client, student.Credential, student.User, zerolog.Nop())
	if err := runner.Initialize(ctx, exam.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(runner.Degradations()) != 0 {
		t.Fatalf("unexpected degradations: %v", runner.Degradations())
	}
	if runner.Session().IsFallback() {
		t.Fatal("expected a backend session")
	}

	questions := runner.Questions()
	if len(questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(questions))
	}
	runner.StartClock(ctx)
	runner.Answer(questions[0].ID, "A) first")
	runner.Answer(questions[1].ID, "C) third")

	outcome, first := runner.Submit(ctx)
	if !first {
		t.Fatal("expected first submit")
	}
	if !outcome.Clean() {
		t.Fatalf("expected clean outcome, degradations=%v persisted=%v",
			outcome.Degradations, outcome.ResultPersisted)
	}
	if outcome.Summary.Score != 10 || outcome.Summary.TotalMarks != 20 {
		t.Fatalf("score = %d/%d, want 10/20", outcome.Summary.Score, outcome.Summary.TotalMarks)
	}

	// The backend session reached submitted state.
	session, err := client.GetSession(ctx, student.Credential, runner.Session().RealID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if session.Status != model.SessionStatusSubmitted {
		t.Fatalf("session status = %s, want %s", session.Status, model.SessionStatusSubmitted)
	}

	// The result is queryable and the exam reads as completed.
	completed, err := client.CheckExamCompleted(ctx, student.Credential, student.User.ID, exam.ID)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !completed {
		t.Fatal("exam should read as completed")
	}

	results, err := client.ListResultsByUser(ctx, student.Credential, student.User.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	found := false
	for _, result := range results {
		if result.ExamID == exam.ID && result.Status == model.ResultStatusCompleted {
			found = true
		}
	}
	if !found {
		t.Fatal("submitted result not found")
	}

	// Journal the outcome the way the terminal client does.
	jnl, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	defer jnl.Close()
	if err := jnl.Record(ctx, "e2e-attempt", student.User.ID, exam, outcome); err != nil {
		t.Fatalf("record: %v", err)
	}
	entries, err := jnl.ListByUser(ctx, student.User.ID, 1)
	if err != nil || len(entries) != 1 {
		t.Fatalf("journal list: %v (%d entries)", err, len(entries))
	}
	if !entries[0].Persisted {
		t.Fatal("journal entry should be marked persisted")
	}
}

func TestAttemptSurvivesMissingExam(t *testing.T) {
	ctx := context.Background()
	student := mustLogin(t, "student", "student123")

	// An exam id with no record behind it: the attempt degrades to the
	// placeholder set instead of failing.
	runner := attempt.NewRunner(client, student.Credential, student.User, zerolog.Nop())
	if err := runner.Initialize(ctx, 987654); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if len(runner.Degradations()) == 0 {
		t.Fatal("expected degradations for a missing exam")
	}
	if runner.Exam().Title != "Practice Exam" {
		t.Fatalf("exam title = %q, want placeholder", runner.Exam().Title)
	}

	questions := runner.Questions()
	if len(questions) == 0 {
		t.Fatal("expected placeholder questions")
	}
	runner.Answer(questions[0].ID, questions[0].CorrectAnswer)

	outcome, first := runner.Submit(ctx)
	if !first {
		t.Fatal("expected first submit")
	}
	if outcome.Summary.Score == 0 {
		t.Fatal("placeholder attempt should score locally")
	}
}

func TestExpiredTokenIsFatal(t *testing.T) {
	runner := attempt.NewRunner(client, api.Credential{Token: "garbage"}, model.User{ID: 1}, zerolog.Nop())
	if err := runner.Initialize(context.Background(), 1); err == nil {
		t.Fatal("expected an authentication error")
	}
}
