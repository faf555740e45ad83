package stubportal

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

func newTestPortal(t *testing.T) *api.Client {
	t.Helper()
	stub := New(Options{}, zerolog.Nop())
	server := httptest.NewServer(stub.Router())
	t.Cleanup(server.Close)
	return api.New(server.URL+"/api", server.Client(), zerolog.Nop())
}

func login(t *testing.T, client *api.Client, username, password string) (api.Credential, model.LoginResponse) {
	t.Helper()
	resp, err := client.Login(context.Background(), model.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)
	return api.Credential{Token: resp.Token}, resp
}

func TestSeededLoginAndBadPassword(t *testing.T) {
	client := newTestPortal(t)

	_, resp := login(t, client, "student", "student123")
	assert.Equal(t, model.RoleStudent, resp.Role)
	assert.NotEmpty(t, resp.Token)

	_, err := client.Login(context.Background(), model.LoginRequest{Username: "student", Password: "wrong"})
	assert.True(t, api.IsUnauthorized(err))
}

func TestRegisterForcesStudentRole(t *testing.T) {
	client := newTestPortal(t)

	user, err := client.Register(context.Background(), model.RegisterRequest{
		Username: "newkid",
		Email:    "newkid@portal.local",
		Password: "pw12345",
		Role:     model.RoleAdmin, // must be ignored
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)

	cred, _ := login(t, client, "newkid", "pw12345")
	assert.NotEmpty(t, cred.Token)
}

func TestStudentCannotCreateExam(t *testing.T) {
	client := newTestPortal(t)
	cred, _ := login(t, client, "student", "student123")

	_, err := client.CreateExam(context.Background(), cred, model.CreateExamRequest{Title: "nope"})

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	client := newTestPortal(t)

	_, err := client.ListExams(context.Background(), api.Anonymous)
	assert.True(t, api.IsUnauthorized(err))
}

func TestExamLifecycleAndNotificationFanOut(t *testing.T) {
	client := newTestPortal(t)
	ctx := context.Background()
	teacher, _ := login(t, client, "teacher", "teacher123")
	studentCred, studentResp := login(t, client, "student", "student123")

	exam, err := client.CreateExam(ctx, teacher, model.CreateExamRequest{
		Title:           "Networking Basics",
		DurationMinutes: 30,
		PassingMarks:    6,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusDraft, exam.Status)

	question, err := client.CreateQuestion(ctx, teacher, model.CreateQuestionRequest{
		QuestionText:  "How many bits in a byte?",
		QuestionType:  model.QuestionTypeMultipleChoice,
		Marks:         10,
		ExamID:        exam.ID,
		Options:       "A) 4,B) 8,C) 16",
		CorrectAnswer: "B",
	})
	require.NoError(t, err)

	// Question creation recomputes the exam's total marks.
	exam, err = client.GetExam(ctx, teacher, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, exam.TotalMarks)

	exam, err = client.PublishExam(ctx, teacher, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusPublished, exam.Status)

	require.NoError(t, client.NotifyExamPublished(ctx, teacher, exam.ID))

	unread, err := client.ListUnreadNotifications(ctx, studentCred, studentResp.UserID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Contains(t, unread[0].Message, "Networking Basics")

	require.NoError(t, client.MarkNotificationRead(ctx, studentCred, unread[0].ID))
	unread, err = client.ListUnreadNotifications(ctx, studentCred, studentResp.UserID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	exam, err = client.ActivateExam(ctx, teacher, exam.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExamStatusActive, exam.Status)

	active, err := client.ListActiveExams(ctx, studentCred)
	require.NoError(t, err)
	require.Len(t, active, 1)

	questions, err := client.ListQuestionsByExam(ctx, studentCred, exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, question.ID, questions[0].ID)
}

func TestPaginatedExamListing(t *testing.T) {
	client := newTestPortal(t)
	ctx := context.Background()
	teacher, _ := login(t, client, "teacher", "teacher123")

	for _, title := range []string{"Charlie", "Alpha", "Bravo"} {
		_, err := client.CreateExam(ctx, teacher, model.CreateExamRequest{Title: title})
		require.NoError(t, err)
	}

	page, err := client.ListExamsPaginated(ctx, teacher, 0, 2, "title", "asc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Alpha", page.Content[0].Title)
	assert.Equal(t, "Bravo", page.Content[1].Title)

	page, err = client.ListExamsPaginated(ctx, teacher, 1, 2, "title", "asc")
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Charlie", page.Content[0].Title)

	page, err = client.ListExamsPaginated(ctx, teacher, 0, 10, "id", "desc")
	require.NoError(t, err)
	require.Len(t, page.Content, 3)
	assert.Equal(t, "Bravo", page.Content[0].Title)
}

func TestSessionLifecycle(t *testing.T) {
	client := newTestPortal(t)
	ctx := context.Background()
	cred, resp := login(t, client, "student", "student123")
	teacher, _ := login(t, client, "teacher", "teacher123")

	exam, err := client.CreateExam(ctx, teacher, model.CreateExamRequest{Title: "E", DurationMinutes: 10})
	require.NoError(t, err)

	session, err := client.CreateSession(ctx, cred, exam.ID, resp.UserID, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusNotStarted, session.Status)
	assert.Equal(t, 600, session.TimeRemainingSeconds)

	// Answer before start is rejected.
	err = client.SubmitAnswer(ctx, cred, session.ID, 1, "A")
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)

	require.NoError(t, client.StartSession(ctx, cred, session.ID))
	require.NoError(t, client.SubmitAnswer(ctx, cred, session.ID, 1, "A"))

	submitted, err := client.SubmitSession(ctx, cred, session.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SessionStatusSubmitted, submitted.Status)
	assert.Equal(t, 1, submitted.AnsweredQuestions)

	// Double submit is rejected.
	_, err = client.SubmitSession(ctx, cred, session.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestResultsAndCompletionCheck(t *testing.T) {
	client := newTestPortal(t)
	ctx := context.Background()
	cred, resp := login(t, client, "student", "student123")

	completed, err := client.CheckExamCompleted(ctx, cred, resp.UserID, 9)
	require.NoError(t, err)
	assert.False(t, completed)

	created, err := client.CreateResult(ctx, cred, model.Result{
		UserID:     resp.UserID,
		ExamID:     9,
		SessionID:  "fallback-9-123",
		Score:      10,
		TotalMarks: 20,
		Percentage: 50,
		Status:     model.ResultStatusCompleted,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotNil(t, created.SubmittedAt)

	completed, err = client.CheckExamCompleted(ctx, cred, resp.UserID, 9)
	require.NoError(t, err)
	assert.True(t, completed)

	results, err := client.ListResultsByUser(ctx, cred, resp.UserID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fallback-9-123", results[0].SessionID)
}

func TestCSVImportEndpoint(t *testing.T) {
	client := newTestPortal(t)
	ctx := context.Background()
	teacher, teacherResp := login(t, client, "teacher", "teacher123")

	exam, err := client.CreateExam(ctx, teacher, model.CreateExamRequest{Title: "CSV Exam"})
	require.NoError(t, err)

	csv := "questionText,questionType,difficultyLevel,marks,options,correctAnswer,explanation\n" +
		`What is 2+2?,MULTIPLE_CHOICE,EASY,1,"A) 3,B) 4",B,` + "\n" +
		`,MULTIPLE_CHOICE,EASY,1,"A) 3,B) 4",B,skipped row` + "\n"

	resp, err := client.ImportQuestionsCSV(ctx, teacher, exam.ID, teacherResp.UserID,
		"questions.csv", strings.NewReader(csv))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Contains(t, resp.Message, "skipped")

	questions, err := client.ListQuestionsByExam(ctx, teacher, exam.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "What is 2+2?", questions[0].QuestionText)
}

func TestCSVTemplateDownload(t *testing.T) {
	client := newTestPortal(t)
	cred, _ := login(t, client, "teacher", "teacher123")

	template, err := client.CSVTemplate(context.Background(), cred)
	require.NoError(t, err)
	assert.Contains(t, string(template), "questionText,questionType")
}
