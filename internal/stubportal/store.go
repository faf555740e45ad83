package stubportal

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/examportal/examterm/internal/model"
)

// store is the in-memory state behind the stub portal. One mutex guards
// everything; the stub serves a single developer or test process.
type store struct {
	mu sync.Mutex

	users         map[int64]*user
	exams         map[int64]*model.Exam
	questions     map[int64]*model.Question
	sessions      map[int64]*model.AttemptSession
	results       map[int64]*model.Result
	notifications map[int64]*model.Notification

	nextID map[string]int64
}

type user struct {
	model.User
	passwordHash []byte
}

func newStore() *store {
	return &store{
		users:         make(map[int64]*user),
		exams:         make(map[int64]*model.Exam),
		questions:     make(map[int64]*model.Question),
		sessions:      make(map[int64]*model.AttemptSession),
		results:       make(map[int64]*model.Result),
		notifications: make(map[int64]*model.Notification),
		nextID:        make(map[string]int64),
	}
}

func (s *store) id(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *store) addUser(username, email string, role model.Role, passwordHash []byte) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &user{
		User: model.User{
			ID:       s.id("user"),
			Username: username,
			Email:    email,
			Role:     role,
		},
		passwordHash: passwordHash,
	}
	s.users[u.ID] = u
	return u.User
}

func (s *store) userByName(username string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return nil, false
}

func (s *store) userByID(id int64) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, false
	}
	return u.User, true
}

func (s *store) listUsers() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.User)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (s *store) addExam(exam model.Exam) model.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	exam.ID = s.id("exam")
	now := time.Now()
	exam.CreatedAt = &now
	s.exams[exam.ID] = &exam
	return exam
}

func (s *store) exam(id int64) (model.Exam, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exam, ok := s.exams[id]
	if !ok {
		return model.Exam{}, false
	}
	return *exam, true
}

func (s *store) updateExam(id int64, mutate func(*model.Exam)) (model.Exam, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exam, ok := s.exams[id]
	if !ok {
		return model.Exam{}, false
	}
	mutate(exam)
	now := time.Now()
	exam.UpdatedAt = &now
	return *exam, true
}

func (s *store) deleteExam(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.exams[id]; !ok {
		return false
	}
	delete(s.exams, id)
	return true
}

func (s *store) listExams(statuses ...model.ExamStatus) []model.Exam {
	s.mu.Lock()
	defer s.mu.Unlock()
	exams := make([]model.Exam, 0, len(s.exams))
	for _, exam := range s.exams {
		if len(statuses) > 0 && !statusIn(exam.Status, statuses) {
			continue
		}
		exams = append(exams, *exam)
	}
	sort.Slice(exams, func(i, j int) bool { return exams[i].ID < exams[j].ID })
	return exams
}

func statusIn(status model.ExamStatus, statuses []model.ExamStatus) bool {
	for _, s := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

// addQuestion inserts a question and recomputes the exam's total marks, the
// same derived bookkeeping the real question service performs.
func (s *store) addQuestion(question model.Question) model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	question.ID = s.id("question")
	s.questions[question.ID] = &question
	s.recomputeTotalMarks(question.ExamID)
	return question
}

func (s *store) updateQuestion(id int64, updated model.Question) (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok {
		return model.Question{}, false
	}
	updated.ID = id
	*question = updated
	s.recomputeTotalMarks(question.ExamID)
	return *question, true
}

func (s *store) deleteQuestion(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok {
		return false
	}
	delete(s.questions, id)
	s.recomputeTotalMarks(question.ExamID)
	return true
}

func (s *store) questionsByExam(examID int64) []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	questions := make([]model.Question, 0)
	for _, question := range s.questions {
		if question.ExamID == examID {
			questions = append(questions, *question)
		}
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions
}

// recomputeTotalMarks must be called with the lock held.
func (s *store) recomputeTotalMarks(examID int64) {
	exam, ok := s.exams[examID]
	if !ok {
		return
	}
	total := 0
	for _, question := range s.questions {
		if question.ExamID == examID {
			total += question.MarksValue()
		}
	}
	exam.TotalMarks = total
}

func (s *store) addSession(session model.AttemptSession) model.AttemptSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session.ID = s.id("session")
	session.Status = model.SessionStatusNotStarted
	s.sessions[session.ID] = &session
	return session
}

func (s *store) session(id int64) (model.AttemptSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.AttemptSession{}, false
	}
	return *session, true
}

func (s *store) updateSession(id int64, mutate func(*model.AttemptSession) error) (model.AttemptSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return model.AttemptSession{}, errNotFound
	}
	if err := mutate(session); err != nil {
		return model.AttemptSession{}, err
	}
	return *session, nil
}

func (s *store) addResult(result model.Result) model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	result.ID = s.id("result")
	now := time.Now()
	result.SubmittedAt = &now
	s.results[result.ID] = &result
	return result
}

func (s *store) resultsByUser(userID int64) []model.Result {
	return s.filterResults(func(r *model.Result) bool { return r.UserID == userID })
}

func (s *store) resultsByExam(examID int64) []model.Result {
	return s.filterResults(func(r *model.Result) bool { return r.ExamID == examID })
}

func (s *store) filterResults(keep func(*model.Result) bool) []model.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]model.Result, 0)
	for _, result := range s.results {
		if keep(result) {
			results = append(results, *result)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID > results[j].ID })
	return results
}

func (s *store) hasCompletedResult(userID, examID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, result := range s.results {
		if result.UserID == userID && result.ExamID == examID && result.Status == model.ResultStatusCompleted {
			return true
		}
	}
	return false
}

func (s *store) addNotification(n model.Notification) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = s.id("notification")
	now := time.Now()
	n.CreatedAt = &now
	s.notifications[n.ID] = &n
	return n
}

func (s *store) notificationsByUser(userID int64, unreadOnly bool) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	notifications := make([]model.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		notifications = append(notifications, *n)
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return notifications
}

func (s *store) markNotificationRead(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok {
		return false
	}
	n.IsRead = true
	return true
}

// studentIDs returns every student account id, for publish fan-out.
func (s *store) studentIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int64, 0)
	for _, u := range s.users {
		if u.Role == model.RoleStudent {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
