package stubportal

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/examportal/examterm/internal/model"
)

var errBadTransition = errors.New("invalid session state")

func (s *Server) handleCreateSession(c *gin.Context) {
	examID, err1 := strconv.ParseInt(c.Query("examId"), 10, 64)
	userID, err2 := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err1 != nil || err2 != nil || examID <= 0 || userID <= 0 {
		abortError(c, http.StatusBadRequest, "examId and userId are required")
		return
	}
	durationMinutes, _ := strconv.Atoi(c.Query("durationMinutes"))
	totalQuestions, _ := strconv.Atoi(c.Query("totalQuestions"))

	session := s.store.addSession(model.AttemptSession{
		ExamID:               examID,
		UserID:               userID,
		TimeRemainingSeconds: durationMinutes * 60,
		TotalQuestions:       totalQuestions,
	})
	s.log.Debug().Int64("session_id", session.ID).Int64("exam_id", examID).Msg("session created")
	c.JSON(http.StatusCreated, session)
}

func (s *Server) handleGetSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	session, found := s.store.session(id)
	if !found {
		abortError(c, http.StatusNotFound, "session not found")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleStartSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	session, err := s.store.updateSession(id, func(session *model.AttemptSession) error {
		if session.Status != model.SessionStatusNotStarted {
			return errBadTransition
		}
		now := time.Now()
		session.Status = model.SessionStatusInProgress
		session.StartTime = &now
		return nil
	})
	if err != nil {
		abortSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSubmitAnswer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if c.Query("questionId") == "" {
		abortError(c, http.StatusBadRequest, "questionId is required")
		return
	}

	session, err := s.store.updateSession(id, func(session *model.AttemptSession) error {
		if session.Status != model.SessionStatusInProgress {
			return errBadTransition
		}
		session.AnsweredQuestions++
		return nil
	})
	if err != nil {
		abortSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSubmitSession(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	session, err := s.store.updateSession(id, func(session *model.AttemptSession) error {
		if session.Status != model.SessionStatusInProgress {
			return errBadTransition
		}
		now := time.Now()
		session.Status = model.SessionStatusSubmitted
		session.SubmittedTime = &now
		return nil
	})
	if err != nil {
		abortSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func abortSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNotFound):
		abortError(c, http.StatusNotFound, "session not found")
	case errors.Is(err, errBadTransition):
		abortError(c, http.StatusConflict, "session is not in a valid state for that operation")
	default:
		abortError(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleCreateResult(c *gin.Context) {
	var result model.Result
	if err := c.ShouldBindJSON(&result); err != nil {
		abortError(c, http.StatusBadRequest, "invalid result payload")
		return
	}
	if result.UserID <= 0 || result.ExamID <= 0 {
		abortError(c, http.StatusBadRequest, "userId and examId are required")
		return
	}

	created := s.store.addResult(result)
	s.log.Debug().
		Int64("result_id", created.ID).
		Int64("exam_id", created.ExamID).
		Str("session_id", created.SessionID).
		Msg("result recorded")
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleResultsByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.resultsByUser(userID))
}

func (s *Server) handleResultsByExam(c *gin.Context) {
	examID, ok := paramID(c, "examId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.resultsByExam(examID))
}

func (s *Server) handleCheckCompleted(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	examID, ok := paramID(c, "examId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"completed": s.store.hasCompletedResult(userID, examID)})
}

func (s *Server) handleNotificationsByUser(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.notificationsByUser(userID, false))
}

func (s *Server) handleUnreadNotifications(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.notificationsByUser(userID, true))
}

func (s *Server) handleMarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !s.store.markNotificationRead(id) {
		abortError(c, http.StatusNotFound, "notification not found")
		return
	}
	c.Status(http.StatusOK)
}

// handleNotifyPublished fans one exam-published notification out to every
// student account.
func (s *Server) handleNotifyPublished(c *gin.Context) {
	examID, ok := paramID(c, "examId")
	if !ok {
		return
	}
	exam, found := s.store.exam(examID)
	if !found {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}

	for _, studentID := range s.store.studentIDs() {
		s.store.addNotification(model.Notification{
			UserID:  studentID,
			ExamID:  exam.ID,
			Title:   "New exam available",
			Message: "The exam \"" + exam.Title + "\" has been published.",
		})
	}
	c.Status(http.StatusOK)
}

func (s *Server) handleSendNotification(c *gin.Context) {
	var req model.SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid notification payload")
		return
	}
	if req.UserID <= 0 {
		abortError(c, http.StatusBadRequest, "userId is required")
		return
	}

	s.store.addNotification(model.Notification{
		UserID:  req.UserID,
		ExamID:  req.ExamID,
		Title:   req.Title,
		Message: req.Message,
	})
	c.Status(http.StatusCreated)
}
