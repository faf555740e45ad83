package stubportal

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/csvimport"
	"github.com/examportal/examterm/internal/model"
)

func (s *Server) handleListExams(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listExams())
}

func (s *Server) handleListActiveExams(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listExams(model.ExamStatusActive))
}

func (s *Server) handleGetExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	exam, ok := s.store.exam(id)
	if !ok {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}
	c.JSON(http.StatusOK, exam)
}

func (s *Server) handleSearchExams(c *gin.Context) {
	title := strings.ToLower(c.Query("title"))
	page, size := pageParams(c)

	matched := make([]model.Exam, 0)
	for _, exam := range s.store.listExams() {
		if title == "" || strings.Contains(strings.ToLower(exam.Title), title) {
			matched = append(matched, exam)
		}
	}

	c.JSON(http.StatusOK, pageOf(matched, page, size))
}

func (s *Server) handleListExamsPaginated(c *gin.Context) {
	page, size := pageParams(c)
	sortBy := c.DefaultQuery("sortBy", "id")
	desc := strings.EqualFold(c.DefaultQuery("sortDir", "asc"), "desc")

	exams := s.store.listExams()
	sort.SliceStable(exams, func(i, j int) bool {
		a, b := exams[i], exams[j]
		if desc {
			a, b = b, a
		}
		if sortBy == "title" {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
		return a.ID < b.ID
	})

	c.JSON(http.StatusOK, pageOf(exams, page, size))
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	return page, size
}

func pageOf(exams []model.Exam, page, size int) api.Page[model.Exam] {
	total := len(exams)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	return api.Page[model.Exam]{
		Content:       exams[start:end],
		TotalElements: int64(total),
		TotalPages:    (total + size - 1) / size,
		Number:        page,
		Size:          size,
	}
}

func (s *Server) handleCreateExam(c *gin.Context) {
	var req model.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid exam payload")
		return
	}

	claims := getClaims(c)
	exam := s.store.addExam(model.Exam{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		TotalMarks:      req.TotalMarks,
		PassingMarks:    req.PassingMarks,
		MaxAttempts:     req.MaxAttempts,
		Status:          model.ExamStatusDraft,
		CreatedBy:       claims.UserID,
	})
	c.JSON(http.StatusCreated, exam)
}

func (s *Server) handleUpdateExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid exam payload")
		return
	}

	exam, found := s.store.updateExam(id, func(exam *model.Exam) {
		exam.Title = req.Title
		exam.Description = req.Description
		exam.DurationMinutes = req.DurationMinutes
		exam.PassingMarks = req.PassingMarks
		exam.MaxAttempts = req.MaxAttempts
	})
	if !found {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}
	c.JSON(http.StatusOK, exam)
}

func (s *Server) handleDeleteExam(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !s.store.deleteExam(id) {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) transitionHandler(target model.ExamStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		exam, found := s.store.updateExam(id, func(exam *model.Exam) {
			exam.Status = target
		})
		if !found {
			abortError(c, http.StatusNotFound, "exam not found")
			return
		}
		c.JSON(http.StatusOK, exam)
	}
}

func (s *Server) handleQuestionsByExam(c *gin.Context) {
	examID, ok := paramID(c, "examId")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.store.questionsByExam(examID))
}

func (s *Server) handleTotalMarks(c *gin.Context) {
	examID, ok := paramID(c, "examId")
	if !ok {
		return
	}
	total := 0
	for _, question := range s.store.questionsByExam(examID) {
		total += question.MarksValue()
	}
	c.JSON(http.StatusOK, total)
}

func (s *Server) handleCreateQuestion(c *gin.Context) {
	var req model.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid question payload")
		return
	}
	if _, ok := s.store.exam(req.ExamID); !ok {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}

	question := s.store.addQuestion(model.Question{
		QuestionText:    req.QuestionText,
		QuestionType:    req.QuestionType,
		DifficultyLevel: req.DifficultyLevel,
		Marks:           req.Marks,
		ExamID:          req.ExamID,
		Options:         req.Options,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		CreatedBy:       req.CreatedBy,
	})
	c.JSON(http.StatusCreated, question)
}

func (s *Server) handleUpdateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid question payload")
		return
	}

	question, found := s.store.updateQuestion(id, model.Question{
		QuestionText:    req.QuestionText,
		QuestionType:    req.QuestionType,
		DifficultyLevel: req.DifficultyLevel,
		Marks:           req.Marks,
		ExamID:          req.ExamID,
		Options:         req.Options,
		CorrectAnswer:   req.CorrectAnswer,
		Explanation:     req.Explanation,
		CreatedBy:       req.CreatedBy,
	})
	if !found {
		abortError(c, http.StatusNotFound, "question not found")
		return
	}
	c.JSON(http.StatusOK, question)
}

func (s *Server) handleDeleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if !s.store.deleteQuestion(id) {
		abortError(c, http.StatusNotFound, "question not found")
		return
	}
	c.Status(http.StatusOK)
}

// handleImportCSV accepts the multipart upload, validates rows with the same
// validator the client uses, imports the valid ones and reports the count.
func (s *Server) handleImportCSV(c *gin.Context) {
	examID, err := strconv.ParseInt(c.PostForm("examId"), 10, 64)
	if err != nil || examID <= 0 {
		abortError(c, http.StatusBadRequest, "invalid examId")
		return
	}
	createdBy, _ := strconv.ParseInt(c.PostForm("createdBy"), 10, 64)
	if _, ok := s.store.exam(examID); !ok {
		abortError(c, http.StatusNotFound, "exam not found")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortError(c, http.StatusBadRequest, "missing csv file")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortError(c, http.StatusBadRequest, "unreadable csv file")
		return
	}
	defer file.Close()

	report, err := csvimport.NewValidator().Validate(file)
	if err != nil {
		abortError(c, http.StatusBadRequest, "malformed csv: "+err.Error())
		return
	}

	for _, req := range report.Questions(examID, createdBy) {
		s.store.addQuestion(model.Question{
			QuestionText:    req.QuestionText,
			QuestionType:    req.QuestionType,
			DifficultyLevel: req.DifficultyLevel,
			Marks:           req.Marks,
			ExamID:          req.ExamID,
			Options:         req.Options,
			CorrectAnswer:   req.CorrectAnswer,
			Explanation:     req.Explanation,
			CreatedBy:       req.CreatedBy,
		})
	}

	message := "imported"
	if skipped := len(report.Errors); skipped > 0 {
		message = "imported with " + strconv.Itoa(skipped) + " rows skipped"
	}
	c.JSON(http.StatusOK, api.ImportCSVResponse{
		Success: true,
		Message: message,
		Count:   len(report.Rows),
	})
}

func (s *Server) handleCSVTemplate(c *gin.Context) {
	template := strings.Join(csvimport.Header, ",") + "\n" +
		`What is 2+2?,MULTIPLE_CHOICE,EASY,1,"A) 3,B) 4,C) 5,D) 6",B,Basic addition` + "\n"
	c.Header("Content-Disposition", "attachment; filename=question_template.csv")
	c.Data(http.StatusOK, "text/csv", []byte(template))
}
