// Package stubportal is an in-process stand-in for the examination portal's
// backend services. It serves the same routes and JSON shapes over one gin
// engine, backed by in-memory state, for local development and end-to-end
// tests. It is deliberately permissive; it is not the real portal.
package stubportal

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/model"
)

var errNotFound = errors.New("not found")

// Options configures the stub.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	GinMode   string
}

// Server is one stub portal instance.
type Server struct {
	store     *store
	log       zerolog.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	ginMode   string
}

// New builds a stub with the default dev accounts seeded:
// admin/admin123, teacher/teacher123 and student/student123.
func New(opts Options, log zerolog.Logger) *Server {
	secret := opts.JWTSecret
	if secret == "" {
		secret = "stub-portal-dev-secret"
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	mode := opts.GinMode
	if mode == "" {
		mode = gin.ReleaseMode
	}

	server := &Server{
		store:     newStore(),
		log:       log.With().Str("component", "stubportal").Logger(),
		jwtSecret: []byte(secret),
		tokenTTL:  ttl,
		ginMode:   mode,
	}
	server.seed()
	return server
}

func (s *Server) seed() {
	s.store.addUser("admin", "admin@portal.local", model.RoleAdmin, hashPassword("admin123"))
	s.store.addUser("teacher", "teacher@portal.local", model.RoleTeacher, hashPassword("teacher123"))
	s.store.addUser("student", "student@portal.local", model.RoleStudent, hashPassword("student123"))
}

// Router builds the gin engine with every portal route mounted under /api.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.ginMode)
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes.
	api.POST("/users/auth/login", s.handleLogin)
	api.POST("/users/register", s.handleRegister)

	// Authenticated routes.
	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		authed.GET("/users/:id", s.handleGetUser)

		authed.GET("/exams", s.handleListExams)
		authed.GET("/exams/active", s.handleListActiveExams)
		authed.GET("/exams/paginated", s.handleListExamsPaginated)
		authed.GET("/exams/search", s.handleSearchExams)
		authed.GET("/exams/:id", s.handleGetExam)

		authed.GET("/questions/exam/:examId", s.handleQuestionsByExam)
		authed.GET("/questions/exam/:examId/total-marks", s.handleTotalMarks)
		authed.GET("/questions/csv-template", s.handleCSVTemplate)

		authed.POST("/sessions/create", s.handleCreateSession)
		authed.GET("/sessions/:id", s.handleGetSession)
		authed.POST("/sessions/:id/start", s.handleStartSession)
		authed.POST("/sessions/:id/answer", s.handleSubmitAnswer)
		authed.POST("/sessions/:id/submit", s.handleSubmitSession)

		authed.POST("/results", s.handleCreateResult)
		authed.GET("/results/user/:userId", s.handleResultsByUser)
		authed.GET("/results/check/:userId/:examId", s.handleCheckCompleted)

		authed.GET("/notifications/user/:userId", s.handleNotificationsByUser)
		authed.GET("/notifications/user/:userId/unread", s.handleUnreadNotifications)
		authed.PUT("/notifications/:id/read", s.handleMarkRead)
	}

	// Staff-only routes.
	staff := api.Group("")
	staff.Use(s.requireAuth(), s.requireStaff())
	{
		staff.GET("/users", s.handleListUsers)

		staff.POST("/exams", s.handleCreateExam)
		staff.PUT("/exams/:id", s.handleUpdateExam)
		staff.DELETE("/exams/:id", s.handleDeleteExam)
		staff.PUT("/exams/:id/publish", s.transitionHandler(model.ExamStatusPublished))
		staff.PUT("/exams/:id/activate", s.transitionHandler(model.ExamStatusActive))
		staff.PUT("/exams/:id/unpublish", s.transitionHandler(model.ExamStatusDraft))

		staff.POST("/questions", s.handleCreateQuestion)
		staff.PUT("/questions/:id", s.handleUpdateQuestion)
		staff.DELETE("/questions/:id", s.handleDeleteQuestion)
		staff.POST("/questions/import-csv", s.handleImportCSV)

		staff.GET("/results/exam/:examId", s.handleResultsByExam)

		staff.POST("/notifications/exam-published/:examId", s.handleNotifyPublished)
		staff.POST("/notifications/send", s.handleSendNotification)
	}

	return router
}

func abortError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
