package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Services groups everything the handlers call into.
type Services struct {
	Auth     AuthService
	Quiz     QuizService
	Users    UserService
	Catalog  CatalogService
	Import   ImportService
	Progress ProgressService
}

type Handler struct {
	auth     AuthService
	quiz     QuizService
	users    UserService
	catalog  CatalogService
	importer ImportService
	progress ProgressService

	cookie CookieConfig
	logger *zap.Logger
}

func NewHandler(s Services, cookie CookieConfig, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     s.Auth,
		quiz:     s.Quiz,
		users:    s.Users,
		catalog:  s.Catalog,
		importer: s.Import,
		progress: s.Progress,
		cookie:   cookie,
		logger:   logger,
	}
}

// NewRouter builds the gin engine with every route of the application.
func NewRouter(h *Handler, allowedOrigins []string, logger *zap.Logger) (*gin.Engine, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.HTMLRender = p
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery(), requestLogger(logger), instrument(), h.loadSession)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/", h.home)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)

	admin := r.Group("/admin", requireRole(entities.RoleAdmin))
	{
		admin.GET("/dashboard", h.adminDashboard)

		admin.GET("/manage_users", h.manageUsers)
		admin.GET("/add_user", h.addUserForm)
		admin.POST("/add_user", h.addUser)
		admin.GET("/edit_user/:id", h.editUserForm)
		admin.POST("/edit_user/:id", h.editUser)
		admin.POST("/delete_user/:id", h.deleteUser)

		admin.GET("/manage_subjects", h.manageSubjects)
		admin.GET("/add_subject", h.addSubjectForm)
		admin.POST("/add_subject", h.addSubject)
		admin.GET("/edit_subject/:id", h.editSubjectForm)
		admin.POST("/edit_subject/:id", h.editSubject)
		admin.POST("/delete_subject/:id", h.deleteSubject)

		admin.GET("/manage_chapters", h.manageChapters)
		admin.GET("/add_chapter", h.addChapterForm)
		admin.POST("/add_chapter", h.addChapter)
		admin.GET("/edit_chapter/:id", h.editChapterForm)
		admin.POST("/edit_chapter/:id", h.editChapter)
		admin.POST("/delete_chapter/:id", h.deleteChapter)

		admin.GET("/manage_questions", h.manageQuestions)
		admin.GET("/add_question", h.addQuestionForm)
		admin.POST("/add_question", h.addQuestion)
		admin.GET("/edit_question/:id", h.editQuestionForm)
		admin.POST("/edit_question/:id", h.editQuestion)
		admin.POST("/delete_question/:id", h.deleteQuestion)
		admin.GET("/import_questions", h.importForm)
		admin.POST("/import_questions", h.importQuestions)
		admin.GET("/import_template", h.importTemplate)

		admin.GET("/view_user_progress", h.userProgress)
		admin.GET("/user_details/:id", h.userDetails)
	}

	user := r.Group("/user", requireRole(entities.RoleUser))
	{
		user.GET("/dashboard", h.userDashboard)
		user.GET("/start_quiz", h.startQuizForm)
		user.POST("/start_quiz", h.startQuiz)
		user.GET("/take_quiz", h.takeQuiz)
		user.POST("/take_quiz", h.answerQuestion)
		user.GET("/quiz_results", h.quizResults)
		user.GET("/view_previous_attempts", h.previousAttempts)
		user.GET("/quiz_details/:id", h.quizDetails)
	}

	api := r.Group("/api", cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Accept", "Origin", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}), requireLogin)
	{
		api.GET("/subjects/:id/chapters", h.subjectChapters)
	}

	return r, nil
}

// page renders name inside the layout. Queued flashes are shown once.
func (h *Handler) page(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if sess := currentSession(c); sess != nil {
		data["Session"] = sess
		if flashes := sess.PopFlashes(); len(flashes) > 0 {
			inline, _ := data["Flashes"].([]entities.Flash)
			data["Flashes"] = append(flashes, inline...)
			if err := h.auth.SaveSession(c.Request.Context(), sess); err != nil {
				h.logger.Warn("save session after flash", zap.Error(err))
			}
		}
	}

	c.HTML(status, name, data)
}

// redirect queues a flash for the next page and redirects.
func (h *Handler) redirect(c *gin.Context, location string, kind entities.FlashKind, message string) {
	if sess := currentSession(c); sess != nil && message != "" {
		sess.AddFlash(kind, message)
		if err := h.auth.SaveSession(c.Request.Context(), sess); err != nil {
			h.logger.Warn("save flash", zap.Error(err))
		}
	}
	c.Redirect(http.StatusFound, location)
}

// fail logs err and renders the error page.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	h.page(c, http.StatusInternalServerError, "error", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong. Please try again later.",
	})
}

func errorFlash(message string) []entities.Flash {
	return []entities.Flash{{Kind: entities.FlashError, Message: message}}
}

var errBadID = errors.New("invalid id")

func paramID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errBadID, c.Param("id"))
	}
	return id, nil
}

// formID parses an optional positive id; anything else is zero.
func formID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func formIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id := formID(v); id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
