package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

func (h *Handler) userDashboard(c *gin.Context) {
	sess := currentSession(c)
	overview, err := h.progress.UserOverview(c.Request.Context(), sess.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "user_dashboard", gin.H{
		"Title":    "Dashboard",
		"Overview": overview,
		"InQuiz":   sess.Quiz != nil,
	})
}

func (h *Handler) previousAttempts(c *gin.Context) {
	history, err := h.progress.History(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "history", gin.H{
		"Title":   "Previous Attempts",
		"History": history,
	})
}

func (h *Handler) quizDetails(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/user/view_previous_attempts", entities.FlashError, "Quiz not found.")
		return
	}

	summary, err := h.progress.AttemptDetails(c.Request.Context(), currentSession(c).UserID, id)
	if err != nil {
		h.notFoundOr(c, err, "/user/view_previous_attempts", "Quiz not found.")
		return
	}

	h.page(c, http.StatusOK, "quiz_details", gin.H{
		"Title":   "Quiz Details",
		"Summary": summary,
	})
}
