package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

func (h *Handler) adminDashboard(c *gin.Context) {
	overview, err := h.progress.AdminOverview(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "admin_dashboard", gin.H{
		"Title":    "Admin Dashboard",
		"Overview": overview,
	})
}

func (h *Handler) userProgress(c *gin.Context) {
	report, err := h.progress.Progress(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "user_progress", gin.H{
		"Title":  "User Progress",
		"Report": report,
	})
}

func (h *Handler) userDetails(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/view_user_progress", entities.FlashError, "User not found.")
		return
	}

	report, err := h.progress.UserReport(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "/admin/view_user_progress", "User not found.")
		return
	}

	h.page(c, http.StatusOK, "user_details", gin.H{
		"Title":  "User Details",
		"Report": report,
	})
}
