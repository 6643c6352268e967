package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/service"
)

func dashboardFor(role entities.Role) string {
	if role == entities.RoleAdmin {
		return "/admin/dashboard"
	}
	return "/user/dashboard"
}

// home shows the login form, or sends a logged in user to their dashboard.
func (h *Handler) home(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		c.Redirect(http.StatusFound, dashboardFor(sess.Role))
		return
	}
	h.page(c, http.StatusOK, "home", gin.H{"Title": "Login", "Username": ""})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")

	sess, err := h.auth.Login(c.Request.Context(), username, c.PostForm("passkey"))
	if err != nil {
		status := http.StatusUnauthorized
		message := "Invalid username or passkey."
		if !errors.Is(err, service.ErrInvalidCredentials) {
			_ = c.Error(err)
			status = http.StatusInternalServerError
			message = "Login is unavailable right now. Please try again later."
		}
		h.page(c, status, "home", gin.H{
			"Title":    "Login",
			"Username": username,
			"Flashes":  errorFlash(message),
		})
		return
	}

	h.setCookie(c, sess.Token)
	c.Redirect(http.StatusFound, dashboardFor(sess.Role))
}

func (h *Handler) logout(c *gin.Context) {
	if sess := currentSession(c); sess != nil {
		if err := h.auth.Logout(c.Request.Context(), sess.Token); err != nil {
			h.logger.Warn("logout", zap.Int64("user_id", sess.UserID), zap.Error(err))
		}
	}
	h.clearCookie(c)
	c.Redirect(http.StatusFound, "/")
}
