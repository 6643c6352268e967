package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

func (h *Handler) manageUsers(c *gin.Context) {
	search := c.Query("search")
	users, err := h.users.ListUsers(c.Request.Context(), search)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "users", gin.H{
		"Title":  "Manage Users",
		"Users":  users,
		"Search": search,
	})
}

func (h *Handler) addUserForm(c *gin.Context) {
	h.page(c, http.StatusOK, "user_form", gin.H{
		"Title":  "Add User",
		"Action": "/admin/add_user",
		"User":   &entities.User{},
		"New":    true,
	})
}

func (h *Handler) addUser(c *gin.Context) {
	user, err := h.users.CreateUser(c.Request.Context(), c.PostForm("username"), c.PostForm("passkey"), c.PostForm("remarks"))
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			h.fail(c, err)
			return
		}
		h.page(c, http.StatusUnprocessableEntity, "user_form", gin.H{
			"Title":   "Add User",
			"Action":  "/admin/add_user",
			"User":    &entities.User{Username: c.PostForm("username"), Remarks: c.PostForm("remarks")},
			"New":     true,
			"Flashes": errorFlash(msg),
		})
		return
	}

	h.redirect(c, "/admin/manage_users", entities.FlashSuccess, "User "+user.Username+" added successfully.")
}

func (h *Handler) editUserForm(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_users", entities.FlashError, "User not found.")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "/admin/manage_users", "User not found.")
		return
	}

	h.page(c, http.StatusOK, "user_form", gin.H{
		"Title":  "Edit User",
		"Action": c.Request.URL.Path,
		"User":   user,
	})
}

func (h *Handler) editUser(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_users", entities.FlashError, "User not found.")
		return
	}

	if err := h.users.UpdateUser(c.Request.Context(), id, c.PostForm("passkey"), c.PostForm("remarks")); err != nil {
		h.notFoundOr(c, err, "/admin/manage_users", "User not found.")
		return
	}

	h.redirect(c, "/admin/manage_users", entities.FlashSuccess, "User updated successfully.")
}

func (h *Handler) deleteUser(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_users", entities.FlashError, "User not found.")
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, err, "/admin/manage_users", "User not found.")
		return
	}

	h.redirect(c, "/admin/manage_users", entities.FlashSuccess, "User deleted successfully.")
}

// notFoundOr redirects with message on a missing record and fails otherwise.
func (h *Handler) notFoundOr(c *gin.Context, err error, location, message string) {
	if isNotFound(err) {
		h.redirect(c, location, entities.FlashError, message)
		return
	}
	h.fail(c, err)
}
