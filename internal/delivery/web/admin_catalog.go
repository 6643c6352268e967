package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

func (h *Handler) manageSubjects(c *gin.Context) {
	search := c.Query("search")
	subjects, err := h.catalog.ListSubjects(c.Request.Context(), search)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "subjects", gin.H{
		"Title":    "Manage Subjects",
		"Subjects": subjects,
		"Search":   search,
	})
}

func (h *Handler) addSubjectForm(c *gin.Context) {
	h.page(c, http.StatusOK, "subject_form", gin.H{
		"Title":   "Add Subject",
		"Action":  "/admin/add_subject",
		"Subject": &entities.Subject{},
	})
}

func (h *Handler) addSubject(c *gin.Context) {
	subject, err := h.catalog.CreateSubject(c.Request.Context(), c.PostForm("name"))
	if err != nil {
		h.formError(c, err, "/admin/add_subject")
		return
	}
	h.redirect(c, "/admin/manage_subjects", entities.FlashSuccess, "Subject "+subject.Name+" added successfully.")
}

func (h *Handler) editSubjectForm(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_subjects", entities.FlashError, "Subject not found.")
		return
	}

	subject, err := h.catalog.GetSubject(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "/admin/manage_subjects", "Subject not found.")
		return
	}

	h.page(c, http.StatusOK, "subject_form", gin.H{
		"Title":   "Edit Subject",
		"Action":  c.Request.URL.Path,
		"Subject": subject,
	})
}

func (h *Handler) editSubject(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_subjects", entities.FlashError, "Subject not found.")
		return
	}

	if err := h.catalog.UpdateSubject(c.Request.Context(), id, c.PostForm("name")); err != nil {
		h.formError(c, err, c.Request.URL.Path)
		return
	}
	h.redirect(c, "/admin/manage_subjects", entities.FlashSuccess, "Subject updated successfully.")
}

func (h *Handler) deleteSubject(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_subjects", entities.FlashError, "Subject not found.")
		return
	}

	if err := h.catalog.DeleteSubject(c.Request.Context(), id); err != nil {
		h.formError(c, err, "/admin/manage_subjects")
		return
	}
	h.redirect(c, "/admin/manage_subjects", entities.FlashSuccess, "Subject deleted successfully.")
}

func (h *Handler) manageChapters(c *gin.Context) {
	ctx := c.Request.Context()
	subjectID := formID(c.Query("subject_id"))
	search := c.Query("search")

	chapters, err := h.catalog.ListChapters(ctx, subjectID, search)
	if err != nil {
		h.fail(c, err)
		return
	}
	subjects, err := h.catalog.ListSubjects(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "chapters", gin.H{
		"Title":     "Manage Chapters",
		"Chapters":  chapters,
		"Subjects":  subjects,
		"SubjectID": subjectID,
		"Search":    search,
	})
}

func (h *Handler) addChapterForm(c *gin.Context) {
	h.chapterForm(c, "Add Chapter", "/admin/add_chapter", &entities.Chapter{SubjectID: formID(c.Query("subject_id"))})
}

func (h *Handler) addChapter(c *gin.Context) {
	chapter, err := h.catalog.CreateChapter(c.Request.Context(), formID(c.PostForm("subject_id")), c.PostForm("name"))
	if err != nil {
		h.formError(c, err, "/admin/add_chapter")
		return
	}
	h.redirect(c, "/admin/manage_chapters", entities.FlashSuccess, "Chapter "+chapter.Name+" added successfully.")
}

func (h *Handler) editChapterForm(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_chapters", entities.FlashError, "Chapter not found.")
		return
	}

	chapter, err := h.catalog.GetChapter(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "/admin/manage_chapters", "Chapter not found.")
		return
	}

	h.chapterForm(c, "Edit Chapter", c.Request.URL.Path, chapter)
}

func (h *Handler) chapterForm(c *gin.Context, title, action string, chapter *entities.Chapter) {
	subjects, err := h.catalog.ListSubjects(c.Request.Context(), "")
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "chapter_form", gin.H{
		"Title":    title,
		"Action":   action,
		"Chapter":  chapter,
		"Subjects": subjects,
	})
}

func (h *Handler) editChapter(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_chapters", entities.FlashError, "Chapter not found.")
		return
	}

	if err := h.catalog.UpdateChapter(c.Request.Context(), id, formID(c.PostForm("subject_id")), c.PostForm("name")); err != nil {
		h.formError(c, err, c.Request.URL.Path)
		return
	}
	h.redirect(c, "/admin/manage_chapters", entities.FlashSuccess, "Chapter updated successfully.")
}

func (h *Handler) deleteChapter(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_chapters", entities.FlashError, "Chapter not found.")
		return
	}

	if err := h.catalog.DeleteChapter(c.Request.Context(), id); err != nil {
		h.formError(c, err, "/admin/manage_chapters")
		return
	}
	h.redirect(c, "/admin/manage_chapters", entities.FlashSuccess, "Chapter deleted successfully.")
}

// formError sends the user back to location with a readable error, or
// fails the request when err is internal.
func (h *Handler) formError(c *gin.Context, err error, location string) {
	msg, ok := userMessage(err)
	if !ok {
		h.fail(c, err)
		return
	}
	h.redirect(c, location, entities.FlashError, msg)
}
