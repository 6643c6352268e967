package web

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/excel"
	"github.com/aliskhannn/quiz-master/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) manageQuestions(c *gin.Context) {
	ctx := c.Request.Context()
	filter := entities.QuestionFilter{
		SubjectID: formID(c.Query("subject_id")),
		ChapterID: formID(c.Query("chapter_id")),
		Search:    c.Query("search"),
	}

	questions, err := h.catalog.ListQuestions(ctx, filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	subjects, err := h.catalog.ListSubjects(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	chapters, err := h.catalog.ListChapters(ctx, filter.SubjectID, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "questions", gin.H{
		"Title":     "Manage Questions",
		"Questions": questions,
		"Subjects":  subjects,
		"Chapters":  chapters,
		"Filter":    filter,
	})
}

func (h *Handler) addQuestionForm(c *gin.Context) {
	h.questionForm(c, http.StatusOK, "Add Question", "/admin/add_question", entities.Question{
		SubjectID: formID(c.Query("subject_id")),
		ChapterID: formID(c.Query("chapter_id")),
	}, nil)
}

func (h *Handler) addQuestion(c *gin.Context) {
	draft := questionDraft(c)
	if _, err := h.catalog.CreateQuestion(c.Request.Context(), draft); err != nil {
		h.questionFormError(c, "Add Question", "/admin/add_question", draft, err)
		return
	}
	h.redirect(c, "/admin/manage_questions", entities.FlashSuccess, "Question added successfully.")
}

func (h *Handler) editQuestionForm(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_questions", entities.FlashError, "Question not found.")
		return
	}

	q, err := h.catalog.GetQuestion(c.Request.Context(), id)
	if err != nil {
		h.notFoundOr(c, err, "/admin/manage_questions", "Question not found.")
		return
	}

	h.questionForm(c, http.StatusOK, "Edit Question", c.Request.URL.Path, q.Question, nil)
}

func (h *Handler) editQuestion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_questions", entities.FlashError, "Question not found.")
		return
	}

	draft := questionDraft(c)
	if err := h.catalog.UpdateQuestion(c.Request.Context(), id, draft); err != nil {
		if isNotFound(err) {
			h.redirect(c, "/admin/manage_questions", entities.FlashError, "Question not found.")
			return
		}
		h.questionFormError(c, "Edit Question", c.Request.URL.Path, draft, err)
		return
	}
	h.redirect(c, "/admin/manage_questions", entities.FlashSuccess, "Question updated successfully.")
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		h.redirect(c, "/admin/manage_questions", entities.FlashError, "Question not found.")
		return
	}

	if err := h.catalog.DeleteQuestion(c.Request.Context(), id); err != nil {
		h.notFoundOr(c, err, "/admin/manage_questions", "Question not found.")
		return
	}
	h.redirect(c, "/admin/manage_questions", entities.FlashSuccess, "Question deleted successfully.")
}

func questionDraft(c *gin.Context) service.QuestionDraft {
	return service.QuestionDraft{
		SubjectID: formID(c.PostForm("subject_id")),
		ChapterID: formID(c.PostForm("chapter_id")),
		Text:      c.PostForm("question"),
		Options: [4]string{
			c.PostForm("option_a"),
			c.PostForm("option_b"),
			c.PostForm("option_c"),
			c.PostForm("option_d"),
		},
		Correct: c.PostForm("correct_answer"),
	}
}

// questionFormError re-renders the form with what the admin typed.
func (h *Handler) questionFormError(c *gin.Context, title, action string, d service.QuestionDraft, err error) {
	msg, ok := userMessage(err)
	if !ok {
		h.fail(c, err)
		return
	}

	q := entities.Question{
		SubjectID: d.SubjectID,
		ChapterID: d.ChapterID,
		Text:      d.Text,
		Options:   d.Options,
		Correct:   entities.OptionLabel(d.Correct),
	}
	h.questionForm(c, http.StatusUnprocessableEntity, title, action, q, errorFlash(msg))
}

func (h *Handler) questionForm(c *gin.Context, status int, title, action string, q entities.Question, flashes []entities.Flash) {
	ctx := c.Request.Context()
	subjects, err := h.catalog.ListSubjects(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}
	chapters, err := h.catalog.ListChapters(ctx, 0, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	data := gin.H{
		"Title":    title,
		"Action":   action,
		"Question": q,
		"Labels":   entities.OptionLabels,
		"Subjects": subjects,
		"Chapters": chapters,
	}
	if flashes != nil {
		data["Flashes"] = flashes
	}
	h.page(c, status, "question_form", data)
}

func (h *Handler) importForm(c *gin.Context) {
	subjects, err := h.catalog.ListSubjects(c.Request.Context(), "")
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "import_questions", gin.H{
		"Title":     "Import Questions",
		"Subjects":  subjects,
		"SubjectID": formID(c.Query("subject_id")),
	})
}

func (h *Handler) importQuestions(c *gin.Context) {
	subjectID := formID(c.PostForm("subject_id"))
	if subjectID == 0 {
		h.redirect(c, "/admin/import_questions", entities.FlashError, "Please select a subject.")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.redirect(c, "/admin/import_questions", entities.FlashError, "Please choose an Excel file to upload.")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportQuestions(c.Request.Context(), subjectID, file)
	if err != nil {
		msg, ok := userMessage(err)
		if !ok {
			msg = "The file could not be read as an Excel workbook."
			_ = c.Error(err)
		}
		h.redirect(c, "/admin/import_questions", entities.FlashError, msg)
		return
	}

	subjects, err := h.catalog.ListSubjects(c.Request.Context(), "")
	if err != nil {
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "import_questions", gin.H{
		"Title":     "Import Questions",
		"Subjects":  subjects,
		"SubjectID": subjectID,
		"Result":    result,
	})
}

func (h *Handler) importTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := excel.WriteTemplate(&buf); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="questions_template.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
