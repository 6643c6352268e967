package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/service"
)

func (h *Handler) startQuizForm(c *gin.Context) {
	ctx := c.Request.Context()
	subjects, err := h.catalog.ListSubjects(ctx, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	subjectID := formID(c.Query("subject_id"))
	if subjectID == 0 && len(subjects) > 0 {
		subjectID = subjects[0].ID
	}
	var chapters []entities.Chapter
	if subjectID > 0 {
		chapters, err = h.catalog.ChaptersOf(ctx, subjectID)
		if err != nil && !isNotFound(err) {
			h.fail(c, err)
			return
		}
	}

	h.page(c, http.StatusOK, "start_quiz", gin.H{
		"Title":     "Start Quiz",
		"Subjects":  subjects,
		"SubjectID": subjectID,
		"Chapters":  chapters,
		"Settings":  h.quiz.Settings(),
		"InQuiz":    currentSession(c).Quiz != nil,
	})
}

func (h *Handler) startQuiz(c *gin.Context) {
	count, _ := strconv.Atoi(c.PostForm("num_questions"))
	req := service.StartQuizRequest{
		SubjectID:  formID(c.PostForm("subject_id")),
		ChapterIDs: formIDs(c.PostFormArray("chapter_ids")),
		Count:      count,
	}

	if err := h.quiz.Start(c.Request.Context(), currentSession(c), req); err != nil {
		h.formError(c, err, "/user/start_quiz?subject_id="+strconv.FormatInt(req.SubjectID, 10))
		return
	}

	c.Redirect(http.StatusFound, "/user/take_quiz")
}

func (h *Handler) takeQuiz(c *gin.Context) {
	view, err := h.quiz.Current(currentSession(c))
	switch {
	case errors.Is(err, service.ErrNoActiveQuiz):
		h.redirect(c, "/user/dashboard", entities.FlashError, "No quiz in progress. Please start a new quiz.")
		return
	case errors.Is(err, entities.ErrQuizCompleted):
		c.Redirect(http.StatusFound, "/user/quiz_results")
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "take_quiz", gin.H{
		"Title":    "Quiz",
		"Question": view,
	})
}

// answerQuestion applies one answer. The hidden position field makes a
// resubmitted form a no-op instead of answering the next question.
func (h *Handler) answerQuestion(c *gin.Context) {
	position, err := strconv.Atoi(c.PostForm("position"))
	if err != nil {
		position = -1
	}

	completed, err := h.quiz.Answer(c.Request.Context(), currentSession(c), position, c.PostForm("answer"))
	switch {
	case errors.Is(err, service.ErrNoActiveQuiz):
		h.redirect(c, "/user/dashboard", entities.FlashError, "No quiz in progress. Please start a new quiz.")
	case errors.Is(err, entities.ErrStaleAnswer):
		c.Redirect(http.StatusFound, "/user/take_quiz")
	case completed || errors.Is(err, entities.ErrQuizCompleted):
		c.Redirect(http.StatusFound, "/user/quiz_results")
	case err != nil:
		h.fail(c, err)
	default:
		c.Redirect(http.StatusFound, "/user/take_quiz")
	}
}

func (h *Handler) quizResults(c *gin.Context) {
	summary, err := h.quiz.Finish(c.Request.Context(), currentSession(c))
	switch {
	case errors.Is(err, service.ErrNoActiveQuiz):
		h.redirect(c, "/user/dashboard", entities.FlashError, "No quiz results to show.")
		return
	case errors.Is(err, entities.ErrQuizNotCompleted):
		c.Redirect(http.StatusFound, "/user/take_quiz")
		return
	case errors.Is(err, service.ErrQuizDataChanged):
		c.Redirect(http.StatusFound, "/user/dashboard")
		return
	case errors.Is(err, service.ErrRecordingFailed):
		_ = c.Error(err)
		h.page(c, http.StatusServiceUnavailable, "quiz_retry", gin.H{"Title": "Quiz Results"})
		return
	case err != nil:
		h.fail(c, err)
		return
	}

	h.page(c, http.StatusOK, "quiz_results", gin.H{
		"Title":   "Quiz Results",
		"Summary": summary,
	})
}
