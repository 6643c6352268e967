package web

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/service"
)

// userErrors are safe to show to the user as they are.
var userErrors = []error{
	service.ErrNameRequired,
	service.ErrSubjectExists,
	service.ErrChapterExists,
	service.ErrSubjectHasChapters,
	service.ErrChapterHasQuestions,
	service.ErrUsernameTaken,
	service.ErrCredentialsMissing,
	service.ErrInvalidQuestion,
	service.ErrChapterNotInSubject,
	service.ErrNoChaptersSelected,
	service.ErrNoQuestionsAvailable,
	service.ErrInvalidQuestionCount,
	repository.ErrUserNotFound,
	repository.ErrSubjectNotFound,
	repository.ErrChapterNotFound,
	repository.ErrQuestionNotFound,
	repository.ErrAttemptNotFound,
}

// userMessage returns the flash text for err, or false when err is internal.
func userMessage(err error) (string, bool) {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return sentence(err.Error()), true
		}
	}
	return "", false
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrUserNotFound) ||
		errors.Is(err, repository.ErrSubjectNotFound) ||
		errors.Is(err, repository.ErrChapterNotFound) ||
		errors.Is(err, repository.ErrQuestionNotFound) ||
		errors.Is(err, repository.ErrAttemptNotFound)
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	s = string(unicode.ToUpper(r)) + s[size:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
