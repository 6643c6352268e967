package repository

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAttemptNotFound  = errors.New("quiz attempt not found")

	// ErrDuplicate is returned when a unique name is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrReferenced is returned when a row is still referenced by another table.
	ErrReferenced = errors.New("record is referenced by other records")
)
