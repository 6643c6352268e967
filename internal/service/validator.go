package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

var ErrInvalidQuestion = errors.New("invalid question")

// QuestionDraft is a question as submitted by a form or an import row.
type QuestionDraft struct {
	SubjectID int64
	ChapterID int64
	Text      string
	Options   [4]string
	Correct   string
}

// Validate normalizes the draft and returns the question it describes.
func (d QuestionDraft) Validate() (entities.Question, error) {
	q := entities.Question{
		SubjectID: d.SubjectID,
		ChapterID: d.ChapterID,
		Text:      strings.TrimSpace(d.Text),
	}

	if q.SubjectID <= 0 {
		return q, fmt.Errorf("%w: subject is required", ErrInvalidQuestion)
	}
	if q.ChapterID <= 0 {
		return q, fmt.Errorf("%w: chapter is required", ErrInvalidQuestion)
	}
	if q.Text == "" {
		return q, fmt.Errorf("%w: question text is required", ErrInvalidQuestion)
	}

	for i, opt := range d.Options {
		q.Options[i] = strings.TrimSpace(opt)
		if q.Options[i] == "" {
			return q, fmt.Errorf("%w: option %s is required", ErrInvalidQuestion, entities.OptionLabels[i])
		}
	}

	label, ok := entities.ParseOptionLabel(d.Correct)
	if !ok {
		return q, fmt.Errorf("%w: correct answer must be one of A, B, C, D", ErrInvalidQuestion)
	}
	q.Correct = label

	return q, nil
}
