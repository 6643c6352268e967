package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyQuiz        = errors.New("quiz has no questions")
	ErrQuizCompleted    = errors.New("quiz is already completed")
	ErrQuizNotCompleted = errors.New("quiz is not completed yet")
	ErrStaleAnswer      = errors.New("answer does not match the current question")
)

// QuizStatus is the lifecycle state of a quiz session.
type QuizStatus string

const (
	QuizInProgress QuizStatus = "in_progress"
	QuizCompleted  QuizStatus = "completed"
)

// DefaultTimeLimitPerQuestion is the hint shown to the user for each question.
const DefaultTimeLimitPerQuestion = 120 * time.Second

// QuizSession is one in-progress attempt. It lives in the user's web session
// and has no identity in the database until it is recorded as an Attempt.
//
// Index and Correct only ever grow, and Correct <= Index <= len(Questions).
// Fields are exported for serialization; mutate only through Advance.
type QuizSession struct {
	ID         uuid.UUID  `json:"id"`
	SubjectID  int64      `json:"subject_id"`
	ChapterIDs []int64    `json:"chapter_ids"`
	Questions  []Question `json:"questions"`
	Index      int        `json:"index"`
	Correct    int        `json:"correct"`
	StartedAt  time.Time  `json:"started_at"`
}

// NewQuizSession snapshots the sampled questions and selected chapters.
func NewQuizSession(subjectID int64, chapterIDs []int64, questions []Question, now time.Time) (*QuizSession, error) {
	if len(questions) == 0 {
		return nil, ErrEmptyQuiz
	}

	snapshot := make([]Question, len(questions))
	copy(snapshot, questions)

	chapters := make([]int64, len(chapterIDs))
	copy(chapters, chapterIDs)

	return &QuizSession{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		ChapterIDs: chapters,
		Questions:  snapshot,
		StartedAt:  now,
	}, nil
}

// Total returns the fixed number of questions.
func (q *QuizSession) Total() int {
	return len(q.Questions)
}

// Status derives the state from the current index.
func (q *QuizSession) Status() QuizStatus {
	if q.Index >= len(q.Questions) {
		return QuizCompleted
	}
	return QuizInProgress
}

// Completed reports whether every question has been answered.
func (q *QuizSession) Completed() bool {
	return q.Status() == QuizCompleted
}

// Advance scores answer against the question at position and moves on.
// position is the 0-based index the answer form was rendered for; a mismatch
// means the submission was already applied (double submit) and is rejected.
// A missing or invalid answer counts as wrong but still advances.
func (q *QuizSession) Advance(position int, answer OptionLabel) (completed bool, err error) {
	if q.Completed() {
		return true, ErrQuizCompleted
	}
	if position != q.Index {
		return false, ErrStaleAnswer
	}

	if q.Questions[q.Index].IsCorrect(answer) {
		q.Correct++
	}
	q.Index++

	return q.Completed(), nil
}

// OptionView is one answer choice as presented to the user.
type OptionView struct {
	Label OptionLabel
	Text  string
}

// QuestionView is the point-in-time view of the current question.
// It deliberately carries no correct label.
type QuestionView struct {
	Position  int // 0-based, echoed back by the answer form
	Number    int // 1-based
	Total     int
	Text      string
	Options   []OptionView
	Remaining time.Duration
}

// Current returns the view of the question at the current index.
func (q *QuizSession) Current(now time.Time, limit time.Duration) (QuestionView, error) {
	if q.Completed() {
		return QuestionView{}, ErrQuizCompleted
	}

	question := q.Questions[q.Index]
	options := make([]OptionView, 0, len(OptionLabels))
	for _, label := range OptionLabels {
		options = append(options, OptionView{Label: label, Text: question.Option(label)})
	}

	return QuestionView{
		Position:  q.Index,
		Number:    q.Index + 1,
		Total:     len(q.Questions),
		Text:      question.Text,
		Options:   options,
		Remaining: RemainingTime(limit, now.Sub(q.StartedAt), q.Index),
	}, nil
}

// RemainingTime is a coarse hint: the limit minus the average time spent per
// answered question, floored at zero. Nothing is enforced when it hits zero.
func RemainingTime(limit, elapsed time.Duration, answered int) time.Duration {
	var perQuestion time.Duration
	if answered > 0 && elapsed > 0 {
		perQuestion = elapsed / time.Duration(answered)
	}

	remaining := limit - perQuestion
	if remaining < 0 {
		return 0
	}
	return remaining
}
