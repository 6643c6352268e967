package entities

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is the durable record of one completed quiz. It is never mutated.
type Attempt struct {
	ID             int64
	SessionID      uuid.UUID // id of the quiz session it was recorded from
	UserID         int64
	SubjectID      int64
	TotalQuestions int
	CorrectAnswers int
	Accuracy       float64
	TakenAt        time.Time
}

// NewAttempt builds the attempt for a completed quiz session.
func NewAttempt(userID int64, q *QuizSession, takenAt time.Time) *Attempt {
	return &Attempt{
		SessionID:      q.ID,
		UserID:         userID,
		SubjectID:      q.SubjectID,
		TotalQuestions: q.Total(),
		CorrectAnswers: q.Correct,
		Accuracy:       Accuracy(q.Correct, q.Total()),
		TakenAt:        takenAt,
	}
}

// Incorrect returns the number of wrong or skipped answers.
func (a Attempt) Incorrect() int {
	return a.TotalQuestions - a.CorrectAnswers
}

// Accuracy returns correct/total as a percentage in [0, 100], 0 for total 0.
func Accuracy(correct, total int) float64 {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		correct = total
	}
	return float64(correct) / float64(total) * 100
}

// AttemptChapterLink ties an attempt to one chapter it drew questions from.
type AttemptChapterLink struct {
	AttemptID int64
	ChapterID int64
}

// AttemptDetails is an attempt joined with names for listings.
type AttemptDetails struct {
	Attempt
	Username    string
	SubjectName string
}

// AttemptSummary is the result view of a recorded attempt.
type AttemptSummary struct {
	Attempt
	Username     string
	SubjectName  string
	ChapterNames []string
	Chart        string // data URI, empty when no chart could be drawn
}
