package service

import (
	"context"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	List(ctx context.Context, role entities.Role, search string) ([]*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, userID int64, role entities.Role) error
	Count(ctx context.Context, role entities.Role) (int, error)
}

type SubjectRepository interface {
	Create(ctx context.Context, subject *entities.Subject) error
	GetByID(ctx context.Context, id int64) (*entities.Subject, error)
	List(ctx context.Context, search string) ([]entities.Subject, error)
	Update(ctx context.Context, subject *entities.Subject) error
	Delete(ctx context.Context, id int64) error
	HasChapters(ctx context.Context, id int64) (bool, error)
	Count(ctx context.Context) (int, error)
}

type ChapterRepository interface {
	Create(ctx context.Context, chapter *entities.Chapter) error
	GetByID(ctx context.Context, id int64) (*entities.Chapter, error)
	GetByName(ctx context.Context, subjectID int64, name string) (*entities.Chapter, error)
	List(ctx context.Context, subjectID int64, search string) ([]entities.Chapter, error)
	ListBySubject(ctx context.Context, subjectID int64) ([]entities.Chapter, error)
	ListByIDs(ctx context.Context, ids []int64) ([]entities.Chapter, error)
	Update(ctx context.Context, chapter *entities.Chapter) error
	Delete(ctx context.Context, id int64) error
	HasQuestions(ctx context.Context, id int64) (bool, error)
}

type QuestionRepository interface {
	Create(ctx context.Context, q *entities.Question) error
	GetByID(ctx context.Context, id int64) (*entities.QuestionDetails, error)
	List(ctx context.Context, f entities.QuestionFilter) ([]entities.QuestionDetails, error)
	ListByChapters(ctx context.Context, subjectID int64, chapterIDs []int64) ([]entities.Question, error)
	Update(ctx context.Context, q *entities.Question) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, a *entities.Attempt) (created bool, err error)
	LinkChapters(ctx context.Context, attemptID int64, chapterIDs []int64) error
	ChapterIDs(ctx context.Context, attemptID int64) ([]int64, error)
	GetForUser(ctx context.Context, attemptID, userID int64) (*entities.AttemptDetails, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]entities.AttemptDetails, error)
	Recent(ctx context.Context, limit int) ([]entities.AttemptDetails, error)
	Count(ctx context.Context) (int, error)
}

type StatsRepository interface {
	UserTotals(ctx context.Context, userID int64) (count int, avgAccuracy float64, err error)
	UserPerformance(ctx context.Context) ([]entities.UserPerformance, error)
	SubjectPerformance(ctx context.Context, userID int64) ([]entities.SubjectPerformance, error)
}

// Transactor runs fn atomically. Repositories called with the ctx passed to
// fn take part in the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SessionStore persists user sessions. Update fails with
// storage.ErrOptimisticLock when the session changed since it was read.
type SessionStore interface {
	Create(ctx context.Context, sess *entities.UserSession) error
	Get(ctx context.Context, token string) (*entities.UserSession, error)
	Update(ctx context.Context, sess *entities.UserSession) error
	Delete(ctx context.Context, token string) error
}

// AttemptObserver is told about every newly recorded attempt.
type AttemptObserver interface {
	AttemptRecorded(ctx context.Context, summary *entities.AttemptSummary) error
}

// ChartRenderer draws charts as data URIs ready for an <img> tag.
type ChartRenderer interface {
	AnswersPie(correct, incorrect int) (string, error)
	AccuracyBars(labels []string, values []float64) (string, error)
	AccuracyTrend(labels []string, values []float64) (string, error)
}
