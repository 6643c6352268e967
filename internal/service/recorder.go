package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/metrics"
)

// ErrQuizDataChanged means the subject or a chapter of the quiz was removed
// while it was being taken. The quiz cannot be recorded.
var ErrQuizDataChanged = errors.New("quiz data changed")

// defaultObserverTimeout bounds each observer so a slow broker or chat API
// cannot hold up the results page.
const defaultObserverTimeout = 5 * time.Second

// ResultRecorder turns a completed quiz into a persisted attempt.
type ResultRecorder struct {
	tx        Transactor
	attempts  AttemptRepository
	subjects  SubjectRepository
	chapters  ChapterRepository
	charts    ChartRenderer
	observers []AttemptObserver
	logger    *zap.Logger

	observerTimeout time.Duration
	now             func() time.Time
}

func NewResultRecorder(
	tx Transactor,
	attempts AttemptRepository,
	subjects SubjectRepository,
	chapters ChapterRepository,
	charts ChartRenderer,
	logger *zap.Logger,
	observers ...AttemptObserver,
) *ResultRecorder {
	return &ResultRecorder{
		tx:        tx,
		attempts:  attempts,
		subjects:  subjects,
		chapters:  chapters,
		charts:    charts,
		observers: observers,
		logger:    logger,

		observerTimeout: defaultObserverTimeout,
		now:             time.Now,
	}
}

// Record persists the attempt and its chapter links in one transaction and
// returns the result view. Recording the same quiz again returns the stored
// attempt without writing a second one.
func (r *ResultRecorder) Record(ctx context.Context, userID int64, username string, quiz *entities.QuizSession) (*entities.AttemptSummary, error) {
	if quiz == nil || !quiz.Completed() {
		return nil, entities.ErrQuizNotCompleted
	}

	subject, err := r.subjects.GetByID(ctx, quiz.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrQuizDataChanged
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	chapters, err := r.chapters.ListByIDs(ctx, quiz.ChapterIDs)
	if err != nil {
		return nil, fmt.Errorf("get chapters: %w", err)
	}
	if len(chapters) != len(quiz.ChapterIDs) {
		return nil, ErrQuizDataChanged
	}

	attempt := entities.NewAttempt(userID, quiz, r.now())

	var created bool
	err = r.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = r.attempts.Create(ctx, attempt)
		if err != nil {
			return err
		}
		if !created {
			return nil
		}
		return r.attempts.LinkChapters(ctx, attempt.ID, quiz.ChapterIDs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			metrics.AttemptsRecorded.WithLabelValues("data_changed").Inc()
			return nil, ErrQuizDataChanged
		}
		metrics.AttemptsRecorded.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("save attempt: %w", err)
	}

	names := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		names = append(names, ch.Name)
	}

	summary := &entities.AttemptSummary{
		Attempt:      *attempt,
		Username:     username,
		SubjectName:  subject.Name,
		ChapterNames: names,
	}
	summary.Chart = r.pie(summary.Attempt)

	if !created {
		metrics.AttemptsRecorded.WithLabelValues("replayed").Inc()
		return summary, nil
	}

	metrics.AttemptsRecorded.WithLabelValues("created").Inc()
	r.logger.Info("quiz attempt recorded",
		zap.Int64("attempt_id", attempt.ID),
		zap.Int64("user_id", userID),
		zap.Float64("accuracy", attempt.Accuracy),
	)

	r.notify(ctx, summary)

	return summary, nil
}

// notify tells every observer about a new attempt, each under its own deadline.
// Failures are logged only.
func (r *ResultRecorder) notify(ctx context.Context, summary *entities.AttemptSummary) {
	for _, o := range r.observers {
		octx, cancel := context.WithTimeout(ctx, r.observerTimeout)
		err := o.AttemptRecorded(octx, summary)
		cancel()
		if err != nil {
			r.logger.Warn("attempt observer failed", zap.Int64("attempt_id", summary.ID), zap.Error(err))
		}
	}
}

func (r *ResultRecorder) pie(a entities.Attempt) string {
	chart, err := r.charts.AnswersPie(a.CorrectAnswers, a.Incorrect())
	if err != nil {
		r.logger.Warn("render answers chart", zap.Error(err))
		return ""
	}
	return chart
}
