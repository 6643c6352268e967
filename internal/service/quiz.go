package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/metrics"
	"github.com/aliskhannn/quiz-master/internal/storage"
)

var (
	// ErrNoActiveQuiz means the session holds no quiz: it was never started
	// or has already been finalized.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrRecordingFailed is retryable: the quiz stays in the session.
	ErrRecordingFailed = errors.New("quiz result could not be saved")
)

// QuizSettings bounds quiz creation.
type QuizSettings struct {
	DefaultQuestions     int
	MaxQuestions         int
	TimeLimitPerQuestion time.Duration
}

// StartQuizRequest is the input of the start-quiz form.
type StartQuizRequest struct {
	SubjectID  int64
	ChapterIDs []int64
	Count      int
}

// QuizService drives the quiz held in a user session: start, answer, finish.
// Every state change is written back through the session store.
type QuizService struct {
	sampler  *QuestionSampler
	recorder *ResultRecorder
	sessions SessionStore
	settings QuizSettings
	logger   *zap.Logger

	now func() time.Time
}

func NewQuizService(
	sampler *QuestionSampler,
	recorder *ResultRecorder,
	sessions SessionStore,
	settings QuizSettings,
	logger *zap.Logger,
) *QuizService {
	if settings.TimeLimitPerQuestion <= 0 {
		settings.TimeLimitPerQuestion = entities.DefaultTimeLimitPerQuestion
	}
	return &QuizService{
		sampler:  sampler,
		recorder: recorder,
		sessions: sessions,
		settings: settings,
		logger:   logger,
		now:      time.Now,
	}
}

// Settings returns the configured quiz bounds.
func (s *QuizService) Settings() QuizSettings {
	return s.settings
}

// Start samples questions and puts a new quiz into sess, replacing any quiz
// in progress. Nothing changes when sampling fails. A request above the
// configured maximum is capped and the user is told so.
func (s *QuizService) Start(ctx context.Context, sess *entities.UserSession, req StartQuizRequest) error {
	count := s.questionCount(req.Count)
	questions, err := s.sampler.Sample(ctx, req.SubjectID, req.ChapterIDs, count)
	if err != nil {
		return err
	}

	quiz, err := entities.NewQuizSession(req.SubjectID, uniqueIDs(req.ChapterIDs), questions, s.now())
	if err != nil {
		return err
	}

	previous, flashes := sess.Quiz, sess.Flashes
	sess.Quiz = quiz
	if req.Count > count {
		sess.AddFlash(entities.FlashInfo, fmt.Sprintf(
			"You asked for %d questions, but a quiz has at most %d. This quiz has %d questions.",
			req.Count, s.settings.MaxQuestions, quiz.Total()))
	}
	if err := s.sessions.Update(ctx, sess); err != nil {
		sess.Quiz, sess.Flashes = previous, flashes
		return fmt.Errorf("save session: %w", err)
	}

	metrics.QuizzesStarted.Inc()
	s.logger.Info("quiz started",
		zap.Int64("user_id", sess.UserID),
		zap.Int64("subject_id", req.SubjectID),
		zap.Int("questions", quiz.Total()),
	)

	return nil
}

func (s *QuizService) questionCount(n int) int {
	if n < 1 {
		n = s.settings.DefaultQuestions
	}
	if s.settings.MaxQuestions > 0 && n > s.settings.MaxQuestions {
		n = s.settings.MaxQuestions
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Current returns the view of the question to answer next.
// It returns entities.ErrQuizCompleted once every question is answered.
func (s *QuizService) Current(sess *entities.UserSession) (entities.QuestionView, error) {
	if sess.Quiz == nil {
		return entities.QuestionView{}, ErrNoActiveQuiz
	}
	return sess.Quiz.Current(s.now(), s.settings.TimeLimitPerQuestion)
}

// Answer applies the answer given for the question at position.
// A repeated or concurrent submission of the same form returns
// entities.ErrStaleAnswer and changes nothing.
func (s *QuizService) Answer(ctx context.Context, sess *entities.UserSession, position int, answer string) (completed bool, err error) {
	if sess.Quiz == nil {
		return false, ErrNoActiveQuiz
	}

	label, _ := entities.ParseOptionLabel(answer)
	correctBefore := sess.Quiz.Correct

	completed, err = sess.Quiz.Advance(position, label)
	if err != nil {
		if errors.Is(err, entities.ErrStaleAnswer) {
			metrics.AnswersSubmitted.WithLabelValues("stale").Inc()
		}
		return completed, err
	}

	if err := s.sessions.Update(ctx, sess); err != nil {
		if errors.Is(err, storage.ErrOptimisticLock) {
			metrics.AnswersSubmitted.WithLabelValues("stale").Inc()
			return false, entities.ErrStaleAnswer
		}
		return false, fmt.Errorf("save session: %w", err)
	}

	if sess.Quiz.Correct > correctBefore {
		metrics.AnswersSubmitted.WithLabelValues("correct").Inc()
	} else {
		metrics.AnswersSubmitted.WithLabelValues("incorrect").Inc()
	}

	return completed, nil
}

// Finish records the completed quiz and clears it from the session.
//
// On ErrQuizDataChanged the quiz is discarded and a flash is queued.
// Any other recording failure wraps ErrRecordingFailed and leaves the quiz
// in place so the caller can retry.
func (s *QuizService) Finish(ctx context.Context, sess *entities.UserSession) (*entities.AttemptSummary, error) {
	if sess.Quiz == nil {
		return nil, ErrNoActiveQuiz
	}
	if !sess.Quiz.Completed() {
		return nil, entities.ErrQuizNotCompleted
	}

	summary, err := s.recorder.Record(ctx, sess.UserID, sess.Username, sess.Quiz)
	if err != nil {
		if errors.Is(err, ErrQuizDataChanged) {
			s.logger.Warn("quiz aborted", zap.Int64("user_id", sess.UserID), zap.Error(err))
			sess.ClearQuiz()
			sess.AddFlash(entities.FlashError, "Quiz data changed while you were taking the quiz. Please start a new quiz.")
			if uerr := s.sessions.Update(ctx, sess); uerr != nil {
				s.logger.Error("save session", zap.Int64("user_id", sess.UserID), zap.Error(uerr))
			}
			return nil, err
		}

		s.logger.Error("record quiz attempt", zap.Int64("user_id", sess.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRecordingFailed, err)
	}

	sess.ClearQuiz()
	if err := s.sessions.Update(ctx, sess); err != nil {
		// The attempt is stored; a later finish of the same quiz is a no-op replay.
		s.logger.Warn("clear finished quiz", zap.Int64("user_id", sess.UserID), zap.Error(err))
	}

	return summary, nil
}
