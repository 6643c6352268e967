package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

const (
	recentAttempts = 5
	trendAttempts  = 10
)

// ProgressService builds dashboards, reports and attempt history.
type ProgressService struct {
	users     UserRepository
	subjects  SubjectRepository
	chapters  ChapterRepository
	questions QuestionRepository
	attempts  AttemptRepository
	stats     StatsRepository
	charts    ChartRenderer
	logger    *zap.Logger
}

func NewProgressService(
	users UserRepository,
	subjects SubjectRepository,
	chapters ChapterRepository,
	questions QuestionRepository,
	attempts AttemptRepository,
	stats StatsRepository,
	charts ChartRenderer,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		users:     users,
		subjects:  subjects,
		chapters:  chapters,
		questions: questions,
		attempts:  attempts,
		stats:     stats,
		charts:    charts,
		logger:    logger,
	}
}

func (s *ProgressService) AdminOverview(ctx context.Context) (*entities.AdminOverview, error) {
	var (
		o   entities.AdminOverview
		err error
	)

	if o.UserCount, err = s.users.Count(ctx, entities.RoleUser); err != nil {
		return nil, err
	}
	if o.SubjectCount, err = s.subjects.Count(ctx); err != nil {
		return nil, err
	}
	if o.QuestionCount, err = s.questions.Count(ctx); err != nil {
		return nil, err
	}
	if o.AttemptCount, err = s.attempts.Count(ctx); err != nil {
		return nil, err
	}
	if o.RecentAttempts, err = s.attempts.Recent(ctx, recentAttempts); err != nil {
		return nil, err
	}

	return &o, nil
}

func (s *ProgressService) UserOverview(ctx context.Context, userID int64) (*entities.UserOverview, error) {
	count, avg, err := s.stats.UserTotals(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.attempts.ListByUser(ctx, userID, recentAttempts)
	if err != nil {
		return nil, err
	}

	subjects, err := s.subjects.List(ctx, "")
	if err != nil {
		return nil, err
	}

	return &entities.UserOverview{
		AttemptCount:   count,
		AvgAccuracy:    avg,
		RecentAttempts: recent,
		Subjects:       subjects,
	}, nil
}

// Progress reports every quiz taker; the chart covers users with attempts.
func (s *ProgressService) Progress(ctx context.Context) (*entities.ProgressReport, error) {
	users, err := s.stats.UserPerformance(ctx)
	if err != nil {
		return nil, err
	}

	var (
		labels []string
		values []float64
	)
	for _, u := range users {
		if u.TotalQuizzes > 0 {
			labels = append(labels, u.Username)
			values = append(values, u.AvgAccuracy)
		}
	}

	return &entities.ProgressReport{
		Users: users,
		Chart: s.render("user progress", func() (string, error) { return s.charts.AccuracyBars(labels, values) }),
	}, nil
}

func (s *ProgressService) UserReport(ctx context.Context, userID int64) (*entities.UserReport, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	subjects, err := s.stats.SubjectPerformance(ctx, userID)
	if err != nil {
		return nil, err
	}

	labels := make([]string, 0, len(subjects))
	values := make([]float64, 0, len(subjects))
	for _, sp := range subjects {
		labels = append(labels, sp.SubjectName)
		values = append(values, sp.AvgAccuracy)
	}

	return &entities.UserReport{
		User:     user,
		Attempts: attempts,
		Subjects: subjects,
		Chart:    s.render("subject performance", func() (string, error) { return s.charts.AccuracyBars(labels, values) }),
	}, nil
}

// History lists all attempts of the user; the chart shows the last ten,
// oldest first.
func (s *ProgressService) History(ctx context.Context, userID int64) (*entities.History, error) {
	attempts, err := s.attempts.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	n := min(len(attempts), trendAttempts)
	labels := make([]string, 0, n)
	values := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		labels = append(labels, attempts[i].TakenAt.Format("Jan 02 15:04"))
		values = append(values, attempts[i].Accuracy)
	}

	return &entities.History{
		Attempts: attempts,
		Chart:    s.render("accuracy trend", func() (string, error) { return s.charts.AccuracyTrend(labels, values) }),
	}, nil
}

// AttemptDetails returns one attempt of the user. Attempts of other users
// are reported as not found.
func (s *ProgressService) AttemptDetails(ctx context.Context, userID, attemptID int64) (*entities.AttemptSummary, error) {
	details, err := s.attempts.GetForUser(ctx, attemptID, userID)
	if err != nil {
		return nil, err
	}

	ids, err := s.attempts.ChapterIDs(ctx, attemptID)
	if err != nil {
		return nil, err
	}

	var names []string
	if len(ids) > 0 {
		chapters, err := s.chapters.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("get chapters: %w", err)
		}
		for _, ch := range chapters {
			names = append(names, ch.Name)
		}
	}

	a := details.Attempt
	return &entities.AttemptSummary{
		Attempt:      a,
		Username:     details.Username,
		SubjectName:  details.SubjectName,
		ChapterNames: names,
		Chart:        s.render("answers", func() (string, error) { return s.charts.AnswersPie(a.CorrectAnswers, a.Incorrect()) }),
	}, nil
}

// render draws a chart; a failed chart is logged and left out of the page.
func (s *ProgressService) render(name string, draw func() (string, error)) string {
	chart, err := draw()
	if err != nil {
		s.logger.Warn("render chart", zap.String("chart", name), zap.Error(err))
		return ""
	}
	return chart
}
