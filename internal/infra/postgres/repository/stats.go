package repository

import (
	"context"
	"fmt"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// StatsRepository runs aggregate queries over quiz attempts.
type StatsRepository struct {
	db postgres.DBTX
}

func NewStatsRepository(db postgres.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// UserTotals returns the attempt count and average accuracy of a user.
func (r *StatsRepository) UserTotals(ctx context.Context, userID int64) (count int, avgAccuracy float64, err error) {
	query := `
		SELECT COUNT(*), COALESCE(AVG(accuracy), 0)
		FROM quiz_attempts
		WHERE user_id = $1
	`

	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, userID).Scan(&count, &avgAccuracy); err != nil {
		return 0, 0, fmt.Errorf("user totals: %w", err)
	}

	return count, avgAccuracy, nil
}

// UserPerformance aggregates attempts per user with role=user, including
// users without attempts.
func (r *StatsRepository) UserPerformance(ctx context.Context) ([]entities.UserPerformance, error) {
	query := `
		SELECT u.id, u.username, COUNT(qa.id), COALESCE(AVG(qa.accuracy), 0)
		FROM users u
		LEFT JOIN quiz_attempts qa ON qa.user_id = u.id
		WHERE u.role = 'user'
		GROUP BY u.id, u.username
		ORDER BY u.username
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("user performance: %w", err)
	}
	defer rows.Close()

	var res []entities.UserPerformance
	for rows.Next() {
		var p entities.UserPerformance
		if err := rows.Scan(&p.UserID, &p.Username, &p.TotalQuizzes, &p.AvgAccuracy); err != nil {
			return nil, fmt.Errorf("scan user performance: %w", err)
		}
		res = append(res, p)
	}

	return res, rows.Err()
}

// SubjectPerformance aggregates the attempts of one user per subject, best first.
func (r *StatsRepository) SubjectPerformance(ctx context.Context, userID int64) ([]entities.SubjectPerformance, error) {
	query := `
		SELECT s.id, s.name, COUNT(qa.id), AVG(qa.accuracy) AS avg_accuracy
		FROM quiz_attempts qa
		JOIN subjects s ON s.id = qa.subject_id
		WHERE qa.user_id = $1
		GROUP BY s.id, s.name
		ORDER BY avg_accuracy DESC
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("subject performance: %w", err)
	}
	defer rows.Close()

	var res []entities.SubjectPerformance
	for rows.Next() {
		var p entities.SubjectPerformance
		if err := rows.Scan(&p.SubjectID, &p.SubjectName, &p.AttemptCount, &p.AvgAccuracy); err != nil {
			return nil, fmt.Errorf("scan subject performance: %w", err)
		}
		res = append(res, p)
	}

	return res, rows.Err()
}
