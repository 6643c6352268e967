package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// AttemptRepository provides access to recorded quiz attempts.
type AttemptRepository struct {
	db postgres.DBTX
}

func NewAttemptRepository(db postgres.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts the attempt and sets its ID. Attempts are keyed by the quiz
// session they were recorded from: a second insert for the same session
// returns the existing row with created=false.
func (r *AttemptRepository) Create(ctx context.Context, a *entities.Attempt) (created bool, err error) {
	query := `
		INSERT INTO quiz_attempts (
			session_id, user_id, subject_id, total_questions,
			correct_answers, accuracy, date_taken
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id, date_taken, (xmax = 0) AS created
	`

	err = postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		a.SessionID,
		a.UserID,
		a.SubjectID,
		a.TotalQuestions,
		a.CorrectAnswers,
		a.Accuracy,
		a.TakenAt,
	).Scan(&a.ID, &a.TakenAt, &created)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return false, ErrReferenced
		}
		return false, fmt.Errorf("create quiz attempt: %w", err)
	}

	return created, nil
}

// LinkChapters records the chapters an attempt drew from.
func (r *AttemptRepository) LinkChapters(ctx context.Context, attemptID int64, chapterIDs []int64) error {
	query := `
		INSERT INTO quiz_chapters (quiz_id, chapter_id)
		SELECT $1, unnest($2::bigint[])
		ON CONFLICT DO NOTHING
	`

	if _, err := postgres.Conn(ctx, r.db).Exec(ctx, query, attemptID, chapterIDs); err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("link quiz chapters: %w", err)
	}

	return nil
}

// ChapterIDs returns the chapters linked to an attempt.
func (r *AttemptRepository) ChapterIDs(ctx context.Context, attemptID int64) ([]int64, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx,
		`SELECT chapter_id FROM quiz_chapters WHERE quiz_id = $1 ORDER BY chapter_id`, attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("list quiz chapters: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quiz chapter: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

const attemptDetailsColumns = `
	qa.id, qa.session_id, qa.user_id, qa.subject_id, qa.total_questions,
	qa.correct_answers, qa.accuracy, qa.date_taken, u.username, s.name
`

// GetForUser retrieves an attempt only if it belongs to userID.
func (r *AttemptRepository) GetForUser(ctx context.Context, attemptID, userID int64) (*entities.AttemptDetails, error) {
	query := `
		SELECT ` + attemptDetailsColumns + `
		FROM quiz_attempts qa
		JOIN users u ON u.id = qa.user_id
		JOIN subjects s ON s.id = qa.subject_id
		WHERE qa.id = $1 AND qa.user_id = $2
	`

	row := postgres.Conn(ctx, r.db).QueryRow(ctx, query, attemptID, userID)
	d, err := scanAttemptDetails(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get quiz attempt: %w", err)
	}

	return d, nil
}

// ListByUser returns the attempts of a user, newest first. limit <= 0 means all.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]entities.AttemptDetails, error) {
	query := `
		SELECT ` + attemptDetailsColumns + `
		FROM quiz_attempts qa
		JOIN users u ON u.id = qa.user_id
		JOIN subjects s ON s.id = qa.subject_id
		WHERE qa.user_id = $1
		ORDER BY qa.date_taken DESC, qa.id DESC
		LIMIT NULLIF($2::int, 0)
	`

	return r.list(ctx, query, userID, max(limit, 0))
}

// Recent returns the newest attempts of all users.
func (r *AttemptRepository) Recent(ctx context.Context, limit int) ([]entities.AttemptDetails, error) {
	query := `
		SELECT ` + attemptDetailsColumns + `
		FROM quiz_attempts qa
		JOIN users u ON u.id = qa.user_id
		JOIN subjects s ON s.id = qa.subject_id
		ORDER BY qa.date_taken DESC, qa.id DESC
		LIMIT $1
	`

	return r.list(ctx, query, limit)
}

func (r *AttemptRepository) list(ctx context.Context, query string, args ...any) ([]entities.AttemptDetails, error) {
	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var attempts []entities.AttemptDetails
	for rows.Next() {
		d, err := scanAttemptDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		attempts = append(attempts, *d)
	}

	return attempts, rows.Err()
}

func scanAttemptDetails(row pgx.Row) (*entities.AttemptDetails, error) {
	var d entities.AttemptDetails
	err := row.Scan(
		&d.ID,
		&d.SessionID,
		&d.UserID,
		&d.SubjectID,
		&d.TotalQuestions,
		&d.CorrectAnswers,
		&d.Accuracy,
		&d.TakenAt,
		&d.Username,
		&d.SubjectName,
	)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *AttemptRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM quiz_attempts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count quiz attempts: %w", err)
	}

	return n, nil
}
