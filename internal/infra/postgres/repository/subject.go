package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// SubjectRepository provides access to subjects.
type SubjectRepository struct {
	db postgres.DBTX
}

func NewSubjectRepository(db postgres.DBTX) *SubjectRepository {
	return &SubjectRepository{db: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *entities.Subject) error {
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO subjects (name) VALUES ($1) RETURNING id`,
		subject.Name,
	).Scan(&subject.ID)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*entities.Subject, error) {
	var s entities.Subject
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, name FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	return &s, nil
}

// List returns subjects ordered by name, optionally filtered by a substring.
func (r *SubjectRepository) List(ctx context.Context, search string) ([]entities.Subject, error) {
	query := `
		SELECT id, name
		FROM subjects
		WHERE $1::text = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []entities.Subject
	for rows.Next() {
		var s entities.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, subject *entities.Subject) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx,
		`UPDATE subjects SET name = $1 WHERE id = $2`, subject.Name, subject.ID,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}

	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}

	return nil
}

// HasChapters reports whether any chapter belongs to the subject.
func (r *SubjectRepository) HasChapters(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM chapters WHERE subject_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check subject chapters: %w", err)
	}

	return exists, nil
}

func (r *SubjectRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}

	return n, nil
}
