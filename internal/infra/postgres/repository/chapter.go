package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// ChapterRepository provides access to chapters.
type ChapterRepository struct {
	db postgres.DBTX
}

func NewChapterRepository(db postgres.DBTX) *ChapterRepository {
	return &ChapterRepository{db: db}
}

func (r *ChapterRepository) Create(ctx context.Context, chapter *entities.Chapter) error {
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`INSERT INTO chapters (subject_id, name) VALUES ($1, $2) RETURNING id`,
		chapter.SubjectID, chapter.Name,
	).Scan(&chapter.ID)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return ErrDuplicate
		case postgres.IsForeignKeyViolation(err):
			return ErrSubjectNotFound
		}
		return fmt.Errorf("create chapter: %w", err)
	}

	return nil
}

// GetByID retrieves a chapter together with its subject name.
func (r *ChapterRepository) GetByID(ctx context.Context, id int64) (*entities.Chapter, error) {
	query := `
		SELECT c.id, c.subject_id, c.name, s.name
		FROM chapters c
		JOIN subjects s ON s.id = c.subject_id
		WHERE c.id = $1
	`

	var c entities.Chapter
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(&c.ID, &c.SubjectID, &c.Name, &c.SubjectName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("get chapter: %w", err)
	}

	return &c, nil
}

// GetByName finds a chapter of a subject by its exact name.
func (r *ChapterRepository) GetByName(ctx context.Context, subjectID int64, name string) (*entities.Chapter, error) {
	var c entities.Chapter
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT id, subject_id, name FROM chapters WHERE subject_id = $1 AND name = $2`,
		subjectID, name,
	).Scan(&c.ID, &c.SubjectID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrChapterNotFound
		}
		return nil, fmt.Errorf("get chapter by name: %w", err)
	}

	return &c, nil
}

// List returns chapters joined with their subject. A zero subjectID lists
// all subjects; search filters chapter names by substring.
func (r *ChapterRepository) List(ctx context.Context, subjectID int64, search string) ([]entities.Chapter, error) {
	query := `
		SELECT c.id, c.subject_id, c.name, s.name
		FROM chapters c
		JOIN subjects s ON s.id = c.subject_id
		WHERE ($1::bigint = 0 OR c.subject_id = $1)
		  AND ($2::text = '' OR c.name ILIKE '%' || $2 || '%')
		ORDER BY s.name, c.name
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, subjectID, search)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []entities.Chapter
	for rows.Next() {
		var c entities.Chapter
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Name, &c.SubjectName); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}

// ListBySubject returns the chapters of one subject ordered by name.
func (r *ChapterRepository) ListBySubject(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	return r.List(ctx, subjectID, "")
}

// ListByIDs returns the chapters with the given ids, ordered by name.
func (r *ChapterRepository) ListByIDs(ctx context.Context, ids []int64) ([]entities.Chapter, error) {
	query := `
		SELECT c.id, c.subject_id, c.name, s.name
		FROM chapters c
		JOIN subjects s ON s.id = c.subject_id
		WHERE c.id = ANY($1)
		ORDER BY c.name
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list chapters by ids: %w", err)
	}
	defer rows.Close()

	var chapters []entities.Chapter
	for rows.Next() {
		var c entities.Chapter
		if err := rows.Scan(&c.ID, &c.SubjectID, &c.Name, &c.SubjectName); err != nil {
			return nil, fmt.Errorf("scan chapter: %w", err)
		}
		chapters = append(chapters, c)
	}

	return chapters, rows.Err()
}

func (r *ChapterRepository) Update(ctx context.Context, chapter *entities.Chapter) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx,
		`UPDATE chapters SET subject_id = $1, name = $2 WHERE id = $3`,
		chapter.SubjectID, chapter.Name, chapter.ID,
	)
	if err != nil {
		switch {
		case postgres.IsUniqueViolation(err):
			return ErrDuplicate
		case postgres.IsForeignKeyViolation(err):
			return ErrSubjectNotFound
		}
		return fmt.Errorf("update chapter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChapterNotFound
	}

	return nil
}

func (r *ChapterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM chapters WHERE id = $1`, id)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrReferenced
		}
		return fmt.Errorf("delete chapter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrChapterNotFound
	}

	return nil
}

// HasQuestions reports whether any question belongs to the chapter.
func (r *ChapterRepository) HasQuestions(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := postgres.Conn(ctx, r.db).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM questions WHERE chapter_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check chapter questions: %w", err)
	}

	return exists, nil
}
