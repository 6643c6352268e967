package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres"
)

// QuestionRepository provides access to the question bank.
type QuestionRepository struct {
	db postgres.DBTX
}

func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Create(ctx context.Context, q *entities.Question) error {
	query := `
		INSERT INTO questions (
			subject_id, chapter_id, question_text,
			option_a, option_b, option_c, option_d, correct_answer
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := postgres.Conn(ctx, r.db).QueryRow(
		ctx,
		query,
		q.SubjectID,
		q.ChapterID,
		q.Text,
		q.Options[0],
		q.Options[1],
		q.Options[2],
		q.Options[3],
		q.Correct,
	).Scan(&q.ID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("create question: %w", err)
	}

	return nil
}

// GetByID retrieves a question with its subject and chapter names.
func (r *QuestionRepository) GetByID(ctx context.Context, id int64) (*entities.QuestionDetails, error) {
	query := `
		SELECT q.id, q.subject_id, q.chapter_id, q.question_text,
		       q.option_a, q.option_b, q.option_c, q.option_d, q.correct_answer,
		       s.name, c.name
		FROM questions q
		JOIN subjects s ON s.id = q.subject_id
		JOIN chapters c ON c.id = q.chapter_id
		WHERE q.id = $1
	`

	var d entities.QuestionDetails
	err := postgres.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.SubjectID,
		&d.ChapterID,
		&d.Text,
		&d.Options[0],
		&d.Options[1],
		&d.Options[2],
		&d.Options[3],
		&d.Correct,
		&d.SubjectName,
		&d.ChapterName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	return &d, nil
}

// List returns questions matching the filter, grouped by subject and chapter.
func (r *QuestionRepository) List(ctx context.Context, f entities.QuestionFilter) ([]entities.QuestionDetails, error) {
	query := `
		SELECT q.id, q.subject_id, q.chapter_id, q.question_text,
		       q.option_a, q.option_b, q.option_c, q.option_d, q.correct_answer,
		       s.name, c.name
		FROM questions q
		JOIN subjects s ON s.id = q.subject_id
		JOIN chapters c ON c.id = q.chapter_id
		WHERE ($1::bigint = 0 OR q.subject_id = $1)
		  AND ($2::bigint = 0 OR q.chapter_id = $2)
		  AND ($3::text = '' OR q.question_text ILIKE '%' || $3 || '%')
		ORDER BY s.name, c.name, q.id
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, f.SubjectID, f.ChapterID, f.Search)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.QuestionDetails
	for rows.Next() {
		var d entities.QuestionDetails
		if err := rows.Scan(
			&d.ID,
			&d.SubjectID,
			&d.ChapterID,
			&d.Text,
			&d.Options[0],
			&d.Options[1],
			&d.Options[2],
			&d.Options[3],
			&d.Correct,
			&d.SubjectName,
			&d.ChapterName,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, d)
	}

	return questions, rows.Err()
}

// ListByChapters returns every question of the subject whose chapter is in
// chapterIDs, in storage order.
func (r *QuestionRepository) ListByChapters(ctx context.Context, subjectID int64, chapterIDs []int64) ([]entities.Question, error) {
	query := `
		SELECT id, subject_id, chapter_id, question_text,
		       option_a, option_b, option_c, option_d, correct_answer
		FROM questions
		WHERE subject_id = $1 AND chapter_id = ANY($2)
		ORDER BY id
	`

	rows, err := postgres.Conn(ctx, r.db).Query(ctx, query, subjectID, chapterIDs)
	if err != nil {
		return nil, fmt.Errorf("list questions by chapters: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var q entities.Question
		if err := rows.Scan(
			&q.ID,
			&q.SubjectID,
			&q.ChapterID,
			&q.Text,
			&q.Options[0],
			&q.Options[1],
			&q.Options[2],
			&q.Options[3],
			&q.Correct,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}

	return questions, rows.Err()
}

func (r *QuestionRepository) Update(ctx context.Context, q *entities.Question) error {
	query := `
		UPDATE questions
		SET subject_id = $1, chapter_id = $2, question_text = $3,
		    option_a = $4, option_b = $5, option_c = $6, option_d = $7,
		    correct_answer = $8
		WHERE id = $9
	`

	tag, err := postgres.Conn(ctx, r.db).Exec(
		ctx,
		query,
		q.SubjectID,
		q.ChapterID,
		q.Text,
		q.Options[0],
		q.Options[1],
		q.Options[2],
		q.Options[3],
		q.Correct,
		q.ID,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return ErrChapterNotFound
		}
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}

	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := postgres.Conn(ctx, r.db).Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrQuestionNotFound
	}

	return nil
}

func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := postgres.Conn(ctx, r.db).QueryRow(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}

	return n, nil
}
