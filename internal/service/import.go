package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/excel"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
)

// ImportResult summarizes a question import.
type ImportResult struct {
	TotalProcessed  int
	Created         int
	ChaptersCreated int
	Errors          []string
}

// QuestionReader parses an uploaded sheet into question rows.
type QuestionReader func(r io.Reader) ([]excel.QuestionRow, error)

// ImportService loads questions from spreadsheets into one subject.
type ImportService struct {
	subjects  SubjectRepository
	chapters  ChapterRepository
	questions QuestionRepository
	read      QuestionReader
	logger    *zap.Logger
}

func NewImportService(
	subjects SubjectRepository,
	chapters ChapterRepository,
	questions QuestionRepository,
	logger *zap.Logger,
) *ImportService {
	return &ImportService{
		subjects:  subjects,
		chapters:  chapters,
		questions: questions,
		read:      excel.ReadQuestions,
		logger:    logger,
	}
}

// ImportQuestions adds every valid row as a question of the subject.
// Chapters are matched by name and created when missing. Invalid rows are
// reported in the result and do not stop the import.
func (s *ImportService) ImportQuestions(ctx context.Context, subjectID int64, r io.Reader) (*ImportResult, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}

	rows, err := s.read(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	chapterIDs := make(map[string]int64)

	for _, row := range rows {
		result.TotalProcessed++

		if err := s.importRow(ctx, subjectID, row, chapterIDs, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
		}
	}

	s.logger.Info("questions imported",
		zap.Int64("subject_id", subjectID),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("created", result.Created),
		zap.Int("errors", len(result.Errors)),
	)

	return result, nil
}

func (s *ImportService) importRow(
	ctx context.Context,
	subjectID int64,
	row excel.QuestionRow,
	chapterIDs map[string]int64,
	result *ImportResult,
) error {
	if row.Chapter == "" {
		return errors.New("chapter is required")
	}

	// Validate everything except the chapter before creating one.
	draft := QuestionDraft{
		SubjectID: subjectID,
		ChapterID: 1,
		Text:      row.Question,
		Options:   row.Options,
		Correct:   row.Correct,
	}
	if _, err := draft.Validate(); err != nil {
		return err
	}

	chapterID, err := s.chapterID(ctx, subjectID, row.Chapter, chapterIDs, result)
	if err != nil {
		return err
	}
	draft.ChapterID = chapterID

	q, err := draft.Validate()
	if err != nil {
		return err
	}
	if err := s.questions.Create(ctx, &q); err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}

	result.Created++
	return nil
}

func (s *ImportService) chapterID(
	ctx context.Context,
	subjectID int64,
	name string,
	cache map[string]int64,
	result *ImportResult,
) (int64, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}

	chapter, err := s.chapters.GetByName(ctx, subjectID, name)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrChapterNotFound):
		chapter = &entities.Chapter{SubjectID: subjectID, Name: name}
		if err := s.chapters.Create(ctx, chapter); err != nil {
			return 0, fmt.Errorf("failed to create chapter: %w", err)
		}
		result.ChaptersCreated++
	default:
		return 0, fmt.Errorf("failed to get chapter: %w", err)
	}

	cache[name] = chapter.ID
	return chapter.ID, nil
}
