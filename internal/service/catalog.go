package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
)

var (
	ErrNameRequired        = errors.New("name is required")
	ErrSubjectExists       = errors.New("subject already exists")
	ErrChapterExists       = errors.New("chapter already exists in this subject")
	ErrSubjectHasChapters  = errors.New("cannot delete a subject that still has chapters")
	ErrChapterHasQuestions = errors.New("cannot delete a chapter that still has questions")
)

// CatalogService manages subjects, chapters and questions.
type CatalogService struct {
	subjects  SubjectRepository
	chapters  ChapterRepository
	questions QuestionRepository
}

func NewCatalogService(subjects SubjectRepository, chapters ChapterRepository, questions QuestionRepository) *CatalogService {
	return &CatalogService{subjects: subjects, chapters: chapters, questions: questions}
}

func (s *CatalogService) ListSubjects(ctx context.Context, search string) ([]entities.Subject, error) {
	return s.subjects.List(ctx, strings.TrimSpace(search))
}

func (s *CatalogService) GetSubject(ctx context.Context, id int64) (*entities.Subject, error) {
	return s.subjects.GetByID(ctx, id)
}

func (s *CatalogService) CreateSubject(ctx context.Context, name string) (*entities.Subject, error) {
	subject := &entities.Subject{Name: strings.TrimSpace(name)}
	if subject.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.subjects.Create(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSubjectExists
		}
		return nil, err
	}

	return subject, nil
}

func (s *CatalogService) UpdateSubject(ctx context.Context, id int64, name string) error {
	subject := &entities.Subject{ID: id, Name: strings.TrimSpace(name)}
	if subject.Name == "" {
		return ErrNameRequired
	}

	if err := s.subjects.Update(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrSubjectExists
		}
		return err
	}

	return nil
}

// DeleteSubject refuses to delete a subject that still has chapters.
func (s *CatalogService) DeleteSubject(ctx context.Context, id int64) error {
	has, err := s.subjects.HasChapters(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrSubjectHasChapters
	}

	if err := s.subjects.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrSubjectHasChapters
		}
		return err
	}

	return nil
}

func (s *CatalogService) ListChapters(ctx context.Context, subjectID int64, search string) ([]entities.Chapter, error) {
	return s.chapters.List(ctx, subjectID, strings.TrimSpace(search))
}

// ChaptersOf returns the chapters of one subject.
func (s *CatalogService) ChaptersOf(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	if _, err := s.subjects.GetByID(ctx, subjectID); err != nil {
		return nil, err
	}
	return s.chapters.ListBySubject(ctx, subjectID)
}

func (s *CatalogService) GetChapter(ctx context.Context, id int64) (*entities.Chapter, error) {
	return s.chapters.GetByID(ctx, id)
}

func (s *CatalogService) CreateChapter(ctx context.Context, subjectID int64, name string) (*entities.Chapter, error) {
	chapter := &entities.Chapter{SubjectID: subjectID, Name: strings.TrimSpace(name)}
	if chapter.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.chapters.Create(ctx, chapter); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrChapterExists
		}
		return nil, err
	}

	return chapter, nil
}

func (s *CatalogService) UpdateChapter(ctx context.Context, id, subjectID int64, name string) error {
	chapter := &entities.Chapter{ID: id, SubjectID: subjectID, Name: strings.TrimSpace(name)}
	if chapter.Name == "" {
		return ErrNameRequired
	}

	if err := s.chapters.Update(ctx, chapter); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrChapterExists
		}
		return err
	}

	return nil
}

// DeleteChapter refuses to delete a chapter that still has questions.
func (s *CatalogService) DeleteChapter(ctx context.Context, id int64) error {
	has, err := s.chapters.HasQuestions(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return ErrChapterHasQuestions
	}

	if err := s.chapters.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return ErrChapterHasQuestions
		}
		return err
	}

	return nil
}

func (s *CatalogService) ListQuestions(ctx context.Context, f entities.QuestionFilter) ([]entities.QuestionDetails, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.questions.List(ctx, f)
}

func (s *CatalogService) GetQuestion(ctx context.Context, id int64) (*entities.QuestionDetails, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *CatalogService) CreateQuestion(ctx context.Context, draft QuestionDraft) (*entities.Question, error) {
	q, err := s.validate(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.questions.Create(ctx, &q); err != nil {
		return nil, err
	}

	return &q, nil
}

func (s *CatalogService) UpdateQuestion(ctx context.Context, id int64, draft QuestionDraft) error {
	q, err := s.validate(ctx, draft)
	if err != nil {
		return err
	}
	q.ID = id

	return s.questions.Update(ctx, &q)
}

func (s *CatalogService) DeleteQuestion(ctx context.Context, id int64) error {
	return s.questions.Delete(ctx, id)
}

// validate checks the draft and that its chapter belongs to its subject.
func (s *CatalogService) validate(ctx context.Context, draft QuestionDraft) (entities.Question, error) {
	q, err := draft.Validate()
	if err != nil {
		return q, err
	}

	chapter, err := s.chapters.GetByID(ctx, q.ChapterID)
	if err != nil {
		return q, fmt.Errorf("get chapter: %w", err)
	}
	if chapter.SubjectID != q.SubjectID {
		return q, ErrChapterNotInSubject
	}

	return q, nil
}
