package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

var (
	ErrNoChaptersSelected   = errors.New("select at least one chapter")
	ErrNoQuestionsAvailable = errors.New("no questions available for the selected chapters")
	ErrChapterNotInSubject  = errors.New("chapter does not belong to the subject")
	ErrInvalidQuestionCount = errors.New("number of questions must be positive")
)

// QuestionSampler draws the questions of a new quiz.
type QuestionSampler struct {
	questions QuestionRepository
	chapters  ChapterRepository

	newRand func() *rand.Rand
}

// NewQuestionSampler creates a sampler that uses a fresh seed for every draw.
func NewQuestionSampler(questions QuestionRepository, chapters ChapterRepository) *QuestionSampler {
	return &QuestionSampler{
		questions: questions,
		chapters:  chapters,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewSeededQuestionSampler creates a sampler whose draws depend only on seed
// and the question pool.
func NewSeededQuestionSampler(questions QuestionRepository, chapters ChapterRepository, seed int64) *QuestionSampler {
	s := NewQuestionSampler(questions, chapters)
	s.newRand = func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
	return s
}

// Sample returns min(pool, n) distinct questions from the given chapters of
// the subject. A pool no larger than n comes back whole in storage order;
// otherwise n questions are drawn uniformly in random order.
func (s *QuestionSampler) Sample(ctx context.Context, subjectID int64, chapterIDs []int64, n int) ([]entities.Question, error) {
	chapterIDs = uniqueIDs(chapterIDs)
	if len(chapterIDs) == 0 {
		return nil, ErrNoChaptersSelected
	}
	if n < 1 {
		return nil, ErrInvalidQuestionCount
	}

	chapters, err := s.chapters.ListByIDs(ctx, chapterIDs)
	if err != nil {
		return nil, fmt.Errorf("get chapters: %w", err)
	}
	if len(chapters) != len(chapterIDs) {
		return nil, ErrChapterNotInSubject
	}
	for _, ch := range chapters {
		if ch.SubjectID != subjectID {
			return nil, ErrChapterNotInSubject
		}
	}

	pool, err := s.questions.ListByChapters(ctx, subjectID, chapterIDs)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestionsAvailable
	}
	if len(pool) <= n {
		return pool, nil
	}

	picked := make([]entities.Question, 0, n)
	for _, i := range s.newRand().Perm(len(pool))[:n] {
		picked = append(picked, pool[i])
	}

	return picked, nil
}

// uniqueIDs drops zero and repeated ids, keeping the first occurrence.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
