package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
)

func completedQuiz(t *testing.T, f *quizFixture, chapters []int64, answers ...entities.OptionLabel) *entities.QuizSession {
	t.Helper()

	var questions []entities.Question
	for _, chapterID := range chapters {
		for _, id := range f.catalog.addQuestions(chapterID, 1) {
			questions = append(questions, f.catalog.questions[id])
		}
	}

	quiz, err := entities.NewQuizSession(1, chapters, questions, time.Now())
	if err != nil {
		t.Fatalf("NewQuizSession: %v", err)
	}
	for i, answer := range answers {
		if _, err := quiz.Advance(i, answer); err != nil {
			t.Fatalf("Advance(%d): %v", i, err)
		}
	}
	return quiz
}

func TestRecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	quiz := completedQuiz(t, f, []int64{10, 11}, entities.OptionA, entities.OptionC)

	first, err := f.recorder.Record(ctx, 7, "ann", quiz)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	second, err := f.recorder.Record(ctx, 7, "ann", quiz)
	if err != nil {
		t.Fatalf("second Record: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("attempt ids differ: %d and %d", first.ID, second.ID)
	}
	if n, _ := f.attempts.Count(ctx); n != 1 {
		t.Errorf("%d attempts, want 1", n)
	}
	if links, _ := f.attempts.ChapterIDs(ctx, first.ID); len(links) != 2 {
		t.Errorf("links = %v, want 2 chapters", links)
	}
	if len(f.observer.recorded) != 1 {
		t.Errorf("observer notified %d times, want 1", len(f.observer.recorded))
	}
	if first.Accuracy != 50 || first.Incorrect() != 1 {
		t.Errorf("attempt = %+v", first.Attempt)
	}
}

func TestRecordRejectsUnfinishedQuiz(t *testing.T) {
	f := newQuizFixture()
	quiz := completedQuiz(t, f, []int64{10, 11}, entities.OptionA)

	if _, err := f.recorder.Record(context.Background(), 7, "ann", quiz); !errors.Is(err, entities.ErrQuizNotCompleted) {
		t.Fatalf("err = %v, want ErrQuizNotCompleted", err)
	}
	if f.tx.calls != 0 {
		t.Error("transaction opened for unfinished quiz")
	}
}

func TestRecordDataChanged(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *quizFixture)
	}{
		{"subject deleted", func(f *quizFixture) { delete(f.catalog.subjects, 1) }},
		{"chapter deleted", func(f *quizFixture) { delete(f.catalog.chapters, 11) }},
		{"deleted during write", func(f *quizFixture) { f.attempts.createErr = repository.ErrReferenced }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newQuizFixture()
			quiz := completedQuiz(t, f, []int64{10, 11}, entities.OptionA, entities.OptionA)
			tt.setup(f)

			_, err := f.recorder.Record(context.Background(), 7, "ann", quiz)
			if !errors.Is(err, ErrQuizDataChanged) {
				t.Fatalf("err = %v, want ErrQuizDataChanged", err)
			}
			if len(f.observer.recorded) != 0 {
				t.Error("observer notified for unrecorded attempt")
			}
		})
	}
}

func TestRecordToleratesObserverAndChartFailures(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	f.observer.err = errors.New("broker unavailable")
	f.charts.err = errors.New("font missing")
	quiz := completedQuiz(t, f, []int64{10}, entities.OptionA)

	summary, err := f.recorder.Record(ctx, 7, "ann", quiz)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if summary.Chart != "" {
		t.Errorf("chart = %q, want empty", summary.Chart)
	}
	if n, _ := f.attempts.Count(ctx); n != 1 {
		t.Errorf("%d attempts, want 1", n)
	}
}

// slowObserver blocks until its context is done.
type slowObserver struct {
	err chan error
}

func (o slowObserver) AttemptRecorded(ctx context.Context, _ *entities.AttemptSummary) error {
	<-ctx.Done()
	o.err <- ctx.Err()
	return ctx.Err()
}

func TestRecordBoundsSlowObservers(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture()
	slow := slowObserver{err: make(chan error, 1)}
	f.recorder.observers = append([]AttemptObserver{slow}, f.recorder.observers...)
	f.recorder.observerTimeout = 20 * time.Millisecond
	quiz := completedQuiz(t, f, []int64{10}, entities.OptionA)

	start := time.Now()
	if _, err := f.recorder.Record(ctx, 7, "ann", quiz); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Record blocked for %v", elapsed)
	}
	if err := <-slow.err; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("observer context err = %v, want deadline exceeded", err)
	}
	if len(f.observer.recorded) != 1 {
		t.Errorf("next observer notified %d times, want 1", len(f.observer.recorded))
	}
}
