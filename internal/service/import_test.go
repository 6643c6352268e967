package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/excel"
)

func TestImportQuestions(t *testing.T) {
	ctx := context.Background()
	catalog, _ := newTestCatalog()

	svc := NewImportService(fakeSubjects{catalog}, fakeChapters{catalog}, fakeQuestions{catalog}, zap.NewNop())
	svc.read = func(io.Reader) ([]excel.QuestionRow, error) {
		return []excel.QuestionRow{
			{Line: 2, Chapter: "Algebra", Question: "2+2?", Options: [4]string{"3", "4", "5", "6"}, Correct: "B"},
			{Line: 3, Chapter: "Calculus", Question: "d/dx x?", Options: [4]string{"0", "1", "x", "2x"}, Correct: "B"},
			{Line: 4, Chapter: "Calculus", Question: "d/dx 1?", Options: [4]string{"0", "1", "x", "2x"}, Correct: "A"},
			{Line: 5, Chapter: "Statistics", Question: "Bad label", Options: [4]string{"0", "1", "2", "3"}, Correct: "e"},
			{Line: 6, Chapter: "", Question: "No chapter", Options: [4]string{"0", "1", "2", "3"}, Correct: "A"},
		}, nil
	}

	result, err := svc.ImportQuestions(ctx, 1, strings.NewReader(""))
	if err != nil {
		t.Fatalf("ImportQuestions: %v", err)
	}

	if result.TotalProcessed != 5 || result.Created != 3 || result.ChaptersCreated != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Errors) != 2 || !strings.HasPrefix(result.Errors[0], "Row 5:") || !strings.HasPrefix(result.Errors[1], "Row 6:") {
		t.Errorf("errors = %q", result.Errors)
	}

	calculus, err := fakeChapters{catalog}.GetByName(ctx, 1, "Calculus")
	if err != nil {
		t.Fatalf("chapter not created: %v", err)
	}
	if _, err := (fakeChapters{catalog}).GetByName(ctx, 1, "Statistics"); err == nil {
		t.Error("chapter created for an invalid row")
	}

	var inCalculus int
	for _, q := range catalog.questions {
		if q.ChapterID == calculus.ID {
			inCalculus++
		}
		if q.SubjectID != 1 {
			t.Errorf("question imported into subject %d", q.SubjectID)
		}
	}
	if inCalculus != 2 {
		t.Errorf("%d questions in new chapter, want 2", inCalculus)
	}
}

func TestImportIntoUnknownSubject(t *testing.T) {
	catalog, _ := newTestCatalog()
	svc := NewImportService(fakeSubjects{catalog}, fakeChapters{catalog}, fakeQuestions{catalog}, zap.NewNop())
	svc.read = func(io.Reader) ([]excel.QuestionRow, error) {
		t.Fatal("sheet read for unknown subject")
		return nil, nil
	}

	if _, err := svc.ImportQuestions(context.Background(), 99, strings.NewReader("")); err == nil {
		t.Error("expected error for unknown subject")
	}
}
