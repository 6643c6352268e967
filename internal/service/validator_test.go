package service

import (
	"errors"
	"testing"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

func TestQuestionDraftValidate(t *testing.T) {
	valid := QuestionDraft{
		SubjectID: 1,
		ChapterID: 10,
		Text:      "  2+2?  ",
		Options:   [4]string{"3", " 4 ", "5", "6"},
		Correct:   " B",
	}

	q, err := valid.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.Text != "2+2?" || q.Options[1] != "4" || q.Correct != entities.OptionB {
		t.Errorf("question = %+v", q)
	}

	tests := []struct {
		name   string
		mutate func(d *QuestionDraft)
	}{
		{"no subject", func(d *QuestionDraft) { d.SubjectID = 0 }},
		{"no chapter", func(d *QuestionDraft) { d.ChapterID = 0 }},
		{"blank text", func(d *QuestionDraft) { d.Text = "   " }},
		{"blank option", func(d *QuestionDraft) { d.Options[2] = "" }},
		{"lowercase label", func(d *QuestionDraft) { d.Correct = "b" }},
		{"unknown label", func(d *QuestionDraft) { d.Correct = "E" }},
		{"missing label", func(d *QuestionDraft) { d.Correct = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if _, err := d.Validate(); !errors.Is(err, ErrInvalidQuestion) {
				t.Errorf("err = %v, want ErrInvalidQuestion", err)
			}
		})
	}
}
