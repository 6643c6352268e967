package entities

import "strings"

// OptionLabel identifies one of the four answer options of a question.
type OptionLabel string

const (
	OptionA OptionLabel = "A"
	OptionB OptionLabel = "B"
	OptionC OptionLabel = "C"
	OptionD OptionLabel = "D"
)

// OptionLabels lists the labels in presentation order.
var OptionLabels = [4]OptionLabel{OptionA, OptionB, OptionC, OptionD}

// ParseOptionLabel converts raw form input into a label.
// Matching is exact and case-sensitive: "a" is not a valid label.
func ParseOptionLabel(s string) (OptionLabel, bool) {
	l := OptionLabel(strings.TrimSpace(s))
	return l, l.Valid()
}

// Valid reports whether l is one of A, B, C or D.
func (l OptionLabel) Valid() bool {
	switch l {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

func (l OptionLabel) index() int {
	for i, label := range OptionLabels {
		if label == l {
			return i
		}
	}
	return -1
}

// Question is a multiple-choice question of the question bank.
// A quiz keeps a copy of it, so later edits never reach an in-flight quiz.
type Question struct {
	ID        int64       `json:"id"`
	SubjectID int64       `json:"subject_id"`
	ChapterID int64       `json:"chapter_id"`
	Text      string      `json:"text"`
	Options   [4]string   `json:"options"` // indexed by OptionLabels
	Correct   OptionLabel `json:"correct"`
}

// Option returns the text of the option with the given label.
func (q Question) Option(l OptionLabel) string {
	i := l.index()
	if i < 0 {
		return ""
	}
	return q.Options[i]
}

// IsCorrect reports whether answer matches the correct label exactly.
// An empty or unknown answer is never correct.
func (q Question) IsCorrect(answer OptionLabel) bool {
	return answer.Valid() && answer == q.Correct
}

// QuestionDetails is a question joined with its subject and chapter names.
type QuestionDetails struct {
	Question
	SubjectName string
	ChapterName string
}

// QuestionFilter narrows the admin question listing.
type QuestionFilter struct {
	SubjectID int64
	ChapterID int64
	Search    string
}
