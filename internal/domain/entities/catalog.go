package entities

// Subject is a top-level topic such as "Mathematics".
type Subject struct {
	ID   int64
	Name string
}

// Chapter is a subdivision of a subject; users pick chapters to build a quiz.
type Chapter struct {
	ID          int64
	SubjectID   int64
	Name        string
	SubjectName string // filled by joined queries only
}
