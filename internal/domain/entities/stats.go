package entities

// AdminOverview feeds the admin dashboard.
type AdminOverview struct {
	UserCount      int
	SubjectCount   int
	QuestionCount  int
	AttemptCount   int
	RecentAttempts []AttemptDetails
}

// UserOverview feeds the user dashboard.
type UserOverview struct {
	AttemptCount   int
	AvgAccuracy    float64
	RecentAttempts []AttemptDetails
	Subjects       []Subject
}

// UserPerformance aggregates the attempts of one user.
type UserPerformance struct {
	UserID       int64
	Username     string
	TotalQuizzes int
	AvgAccuracy  float64
}

// SubjectPerformance aggregates the attempts of one user in one subject.
type SubjectPerformance struct {
	SubjectID    int64
	SubjectName  string
	AttemptCount int
	AvgAccuracy  float64
}

// ProgressReport lists the performance of every quiz taker.
type ProgressReport struct {
	Users []UserPerformance
	Chart string
}

// UserReport is the admin view of one quiz taker.
type UserReport struct {
	User     *User
	Attempts []AttemptDetails
	Subjects []SubjectPerformance
	Chart    string
}

// History is a user's own list of attempts, newest first.
type History struct {
	Attempts []AttemptDetails
	Chart    string
}
