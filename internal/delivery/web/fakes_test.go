package web

import (
	"context"
	"io"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/service"
	"github.com/aliskhannn/quiz-master/internal/storage"
)

type fakeAuth struct {
	mu       sync.Mutex
	users    map[string]*entities.User // keyed by username, passkey in PasskeyHash
	sessions map[string]*entities.UserSession
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		users: map[string]*entities.User{
			"admin": {ID: 1, Username: "admin", PasskeyHash: "admin123", Role: entities.RoleAdmin},
			"alice": {ID: 2, Username: "alice", PasskeyHash: "secret", Role: entities.RoleUser},
		},
		sessions: make(map[string]*entities.UserSession),
	}
}

func (f *fakeAuth) Login(_ context.Context, username, passkey string) (*entities.UserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[username]
	if !ok || u.PasskeyHash != passkey {
		return nil, service.ErrInvalidCredentials
	}
	sess := entities.NewUserSession("token-"+username, u, time.Now())
	f.sessions[sess.Token] = sess
	return sess, nil
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, token)
	return nil
}

func (f *fakeAuth) Session(_ context.Context, token string) (*entities.UserSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[token]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeAuth) SaveSession(_ context.Context, sess *entities.UserSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[sess.Token] = sess
	return nil
}

// login registers a session for username and returns its token.
func (f *fakeAuth) login(username string) string {
	sess, err := f.Login(context.Background(), username, f.users[username].PasskeyHash)
	if err != nil {
		panic(err)
	}
	return sess.Token
}

type fakeQuiz struct {
	startErr  error
	started   *service.StartQuizRequest
	view      entities.QuestionView
	viewErr   error
	position  int
	answer    string
	completed bool
	answerErr error
	summary   *entities.AttemptSummary
	finishErr error
}

func (f *fakeQuiz) Settings() service.QuizSettings {
	return service.QuizSettings{DefaultQuestions: 10, MaxQuestions: 50, TimeLimitPerQuestion: 2 * time.Minute}
}

func (f *fakeQuiz) Start(_ context.Context, _ *entities.UserSession, req service.StartQuizRequest) error {
	f.started = &req
	return f.startErr
}

func (f *fakeQuiz) Current(*entities.UserSession) (entities.QuestionView, error) {
	return f.view, f.viewErr
}

func (f *fakeQuiz) Answer(_ context.Context, _ *entities.UserSession, position int, answer string) (bool, error) {
	f.position, f.answer = position, answer
	return f.completed, f.answerErr
}

func (f *fakeQuiz) Finish(context.Context, *entities.UserSession) (*entities.AttemptSummary, error) {
	return f.summary, f.finishErr
}

type fakeUsers struct{}

func (fakeUsers) CreateUser(_ context.Context, username, _, remarks string) (*entities.User, error) {
	if username == "" {
		return nil, service.ErrCredentialsMissing
	}
	return &entities.User{ID: 3, Username: username, Remarks: remarks, Role: entities.RoleUser}, nil
}

func (fakeUsers) UpdateUser(context.Context, int64, string, string) error { return nil }

func (fakeUsers) GetUser(_ context.Context, id int64) (*entities.User, error) {
	if id != 2 {
		return nil, repository.ErrUserNotFound
	}
	return &entities.User{ID: 2, Username: "alice", Role: entities.RoleUser}, nil
}

func (fakeUsers) ListUsers(context.Context, string) ([]*entities.User, error) {
	return []*entities.User{{ID: 2, Username: "alice", Role: entities.RoleUser, Remarks: "class A"}}, nil
}

func (fakeUsers) DeleteUser(context.Context, int64) error { return nil }

type fakeCatalog struct{}

var (
	testSubjects = []entities.Subject{{ID: 1, Name: "Mathematics"}, {ID: 2, Name: "History"}}
	testChapters = []entities.Chapter{
		{ID: 10, SubjectID: 1, Name: "Algebra", SubjectName: "Mathematics"},
		{ID: 11, SubjectID: 1, Name: "Geometry", SubjectName: "Mathematics"},
	}
	testQuestion = entities.QuestionDetails{
		Question: entities.Question{
			ID: 100, SubjectID: 1, ChapterID: 10, Text: "2 + 2 = ?",
			Options: [4]string{"3", "4", "5", "22"}, Correct: entities.OptionB,
		},
		SubjectName: "Mathematics",
		ChapterName: "Algebra",
	}
)

func (fakeCatalog) ListSubjects(context.Context, string) ([]entities.Subject, error) {
	return testSubjects, nil
}

func (fakeCatalog) GetSubject(_ context.Context, id int64) (*entities.Subject, error) {
	for _, s := range testSubjects {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, repository.ErrSubjectNotFound
}

func (fakeCatalog) CreateSubject(_ context.Context, name string) (*entities.Subject, error) {
	if name == "Mathematics" {
		return nil, service.ErrSubjectExists
	}
	return &entities.Subject{ID: 3, Name: name}, nil
}

func (fakeCatalog) UpdateSubject(context.Context, int64, string) error { return nil }
func (fakeCatalog) DeleteSubject(context.Context, int64) error {
	return service.ErrSubjectHasChapters
}

func (fakeCatalog) ListChapters(context.Context, int64, string) ([]entities.Chapter, error) {
	return testChapters, nil
}

func (f fakeCatalog) ChaptersOf(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	if _, err := f.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}
	var out []entities.Chapter
	for _, ch := range testChapters {
		if ch.SubjectID == subjectID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (fakeCatalog) GetChapter(_ context.Context, id int64) (*entities.Chapter, error) {
	for _, ch := range testChapters {
		if ch.ID == id {
			return &ch, nil
		}
	}
	return nil, repository.ErrChapterNotFound
}

func (fakeCatalog) CreateChapter(_ context.Context, subjectID int64, name string) (*entities.Chapter, error) {
	return &entities.Chapter{ID: 12, SubjectID: subjectID, Name: name}, nil
}

func (fakeCatalog) UpdateChapter(context.Context, int64, int64, string) error { return nil }
func (fakeCatalog) DeleteChapter(context.Context, int64) error { return nil }

func (fakeCatalog) ListQuestions(context.Context, entities.QuestionFilter) ([]entities.QuestionDetails, error) {
	return []entities.QuestionDetails{testQuestion}, nil
}

func (fakeCatalog) GetQuestion(_ context.Context, id int64) (*entities.QuestionDetails, error) {
	if id != testQuestion.ID {
		return nil, repository.ErrQuestionNotFound
	}
	q := testQuestion
	return &q, nil
}

func (fakeCatalog) CreateQuestion(_ context.Context, d service.QuestionDraft) (*entities.Question, error) {
	q, err := d.Validate()
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (fakeCatalog) UpdateQuestion(_ context.Context, _ int64, d service.QuestionDraft) error {
	_, err := d.Validate()
	return err
}

func (fakeCatalog) DeleteQuestion(context.Context, int64) error { return nil }

type fakeImport struct {
	subjectID int64
	body      string
}

func (f *fakeImport) ImportQuestions(_ context.Context, subjectID int64, r io.Reader) (*service.ImportResult, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.subjectID, f.body = subjectID, string(b)
	return &service.ImportResult{TotalProcessed: 2, Created: 1, ChaptersCreated: 1, Errors: []string{"Row 3: invalid question: question text is required"}}, nil
}

var testAttempt = entities.AttemptDetails{
	Attempt: entities.Attempt{
		ID: 7, UserID: 2, SubjectID: 1, TotalQuestions: 4, CorrectAnswers: 3, Accuracy: 75,
		TakenAt: time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC),
	},
	Username:    "alice",
	SubjectName: "Mathematics",
}

type fakeProgress struct{}

func (fakeProgress) AdminOverview(context.Context) (*entities.AdminOverview, error) {
	return &entities.AdminOverview{UserCount: 1, SubjectCount: 2, QuestionCount: 1, AttemptCount: 1,
		RecentAttempts: []entities.AttemptDetails{testAttempt}}, nil
}

func (fakeProgress) UserOverview(context.Context, int64) (*entities.UserOverview, error) {
	return &entities.UserOverview{AttemptCount: 1, AvgAccuracy: 75,
		RecentAttempts: []entities.AttemptDetails{testAttempt}, Subjects: testSubjects}, nil
}

func (fakeProgress) Progress(context.Context) (*entities.ProgressReport, error) {
	return &entities.ProgressReport{
		Users: []entities.UserPerformance{{UserID: 2, Username: "alice", TotalQuizzes: 1, AvgAccuracy: 75}},
		Chart: "data:image/png;base64,AAAA",
	}, nil
}

func (fakeProgress) UserReport(_ context.Context, id int64) (*entities.UserReport, error) {
	if id != 2 {
		return nil, repository.ErrUserNotFound
	}
	return &entities.UserReport{
		User:     &entities.User{ID: 2, Username: "alice"},
		Attempts: []entities.AttemptDetails{testAttempt},
		Subjects: []entities.SubjectPerformance{{SubjectID: 1, SubjectName: "Mathematics", AttemptCount: 1, AvgAccuracy: 75}},
	}, nil
}

func (fakeProgress) History(context.Context, int64) (*entities.History, error) {
	return &entities.History{Attempts: []entities.AttemptDetails{testAttempt}, Chart: "data:image/png;base64,AAAA"}, nil
}

func (fakeProgress) AttemptDetails(_ context.Context, userID, attemptID int64) (*entities.AttemptSummary, error) {
	if userID != testAttempt.UserID || attemptID != testAttempt.ID {
		return nil, repository.ErrAttemptNotFound
	}
	return &entities.AttemptSummary{Attempt: testAttempt.Attempt, SubjectName: "Mathematics", ChapterNames: []string{"Algebra"}}, nil
}

type testServer struct {
	handler  *Handler
	auth     *fakeAuth
	quiz     *fakeQuiz
	importer *fakeImport
}

func newTestServer() *testServer {
	ts := &testServer{auth: newFakeAuth(), quiz: &fakeQuiz{}, importer: &fakeImport{}}
	ts.handler = NewHandler(Services{
		Auth:     ts.auth,
		Quiz:     ts.quiz,
		Users:    fakeUsers{},
		Catalog:  fakeCatalog{},
		Import:   ts.importer,
		Progress: fakeProgress{},
	}, CookieConfig{Name: "quiz_session", TTL: time.Hour}, zap.NewNop())
	return ts
}
