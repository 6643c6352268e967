package web

import (
	"context"
	"io"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/service"
)

type AuthService interface {
	Login(ctx context.Context, username, passkey string) (*entities.UserSession, error)
	Logout(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (*entities.UserSession, error)
	SaveSession(ctx context.Context, sess *entities.UserSession) error
}

type QuizService interface {
	Settings() service.QuizSettings
	Start(ctx context.Context, sess *entities.UserSession, req service.StartQuizRequest) error
	Current(sess *entities.UserSession) (entities.QuestionView, error)
	Answer(ctx context.Context, sess *entities.UserSession, position int, answer string) (bool, error)
	Finish(ctx context.Context, sess *entities.UserSession) (*entities.AttemptSummary, error)
}

type UserService interface {
	CreateUser(ctx context.Context, username, passkey, remarks string) (*entities.User, error)
	UpdateUser(ctx context.Context, userID int64, passkey, remarks string) error
	GetUser(ctx context.Context, userID int64) (*entities.User, error)
	ListUsers(ctx context.Context, search string) ([]*entities.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type CatalogService interface {
	ListSubjects(ctx context.Context, search string) ([]entities.Subject, error)
	GetSubject(ctx context.Context, id int64) (*entities.Subject, error)
	CreateSubject(ctx context.Context, name string) (*entities.Subject, error)
	UpdateSubject(ctx context.Context, id int64, name string) error
	DeleteSubject(ctx context.Context, id int64) error

	ListChapters(ctx context.Context, subjectID int64, search string) ([]entities.Chapter, error)
	ChaptersOf(ctx context.Context, subjectID int64) ([]entities.Chapter, error)
	GetChapter(ctx context.Context, id int64) (*entities.Chapter, error)
	CreateChapter(ctx context.Context, subjectID int64, name string) (*entities.Chapter, error)
	UpdateChapter(ctx context.Context, id, subjectID int64, name string) error
	DeleteChapter(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, f entities.QuestionFilter) ([]entities.QuestionDetails, error)
	GetQuestion(ctx context.Context, id int64) (*entities.QuestionDetails, error)
	CreateQuestion(ctx context.Context, draft service.QuestionDraft) (*entities.Question, error)
	UpdateQuestion(ctx context.Context, id int64, draft service.QuestionDraft) error
	DeleteQuestion(ctx context.Context, id int64) error
}

type ImportService interface {
	ImportQuestions(ctx context.Context, subjectID int64, r io.Reader) (*service.ImportResult, error)
}

type ProgressService interface {
	AdminOverview(ctx context.Context) (*entities.AdminOverview, error)
	UserOverview(ctx context.Context, userID int64) (*entities.UserOverview, error)
	Progress(ctx context.Context) (*entities.ProgressReport, error)
	UserReport(ctx context.Context, userID int64) (*entities.UserReport, error)
	History(ctx context.Context, userID int64) (*entities.History, error)
	AttemptDetails(ctx context.Context, userID, attemptID int64) (*entities.AttemptSummary, error)
}
