package entities

import "time"

// FlashKind is the severity of a one-shot message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashInfo    FlashKind = "info"
	FlashError   FlashKind = "error"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// UserSession is the per-browser session state behind the session cookie.
// Version guards against lost updates when two requests race.
type UserSession struct {
	Token     string       `json:"token"`
	UserID    int64        `json:"user_id"`
	Username  string       `json:"username"`
	Role      Role         `json:"role"`
	Quiz      *QuizSession `json:"quiz,omitempty"`
	Flashes   []Flash      `json:"flashes,omitempty"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewUserSession(token string, user *User, now time.Time) *UserSession {
	return &UserSession{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: now,
	}
}

// AddFlash queues a message for the next page.
func (s *UserSession) AddFlash(kind FlashKind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
}

// PopFlashes returns queued messages and clears them.
func (s *UserSession) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

// ClearQuiz discards the in-progress quiz, if any.
func (s *UserSession) ClearQuiz() {
	s.Quiz = nil
}
