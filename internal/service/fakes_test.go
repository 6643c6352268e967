package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
	"github.com/aliskhannn/quiz-master/internal/infra/postgres/repository"
	"github.com/aliskhannn/quiz-master/internal/storage"
)

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entities.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*entities.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, userID int64) (*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) List(_ context.Context, role entities.Role, search string) ([]*entities.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.User
	for _, u := range f.users {
		if u.Role == role && strings.Contains(u.Username, search) {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, user *entities.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, userID int64, role entities.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok || u.Role != role {
		return repository.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeUsers) Count(_ context.Context, role entities.Role) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// fakeCatalog backs the subject, chapter and question repositories.
type fakeCatalog struct {
	subjects  map[int64]entities.Subject
	chapters  map[int64]entities.Chapter
	questions map[int64]entities.Question
	nextID    int64

	questionLookups int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		subjects:  make(map[int64]entities.Subject),
		chapters:  make(map[int64]entities.Chapter),
		questions: make(map[int64]entities.Question),
		nextID:    1000,
	}
}

func (f *fakeCatalog) addSubject(id int64, name string) {
	f.subjects[id] = entities.Subject{ID: id, Name: name}
}

func (f *fakeCatalog) addChapter(id, subjectID int64, name string) {
	f.chapters[id] = entities.Chapter{ID: id, SubjectID: subjectID, Name: name}
}

func (f *fakeCatalog) addQuestions(chapterID int64, n int) []int64 {
	ch := f.chapters[chapterID]
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		f.nextID++
		f.questions[f.nextID] = entities.Question{
			ID:        f.nextID,
			SubjectID: ch.SubjectID,
			ChapterID: chapterID,
			Text:      "question",
			Options:   [4]string{"a", "b", "c", "d"},
			Correct:   entities.OptionA,
		}
		ids = append(ids, f.nextID)
	}
	return ids
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

type fakeSubjects struct{ *fakeCatalog }

func (f fakeSubjects) Create(_ context.Context, s *entities.Subject) error {
	for _, existing := range f.subjects {
		if existing.Name == s.Name {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	s.ID = f.nextID
	f.subjects[s.ID] = *s
	return nil
}

func (f fakeSubjects) GetByID(_ context.Context, id int64) (*entities.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, repository.ErrSubjectNotFound
	}
	return &s, nil
}

func (f fakeSubjects) List(_ context.Context, search string) ([]entities.Subject, error) {
	var out []entities.Subject
	for _, id := range sortedKeys(f.subjects) {
		if strings.Contains(f.subjects[id].Name, search) {
			out = append(out, f.subjects[id])
		}
	}
	return out, nil
}

func (f fakeSubjects) Update(_ context.Context, s *entities.Subject) error {
	if _, ok := f.subjects[s.ID]; !ok {
		return repository.ErrSubjectNotFound
	}
	f.subjects[s.ID] = *s
	return nil
}

func (f fakeSubjects) Delete(_ context.Context, id int64) error {
	if _, ok := f.subjects[id]; !ok {
		return repository.ErrSubjectNotFound
	}
	delete(f.subjects, id)
	return nil
}

func (f fakeSubjects) HasChapters(_ context.Context, id int64) (bool, error) {
	for _, ch := range f.chapters {
		if ch.SubjectID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeSubjects) Count(context.Context) (int, error) {
	return len(f.subjects), nil
}

type fakeChapters struct{ *fakeCatalog }

func (f fakeChapters) Create(_ context.Context, c *entities.Chapter) error {
	if _, ok := f.subjects[c.SubjectID]; !ok {
		return repository.ErrSubjectNotFound
	}
	for _, existing := range f.chapters {
		if existing.SubjectID == c.SubjectID && existing.Name == c.Name {
			return repository.ErrDuplicate
		}
	}
	f.nextID++
	c.ID = f.nextID
	f.chapters[c.ID] = *c
	return nil
}

func (f fakeChapters) GetByID(_ context.Context, id int64) (*entities.Chapter, error) {
	c, ok := f.chapters[id]
	if !ok {
		return nil, repository.ErrChapterNotFound
	}
	return &c, nil
}

func (f fakeChapters) GetByName(_ context.Context, subjectID int64, name string) (*entities.Chapter, error) {
	for _, c := range f.chapters {
		if c.SubjectID == subjectID && c.Name == name {
			return &c, nil
		}
	}
	return nil, repository.ErrChapterNotFound
}

func (f fakeChapters) List(_ context.Context, subjectID int64, search string) ([]entities.Chapter, error) {
	var out []entities.Chapter
	for _, id := range sortedKeys(f.chapters) {
		c := f.chapters[id]
		if (subjectID == 0 || c.SubjectID == subjectID) && strings.Contains(c.Name, search) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeChapters) ListBySubject(ctx context.Context, subjectID int64) ([]entities.Chapter, error) {
	return f.List(ctx, subjectID, "")
}

func (f fakeChapters) ListByIDs(_ context.Context, ids []int64) ([]entities.Chapter, error) {
	var out []entities.Chapter
	for _, id := range sortedKeys(f.chapters) {
		if slices.Contains(ids, id) {
			out = append(out, f.chapters[id])
		}
	}
	return out, nil
}

func (f fakeChapters) Update(_ context.Context, c *entities.Chapter) error {
	if _, ok := f.chapters[c.ID]; !ok {
		return repository.ErrChapterNotFound
	}
	f.chapters[c.ID] = *c
	return nil
}

func (f fakeChapters) Delete(_ context.Context, id int64) error {
	if _, ok := f.chapters[id]; !ok {
		return repository.ErrChapterNotFound
	}
	delete(f.chapters, id)
	return nil
}

func (f fakeChapters) HasQuestions(_ context.Context, id int64) (bool, error) {
	for _, q := range f.questions {
		if q.ChapterID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeQuestions struct{ *fakeCatalog }

func (f fakeQuestions) Create(_ context.Context, q *entities.Question) error {
	if _, ok := f.chapters[q.ChapterID]; !ok {
		return repository.ErrChapterNotFound
	}
	f.nextID++
	q.ID = f.nextID
	f.questions[q.ID] = *q
	return nil
}

func (f fakeQuestions) GetByID(_ context.Context, id int64) (*entities.QuestionDetails, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, repository.ErrQuestionNotFound
	}
	return &entities.QuestionDetails{
		Question:    q,
		SubjectName: f.subjects[q.SubjectID].Name,
		ChapterName: f.chapters[q.ChapterID].Name,
	}, nil
}

func (f fakeQuestions) List(_ context.Context, filter entities.QuestionFilter) ([]entities.QuestionDetails, error) {
	var out []entities.QuestionDetails
	for _, id := range sortedKeys(f.questions) {
		q := f.questions[id]
		if filter.SubjectID != 0 && q.SubjectID != filter.SubjectID {
			continue
		}
		if filter.ChapterID != 0 && q.ChapterID != filter.ChapterID {
			continue
		}
		if !strings.Contains(q.Text, filter.Search) {
			continue
		}
		out = append(out, entities.QuestionDetails{Question: q})
	}
	return out, nil
}

func (f fakeQuestions) ListByChapters(_ context.Context, subjectID int64, chapterIDs []int64) ([]entities.Question, error) {
	f.questionLookups++
	var out []entities.Question
	for _, id := range sortedKeys(f.questions) {
		q := f.questions[id]
		if q.SubjectID == subjectID && slices.Contains(chapterIDs, q.ChapterID) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f fakeQuestions) Update(_ context.Context, q *entities.Question) error {
	if _, ok := f.questions[q.ID]; !ok {
		return repository.ErrQuestionNotFound
	}
	f.questions[q.ID] = *q
	return nil
}

func (f fakeQuestions) Delete(_ context.Context, id int64) error {
	if _, ok := f.questions[id]; !ok {
		return repository.ErrQuestionNotFound
	}
	delete(f.questions, id)
	return nil
}

func (f fakeQuestions) Count(context.Context) (int, error) {
	return len(f.questions), nil
}

type fakeAttempts struct {
	mu       sync.Mutex
	nextID   int64
	attempts []entities.Attempt
	links    map[int64][]int64

	createErr error
	linkErr   error
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{links: make(map[int64][]int64)}
}

func (f *fakeAttempts) Create(_ context.Context, a *entities.Attempt) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	for _, existing := range f.attempts {
		if existing.SessionID == a.SessionID {
			a.ID = existing.ID
			a.TakenAt = existing.TakenAt
			return false, nil
		}
	}
	f.nextID++
	a.ID = f.nextID
	f.attempts = append(f.attempts, *a)
	return true, nil
}

func (f *fakeAttempts) LinkChapters(_ context.Context, attemptID int64, chapterIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return f.linkErr
	}
	f.links[attemptID] = append(f.links[attemptID], chapterIDs...)
	return nil
}

func (f *fakeAttempts) ChapterIDs(_ context.Context, attemptID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.links[attemptID]), nil
}

func (f *fakeAttempts) GetForUser(_ context.Context, attemptID, userID int64) (*entities.AttemptDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.attempts {
		if a.ID == attemptID && a.UserID == userID {
			return &entities.AttemptDetails{Attempt: a}, nil
		}
	}
	return nil, repository.ErrAttemptNotFound
}

// ListByUser returns attempts newest first, like the real repository.
func (f *fakeAttempts) ListByUser(_ context.Context, userID int64, limit int) ([]entities.AttemptDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.AttemptDetails
	for i := len(f.attempts) - 1; i >= 0; i-- {
		if f.attempts[i].UserID == userID {
			out = append(out, entities.AttemptDetails{Attempt: f.attempts[i]})
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAttempts) Recent(_ context.Context, limit int) ([]entities.AttemptDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.AttemptDetails
	for i := len(f.attempts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entities.AttemptDetails{Attempt: f.attempts[i]})
	}
	return out, nil
}

func (f *fakeAttempts) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.attempts), nil
}

func (f *fakeAttempts) snapshot() ([]entities.Attempt, map[int64][]int64, int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	links := make(map[int64][]int64, len(f.links))
	for k, v := range f.links {
		links[k] = slices.Clone(v)
	}
	return slices.Clone(f.attempts), links, f.nextID
}

func (f *fakeAttempts) restore(attempts []entities.Attempt, links map[int64][]int64, nextID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts, f.links, f.nextID = attempts, links, nextID
}

// fakeTx rolls the attempt repository back when fn fails.
type fakeTx struct {
	attempts *fakeAttempts
	calls    int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	attempts, links, nextID := t.attempts.snapshot()
	if err := fn(ctx); err != nil {
		t.attempts.restore(attempts, links, nextID)
		return err
	}
	return nil
}

type fakeStats struct {
	users    []entities.UserPerformance
	subjects []entities.SubjectPerformance
}

func (f *fakeStats) UserTotals(context.Context, int64) (int, float64, error) {
	return 0, 0, nil
}

func (f *fakeStats) UserPerformance(context.Context) ([]entities.UserPerformance, error) {
	return f.users, nil
}

func (f *fakeStats) SubjectPerformance(context.Context, int64) ([]entities.SubjectPerformance, error) {
	return f.subjects, nil
}

type chartCall struct {
	kind   string
	labels []string
	values []float64
}

type fakeCharts struct {
	calls []chartCall
	err   error
}

func (f *fakeCharts) AnswersPie(correct, incorrect int) (string, error) {
	f.calls = append(f.calls, chartCall{kind: "pie", values: []float64{float64(correct), float64(incorrect)}})
	if f.err != nil {
		return "", f.err
	}
	return "data:pie", nil
}

func (f *fakeCharts) AccuracyBars(labels []string, values []float64) (string, error) {
	f.calls = append(f.calls, chartCall{kind: "bars", labels: labels, values: values})
	if f.err != nil {
		return "", f.err
	}
	return "data:bars", nil
}

func (f *fakeCharts) AccuracyTrend(labels []string, values []float64) (string, error) {
	f.calls = append(f.calls, chartCall{kind: "trend", labels: labels, values: values})
	if f.err != nil {
		return "", f.err
	}
	return "data:trend", nil
}

type fakeObserver struct {
	mu       sync.Mutex
	recorded []*entities.AttemptSummary
	err      error
}

func (f *fakeObserver) AttemptRecorded(_ context.Context, summary *entities.AttemptSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recorded = append(f.recorded, summary)
	return f.err
}

var errDatabaseDown = errors.New("database is down")

// quizFixture wires the quiz services over fakes: subject 1 with chapters
// 10 and 11, and subject 2 with chapter 20.
type quizFixture struct {
	catalog  *fakeCatalog
	attempts *fakeAttempts
	tx       *fakeTx
	charts   *fakeCharts
	observer *fakeObserver
	store    *storage.SessionStorage
	quiz     *QuizService
	recorder *ResultRecorder
}

func newQuizFixture() *quizFixture {
	catalog := newFakeCatalog()
	catalog.addSubject(1, "Mathematics")
	catalog.addSubject(2, "Physics")
	catalog.addChapter(10, 1, "Algebra")
	catalog.addChapter(11, 1, "Geometry")
	catalog.addChapter(20, 2, "Optics")

	attempts := newFakeAttempts()
	tx := &fakeTx{attempts: attempts}
	charts := &fakeCharts{}
	observer := &fakeObserver{}
	store := storage.NewSessionStorage(time.Hour, zap.NewNop())

	sampler := NewSeededQuestionSampler(fakeQuestions{catalog}, fakeChapters{catalog}, 42)
	recorder := NewResultRecorder(tx, attempts, fakeSubjects{catalog}, fakeChapters{catalog}, charts, zap.NewNop(), observer)
	quiz := NewQuizService(sampler, recorder, store, QuizSettings{DefaultQuestions: 10, MaxQuestions: 50}, zap.NewNop())

	return &quizFixture{
		catalog:  catalog,
		attempts: attempts,
		tx:       tx,
		charts:   charts,
		observer: observer,
		store:    store,
		quiz:     quiz,
		recorder: recorder,
	}
}

func (f *quizFixture) newSession(ctx context.Context) *entities.UserSession {
	sess := entities.NewUserSession("token", &entities.User{ID: 7, Username: "ann", Role: entities.RoleUser}, time.Now())
	if err := f.store.Create(ctx, sess); err != nil {
		panic(err)
	}
	return sess
}

func questionIDs(questions []entities.Question) []int64 {
	ids := make([]int64, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}
