package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/config"
	"github.com/toc-cloud/toc-cloud/internal/db"
	"github.com/toc-cloud/toc-cloud/internal/readaloud"
	"github.com/toc-cloud/toc-cloud/internal/reading"
	"github.com/toc-cloud/toc-cloud/internal/server/ratelimit"
)

// fakeStore is an in-memory Store.
type fakeStore struct {
	mu        sync.Mutex
	pingErr   error
	users     map[uuid.UUID]*db.User
	clouds    map[uuid.UUID]*db.Cloud
	lastInput db.CloudInput
	helpful   map[[2]uuid.UUID]bool
	bookmarks map[[2]uuid.UUID]bool
	solutions map[uuid.UUID]*db.Solution
	likes     map[[2]uuid.UUID]bool
	listed    db.CloudFilter
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uuid.UUID]*db.User{},
		clouds:    map[uuid.UUID]*db.Cloud{},
		helpful:   map[[2]uuid.UUID]bool{},
		bookmarks: map[[2]uuid.UUID]bool{},
		solutions: map[uuid.UUID]*db.Solution{},
		likes:     map[[2]uuid.UUID]bool{},
	}
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (f *fakeStore) CreateUserWithPassword(_ context.Context, name, email, hash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		PasswordSet:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

func (f *fakeStore) UpdateUserName(_ context.Context, id uuid.UUID, name string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	u.Name = name
	u.UpdatedAt = time.Now()
	c := *u
	return &c, nil
}

func (f *fakeStore) CreateCloud(_ context.Context, in db.CloudInput) (*db.Cloud, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastInput = in
	c := &db.Cloud{
		ID:                  uuid.New(),
		OwnerID:             in.OwnerID,
		Title:               in.Title,
		TitleAuto:           in.TitleAuto,
		A:                   in.A,
		BRaw:                in.BRaw,
		BNormalized:         in.BNormalized,
		CRaw:                in.CRaw,
		CNormalized:         in.CNormalized,
		D:                   in.D,
		Dprime:              in.Dprime,
		Context:             in.Context,
		ReasonDBlocksC:      in.ReasonDBlocksC,
		ReasonDprimeBlocksB: in.ReasonDprimeBlocksB,
		ConflictType:        in.ConflictType,
		Tags:                in.Tags,
		Visibility:          in.Visibility,
		Status:              db.StatusActive,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	if c.Visibility == "" {
		c.Visibility = db.VisibilityPublic
	}
	f.clouds[c.ID] = c
	return c, nil
}

func (f *fakeStore) addCloud(c db.Cloud) *db.Cloud {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = db.StatusActive
	}
	f.clouds[c.ID] = &c
	return &c
}

func (f *fakeStore) GetCloud(_ context.Context, id uuid.UUID) (*db.Cloud, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clouds[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) ListClouds(_ context.Context, filter db.CloudFilter) ([]db.Cloud, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed = filter
	out := []db.Cloud{}
	for _, c := range f.clouds {
		if c.Visibility == db.VisibilityPublic {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) setFlag(flags map[[2]uuid.UUID]bool, counter func(*db.Cloud) *int, cloudID, userID uuid.UUID, on bool) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clouds[cloudID]
	if !ok {
		return 0, db.ErrCloudNotFound
	}
	key := [2]uuid.UUID{cloudID, userID}
	n := counter(c)
	*n = max(*n+db.ToggleDelta(flags[key], on), 0)
	flags[key] = on
	return *n, nil
}

func (f *fakeStore) SetHelpful(_ context.Context, cloudID, userID uuid.UUID, on bool) (int, error) {
	return f.setFlag(f.helpful, func(c *db.Cloud) *int { return &c.HelpfulCount }, cloudID, userID, on)
}

func (f *fakeStore) SetBookmark(_ context.Context, cloudID, userID uuid.UUID, on bool) (int, error) {
	return f.setFlag(f.bookmarks, func(c *db.Cloud) *int { return &c.BookmarkCount }, cloudID, userID, on)
}

func (f *fakeStore) GetViewerState(_ context.Context, cloudID, userID uuid.UUID) (db.ViewerState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{cloudID, userID}
	s := db.ViewerState{Helpful: f.helpful[key], Bookmarked: f.bookmarks[key]}
	for _, sol := range f.solutions {
		if sol.CloudID == cloudID && sol.UserID == userID {
			s.HasSolution = true
		}
	}
	return s, nil
}

func (f *fakeStore) ListBookmarkedClouds(_ context.Context, userID uuid.UUID, _ int) ([]db.Cloud, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Cloud{}
	for key, on := range f.bookmarks {
		if on && key[1] == userID {
			out = append(out, *f.clouds[key[0]])
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertSolution(_ context.Context, cloudID, userID uuid.UUID, body string) (*db.Solution, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.clouds[cloudID]
	if !ok {
		return nil, false, db.ErrCloudNotFound
	}
	for _, sol := range f.solutions {
		if sol.CloudID == cloudID && sol.UserID == userID {
			sol.Body = body
			sol.UpdatedAt = time.Now()
			cp := *sol
			return &cp, false, nil
		}
	}
	sol := &db.Solution{
		ID:        uuid.New(),
		CloudID:   cloudID,
		UserID:    userID,
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.solutions[sol.ID] = sol
	c.SolutionsCount++
	cp := *sol
	return &cp, true, nil
}

func (f *fakeStore) ListSolutions(_ context.Context, cloudID, viewerID uuid.UUID) ([]db.Solution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []db.Solution{}
	for _, sol := range f.solutions {
		if sol.CloudID != cloudID {
			continue
		}
		cp := *sol
		cp.LikedByMe = viewerID != uuid.Nil && f.likes[[2]uuid.UUID{sol.ID, viewerID}]
		out = append(out, cp)
	}
	db.SortSolutions(out)
	return out, nil
}

func (f *fakeStore) ToggleLike(_ context.Context, solutionID, userID uuid.UUID) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sol, ok := f.solutions[solutionID]
	if !ok {
		return false, 0, db.ErrSolutionNotFound
	}
	key := [2]uuid.UUID{solutionID, userID}
	before := f.likes[key]
	f.likes[key] = !before
	sol.LikesCount = max(sol.LikesCount+db.ToggleDelta(before, !before), 0)
	return !before, sol.LikesCount, nil
}

// fakeLinter returns resp or err and records the request it saw.
type fakeLinter struct {
	resp    *assist.Response
	err     error
	got     assist.Request
	hadDead bool
}

func (l *fakeLinter) Lint(ctx context.Context, req assist.Request) (*assist.Response, error) {
	l.got = req
	_, l.hadDead = ctx.Deadline()
	return l.resp, l.err
}

// fakeAnnotator writes "<script>:<speakText>" as the reading.
type fakeAnnotator struct{}

func (fakeAnnotator) Annotate(vm *readaloud.VM, script reading.Script) {
	for i := range vm.Lines {
		vm.Lines[i].Reading = string(script) + ":" + vm.Lines[i].SpeakText
	}
}

type testEnv struct {
	server  *Server
	store   *fakeStore
	linter  *fakeLinter
	handler http.Handler
}

func newTestEnv(t *testing.T, opts ...func(*Config)) *testEnv {
	t.Helper()
	store := newFakeStore()
	linter := &fakeLinter{resp: &assist.Response{Comments: assist.EmptyComments()}}
	cfg := Config{
		Port:           0,
		AllowedOrigins: []string{"http://localhost:3000"},
		Store:          store,
		Linter:         linter,
		Annotator:      fakeAnnotator{},
		JWT:            &config.JWTConfig{Secret: testJWTSecret, TTL: time.Hour, Issuer: config.Issuer},
		Password:       &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		RateLimit:      &ratelimit.Config{Enabled: false},
		Logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{server: s, store: store, linter: linter, handler: s.Handler()}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// tokenFor issues a token for a fresh user id.
func (e *testEnv) tokenFor(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	userID := uuid.New()
	token, err := e.server.jwtService.GenerateToken(userID)
	require.NoError(t, err)
	return userID, token
}
