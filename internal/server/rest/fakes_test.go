package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/posterboard/internal/clock"
	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	"github.com/dmitrijs2005/posterboard/internal/server/services"
)

// fakeUsers keeps accounts in memory but runs the real session manager and
// authorization gate, so the session lifecycle behaves as in production.
type fakeUsers struct {
	mu       sync.Mutex
	sessions *auth.Manager
	byID     map[string]*models.User
	secrets  map[string]string

	logoutErr error
}

func newFakeUsers(clk clock.Clock) *fakeUsers {
	return &fakeUsers{
		sessions: auth.NewManager(auth.NewRandomIssuer(), clk, auth.DefaultSessionTTL),
		byID:     map[string]*models.User{},
		secrets:  map[string]string{},
	}
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) UpdateSession(_ context.Context, userID, prevUpdateToken string, s models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok || u.UpdateToken != prevUpdateToken {
		return common.ErrorNotFound
	}
	u.SetSession(s)
	return nil
}

func (f *fakeUsers) ExpireSession(_ context.Context, userID, sessionToken string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[userID]; ok && u.SessionToken == sessionToken && u.SessionExpiration.After(at) {
		u.SessionExpiration = at
	}
	return nil
}

func (f *fakeUsers) GetBySessionToken(_ context.Context, token string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.SessionToken == token })
}

func (f *fakeUsers) Register(_ context.Context, in services.RegisterInput) (*models.User, error) {
	if _, err := f.find(func(u *models.User) bool { return u.Email == in.Email }); err == nil {
		return nil, common.ErrDuplicateAccount
	}
	u := &models.User{ID: uuid.NewString(), Email: in.Email, DisplayName: in.DisplayName}
	if err := f.sessions.Create(u); err != nil {
		return nil, err
	}
	f.mu.Lock()
	cp := *u
	f.byID[u.ID] = &cp
	f.secrets[u.ID] = in.Password
	f.mu.Unlock()
	return u, nil
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, error) {
	u, err := f.find(func(u *models.User) bool { return u.Email == email })
	if err != nil {
		return nil, common.ErrInvalidCredentials
	}
	f.mu.Lock()
	ok := f.secrets[u.ID] == password
	f.mu.Unlock()
	if !ok {
		return nil, common.ErrInvalidCredentials
	}
	if _, err := f.sessions.Renew(ctx, f, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsers) Refresh(ctx context.Context, updateToken string) (*models.User, error) {
	u, err := f.find(func(u *models.User) bool { return f.sessions.VerifyUpdateToken(updateToken, u) })
	if err != nil {
		return nil, common.ErrInvalidUpdateToken
	}
	if _, err := f.sessions.Renew(ctx, f, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (f *fakeUsers) Logout(ctx context.Context, user *models.User) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	return f.sessions.Revoke(ctx, f, user)
}

func (f *fakeUsers) Authorize(ctx context.Context, h auth.HeaderGetter) (*models.User, error) {
	return auth.NewGate(f.sessions, f).Authorize(ctx, h)
}

func (f *fakeUsers) Profile(_ context.Context, user *models.User) (*services.UserProfile, error) {
	return &services.UserProfile{User: user}, nil
}

func (f *fakeUsers) AddInterests(_ context.Context, user *models.User, titles []string) (*services.UserProfile, error) {
	p := &services.UserProfile{User: user}
	for _, t := range titles {
		p.Interests = append(p.Interests, models.Category{ID: "c-" + t, Title: t})
	}
	return p, nil
}

// fakePosters serves a fixed set of posters.
type fakePosters struct {
	mu     sync.Mutex
	byID   map[string]*models.Poster
	saved  map[string]bool
	err    error
	period posters.Period

	created services.CreatePosterInput
}

func newFakePosters(list ...models.Poster) *fakePosters {
	f := &fakePosters{byID: map[string]*models.Poster{}, saved: map[string]bool{}}
	for i := range list {
		p := list[i]
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakePosters) detail(id string, mutate func(*models.Poster)) (*services.PosterDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if mutate != nil {
		mutate(p)
	}
	cp := *p
	return &services.PosterDetail{Poster: &cp}, nil
}

func (f *fakePosters) Get(_ context.Context, id string) (*services.PosterDetail, error) {
	return f.detail(id, nil)
}

func (f *fakePosters) View(_ context.Context, id string) (*services.PosterDetail, error) {
	return f.detail(id, func(p *models.Poster) { p.Views++ })
}

func (f *fakePosters) Like(_ context.Context, id string) (*services.PosterDetail, error) {
	return f.detail(id, func(p *models.Poster) { p.Likes++ })
}

func (f *fakePosters) Dislike(_ context.Context, id string) (*services.PosterDetail, error) {
	return f.detail(id, func(p *models.Poster) { p.Likes-- })
}

func (f *fakePosters) Save(_ context.Context, user *models.User, posterID string) (*services.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[posterID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	key := user.ID + "/" + posterID
	if f.saved[key] {
		return nil, common.ErrorAlreadyExists
	}
	f.saved[key] = true
	return &services.UserProfile{User: user, Saved: []models.Poster{*p}}, nil
}

func (f *fakePosters) ListSaved(_ context.Context, _ *models.User, period posters.Period) ([]models.Poster, error) {
	f.period = period
	return nil, f.err
}

func (f *fakePosters) ListOwned(_ context.Context, user *models.User, period posters.Period) ([]models.Poster, error) {
	f.period = period
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Poster
	for _, p := range f.byID {
		if p.UserID == user.ID {
			out = append(out, *p)
		}
	}
	return out, f.err
}

func (f *fakePosters) Create(_ context.Context, user *models.User, in services.CreatePosterInput) (*services.PosterDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = in
	p := &models.Poster{ID: uuid.NewString(), Name: in.Name, Author: in.Author, Date: in.Date,
		Location: in.Location, Description: in.Description, UserID: user.ID}
	var cats []models.Category
	for _, t := range in.Categories {
		cats = append(cats, models.Category{ID: "c-" + t, Title: t})
	}
	return &services.PosterDetail{
		Poster:     p,
		Categories: cats,
		Picture:    &models.Asset{BaseURL: "https://cdn.test", Salt: "SALT", Extension: "png", PosterID: p.ID},
	}, nil
}

type fakeCategories struct {
	list   []models.Category
	prefix string
	err    error
}

func (f *fakeCategories) details() []services.CategoryDetail {
	out := make([]services.CategoryDetail, 0, len(f.list))
	for _, c := range f.list {
		out = append(out, services.CategoryDetail{Category: c})
	}
	return out
}

func (f *fakeCategories) Initialize(context.Context) ([]services.CategoryDetail, error) {
	if len(f.list) == 0 {
		for i, t := range models.DefaultCategories {
			f.list = append(f.list, models.Category{ID: uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(i)}).String(), Title: t})
		}
	}
	return f.details(), f.err
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return f.list, f.err
}

func (f *fakeCategories) Get(_ context.Context, id string) (*services.CategoryDetail, error) {
	for _, c := range f.list {
		if c.ID == id {
			return &services.CategoryDetail{Category: c}, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCategories) Search(_ context.Context, prefix string) ([]services.CategoryDetail, error) {
	f.prefix = prefix
	var out []services.CategoryDetail
	for _, c := range f.list {
		if strings.HasPrefix(strings.ToLower(c.Title), strings.ToLower(prefix)) {
			out = append(out, services.CategoryDetail{Category: c})
		}
	}
	return out, f.err
}

type fakeAssets struct {
	err error
}

func (f *fakeAssets) Upload(_ context.Context, imageData string, owner services.Owner) (*models.Asset, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Asset{
		BaseURL:   "https://cdn.test",
		Salt:      "ABCDEFGH12345678",
		Extension: "png",
		UserID:    owner.UserID,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

type testEnv struct {
	clock      *clock.Fake
	users      *fakeUsers
	posters    *fakePosters
	categories *fakeCategories
	assets     *fakeAssets
	server     *httptest.Server
}

func newTestEnv(t *testing.T, list ...models.Poster) *testEnv {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	env := &testEnv{
		clock:      clk,
		users:      newFakeUsers(clk),
		posters:    newFakePosters(list...),
		categories: &fakeCategories{},
		assets:     &fakeAssets{},
	}
	api := NewAPI(env.users, env.posters, env.categories, env.assets, logging.Nop{})
	env.server = httptest.NewServer(api.Routes())
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, bearer, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}
