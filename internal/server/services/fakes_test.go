package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/dbx"
	"github.com/dmitrijs2005/posterboard/internal/server/models"
	assetsrepo "github.com/dmitrijs2005/posterboard/internal/server/repositories/assets"
	categoriesrepo "github.com/dmitrijs2005/posterboard/internal/server/repositories/categories"
	postersrepo "github.com/dmitrijs2005/posterboard/internal/server/repositories/posters"
	usersrepo "github.com/dmitrijs2005/posterboard/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// expectTx queues n committed transactions.
func expectTx(mock sqlmock.Sqlmock, n int) {
	for range n {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}
}

// memStore is an in-memory stand-in for every repository. The DBTX handed to
// the manager is ignored.
type memStore struct {
	mu sync.Mutex

	seq        int
	users      map[string]*models.User
	posters    map[string]*models.Poster
	categories map[string]*models.Category
	assets     []*models.Asset
	interests  map[string][]string
	posterCats map[string][]string
	saved      map[string][]string

	usersErr error

	// beforeUpdateSession runs once, ahead of the next UpdateSession.
	beforeUpdateSession func()
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*models.User{},
		posters:    map[string]*models.Poster{},
		categories: map[string]*models.Category{},
		interests:  map[string][]string{},
		posterCats: map[string][]string{},
		saved:      map[string][]string{},
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *memStore) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (s *memStore) Users(dbx.DBTX) usersrepo.Repository           { return (*memUsers)(s) }
func (s *memStore) Posters(dbx.DBTX) postersrepo.Repository       { return (*memPosters)(s) }
func (s *memStore) Categories(dbx.DBTX) categoriesrepo.Repository { return (*memCategories)(s) }
func (s *memStore) Assets(dbx.DBTX) assetsrepo.Repository         { return (*memAssets)(s) }

// users

type memUsers memStore

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	for _, x := range s.users {
		if x.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = s.nextID("u")
	cp := *u
	s.users[u.ID] = &cp
	return u, nil
}

func (r *memUsers) find(match func(*models.User) bool) (*models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersErr != nil {
		return nil, s.usersErr
	}
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}
func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}
func (r *memUsers) GetBySessionToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.SessionToken == token })
}
func (r *memUsers) GetByUpdateToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.UpdateToken == token })
}

func (r *memUsers) UpdateSession(_ context.Context, userID, prevUpdateToken string, sess models.Session) error {
	s := (*memStore)(r)
	s.mu.Lock()
	hook := s.beforeUpdateSession
	s.beforeUpdateSession = nil
	s.mu.Unlock()
	if hook != nil {
		hook()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersErr != nil {
		return s.usersErr
	}
	u, ok := s.users[userID]
	if !ok || u.UpdateToken != prevUpdateToken {
		return common.ErrorNotFound
	}
	u.SetSession(sess)
	return nil
}

func (r *memUsers) ExpireSession(_ context.Context, userID, sessionToken string, at time.Time) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usersErr != nil {
		return s.usersErr
	}
	if u, ok := s.users[userID]; ok && u.SessionToken == sessionToken && u.SessionExpiration.After(at) {
		u.SessionExpiration = at
	}
	return nil
}

func (r *memUsers) AddInterest(_ context.Context, userID, categoryID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.interests[userID] {
		if id == categoryID {
			return nil
		}
	}
	s.interests[userID] = append(s.interests[userID], categoryID)
	return nil
}

func (r *memUsers) ListInterests(_ context.Context, userID string) ([]models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Category{}
	for _, id := range s.interests[userID] {
		out = append(out, *s.categories[id])
	}
	return out, nil
}

// categories

type memCategories memStore

func (r *memCategories) Create(_ context.Context, title string) (*models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Title == title {
			cp := *c
			return &cp, nil
		}
	}
	c := &models.Category{ID: s.nextID("c"), Title: title}
	s.categories[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *memCategories) sorted(match func(*models.Category) bool) []models.Category {
	s := (*memStore)(r)
	out := []models.Category{}
	for _, c := range s.categories {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (r *memCategories) List(context.Context) ([]models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.sorted(func(*models.Category) bool { return true }), nil
}

func (r *memCategories) GetByID(_ context.Context, id string) (*models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) GetByTitle(_ context.Context, title string) (*models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	list := r.sorted(func(c *models.Category) bool { return c.Title == title })
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return &list[0], nil
}

func (r *memCategories) SearchByPrefix(_ context.Context, prefix string) ([]models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return r.sorted(func(c *models.Category) bool {
		return strings.HasPrefix(strings.ToLower(c.Title), strings.ToLower(prefix))
	}), nil
}

func (r *memCategories) PostersWithCategory(_ context.Context, categoryID string) ([]models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Poster{}
	for pid, cats := range s.posterCats {
		for _, c := range cats {
			if c == categoryID {
				out = append(out, *s.posters[pid])
			}
		}
	}
	return out, nil
}

func (r *memCategories) UsersWithCategory(_ context.Context, categoryID string) ([]models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for uid, cats := range s.interests {
		for _, c := range cats {
			if c == categoryID {
				u := s.users[uid]
				out = append(out, models.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName})
			}
		}
	}
	return out, nil
}

// posters

type memPosters memStore

func (r *memPosters) Create(_ context.Context, p *models.Poster) (*models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.nextID("p")
	cp := *p
	s.posters[p.ID] = &cp
	return p, nil
}

func (r *memPosters) GetByID(_ context.Context, id string) (*models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posters[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPosters) bump(id string, f func(p *models.Poster)) (*models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posters[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	f(p)
	cp := *p
	return &cp, nil
}

func (r *memPosters) AddViews(_ context.Context, id string, n int64) (*models.Poster, error) {
	return r.bump(id, func(p *models.Poster) { p.Views += n })
}

func (r *memPosters) AddLikes(_ context.Context, id string, n int64) (*models.Poster, error) {
	return r.bump(id, func(p *models.Poster) { p.Likes += n })
}

func (r *memPosters) AttachCategory(_ context.Context, posterID, categoryID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posterCats[posterID] = append(s.posterCats[posterID], categoryID)
	return nil
}

func (r *memPosters) Categories(_ context.Context, posterID string) ([]models.Category, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Category{}
	for _, id := range s.posterCats[posterID] {
		out = append(out, *s.categories[id])
	}
	return out, nil
}

func (r *memPosters) Save(_ context.Context, userID, posterID string) error {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.saved[userID] {
		if id == posterID {
			return common.ErrorAlreadyExists
		}
	}
	s.saved[userID] = append(s.saved[userID], posterID)
	return nil
}

func inPeriod(p *models.Poster, period postersrepo.Period, now time.Time) bool {
	switch period {
	case postersrepo.Upcoming:
		return p.Date.After(now)
	case postersrepo.Past:
		return p.Date.Before(now)
	default:
		return true
	}
}

func (r *memPosters) ListSaved(_ context.Context, userID string, period postersrepo.Period, now time.Time) ([]models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Poster{}
	for _, id := range s.saved[userID] {
		if p := s.posters[id]; inPeriod(p, period, now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPosters) ListOwned(_ context.Context, userID string, period postersrepo.Period, now time.Time) ([]models.Poster, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Poster{}
	for _, p := range s.posters {
		if p.UserID == userID && inPeriod(p, period, now) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *memPosters) SavedBy(_ context.Context, posterID string) ([]models.User, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.User{}
	for uid, ids := range s.saved {
		for _, id := range ids {
			if id == posterID {
				u := s.users[uid]
				out = append(out, models.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName})
			}
		}
	}
	return out, nil
}

// assets

type memAssets memStore

func (r *memAssets) Create(_ context.Context, a *models.Asset) (*models.Asset, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextID("a")
	cp := *a
	s.assets = append(s.assets, &cp)
	return a, nil
}

func (r *memAssets) latest(match func(*models.Asset) bool) (*models.Asset, error) {
	s := (*memStore)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.assets) - 1; i >= 0; i-- {
		if match(s.assets[i]) {
			cp := *s.assets[i]
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAssets) GetForPoster(_ context.Context, posterID string) (*models.Asset, error) {
	return r.latest(func(a *models.Asset) bool { return a.PosterID == posterID })
}

func (r *memAssets) GetForUser(_ context.Context, userID string) (*models.Asset, error) {
	return r.latest(func(a *models.Asset) bool { return a.UserID == userID })
}

// object storage

type memUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemUploader() *memUploader {
	return &memUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (u *memUploader) Put(_ context.Context, key, contentType string, body []byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return u.err
	}
	u.objects[key] = body
	u.types[key] = contentType
	return nil
}
