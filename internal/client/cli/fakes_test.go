package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/client/models"
)

type fakeAPI struct {
	mu sync.Mutex

	session *models.Session
	calls   []string

	regEmail, regName, regImage string
	regPass                     []byte
	loginEmail                  string
	loginPass                   []byte
	interests                   []string
	uploaded                    string
	searched                    string

	err     error
	pingErr error
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeAPI) open() {
	f.session = &models.Session{
		SessionToken:      "s",
		UpdateToken:       "u",
		SessionExpiration: time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAPI) Register(_ context.Context, email, displayName string, password []byte, imageData string) error {
	f.record("register")
	f.regEmail, f.regName, f.regImage = email, displayName, imageData
	f.regPass = append([]byte(nil), password...)
	if f.err != nil {
		return f.err
	}
	f.open()
	return nil
}

func (f *fakeAPI) Login(_ context.Context, email string, password []byte) error {
	f.record("login")
	f.loginEmail = email
	f.loginPass = append([]byte(nil), password...)
	if f.err != nil {
		return f.err
	}
	f.open()
	return nil
}

func (f *fakeAPI) Refresh(context.Context) error {
	f.record("refresh")
	return f.err
}

func (f *fakeAPI) Logout(context.Context) error {
	f.record("logout")
	if f.err != nil {
		return f.err
	}
	f.session = nil
	return nil
}

func (f *fakeAPI) Secret(context.Context) (string, error) {
	f.record("secret")
	return "hello Ada", f.err
}

func (f *fakeAPI) Profile(context.Context) (*models.Profile, error) {
	f.record("profile")
	if f.err != nil {
		return nil, f.err
	}
	return &models.Profile{Email: "ada@example.com", DisplayName: "Ada"}, nil
}

func (f *fakeAPI) AddInterests(_ context.Context, titles []string) (*models.Profile, error) {
	f.record("interests")
	f.interests = titles
	p := &models.Profile{Email: "ada@example.com", DisplayName: "Ada"}
	for _, t := range titles {
		p.InterestingCategories = append(p.InterestingCategories, models.Category{Title: t})
	}
	return p, f.err
}

func (f *fakeAPI) Categories(context.Context) ([]models.Category, error) {
	f.record("categories")
	return []models.Category{{ID: "1", Title: "Music"}, {ID: "2", Title: "Art"}}, f.err
}

func (f *fakeAPI) Search(_ context.Context, prefix string) ([]models.Category, error) {
	f.record("search")
	f.searched = prefix
	return nil, f.err
}

func (f *fakeAPI) Upload(_ context.Context, imageData string) (*models.Asset, error) {
	f.record("upload")
	f.uploaded = imageData
	if f.err != nil {
		return nil, f.err
	}
	return &models.Asset{URL: "https://cdn/x.png"}, nil
}

func (f *fakeAPI) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAPI) Session() (models.Session, bool) {
	if f.session == nil {
		return models.Session{}, false
	}
	return *f.session, true
}

type fakeIdentity struct {
	err    error
	closed bool
}

func (f *fakeIdentity) WhoAmI(context.Context) (*models.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Identity{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada"}, nil
}

func (f *fakeIdentity) Close() error {
	f.closed = true
	return nil
}

func newTestApp(api *fakeAPI) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		api:      api,
		identity: &fakeIdentity{},
		reader:   bufio.NewReader(strings.NewReader("")),
		out:      &out,
	}, &out
}

// stubInputs answers text prompts in order and returns password for the
// password prompt.
func stubInputs(t *testing.T, password []byte, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
	getPassword = func(io.Writer) ([]byte, error) {
		if password == nil {
			return nil, errors.New("no tty")
		}
		return append([]byte(nil), password...), nil
	}
}

func stubDataURL(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := readDataURL
	readDataURL = fn
	t.Cleanup(func() { readDataURL = orig })
}
