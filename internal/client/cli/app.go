package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/client/client"
	"github.com/dmitrijs2005/posterboard/internal/client/config"
	"github.com/dmitrijs2005/posterboard/internal/client/models"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// API is the HTTP surface the CLI drives.
type API interface {
	Register(ctx context.Context, email, displayName string, password []byte, imageData string) error
	Login(ctx context.Context, email string, password []byte) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Secret(ctx context.Context) (string, error)
	Profile(ctx context.Context) (*models.Profile, error)
	AddInterests(ctx context.Context, titles []string) (*models.Profile, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Search(ctx context.Context, prefix string) ([]models.Category, error)
	Upload(ctx context.Context, imageData string) (*models.Asset, error)
	Ping(ctx context.Context) error
	Session() (models.Session, bool)
}

// IdentityService is the gRPC session service.
type IdentityService interface {
	WhoAmI(ctx context.Context) (*models.Identity, error)
	Close() error
}

type App struct {
	config   *config.Config
	api      API
	identity IdentityService
	userName string
	Mode     Mode
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	httpClient := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)

	grpcClient, err := client.NewGRPCClient(c.GRPCAddr, httpClient.SessionToken)
	if err != nil {
		return nil, err
	}

	return &App{
		config:   c,
		api:      httpClient,
		identity: grpcClient,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		a.println("Switched to", mode, "mode")
	}
}

func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.identity.Close()

	a.println("Welcome to posterboard CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.api.Session()
	return ok
}

// StartOnlineStatusWatcher pings the API every interval and flips Mode when
// reachability changes.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.api.Ping(ctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
