// Package server wires the posterboard components together and runs the
// HTTP and gRPC endpoints until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/posterboard/internal/clock"
	"github.com/dmitrijs2005/posterboard/internal/logging"
	"github.com/dmitrijs2005/posterboard/internal/server/auth"
	"github.com/dmitrijs2005/posterboard/internal/server/config"
	"github.com/dmitrijs2005/posterboard/internal/server/objectstore"
	"github.com/dmitrijs2005/posterboard/internal/server/ratelimit"
	"github.com/dmitrijs2005/posterboard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/posterboard/internal/server/rest"
	"github.com/dmitrijs2005/posterboard/internal/server/services"

	gs "github.com/dmitrijs2005/posterboard/internal/server/grpc"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	redis       *redis.Client
	repomanager repomanager.RepositoryManager

	userService     *services.UserService
	posterService   *services.PosterService
	categoryService *services.CategoryService
	assetService    *services.AssetService
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	clk := clock.Real()

	store := objectstore.NewS3Store(objectstore.Options{
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})

	var (
		limiter ratelimit.LoginLimiter = ratelimit.Noop{}
		rdb     *redis.Client
	)
	if c.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		limiter = ratelimit.NewRedisLimiter(rdb, c.LoginMaxAttempts, c.LoginCooldown)
	}

	sessions := auth.NewManager(auth.NewRandomIssuer(), clk, c.SessionTTL)
	hasher := auth.NewHasher(c.BcryptCost)

	as := services.NewAssetService(db, rm, store, c.AssetBaseURL(), clk, logger)
	us := services.NewUserService(db, rm, sessions, hasher, limiter, as, logger)
	ps := services.NewPosterService(db, rm, as, clk, logger)
	cs := services.NewCategoryService(db, rm, logger)

	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		redis:           rdb,
		repomanager:     rm,
		userService:     us,
		posterService:   ps,
		categoryService: cs,
		assetService:    as,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	api := rest.NewAPI(app.userService, app.posterService, app.categoryService, app.assetService, app.logger,
		rest.WithMaxBodyBytes(app.config.MaxBodyBytes))
	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "HTTP shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run applies migrations and serves until ctx is cancelled, a signal
// arrives or one of the endpoints fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return nil
}

// Close releases the database pool and the Redis client.
func (app *App) Close() error {
	var errs []error
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	errs = append(errs, app.db.Close())
	return errors.Join(errs...)
}
