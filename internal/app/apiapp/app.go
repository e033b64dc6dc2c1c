package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/config"
	s3infra "github.com/atharvgarg18/iet-csbs-sub000/internal/infra/s3"
	"github.com/atharvgarg18/iet-csbs-sub000/internal/jobs/cleanup"
	pgrepo "github.com/atharvgarg18/iet-csbs-sub000/internal/repo/postgres"
	redrepo "github.com/atharvgarg18/iet-csbs-sub000/internal/repo/redis"
	authsvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/auth"
	batchessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/batches"
	gallerysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/gallery"
	librarysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/library"
	noticessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/notices"
	ratesvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/rate"
	userssvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/users"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, gallery uploads disabled", zap.Error(err))
	} else {
		s3Client = c
	}

	userRepo := pgrepo.NewUserRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	batchRepo := pgrepo.NewBatchRepo(pool)
	sectionRepo := pgrepo.NewSectionRepo(pool)
	noteRepo := pgrepo.NewNoteRepo(pool)
	paperRepo := pgrepo.NewPaperRepo(pool)
	noticeRepo := pgrepo.NewNoticeRepo(pool)
	galleryRepo := pgrepo.NewGalleryRepo(pool)
	rateRepo := redrepo.NewRateRepo(redisClient)

	authService := authsvc.NewService(userRepo, sessionRepo, cfg.Auth.SessionTTL, cfg.Auth.BcryptCost)
	authService.AttachLoginLimiter(ratesvc.NewLimiter(
		rateRepo,
		cfg.Auth.LoginMaxPerMinute,
		cfg.Auth.LoginMaxPer10Sec,
	))
	userService := userssvc.NewService(userRepo, sessionRepo, cfg.Auth.BcryptCost)
	batchService := batchessvc.NewService(batchRepo, sectionRepo)
	libraryService := librarysvc.NewService(noteRepo, paperRepo, cfg.Content.NotesPageSize)
	noticeService := noticessvc.NewService(noticeRepo, noticeRepo)
	galleryStorage := s3infra.NewObjectStore(s3Client, cfg.S3.Bucket, cfg.S3.PublicURL)
	galleryService := gallerysvc.NewService(galleryRepo, galleryRepo, galleryStorage, log)

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		UserService:    userService,
		BatchService:   batchService,
		LibraryService: libraryService,
		NoticeService:  noticeService,
		GalleryService: galleryService,
		Logger:         log,
		Config:         cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		cleanupJob: cleanup.NewSessionCleanup(sessionRepo, cfg.Cleanup.Interval, log),
		httpRouter: r,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	go a.cleanupJob.Run(ctx)

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
