package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/supakorn-kn/go-sketchpatch/apis"
	commentsAPI "github.com/supakorn-kn/go-sketchpatch/apis/comments"
	postsAPI "github.com/supakorn-kn/go-sketchpatch/apis/posts"
	settingsAPI "github.com/supakorn-kn/go-sketchpatch/apis/settings"
	sketchersAPI "github.com/supakorn-kn/go-sketchpatch/apis/sketchers"
	sketchesAPI "github.com/supakorn-kn/go-sketchpatch/apis/sketches"
	"github.com/supakorn-kn/go-sketchpatch/cache"
	"github.com/supakorn-kn/go-sketchpatch/env"
	"github.com/supakorn-kn/go-sketchpatch/identity"
	"github.com/supakorn-kn/go-sketchpatch/logger"
	"github.com/supakorn-kn/go-sketchpatch/metrics"
	"github.com/supakorn-kn/go-sketchpatch/models/comments"
	"github.com/supakorn-kn/go-sketchpatch/models/pagecounts"
	"github.com/supakorn-kn/go-sketchpatch/models/posts"
	"github.com/supakorn-kn/go-sketchpatch/models/settings"
	"github.com/supakorn-kn/go-sketchpatch/models/sketchers"
	"github.com/supakorn-kn/go-sketchpatch/models/sketches"
	"github.com/supakorn-kn/go-sketchpatch/mongodb"
	"github.com/supakorn-kn/go-sketchpatch/objects"
	"github.com/supakorn-kn/go-sketchpatch/pingback"
)

func main() {

	cfg, err := env.Load()
	if err != nil {
		slog.Error("Load configuration failed", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *env.Env, log *slog.Logger) error {

	ctx := context.Background()

	conn, err := mongodb.InitConnection(cfg.MongoDB.URI, cfg.MongoDB.DB)
	if err != nil {
		return err
	}
	defer conn.Disconnect()

	memCache, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer memCache.Close()

	if !memCache.Enabled() {
		log.Warn("REDIS_ADDR is not set, running without cache")
	}

	commentsModel, err := comments.NewCommentsModel(ctx, conn)
	if err != nil {
		return err
	}

	sketchesModel, err := sketches.NewSketchesModel(ctx, conn, commentsModel)
	if err != nil {
		return err
	}

	sketchersModel, err := sketchers.NewSketchersModel(ctx, conn)
	if err != nil {
		return err
	}

	postsModel, err := posts.NewPostsModel(ctx, conn)
	if err != nil {
		return err
	}

	settingsModel, err := settings.NewSettingsModel(ctx, conn)
	if err != nil {
		return err
	}
	settingsService := settings.NewSettingsService(settingsModel, memCache, cfg.Redis.SettingsCacheTTL)

	pageCountsModel, err := pagecounts.NewPageCountsModel(ctx, conn)
	if err != nil {
		return err
	}
	views := pagecounts.NewCounter(pageCountsModel, memCache, cfg.Redis.CacheTTL, pagecounts.WithWriteback(1))

	notifier := pingback.NewNotifier(&http.Client{Timeout: cfg.Pingback.Timeout}, cfg.Pingback.Retries,
		pingback.WithRetryDelay(time.Second),
		pingback.WithLogger(log.With(slog.String("component", "pingback"))),
	)

	provider, err := identity.NewProvider(cfg.IdentityMode)
	if err != nil {
		return err
	}

	collector := metrics.New()

	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), collector.GinMiddleware(), identity.Middleware(provider))
	g.GET("/metrics", collector.Handler())

	api := g.Group("api")
	apis.RegisterCrudAPI[objects.Sketcher](sketchersAPI.NewSketchersAPI(sketchersModel), api.Group("sketchers"))
	sketchesAPI.NewSketchesAPI(sketchesModel, views, cfg.Paging.GalleryPageSize).Register(api)
	commentsAPI.NewCommentsAPI(commentsModel, sketchesModel, cfg.Paging.CommentsPageSize, cfg.Paging.LatestComments).Register(api)
	postsAPI.NewPostsAPI(postsModel, settingsService, notifier, memCache, cfg.Redis.CacheTTL, cfg.Paging.CountCap).Register(api)
	settingsAPI.NewSettingsAPI(settingsService).Register(api)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: g,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case <-quit:
	}

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
