package main

import (
	"context"
	"embed"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/footyvalue/config"
	"github.com/padraicbc/footyvalue/db"
	"github.com/padraicbc/footyvalue/handlers"
	applog "github.com/padraicbc/footyvalue/logger"
	"github.com/padraicbc/footyvalue/notify"
	"github.com/padraicbc/footyvalue/prediction"
	"github.com/padraicbc/footyvalue/store"
)

//go:embed all:build/*
var embeddedFiles embed.FS

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	bdb, err := db.Setup(ctx, cfg)
	if err != nil {
		logger.Fatal("database setup failed", zap.Error(err))
	}
	defer bdb.Close()

	if err := db.CreateTables(ctx, bdb, logger); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	svc := prediction.New(store.New(bdb, logger), prediction.Options{
		Window:        cfg.StatsWindow,
		TrainingLimit: cfg.TrainingLimit,
		ModelPath:     cfg.ModelPath,
	}, logger)
	// a missing artifact is fine here; the first prediction trains one
	if err := svc.Engine().Load(); err != nil {
		logger.Info("model not loaded at startup", zap.String("path", cfg.ModelPath), zap.Error(err))
	}

	var pub notify.Publisher = notify.Nop{}
	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("telegram disabled", zap.Error(err))
		} else {
			pub = tg
		}
	}

	h := handlers.New(bdb, cfg.JWTKey(), svc, pub, handlers.Options{
		Scan: prediction.ScanParams{
			Days:          cfg.ScanDays,
			MinValue:      cfg.MinValue,
			MinConfidence: cfg.MinConfidence,
		},
		PerformanceDays: cfg.PerformanceDays,
		AdminUsers:      cfg.AdminUsers,
	}, logger)

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	handlers.Register(e, h, cfg.RequireAuthReads)

	// Strip the "build/" prefix so URLs work correctly
	subFS, err := fs.Sub(embeddedFiles, "build")
	if err != nil {
		logger.Fatal("open embedded build fs failed", zap.Error(err))
	}
	fileServer := http.FileServer(http.FS(subFS))
	e.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path

		if strings.Contains(path, ".") {
			http.StripPrefix("/", fileServer).ServeHTTP(c.Response(), c.Request())
			return nil
		}
		// SPA fallback
		indexFile, err := subFS.Open("index.html")
		if err != nil {
			return c.NoContent(http.StatusNotFound)
		}
		defer indexFile.Close()

		return c.Stream(http.StatusOK, "text/html", indexFile)
	})

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	// scans and training can run long
	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting server", zap.String("mode", "tls"), zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
