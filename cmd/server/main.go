package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/sucrestore/internal/config"
	"github.com/Skotchmaster/sucrestore/internal/db"
	"github.com/Skotchmaster/sucrestore/internal/es"
	"github.com/Skotchmaster/sucrestore/internal/httpserver"
	"github.com/Skotchmaster/sucrestore/internal/importer"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	authmw "github.com/Skotchmaster/sucrestore/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/sucrestore/internal/middleware/logging"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/notify"
	"github.com/Skotchmaster/sucrestore/internal/repo"
	"github.com/Skotchmaster/sucrestore/internal/scheduler"
	"github.com/Skotchmaster/sucrestore/internal/service"
	"github.com/Skotchmaster/sucrestore/internal/storage"
)

func main() {
	cfg := config.Load()
	config.MustHave(
		cfg.DatabaseURL, "DATABASE_URL",
		cfg.JWTSecret, "JWT_SECRET",
	)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	r := &repo.GormRepo{DB: gdb}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = prod
	}

	var index service.SearchIndex
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		esCancel()
		if err != nil {
			logger.Warn("search_index_disabled", "error", err)
		} else {
			index = &es.ProductIndex{Client: client, Index: cfg.ESIndex}
		}
	}

	files, err := storage.NewLocal(cfg.UploadDir, cfg.UploadPublicPath)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, TTL: cfg.JWTTTL}
	userSvc := &service.UserService{Repo: r}
	importSvc := &service.ImportService{Repo: r, Index: index, Events: events}

	seeded, err := userSvc.SeedAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password)
	switch {
	case err != nil:
		logger.Warn("seed_admin_skipped", "error", err)
	case seeded:
		logger.Info("seed_admin_created", "username", cfg.Admin.Username)
	}

	openSheets := func(ctx context.Context, id, rng string) (importer.Source, error) {
		return importer.NewSheetsSource(ctx, cfg.Sheets.CredentialsPath, id, rng)
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Static(files.PublicPath, files.Dir)

	httpserver.Register(e, &httpserver.Deps{
		Auth: authmw.New(cfg.JWTSecret, authSvc),
		Ready: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Index: index, Events: events}},
		ImportHandler: &httpserver.ImportHTTP{
			Svc:           importSvc,
			OpenSheets:    openSheets,
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			Range:         cfg.Sheets.Range,
		},
		OrderHandler: &httpserver.OrderHTTP{Svc: &service.OrderService{
			Repo:   r,
			Events: events,
			Store: notify.Store{
				Name:           cfg.Store.Name,
				Currency:       cfg.Store.Currency,
				WhatsAppNumber: cfg.Store.WhatsAppNumber,
				Phone:          cfg.Store.Phone,
			},
		}},
		DeliveryHandler:  &httpserver.DeliveryHTTP{Svc: &service.DeliveryService{Repo: r, Events: events}},
		UserHandler:      &httpserver.UserHTTP{Svc: userSvc},
		ContentHandler:   &httpserver.ContentHTTP{Svc: &service.ContentService{Repo: r, Storage: files}},
		DashboardHandler: &httpserver.DashboardHTTP{Svc: &service.DashboardService{Repo: r}},
	})

	jobs, stopJobs := context.WithCancel(logging.IntoContext(context.Background(), logger))
	if cfg.Sheets.ScheduleEnabled && cfg.Sheets.SpreadsheetID != "" {
		go scheduler.Every(jobs, logger, "google_sheets_import", cfg.Sheets.Interval, func(ctx context.Context) error {
			src, err := openSheets(ctx, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
			if err != nil {
				return err
			}
			_, err = importSvc.Run(ctx, src)
			if errors.Is(err, service.ErrImportRunning) {
				return nil
			}
			return err
		})
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	stopJobs()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := events.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	logger.Info("shutdown_complete")
}
