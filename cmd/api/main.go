package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/config"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/faculty-attendance/internal/handler/http"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/logger"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/sse"
	"github.com/cmlabs-hris/faculty-attendance/internal/repository/documentdb"
	attendanceService "github.com/cmlabs-hris/faculty-attendance/internal/service/attendance"
	identityService "github.com/cmlabs-hris/faculty-attendance/internal/service/identity"
	reportService "github.com/cmlabs-hris/faculty-attendance/internal/service/report"
	timetableService "github.com/cmlabs-hris/faculty-attendance/internal/service/timetable"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.App.LogLevel, cfg.App.Env, version)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := docstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		slog.Error("failed to open document store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	dayRepo := documentdb.NewDayRecordRepository(store)
	timetableRepo := documentdb.NewTimetableRepository(store)
	identityRepo := documentdb.NewIdentityRepository(store)

	window := attendance.WindowConfig{
		Early:             cfg.Window.Early,
		Grace:             cfg.Window.Grace,
		Late:              cfg.Window.Late,
		LateRetryInterval: cfg.Window.LateRetryInterval,
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	hub := sse.NewHub()

	timetableSvc := timetableService.NewTimetableService(timetableRepo)
	identitySvc := identityService.NewIdentityService(identityRepo)
	attendanceSvc := attendanceService.NewAttendanceService(dayRepo, timetableSvc, hub, window, cfg.Location(), time.Now)
	reportSvc := reportService.NewReportService(dayRepo)

	router := appHTTP.NewRouter(
		log,
		appHTTP.RouterConfig{
			CORSOrigins:      cfg.App.CORSOrigins,
			CheckInPerMinute: cfg.RateLimit.CheckInPerMinute,
			EmailDomains:     cfg.Identity.EmailDomains,
		},
		JWTService,
		identitySvc,
		appHTTP.NewAttendanceHandler(attendanceSvc, reportSvc),
		appHTTP.NewTimetableHandler(timetableSvc),
		appHTTP.NewIdentityHandler(identitySvc),
		appHTTP.NewStreamHandler(JWTService, hub),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// cancelled on signal, which closes open SSE streams
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		slog.Info("server started", "addr", server.Addr, "store", cfg.Store.Driver, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down", "open_streams", hub.TotalSubscribers())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
