package http

import (
	"log/slog"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	CORSOrigins      []string
	CheckInPerMinute int
	EmailDomains     []string
}

func NewRouter(
	logger *slog.Logger,
	cfg RouterConfig,
	JWTService jwt.Service,
	identityService identity.IdentityService,
	attendanceHandler AttendanceHandler,
	timetableHandler TimetableHandler,
	identityHandler IdentityHandler,
	streamHandler StreamHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition", "Retry-After"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	checkInLimit := cfg.CheckInPerMinute
	if checkInLimit <= 0 {
		checkInLimit = 20
	}

	r.Route("/api/v1", func(r chi.Router) {

		// SSE authenticates with a short-lived query token
		r.Get("/attendance/stream", streamHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.ResolveIdentity(identityService, cfg.EmailDomains))
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/status", attendanceHandler.Status)
				r.Get("/today", attendanceHandler.Today)
				r.Get("/records/{date}", attendanceHandler.GetRecord)
				r.Get("/summary", attendanceHandler.Summary)
				r.Get("/stream/token", streamHandler.GetStreamToken)

				r.Group(func(r chi.Router) {
					r.Use(httprate.LimitByIP(checkInLimit, time.Minute))
					r.Post("/check-in", attendanceHandler.CheckIn)
					r.Post("/check-out", attendanceHandler.CheckOut)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/export", attendanceHandler.Export)
					r.Route("/users/{userID}", func(r chi.Router) {
						r.Get("/summary", attendanceHandler.GetUserSummary)
						r.Get("/records/{date}", attendanceHandler.GetUserRecord)
						r.Patch("/records/{date}/events/{eventID}/review", attendanceHandler.ReviewLateCheckIn)
					})
				})
			})

			r.Route("/timetables", func(r chi.Router) {
				r.Get("/me", timetableHandler.GetMine)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/{userID}", timetableHandler.Get)
					r.Put("/{userID}", timetableHandler.Save)
					r.Put("/{userID}/days/{weekday}", timetableHandler.UpdateDay)
				})
			})

			r.Route("/identities", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", identityHandler.Register)
			})
		})
	})
	return r
}
