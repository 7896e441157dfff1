package api

import (
	"k12_reviser_v2/internal/api/handler"
	"k12_reviser_v2/internal/api/middleware"
	"k12_reviser_v2/internal/app/service"
	"k12_reviser_v2/internal/common/security"
	"k12_reviser_v2/internal/platform/config"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	contentService *service.ContentService,
	performanceService *service.PerformanceService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.AppConfig.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-User-ID"},
	}))

	// Verifies an Authorization bearer token when one is present and puts the
	// claims in context. Requests without a token pass through; the caller
	// resolver then falls back to the legacy X-User-ID header.
	r.Use(jwtauth.Verifier(security.TokenAuth))
	r.Use(middleware.CallerResolver(authService))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Route paths mirror the legacy surface exactly; nothing is versioned or
	// nested beyond what existing clients already call.
	authHandler := handler.NewAuthHandler(authService)
	authHandler.RegisterRoutes(r)

	questionHandler := handler.NewQuestionHandler(contentService)
	questionHandler.RegisterRoutes(r)

	subjectHandler := handler.NewSubjectHandler(contentService)
	r.Route("/subjects", subjectHandler.RegisterRoutes)

	performanceHandler := handler.NewPerformanceHandler(performanceService)
	r.Route("/performance", performanceHandler.RegisterRoutes)

	return r
}
