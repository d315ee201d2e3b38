package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biddergod/users-service/api/controllers"
	"github.com/biddergod/users-service/api/middleware"
	"github.com/biddergod/users-service/internal/feedback"
	"github.com/biddergod/users-service/internal/identity"
	"github.com/biddergod/users-service/internal/reputation"
	"github.com/biddergod/users-service/internal/users"
	pkgAuth "github.com/biddergod/users-service/pkg/auth"
	"github.com/biddergod/users-service/pkg/config"
	"github.com/biddergod/users-service/pkg/logger"
	"github.com/biddergod/users-service/pkg/redis"
)

// AdminGroup is the Cognito group gating administrative routes.
const AdminGroup = "admin"

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	verifier pkgAuth.ClaimsVerifier,
	resolver *identity.Resolver,
	userService users.Service,
	feedbackService feedback.Service,
	reputationService reputation.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	submitLimiter := func(next http.Handler) http.Handler { return next }
	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
		submitLimiter = middleware.SubmitRateLimit(middleware.SubmitRateLimitPolicy{
			Window: cfg.RateLimit.SubmitWindow,
			Limit:  cfg.RateLimit.SubmitUserLimit,
		}, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	authed := middleware.Auth(verifier, resolver, logg)
	admin := middleware.RequireGroup(AdminGroup, logg)

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", controllers.UsersByIDs(userService, logg))
		r.Get("/me", controllers.CurrentUser(userService, logg))
		r.Post("/me", controllers.CurrentUser(userService, logg))
		r.Get("/profile", controllers.UserProfile(userService, logg))
		r.Put("/profile", controllers.UpdateProfile(userService, logg))
		r.Get("/groups", controllers.UserGroups(logg))
		r.Get("/token-info", controllers.TokenInfo(logg))
		r.Get("/ping", controllers.PrivatePing())
		r.Get("/{userID}", controllers.UserByID(userService, logg))
	})

	r.Route("/api/v1/feedback", func(r chi.Router) {
		r.Use(authed)
		r.With(submitLimiter).Post("/", controllers.SubmitFeedback(feedbackService, logg))
		r.Get("/given", controllers.FeedbackGiven(feedbackService, logg))
		r.Get("/user/{userID}", controllers.UserFeedback(feedbackService, logg))
		r.Get("/can-submit", controllers.CanSubmitFeedback(feedbackService, logg))
		r.With(admin).Put("/{feedbackID}/verify", controllers.VerifyFeedback(feedbackService, logg))
	})

	r.Route("/api/v1/reputation", func(r chi.Router) {
		r.Use(authed)
		r.Get("/top-users", controllers.TopUsers(reputationService, logg))
		r.Get("/user/{userID}", controllers.UserReputation(reputationService, logg))
		r.Get("/user/{userID}/premium-eligible", controllers.PremiumEligible(reputationService, logg))
		r.With(admin).Post("/user/{userID}/recalculate", controllers.RecalculateUser(reputationService, logg))
		r.With(admin).Post("/recalculate-all", controllers.RecalculateAll(reputationService, logg))
	})

	return r
}
