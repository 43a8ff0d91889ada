package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/rentnest/visits/internal/handlers"
	"github.com/rentnest/visits/internal/quota"
	"github.com/rentnest/visits/internal/repository"
	"github.com/rentnest/visits/internal/service"
	"github.com/rentnest/visits/pkg/auth"
	"github.com/rentnest/visits/pkg/config"
	"github.com/rentnest/visits/pkg/database"
	"github.com/rentnest/visits/pkg/events"
	"github.com/rentnest/visits/pkg/logger"
	mw "github.com/rentnest/visits/pkg/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Error("Invalid redis URL", "error", err)
		os.Exit(1)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	visitRepo := repository.NewVisitRepository(pool)
	propertyRepo := repository.NewPropertyRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	preferenceRepo := repository.NewPreferenceRepository(pool)

	// Quota evaluator with the redis day counter
	counter := quota.NewRedisCounter(redisClient, cfg.Quota.CounterTTL)
	quotaEval := quota.NewEvaluator(userRepo, subscriptionRepo, visitRepo, counter, cfg.Quota.DefaultDailyLimit)

	// Services
	visitService := service.NewVisitService(visitRepo, propertyRepo, userRepo, quotaEval, eventBus)
	matchService := service.NewMatchService(propertyRepo, preferenceRepo, visitRepo)
	preferenceService := service.NewPreferenceService(preferenceRepo, propertyRepo)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, eventBus)

	h := handlers.New(visitService, matchService, preferenceService, subscriptionService, cfg.Auth.JWTSecret)

	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("visits"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/schedules", func(r chi.Router) {
		r.With(h.RequireAuth(auth.RoleTenant)).Post("/", h.CreateVisit)
		r.With(h.RequireAuth(auth.RoleTenant)).Get("/tenant", h.ListTenantVisits)
		r.With(h.RequireAuth(auth.RoleOwner)).Get("/owner", h.ListOwnerVisits)
		r.With(h.RequireAuth("")).Patch("/{id}/status", h.UpdateVisitStatus)
		r.With(h.RequireAuth("")).Delete("/{id}", h.DeleteVisit)
	})

	r.Route("/properties/{pid}", func(r chi.Router) {
		r.Use(h.RequireAuth(auth.RoleOwner))
		r.Get("/tenants", h.PropertyTenants)
		r.Get("/tenantsSorted", h.PropertyTenantsSorted)
	})

	r.Route("/preferences", func(r chi.Router) {
		r.Use(h.RequireAuth(auth.RoleOwner))
		r.Post("/", h.CreatePreference)
		r.Get("/", h.ListPreferences)
		r.Patch("/{id}", h.UpdatePreference)
		r.Delete("/{id}", h.DeletePreference)
	})

	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(h.RequireAuth(""))
		r.Post("/purchase", h.PurchaseSubscription)
		r.Get("/history", h.SubscriptionHistory)
		r.Get("/active", h.ActiveSubscription)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down visits service...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Visits service shutdown error", "error", err)
		}
	}()

	logger.Info("Visits service starting", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Visits service failed", "error", err)
		os.Exit(1)
	}
}
