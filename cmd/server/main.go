package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"itinerary-builder-service/internal/adapters/cache"
	"itinerary-builder-service/internal/adapters/geocode"
	"itinerary-builder-service/internal/adapters/places"
	"itinerary-builder-service/internal/adapters/repositories"
	"itinerary-builder-service/internal/adapters/travel"
	"itinerary-builder-service/internal/api"
	"itinerary-builder-service/internal/config"
	"itinerary-builder-service/internal/platform/db"
	"itinerary-builder-service/internal/ports"
	"itinerary-builder-service/internal/services"
)

// main is the application composition root. It wires concrete adapters
// (Nominatim, Overpass, openrouteservice, SQL storage, Redis) behind ports
// and starts the HTTP server.
func main() {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	log := setupLogger(cfg.Env, cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	storage, backend, err := db.Open(cfg.Database.URL, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer storage.Close()

	// Schema init is idempotent and cheap, so every start runs it; the
	// scenario fixtures load only when a seed path is configured.
	if err := repositories.InitSchema(storage); err != nil {
		log.Fatal("init schema", zap.Error(err))
	}
	if cfg.Database.SeedPath != "" {
		n, err := repositories.SeedScenariosFromJSON(storage, cfg.Database.SeedPath)
		if err != nil {
			log.Fatal("seed scenarios", zap.Error(err))
		}
		log.Info("scenarios seeded", zap.Int("count", n), zap.String("path", cfg.Database.SeedPath))
	}

	geocodeCache := cache.NewSQLGeocodeCache(storage, log)
	travelCache := cache.NewSQLTravelCache(storage, log)

	geocoder := geocode.NewNominatimGeocoder(
		cfg.Nominatim.BaseURL,
		cfg.Nominatim.UserAgent,
		cfg.Nominatim.Timeout,
		geocodeCache,
		log,
	)
	hoursProvider := places.NewOverpassHoursProvider(
		cfg.Overpass.Instances,
		cfg.Nominatim.UserAgent,
		cfg.Overpass.Timeout,
		log,
	)

	var travelProvider ports.TravelTimeProvider
	if strings.TrimSpace(cfg.Routing.APIKey) != "" {
		travelProvider = travel.NewORSTravelProvider(
			cfg.Routing.BaseURL,
			cfg.Routing.APIKey,
			cfg.Routing.Profile,
			cfg.Routing.Timeout,
			travelCache,
			log,
		)
	} else {
		log.Info("no routing api key set, travel times use straight-line estimates")
		travelProvider = travel.HaversineProvider{}
	}

	var finder ports.RestaurantFinder = places.NewNominatimRestaurantFinder(geocoder, hoursProvider, log)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable at startup, restaurant cache degrades to direct lookups", zap.Error(err))
		}
		cancel()
		finder = cache.NewRedisRestaurantCache(finder, rdb, cfg.Redis.TTL, log)
	}

	policy := services.DefaultMealPolicy()
	if cfg.Meals.LunchDuration > 0 {
		policy.LunchDuration = cfg.Meals.LunchDuration
	}
	if cfg.Meals.RestaurantRadiusMeters > 0 {
		policy.RestaurantRadiusMeters = cfg.Meals.RestaurantRadiusMeters
	}

	planner := services.NewPlanner(log, geocoder, hoursProvider, travelProvider, finder, policy)
	scenarioRepo := repositories.NewSQLScenarioRepository(storage, log)

	router := api.NewRouter(api.RouterDeps{
		Log:       log,
		Geocoder:  geocoder,
		Hours:     hoursProvider,
		Travel:    travelProvider,
		Finder:    finder,
		Scenarios: scenarioRepo,
		Planner:   planner,
	})

	// Timeouts are tuned for cold-cache planning: resolving a long name
	// list against rate limited upstreams takes well over a minute.
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	log.Info("server listening",
		zap.String("addr", srv.Addr),
		zap.String("db", backend),
		zap.String("env", cfg.Env),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http shutdown error", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped", zap.Error(err))
		}
	}
}

func setupLogger(env, level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLogLevel(level))

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
