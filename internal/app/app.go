package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	httptransport "github.com/go-openapi/runtime/client"
	"github.com/go-openapi/strfmt"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/adapter/cache"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/adapter/handler/http"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/adapter/logger"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/adapter/postgres"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/adapter/prometheus"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/config"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/ports"
	"github.com/sm8ta/webike_prediction_microservice_nikita/internal/core/services"
	user_client "github.com/sm8ta/webike_user_microservice_nikita/pkg/client"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config      *config.Container
	Logger      ports.LoggerPort
	DB          *sql.DB
	RedisClient *redisClient.Client
	Cache       ports.PredictionCache
	HTTPRouter  *http.Router
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis. An unreachable Redis is not fatal: the prediction cache
	// degrades to its in-process fallback tier.
	var durableTier ports.CachePort
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		loggerAdapter.Warn("Redis unavailable, running on fallback cache only", map[string]interface{}{
			"error":   err.Error(),
			"address": cfg.Redis.Address,
		})
		redisConn = nil
	} else {
		durableTier = cache.NewRedisAdapter(redisConn)
	}

	// Connect DB
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Migrate DB
	if err := goose.Up(db, "./internal/adapter/postgres/migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Tiered prediction cache
	fallbackTier := cache.NewMemoryCache(cfg.Cache.FallbackMaxSize)
	predictionCache := cache.NewTieredPredictionCache(
		durableTier,
		fallbackTier,
		validate,
		loggerAdapter,
		metrics,
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
	)

	// Repositories
	bikeRepo := postgres.NewBikeRepository(db)
	componentRepo := postgres.NewComponentRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	serviceLogRepo := postgres.NewServiceLogRepository(db)
	prefRepo := postgres.NewPreferenceRepository(db)

	// Prediction engine
	tuning := services.Tuning{
		DueNowThresholdHours:  cfg.Prediction.DueNowThresholdHours,
		DueSoonThresholdHours: cfg.Prediction.DueSoonThresholdHours,
		HighConfidenceRides:   cfg.Prediction.HighConfidenceRides,
		HighConfidenceHours:   cfg.Prediction.HighConfidenceHours,
		MedConfidenceRides:    cfg.Prediction.MedConfidenceRides,
		MedConfidenceHours:    cfg.Prediction.MedConfidenceHours,
		WearRatioMin:          cfg.Prediction.WearRatioMin,
		WearRatioMax:          cfg.Prediction.WearRatioMax,
		MaxExtensionRatio:     cfg.Prediction.MaxExtensionRatio,
		BaselineWearPerHour:   cfg.Prediction.BaselineWearPerHour,
		RecentSampleSize:      cfg.Prediction.RecentSampleSize,
		PrimaryLookbackDays:   cfg.Prediction.PrimaryLookbackDays,
		FallbackLookbackDays:  cfg.Prediction.FallbackLookbackDays,
	}
	window := services.NewRideWindowSelector(rideRepo, tuning)
	predictor := services.NewComponentPredictor(rideRepo, serviceLogRepo, window, loggerAdapter, tuning)
	predictionService := services.NewPredictionService(
		bikeRepo,
		componentRepo,
		prefRepo,
		predictor,
		predictionCache,
		loggerAdapter,
		cfg.Cache.AlgoVersion,
	)

	// User service client init
	transport := httptransport.New(cfg.UserService.Address, "", []string{"http"})
	userClient := user_client.New(transport, strfmt.Default)

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	predictionHandler := http.NewPredictionHandler(predictionService, loggerAdapter, metrics, userClient)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		predictionHandler,
	)
	if err != nil {
		db.Close()
		if redisConn != nil {
			redisConn.Close()
		}
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      loggerAdapter,
		DB:          db,
		RedisClient: redisConn,
		Cache:       predictionCache,
		HTTPRouter:  router,
	}, nil
}

// Runs all services
func (a *App) Run() error {
	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stops all services
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Logger.Error("Redis close error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
