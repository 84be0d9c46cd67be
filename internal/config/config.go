package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type (
	Container struct {
		App         *App
		Token       *Token
		DB          *DB
		HTTP        *HTTP
		Redis       *Redis
		Cache       *Cache
		Prediction  *Prediction
		UserService *UserService
	}

	App struct {
		Name string
		Env  string
	}

	Token struct {
		Secret   string
		Duration string
	}

	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	HTTP struct {
		Env            string
		Port           string
		AllowedOrigins string
		URL            string
	}

	Redis struct {
		Address  string
		Password string
	}

	Cache struct {
		TTLSeconds      int
		FallbackMaxSize int
		AlgoVersion     string
	}

	// Prediction holds the engine calibration. Every knob has a shipped
	// default so an empty environment still produces sane predictions.
	Prediction struct {
		DueNowThresholdHours  float64
		DueSoonThresholdHours float64
		HighConfidenceRides   int
		HighConfidenceHours   float64
		MedConfidenceRides    int
		MedConfidenceHours    float64
		WearRatioMin          float64
		WearRatioMax          float64
		MaxExtensionRatio     float64
		BaselineWearPerHour   float64
		RecentSampleSize      int
		PrimaryLookbackDays   int
		FallbackLookbackDays  int
	}

	UserService struct {
		Address string
	}
)

func New() (*Container, error) {
	if os.Getenv("APP_ENV") != "production" {
		err := godotenv.Load()
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Name: os.Getenv("APP_NAME"),
		Env:  os.Getenv("APP_ENV"),
	}

	token := &Token{
		Secret:   os.Getenv("TOKEN_SECRET"),
		Duration: os.Getenv("TOKEN_DURATION"),
	}

	db := &DB{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
	}

	http := &HTTP{
		Port:           os.Getenv("HTTP_PORT"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		URL:            os.Getenv("HTTP_URL"),
		Env:            os.Getenv("APP_ENV"),
	}

	redis := &Redis{
		Address:  os.Getenv("REDIS_ADDRESS"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}

	cache := &Cache{
		TTLSeconds:      intEnv("PREDICTION_CACHE_TTL_SECONDS", 1800),
		FallbackMaxSize: intEnv("PREDICTION_CACHE_FALLBACK_MAX_SIZE", 100),
		AlgoVersion:     getenv("PREDICTION_ALGO_VERSION", "v2"),
	}

	prediction := &Prediction{
		DueNowThresholdHours:  floatEnv("PREDICTION_DUE_NOW_HOURS", 5),
		DueSoonThresholdHours: floatEnv("PREDICTION_DUE_SOON_HOURS", 15),
		HighConfidenceRides:   intEnv("PREDICTION_HIGH_CONF_RIDES", 10),
		HighConfidenceHours:   floatEnv("PREDICTION_HIGH_CONF_HOURS", 20),
		MedConfidenceRides:    intEnv("PREDICTION_MED_CONF_RIDES", 4),
		MedConfidenceHours:    floatEnv("PREDICTION_MED_CONF_HOURS", 8),
		WearRatioMin:          floatEnv("PREDICTION_WEAR_RATIO_MIN", 0.75),
		WearRatioMax:          floatEnv("PREDICTION_WEAR_RATIO_MAX", 1.5),
		MaxExtensionRatio:     floatEnv("PREDICTION_MAX_EXTENSION_RATIO", 1.25),
		BaselineWearPerHour:   floatEnv("PREDICTION_BASELINE_WEAR_PER_HOUR", 1.0),
		RecentSampleSize:      intEnv("PREDICTION_RECENT_SAMPLE_SIZE", 10),
		PrimaryLookbackDays:   intEnv("PREDICTION_PRIMARY_LOOKBACK_DAYS", 30),
		FallbackLookbackDays:  intEnv("PREDICTION_FALLBACK_LOOKBACK_DAYS", 90),
	}

	userService := &UserService{
		Address: os.Getenv("USER_SERVICE_ADDRESS"),
	}

	return &Container{
		App:         app,
		Token:       token,
		DB:          db,
		HTTP:        http,
		Redis:       redis,
		Cache:       cache,
		Prediction:  prediction,
		UserService: userService,
	}, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func floatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
