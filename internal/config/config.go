package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

const (
	defaultGeocodingAPIURL = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastAPIURL  = "https://api.open-meteo.com/v1/forecast"
	defaultDefaultCity     = "London"
)

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}

		// .env is optional; values already present in the environment win.
		_ = godotenv.Load(filepath.Join(root, ".env"))

		viper.SetConfigType("yaml")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stringOr(key, fallback string) string {
	initConfig()
	if v := strings.TrimSpace(viper.GetString(key)); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	initConfig()
	durStr := viper.GetString(key)
	if durStr == "" {
		return fallback
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return fallback
	}
	return dur
}

// GetGeocodingAPIURL is the Open-Meteo geocoding search endpoint.
func GetGeocodingAPIURL() string {
	return stringOr("geocoding.api_url", defaultGeocodingAPIURL)
}

// GetGeocodingLanguage is the language requested from the geocoder. Defaults to "en".
func GetGeocodingLanguage() string {
	return stringOr("geocoding.language", "en")
}

// GetForecastAPIURL is the Open-Meteo forecast endpoint.
func GetForecastAPIURL() string {
	return stringOr("forecast.api_url", defaultForecastAPIURL)
}

// GetDefaultCity is the place searched once when the page first loads.
func GetDefaultCity() string {
	return stringOr("widget.default_city", defaultDefaultCity)
}

func GetRedisAddr() string {
	return stringOr("redis.addr", "localhost:6379")
}

func GetRedisPassword() string {
	initConfig()
	return viper.GetString("redis.password")
}

func GetRedisDB() int {
	initConfig()
	return viper.GetInt("redis.db")
}

func GetServerPort() string {
	return stringOr("server.port", "8080")
}

// GetServerTimeoutDuration parses a server.<key> duration, falling back when unset or invalid.
func GetServerTimeoutDuration(key string, fallback time.Duration) time.Duration {
	return durationOr("server."+key, fallback)
}

// GetShutdownTimeout bounds graceful shutdown. Defaults to 10s.
func GetShutdownTimeout() time.Duration {
	return durationOr("server.shutdown_timeout", 10*time.Second)
}

// IsStaleGuardEnabled reports whether superseded searches are discarded.
// Off by default: the newest response to arrive wins.
func IsStaleGuardEnabled() bool {
	initConfig()
	return viper.GetBool("search.stale_guard")
}

// GetGenerationTTL is how long a session's search generation counter lives in Redis.
func GetGenerationTTL() time.Duration {
	return durationOr("search.generation_ttl", 10*time.Minute)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		level := zapcore.InfoLevel
		if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
			level = zapcore.InfoLevel
		}

		cfg := zap.NewDevelopmentConfig()
		if strings.EqualFold(os.Getenv("APP_ENV"), "prod") {
			cfg = zap.NewProductionConfig()
		}
		cfg.Level = zap.NewAtomicLevelAt(level)

		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	return durationOr("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns requests per minute and burst for the per-IP limiter.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 30
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 30
	}
	return
}

// GetParamRateLimiterConfig returns requests per minute and burst for the per-IP, per-city limiter.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 10
	}
	return
}
