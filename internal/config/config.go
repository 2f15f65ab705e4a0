package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/location-weather/internal/lookup/providers"
)

type AppConfig struct {
	// Credentials. Missing keys are not fatal; the upstream rejects the call
	// and the failure surfaces through the normal error path.
	IPStackAPIKey      string
	WeatherstackAPIKey string

	IPLookupURL    string `validate:"required,url"`
	GeolocationURL string `validate:"required,url"`
	WeatherURL     string `validate:"required,url"`

	// HTTPTimeout bounds every outbound call; no other timeout is applied.
	HTTPTimeout time.Duration `validate:"gt=0"`
	HTTPTrace   bool

	// RefreshInterval triggers a lookup periodically (0 = disabled).
	RefreshInterval time.Duration `validate:"gte=0"`

	BreakerMaxFailures int           `validate:"gte=0"`
	BreakerOpenTimeout time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.IPStackAPIKey = os.Getenv("IPSTACK_API_KEY")
	cfg.WeatherstackAPIKey = os.Getenv("WEATHERSTACK_API_KEY")
	if cfg.IPStackAPIKey == "" {
		log.Printf("WARN: IPSTACK_API_KEY is not set, geolocation lookups will be rejected")
	}
	if cfg.WeatherstackAPIKey == "" {
		log.Printf("WARN: WEATHERSTACK_API_KEY is not set, weather lookups will be rejected")
	}

	cfg.IPLookupURL = getenvDefault("IP_LOOKUP_URL", providers.DefaultIPifyURL)
	cfg.GeolocationURL = getenvDefault("GEOLOCATION_URL", providers.DefaultIPStackURL)
	cfg.WeatherURL = getenvDefault("WEATHER_URL", providers.DefaultWeatherstackURL)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	cfg.HTTPTrace = getenvBool("HTTP_TRACE", false)

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	cfg.BreakerMaxFailures = getenvInt("BREAKER_MAX_FAILURES", 5)
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "1m"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Breaker returns the circuit breaker settings for the providers.
func (c *AppConfig) Breaker() providers.BreakerConfig {
	return providers.BreakerConfig{
		MaxFailures: uint32(c.BreakerMaxFailures),
		OpenTimeout: c.BreakerOpenTimeout,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
