package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	BackendURL     string // empty: serve orders and profile from the in-memory backend
	BackendToken   string
	RestaurantID   uuid.UUID
	DatabaseURL    string // empty: keep the menu in memory only
	JWTSecret      string
	RequestTimeout time.Duration
	MaxImageBytes  int64
	AllowedOrigins []string

	// DemoOrderInterval feeds new sample orders into the in-memory backend.
	// Zero disables the feed.
	DemoOrderInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	restaurantID, err := uuid.Parse(getEnv("RESTAURANT_ID", "00000000-0000-0000-0000-000000000001"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESTAURANT_ID: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT %q", os.Getenv("REQUEST_TIMEOUT"))
	}

	maxImage, err := strconv.ParseInt(getEnv("MAX_IMAGE_BYTES", "5242880"), 10, 64)
	if err != nil || maxImage <= 0 {
		return nil, fmt.Errorf("invalid MAX_IMAGE_BYTES %q", os.Getenv("MAX_IMAGE_BYTES"))
	}

	demoInterval, err := time.ParseDuration(getEnv("DEMO_ORDER_INTERVAL", "0"))
	if err != nil || demoInterval < 0 {
		return nil, fmt.Errorf("invalid DEMO_ORDER_INTERVAL %q", os.Getenv("DEMO_ORDER_INTERVAL"))
	}

	return &Config{
		Port:           getEnv("PORT", "8082"),
		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", ""), "/"),
		BackendToken:   getEnv("BACKEND_TOKEN", ""),
		RestaurantID:   restaurantID,
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		RequestTimeout: timeout,
		MaxImageBytes:  maxImage,
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),

		DemoOrderInterval: demoInterval,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
