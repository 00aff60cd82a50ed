package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr      string
	GinMode      string
	DBUser       string
	DBPassword   string
	DBHost       string
	DBName       string
	CORSOrigins  []string
	QueryTimeout time.Duration
}

// LoadEnv reads configuration from the environment, loading a local .env first
// when present. Missing values fall back to development defaults.
func LoadEnv() Env {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	env := Env{
		AppAddr:      getEnv("APP_ADDR", ":8080"),
		GinMode:      getEnv("GIN_MODE", ""),
		DBUser:       getEnv("DB_USER", "root"),
		DBPassword:   getEnv("DB_PASSWORD", ""),
		DBHost:       getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:       getEnv("DB_NAME", "sales_dashboard"),
		QueryTimeout: 15 * time.Second,
	}

	if raw := strings.TrimSpace(os.Getenv("QUERY_TIMEOUT_SECONDS")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			env.QueryTimeout = time.Duration(secs) * time.Second
		}
	}

	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			env.CORSOrigins = append(env.CORSOrigins, o)
		}
	}

	return env
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
