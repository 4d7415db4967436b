package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DatabaseURL     string
	JWTSecret       string
	TokenTTL        time.Duration
	AllowOrigins    []string
	LogstashTCPAddr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOUseSSL      bool
	MinIOBucketImage string
	MinIOPublicURL   string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	tokenTTL := 7 * 24 * time.Hour
	if v, err := time.ParseDuration(getenv("TOKEN_TTL", "168h")); err == nil && v > 0 {
		tokenTTL = v
	}

	cacheTTL := 5 * time.Minute
	if v, err := time.ParseDuration(getenv("CACHE_TTL", "5m")); err == nil && v > 0 {
		cacheTTL = v
	}

	redisDB := 0
	if v, err := strconv.Atoi(getenv("REDIS_DB", "0")); err == nil && v >= 0 {
		redisDB = v
	}

	return Config{
		Port:            getenv("PORT", "8080"),
		DatabaseURL:     must("DATABASE_URL"),
		JWTSecret:       must("JWT_SECRET"),
		TokenTTL:        tokenTTL,
		AllowOrigins:    splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr: getenv("LOGSTASH_TCP_ADDR", ""),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,
		CacheTTL:      cacheTTL,

		MinIOEndpoint:    getenv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:   getenv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:   getenv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:      getenv("MINIO_USE_SSL", "false") == "true",
		MinIOBucketImage: getenv("MINIO_BUCKET_IMAGES", "scenictrip-images"),
		MinIOPublicURL:   getenv("MINIO_PUBLIC_URL", ""),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
