// pkg/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	HTTPAddr string

	// Canonical site apex. Origins matching it (or a direct subdomain,
	// https only) get their Origin echoed back instead of a wildcard.
	SiteApex string

	// Download token lifetime.
	TokenTTL time.Duration

	// Secret store backends (first configured wins: redis, postgres, memory)
	RedisURL    string
	DatabaseURL string

	// Object store: S3-compatible bucket, or a local directory for dev.
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Secure    bool
	MediaRoot   string
}

func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Env:         env("IRISGATE_ENV", "dev"),
		HTTPAddr:    env("IRISGATE_HTTP_ADDR", ":8080"),
		SiteApex:    env("SITE_APEX", "flyiniris.com"),
		TokenTTL:    envDur("TOKEN_TTL_SEC", 86400) * time.Second,
		RedisURL:    env("REDIS_URL", ""),
		DatabaseURL: env("DATABASE_URL", ""),
		S3Endpoint:  env("S3_ENDPOINT", ""),
		S3Region:    env("S3_REGION", "auto"),
		S3Bucket:    env("S3_BUCKET", ""),
		S3AccessKey: env("S3_ACCESS_KEY", ""),
		S3SecretKey: env("S3_SECRET_KEY", ""),
		S3Secure:    envBool("S3_SECURE", true),
		MediaRoot:   env("MEDIA_ROOT", "./media"),
	}
	if cfg.RedisURL == "" && cfg.DatabaseURL == "" {
		log.Println("[WARN] neither REDIS_URL nor DATABASE_URL set — using in-memory secret store for dev")
	}
	if cfg.S3Bucket == "" {
		log.Println("[WARN] S3_BUCKET not set — serving media from MEDIA_ROOT directory")
	}
	return cfg
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return def
}
func envDur(k string, def int) time.Duration {
	if v := os.Getenv(k); v != "" {
		// A garbled value must not collapse the TTL to zero.
		if i, err := strconv.Atoi(v); err == nil {
			return time.Duration(i)
		}
	}
	return time.Duration(def)
}
