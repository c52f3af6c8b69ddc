package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URI            string
	Name           string
	ConnectRetries int
	RetryDelay     time.Duration
}

type UploadConfig struct {
	Dir        string
	TmpDir     string
	PublicPath string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

func Load() *Config {
	_ = godotenv.Load()

	retries, _ := strconv.Atoi(getEnv("MONGO_CONNECT_RETRIES", "5"))
	retryDelay, _ := strconv.Atoi(getEnv("MONGO_RETRY_DELAY_SECONDS", "3"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Name:           getEnv("MONGO_DB", "jewelry"),
			ConnectRetries: retries,
			RetryDelay:     time.Duration(retryDelay) * time.Second,
		},
		Upload: UploadConfig{
			Dir:        getEnv("UPLOAD_DIR", "uploads"),
			TmpDir:     getEnv("UPLOAD_TMP_DIR", "uploads/tmp"),
			PublicPath: getEnv("UPLOAD_PUBLIC_PATH", "/uploads"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, db=%s", cfg.Server.Env, cfg.Server.Port, cfg.Database.Name)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
