package config

import "os"

type Config struct {
	DatabaseURL       string
	JWTSecret         string
	Port              string
	UploadDir         string
	GCSBucket         string
	FCMServiceAccount string
	LogMode           string
}

func Load() *Config {
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", "meded.db"),
		JWTSecret:         getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:              getEnv("PORT", "8080"),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		GCSBucket:         getEnv("GCS_BUCKET", ""),
		FCMServiceAccount: getEnv("FCM_SERVICE_ACCOUNT", ""),
		LogMode:           getEnv("LOG_MODE", "dev"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
