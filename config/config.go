package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once at startup from the environment
type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBDriver string // sqlite | postgres
	DBDSN    string
	SeedData bool

	JWTSecret []byte
	TokenTTL  time.Duration

	StorageBackend string // local | s3
	UploadDir      string
	S3Bucket       string
	S3Prefix       string
	AWSRegion      string
	AWSEndpointURL string

	ReportLocale   string
	ReportCurrency string
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() *Config {
	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		ttl = 24 * time.Hour
	}
	seed, err := strconv.ParseBool(getEnv("SEED_DATA", "true"))
	if err != nil {
		seed = true
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBDSN:    getEnv("DB_DSN", "claims.db"),
		SeedData: seed,

		// JWT secret used to sign tokens, read from env or a dev fallback
		JWTSecret: []byte(getEnv("JWT_SECRET", "contract_claims_dev_secret")),
		TokenTTL:  ttl,

		StorageBackend: getEnv("STORAGE_BACKEND", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Prefix:       getEnv("S3_PREFIX", "documents/"),
		AWSRegion:      getEnv("AWS_REGION", "af-south-1"),
		AWSEndpointURL: os.Getenv("AWS_ENDPOINT_URL"),

		ReportLocale:   getEnv("REPORT_LOCALE", "en-ZA"),
		ReportCurrency: getEnv("REPORT_CURRENCY", "ZAR"),
	}
}
