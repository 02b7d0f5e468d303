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
	ServiceName string
	LogLevel    string
	ServerPort  int

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte
	JWTTTL    time.Duration

	CORSOrigins []string

	UploadDir        string
	UploadPublicPath string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	Store Store

	Sheets Sheets

	Admin Admin
}

// Store holds the defaults used when no AppSetting overrides them.
type Store struct {
	Name           string
	Currency       string
	WhatsAppNumber string
	Phone          string
}

type Sheets struct {
	SpreadsheetID   string
	Range           string
	CredentialsPath string
	Interval        time.Duration
	ScheduleEnabled bool
}

type Admin struct {
	Username string
	Password string
	Email    string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "sucrestore"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", 24*time.Hour),

		CORSOrigins: CSV(EnvDefault("CORS_ORIGINS", "*")),

		UploadDir:        EnvDefault("UPLOAD_DIR", "./uploads"),
		UploadPublicPath: EnvDefault("UPLOAD_PUBLIC_PATH", "/uploads"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		Store: Store{
			Name:           EnvDefault("STORE_NAME", "SUCRE STORE"),
			Currency:       EnvDefault("STORE_CURRENCY", "FCFA"),
			WhatsAppNumber: os.Getenv("STORE_WHATSAPP_NUMBER"),
			Phone:          os.Getenv("STORE_PHONE"),
		},

		Sheets: Sheets{
			SpreadsheetID:   os.Getenv("GOOGLE_SHEETS_ID"),
			Range:           EnvDefault("GOOGLE_SHEETS_RANGE", "A:H"),
			CredentialsPath: EnvDefault("GOOGLE_CREDENTIALS_PATH", "credentials.json"),
			Interval:        EnvDurationDefault("IMPORT_INTERVAL", 60*time.Second),
			ScheduleEnabled: EnvBoolDefault("IMPORT_SCHEDULE_ENABLED", true),
		},

		Admin: Admin{
			Username: EnvDefault("ADMIN_USERNAME", "admin"),
			Password: os.Getenv("ADMIN_PASSWORD"),
			Email:    EnvDefault("ADMIN_EMAIL", "admin@sucrestore.local"),
		},
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go durations ("90s", "5m") or a bare number of seconds.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
