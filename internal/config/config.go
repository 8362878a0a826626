package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds everything the API process reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	MaxOpenConn int
	MaxIdleConn int
	LogLevel    string

	JWTSecret string
	TokenTTL  time.Duration

	// Seeded on startup when no account with AdminEmail exists.
	AdminEmail    string
	AdminPassword string

	RedisAddr         string
	KafkaBrokers      []string
	KafkaReceiptTopic string

	// Fallbacks used when store_settings has no row.
	TaxRatePercent     decimal.Decimal
	DiscountCapPercent decimal.Decimal
	StoreName          string
	StoreAddress       string
	StorePhone         string
	ReceiptFooter      string
	Currency           string
}

// Load reads .env (if present) and the process environment.
// The returned bool reports whether a .env file was found.
func Load() (Config, bool, error) {
	envLoaded := godotenv.Load() == nil

	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if db == "" {
		return Config{}, envLoaded, errors.New("DATABASE_URL is required")
	}

	tax, err := decimal.NewFromString(getenv("TAX_RATE_PERCENT", "16"))
	if err != nil {
		return Config{}, envLoaded, errors.New("TAX_RATE_PERCENT must be a number")
	}
	discountCap, err := decimal.NewFromString(getenv("DISCOUNT_CAP_PERCENT", "30"))
	if err != nil {
		return Config{}, envLoaded, errors.New("DISCOUNT_CAP_PERCENT must be a number")
	}

	return Config{
		Port:               getenv("APP_PORT", "8080"),
		DatabaseURL:        db,
		MaxOpenConn:        getint("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConn:        getint("DB_MAX_IDLE_CONNS", 5),
		LogLevel:           getenv("LOG_LEVEL", "info"),
		JWTSecret:          getenv("JWT_SECRET", "change-me"),
		TokenTTL:           time.Duration(getint("TOKEN_TTL_HOURS", 12)) * time.Hour,
		AdminEmail:         strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		KafkaBrokers:       splitCSV(os.Getenv("KAFKA_BROKERS")),
		KafkaReceiptTopic:  getenv("KAFKA_RECEIPT_TOPIC", "pos.receipts"),
		TaxRatePercent:     tax,
		DiscountCapPercent: discountCap,
		StoreName:          getenv("STORE_NAME", "Printa Store"),
		StoreAddress:       os.Getenv("STORE_ADDRESS"),
		StorePhone:         os.Getenv("STORE_PHONE"),
		ReceiptFooter:      getenv("RECEIPT_FOOTER", "Thank you for shopping with us"),
		Currency:           getenv("CURRENCY", "ZMW"),
	}, envLoaded, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	n, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return def
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
