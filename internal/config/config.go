package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr string

	// TaxRate is a percentage, e.g. 5 for 5%.
	TaxRate decimal.Decimal

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RegisterTTL   time.Duration

	SaleAPIURL     string
	SaleAPITimeout time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	taxRate, err := decimal.NewFromString(getEnv("TAX_RATE", "0"))
	if err != nil || taxRate.IsNegative() {
		log.Printf("invalid TAX_RATE %q, using 0", os.Getenv("TAX_RATE"))
		taxRate = decimal.Zero
	}

	saleURL := getEnv("SALE_API_URL", "")
	if saleURL == "" {
		log.Fatal("SALE_API_URL is required")
	}

	return Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		TaxRate:        taxRate,
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RegisterTTL:    getEnvDuration("REGISTER_TTL", 12*time.Hour),
		SaleAPIURL:     saleURL,
		SaleAPITimeout: getEnvDuration("SALE_API_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
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

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
