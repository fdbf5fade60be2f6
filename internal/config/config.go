package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	HTTPPort     string
	DatabaseDSN  string
	MerchantVPA  string
	MerchantName string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := getenv("HTTP_PORT", "8080")
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		HTTPPort:     port,
		DatabaseDSN:  getenv("DATABASE_DSN", "clinic.db"),
		MerchantVPA:  getenv("MERCHANT_VPA", "clinic@upi"),
		MerchantName: getenv("MERCHANT_NAME", "Clinic"),
	}
}
