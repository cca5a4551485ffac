package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads a .env file if one is present. System environment variables
// always take precedence over file values.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}
}

func GetEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// PostgresDSN builds the DSN for the user store.
func PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		GetEnv("POSTGRES_HOST", "localhost"),
		GetEnv("POSTGRES_USER", "admin"),
		GetEnv("POSTGRES_PASSWORD", "password"),
		GetEnv("POSTGRES_DB", "seva_users"),
		GetEnv("POSTGRES_PORT", "5432"),
	)
}

// MongoURI builds the connection URI for the donation store.
func MongoURI() string {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		return uri
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s",
		GetEnv("MONGO_USER", "admin"),
		GetEnv("MONGO_PASSWORD", "password"),
		GetEnv("MONGO_HOST", "localhost"),
		GetEnv("MONGO_PORT", "27017"),
	)
}

// AMQPURI builds the RabbitMQ connection URI for the event bus.
func AMQPURI() string {
	if uri := os.Getenv("RABBITMQ_URL"); uri != "" {
		return uri
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		GetEnv("RABBITMQ_USER", "guest"),
		GetEnv("RABBITMQ_PASS", "guest"),
		GetEnv("RABBITMQ_HOST", "localhost"),
		GetEnv("RABBITMQ_PORT", "5672"),
	)
}

// JWTSecret returns the HMAC signing key shared by every service.
func JWTSecret() []byte {
	return []byte(GetEnv("JWT_SECRET", "SUPER_SECRET_KEY_CHANGE_ME"))
}
