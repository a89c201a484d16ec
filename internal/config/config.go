package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config carries every knob the server reads from the environment.
type Config struct {
	HTTPPort string

	DBDriver string // sqlite or postgres
	DBPath   string // sqlite file path
	DBUrl    string // postgres DSN

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers string // empty disables event publishing
	KafkaTopic   string

	Compression string // codec for stored form content

	JWTSecret string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		HTTPPort:      getenv("HTTP_PORT", "4001"),
		DBDriver:      getenv("DB_DRIVER", "sqlite"),
		DBPath:        getenv("DB_PATH", ".tmp/formdoc.db"),
		DBUrl:         getenv("DB_URL", ""),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("REDIS_DB", 0),
		KafkaBrokers:  getenv("KAFKA_BROKERS", ""),
		KafkaTopic:    getenv("KAFKA_TOPIC", "formdoc.events"),
		Compression:   getenv("COMPRESSION", "gzip"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
