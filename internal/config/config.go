// Package config loads application configuration from environment
// variables.  main loads a .env file first, so every value can come from
// either place.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration of the temple visitor service.
// Each field corresponds to an environment variable.
type Config struct {
	Env    string // application environment (dev, test, prod)
	Port   string // HTTP port to listen on
	DBUser string
	DBPass string // may be empty
	DBHost string
	DBPort string
	DBName string

	JWTSecret     string // signs admin access tokens
	AccessTTLMin  int    // access token lifetime in minutes
	BcryptCost    int    // bcrypt cost for admin passwords
	AdminUser     string // admin account ensured at startup, skipped when empty
	AdminPassword string

	DefaultTempleID uint64 // temple shown on the admin dashboard when none is given
	SeedSampleData  bool   // insert the sample catalog into an empty database

	AMQPURL                 string // activity event broker; empty disables publishing
	ActivityConsumerEnabled bool   // run the activity log consumer in-process
	ActivityLogDir          string // directory of activity.log

	ShutdownTimeout time.Duration // grace period for in-flight requests
}

// Load reads the configuration.  Required variables are enforced by
// must and mustInt; a missing one stops the program.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:     must("JWT_SECRET"),
		AccessTTLMin:  mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:    envInt("BCRYPT_COST", 12),
		AdminUser:     os.Getenv("ADMIN_USER"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		DefaultTempleID: uint64(envInt("DEFAULT_TEMPLE_ID", 1)),
		SeedSampleData:  envBool("SEED_SAMPLE_DATA", false),

		AMQPURL:                 os.Getenv("AMQP_URL"),
		ActivityConsumerEnabled: envBool("ACTIVITY_CONSUMER_ENABLED", false),
		ActivityLogDir:          envStr("ACTIVITY_LOG_DIR", "logs"),

		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// must retrieves a required environment variable and exits when it is
// unset or empty.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
		return dur
	}
	return d
}
