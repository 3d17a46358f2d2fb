package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable: strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	StoreDriver  string // "mongo" (default) or "memory"
	MongoURI     string // MongoDB connection string
	MongoDB      string // MongoDB database name
	JWTSecret    string // secret used to sign access tokens
	TokenTTLDays int    // access token time-to-live in days
	BcryptCost   int    // bcrypt cost for password hashing

	// Media host credentials. The asset host is treated as a black-box
	// upload/destroy service; see internal/media.
	CloudName      string
	CloudAPIKey    string
	CloudAPISecret string
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message. Mongo and media-host
// variables are only required when the respective driver is in use.
func Load() Config {
	cfg := Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         must("APP_PORT"),
		StoreDriver:  getenv("STORE_DRIVER", "mongo"),
		JWTSecret:    must("JWT_SECRET"),
		TokenTTLDays: intenv("TOKEN_TTL_DAYS", 10),
		BcryptCost:   intenv("BCRYPT_COST", 10),

		CloudName:      must("CLOUDINARY_CLOUD_NAME"),
		CloudAPIKey:    must("CLOUDINARY_API_KEY"),
		CloudAPISecret: must("CLOUDINARY_API_SECRET"),
	}
	if cfg.StoreDriver == "mongo" {
		cfg.MongoURI = must("MONGO_URI")
		cfg.MongoDB = getenv("MONGO_DB", "vidshare")
	}
	return cfg
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intenv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
