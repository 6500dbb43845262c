package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mdbo/porto-houses-web-scraper/internal/constants"
)

// SapoConfig holds the crawl tunables. These were module-level constants in
// an earlier incarnation of the scraper; they are explicit configuration now
// so two runs with different filters or page counts need no code change.
type SapoConfig struct {
	BaseURI string

	// Filters is the search suffix appended to BaseURI. Explicitly setting it
	// to the empty string makes the scraper run every predefined search
	// instead of a single one.
	Filters string

	UserAgent string
	Pages     int
	PageDelay time.Duration

	// InclusiveLastPage makes the crawl visit pages 0..Pages instead of
	// 0..Pages-1. Both behaviors shipped at some point; the exclusive bound
	// is the default.
	InclusiveLastPage bool
}

// OutputConfig holds the dataset output location.
type OutputConfig struct {
	Dir string
}

// RabbitMQConfig holds the broker connection string. Empty means record
// publishing is disabled on the scraper side.
type RabbitMQConfig struct {
	URL string
}

// DBConfig holds the database connection string. Only the sink requires it.
type DBConfig struct {
	URL string
}

// AppConfig is the whole application configuration.
type AppConfig struct {
	Sapo     SapoConfig
	Output   OutputConfig
	RabbitMQ RabbitMQConfig
	Database DBConfig
}

// LoadConfig loads a .env file when present and reads the configuration from
// environment variables, falling back to documented defaults.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		// A missing .env file is fine; everything has a default or comes
		// from the process environment.
		log.Printf("Config: no .env file loaded (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{
		Sapo: SapoConfig{
			BaseURI:           getEnvAsString("SAPO_BASE_URI", constants.DefaultBaseURI),
			Filters:           getEnvAsString("SAPO_FILTERS", constants.DefaultFilters),
			UserAgent:         getEnvAsString("SAPO_USER_AGENT", constants.DefaultUserAgent),
			Pages:             getEnvAsInt("SAPO_PAGES", 1),
			PageDelay:         getEnvAsDuration("SAPO_PAGE_DELAY", 7*time.Second),
			InclusiveLastPage: getEnvAsBool("SAPO_INCLUSIVE_LAST_PAGE", false),
		},
		Output: OutputConfig{
			Dir: getEnvAsString("SAPO_OUTPUT_DIR", "files"),
		},
		RabbitMQ: RabbitMQConfig{
			URL: os.Getenv("RABBITMQ_URL"),
		},
		Database: DBConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
	}

	return cfg, nil
}

// getEnvAsString reads an environment variable as a string or returns the
// default value.
func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as an int or returns the default
// value. Logs when the variable exists but cannot be parsed.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Config: %s (value: %s) is not an int: %v. Using default %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

// getEnvAsBool reads an environment variable as a bool or returns the
// default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Config: %s (value: %s) is not a bool: %v. Using default %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsDuration reads an environment variable as a time.Duration ("7s",
// "1m30s") or returns the default value. A bare integer is taken as seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(valStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Printf("Config: %s (value: %s) is not a duration. Using default %s\n", key, valStr, defaultValue)
	return defaultValue
}
