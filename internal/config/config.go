package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the reconciliation backend.
type Config struct {
	Database     DatabaseConfig
	TicketSource TicketSourceConfig
	LoginToken   LoginTokenConfig

	// GuestHotels are the hotels this system places guests into. Records
	// whose product resolves to any other hotel are rejected at validation.
	GuestHotels []string

	// VisibleHotels are the hotels whose guests get portal access. CanLogin
	// is recomputed from this set on every room assignment.
	VisibleHotels []string

	// IgnoredTickets are ticket codes excluded from ingestion entirely.
	IgnoredTickets []string

	// NameFuzzFactor is the 0-100 similarity ratio two names must reach to
	// be considered the same person during reconciliation.
	NameFuzzFactor int

	// SwapCooldown is how long a room is blocked from swapping again.
	SwapCooldown time.Duration

	LogLevel string
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// TicketSourceConfig holds external ticket source configuration.
type TicketSourceConfig struct {
	APIKey   string
	BaseURL  string
	CacheDir string
	CacheTTL time.Duration

	// SystemChecks gates the ticket-source cross-checks; disabled in tests
	// and CI where neither credentials nor cache exist.
	SystemChecks bool
}

// LoginTokenConfig holds signing configuration for guest login-link tokens.
type LoginTokenConfig struct {
	Secret string
	Expiry time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		TicketSource: TicketSourceConfig{
			APIKey:       getEnv("TICKET_SOURCE_API_KEY", ""),
			BaseURL:      getEnv("TICKET_SOURCE_BASE_URL", "https://api.secretparty.io"),
			CacheDir:     getEnv("TICKET_SOURCE_CACHE_DIR", os.TempDir()),
			CacheTTL:     time.Duration(getEnvAsInt("TICKET_SOURCE_CACHE_TTL", 3600)) * time.Second,
			SystemChecks: getEnvAsBool("TICKET_SOURCE_SYSTEM_CHECKS", true),
		},
		LoginToken: LoginTokenConfig{
			Secret: getEnv("LOGIN_TOKEN_SECRET", ""),
			Expiry: time.Duration(getEnvAsInt("LOGIN_TOKEN_EXPIRY", 86400)) * time.Second,
		},
		GuestHotels:    getEnvAsSlice("GUEST_HOTELS", []string{"Ballys", "Nugget"}),
		VisibleHotels:  getEnvAsSlice("VISIBLE_HOTELS", []string{"Ballys"}),
		IgnoredTickets: getEnvAsSlice("IGNORE_TICKETS", nil),
		NameFuzzFactor: getEnvAsInt("NAME_FUZZ_FACTOR", 88),
		SwapCooldown:   time.Duration(getEnvAsInt("ROOM_SWAP_COOLDOWN", 86400)) * time.Second,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.NameFuzzFactor < 0 || c.NameFuzzFactor > 100 {
		return fmt.Errorf("NAME_FUZZ_FACTOR must be between 0 and 100")
	}

	if len(c.GuestHotels) == 0 {
		return fmt.Errorf("GUEST_HOTELS must name at least one hotel")
	}

	return nil
}

// VisibleHotel reports whether the given hotel grants portal access.
func (c *Config) VisibleHotel(hotel string) bool {
	for _, h := range c.VisibleHotels {
		if h == hotel {
			return true
		}
	}
	return false
}

// GuestHotel reports whether guests are placed in the given hotel.
func (c *Config) GuestHotel(hotel string) bool {
	for _, h := range c.GuestHotels {
		if h == hotel {
			return true
		}
	}
	return false
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
