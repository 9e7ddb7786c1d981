package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverMongo  = "mongo"
	StoreDriverMemory = "memory"
)

type Config struct {
	Port        string
	LogLevel    string
	StoreDriver string

	MongoURI string
	DBName   string

	RolesCollection     string
	UserRolesCollection string
	AuditLogsCollection string
	PostsCollection     string
	LikesCollection     string
	MapPointsCollection string

	// OwnerEmails is the allow-list checked before the owner bootstrap runs.
	OwnerEmails []string
	MaxOwners   int

	JWTSecret string
	// SessionTTL after which a returning user counts as signed in again
	SessionTTL time.Duration
	// SessionMax bounds the sessions tracked in memory; the least recent is
	// forgotten first and signs in again on its next request
	SessionMax int

	PermissionCacheTTL  time.Duration
	PermissionCacheSize int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StoreDriverMongo)),

		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:   getEnv("DB_NAME", "journal"),

		RolesCollection:     getEnv("COLLECTION_ROLES", "roles"),
		UserRolesCollection: getEnv("COLLECTION_USER_ROLES", "userRoles"),
		AuditLogsCollection: getEnv("COLLECTION_AUDIT_LOGS", "auditLogs"),
		PostsCollection:     getEnv("COLLECTION_POSTS", "posts"),
		LikesCollection:     getEnv("COLLECTION_LIKES", "likes"),
		MapPointsCollection: getEnv("COLLECTION_MAP_POINTS", "mapPoints"),

		OwnerEmails: getEnvList("OWNER_EMAILS"),
		MaxOwners:   getEnvInt("MAX_OWNERS", 1),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionMax: getEnvInt("SESSION_MAX", 10000),

		PermissionCacheTTL:  getEnvDuration("PERMISSION_CACHE_TTL", 30*time.Second),
		PermissionCacheSize: getEnvInt("PERMISSION_CACHE_SIZE", 1024),

		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required")
		}
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of [mongo, memory], got %q", c.StoreDriver)
	}
	if c.MaxOwners < 1 {
		return fmt.Errorf("MAX_OWNERS must be at least 1")
	}
	if c.PermissionCacheSize < 0 {
		return fmt.Errorf("PERMISSION_CACHE_SIZE must not be negative")
	}
	if c.SessionMax < 1 {
		return fmt.Errorf("SESSION_MAX must be at least 1")
	}
	return nil
}

// IsAuthorizedOwner reports whether email is on the owner allow-list.
// Comparison is case-insensitive.
func (c *Config) IsAuthorizedOwner(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, allowed := range c.OwnerEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvList splits a comma separated variable, lowercasing and dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		// Try parsing as duration string? e.g. "10s"
		d, err := time.ParseDuration(valStr)
		if err == nil {
			return d
		}
		return fallback
	}
	return time.Duration(val) * time.Second
}
