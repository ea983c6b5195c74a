package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/techmate-hunt/internal/domain"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// DefaultMeetingLocations is the campus set used when MEETING_LOCATIONS is unset.
var DefaultMeetingLocations = []string{
	"TNP", "Shantai", "C Cafetaria", "Campus Cafeteria", "Printing Station behind C",
	"Saraswati", "Bridge", "Fountain", "Amphitheatre", "Backstage", "Front Stage",
	"Water Filters", "Alarm Clock", "Fire Extinguisher", "Workshop",
	"Dnyanprasad EDC DYPCO", "Library", "Sports Ground", "Parking Area",
	"Security Office", "Medical Room", "Food Truck", "Soft Skills Lab", "Admin Office",
}

type Config struct {
	Server       ServerConfig
	StoreDriver  string
	Database     DatabaseConfig
	Mongo        MongoConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Logging      LoggingConfig
	Match        MatchConfig
	Scheduler    SchedulerConfig
	AdminEmails  []string
	GeminiAPIKey string
}

type ServerConfig struct {
	Host           string
	Port           int
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

type LoggingConfig struct {
	Level string
}

type MatchConfig struct {
	Delay          time.Duration
	ByTechStack    bool
	AssignLocation bool
	MaxRetries     int
	Locations      []domain.Location
}

type SchedulerConfig struct {
	PollInterval time.Duration
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			Env:            v.GetString("ENV"),
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Match: MatchConfig{
			Delay:          v.GetDuration("MATCH_DELAY"),
			ByTechStack:    v.GetBool("MATCH_BY_TECH_STACK"),
			AssignLocation: v.GetBool("MATCH_ASSIGN_LOCATION"),
			MaxRetries:     v.GetInt("MATCH_MAX_RETRIES"),
			Locations:      parseLocations(v.GetString("MEETING_LOCATIONS")),
		},
		Scheduler: SchedulerConfig{
			PollInterval: v.GetDuration("SCHEDULER_POLL_INTERVAL"),
		},
		AdminEmails:  splitList(strings.ToLower(v.GetString("ADMIN_EMAILS"))),
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("MONGO_DATABASE", "techmate")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 7*24*60)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADMIN_EMAILS", "admin@techmate.com")
	v.SetDefault("MATCH_DELAY", 30*time.Minute)
	v.SetDefault("MATCH_BY_TECH_STACK", true)
	v.SetDefault("MATCH_ASSIGN_LOCATION", true)
	v.SetDefault("MATCH_MAX_RETRIES", 3)
	v.SetDefault("SCHEDULER_POLL_INTERVAL", time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo URI is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("mongo database is required")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.Redis.Host == "" {
		return fmt.Errorf("redis host is required")
	}
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.JWT.AccessExpiryMin <= 0 {
		return fmt.Errorf("JWT access expiry must be positive")
	}
	if c.Match.Delay < 0 {
		return fmt.Errorf("match delay must not be negative")
	}
	if c.Match.MaxRetries < 1 {
		return fmt.Errorf("match max retries must be at least 1")
	}
	if c.Match.AssignLocation && len(c.Match.Locations) == 0 {
		return fmt.Errorf("at least one meeting location is required")
	}
	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler poll interval must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseLocations numbers the configured names from 1 in the given order.
func parseLocations(raw string) []domain.Location {
	names := splitList(raw)
	if len(names) == 0 {
		names = DefaultMeetingLocations
	}
	locations := make([]domain.Location, len(names))
	for i, name := range names {
		locations[i] = domain.Location{ID: i + 1, Name: name}
	}
	return locations
}
