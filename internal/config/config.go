package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // schedule timezones must resolve in minimal containers

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	AirportCodes []string
	HTTPAddr     string
	LogLevel     string
	LogFormat    string

	ShutdownTimeout time.Duration

	// NAV CANADA fetcher.
	NavCanadaBaseURL string
	FetchTimeout     time.Duration

	// MongoDB sink.
	MongoURI              string
	MongoDatabase         string
	MongoCollectionPrefix string
	StoreTimeout          time.Duration

	// Optional Kafka publisher, disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Daily trigger.
	ScheduleAt       string
	ScheduleTimezone *time.Location
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory, if present, seeds variables that are not
// already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	storeTimeout, err := parsePositiveDuration("STORE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	scheduleAt := sharedcfg.EnvOrDefault("SCHEDULE_AT", "20:30")
	if _, err := time.Parse("15:04", scheduleAt); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_AT %q: want HH:MM", scheduleAt)
	}

	tzName := sharedcfg.EnvOrDefault("SCHEDULE_TIMEZONE", "America/Montreal")
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", tzName, err)
	}

	var kafkaBrokers []string
	if v := sharedcfg.EnvOrDefault("KAFKA_BROKERS", ""); v != "" {
		kafkaBrokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		AirportCodes:    ParseAirportCodes(sharedcfg.EnvOrDefault("AIRPORT_CODES", "CYYU")),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NavCanadaBaseURL: sharedcfg.EnvOrDefault("NAVCANADA_BASE_URL", "https://plan.navcanada.ca/weather/api/alpha/"),
		FetchTimeout:     fetchTimeout,

		MongoURI:              sharedcfg.EnvOrDefault("MONGO_URI", "mongodb://mongo:27017/"),
		MongoDatabase:         sharedcfg.EnvOrDefault("MONGO_DATABASE", "navcanada"),
		MongoCollectionPrefix: sharedcfg.EnvOrDefault("MONGO_COLLECTION_PREFIX", "upper_winds"),
		StoreTimeout:          storeTimeout,

		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "upper-winds"),

		ScheduleAt:       scheduleAt,
		ScheduleTimezone: tz,
	}

	if len(cfg.AirportCodes) == 0 {
		return nil, errors.New("AIRPORT_CODES is required")
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("MONGO_DATABASE is required")
	}

	return cfg, nil
}

// KafkaEnabled reports whether records should also be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ParseAirportCodes splits a comma-separated list of ICAO codes, trimming and
// upper-casing each one. Order and duplicates are kept; blanks are dropped.
func ParseAirportCodes(s string) []string {
	var codes []string
	for _, part := range strings.Split(s, ",") {
		code := strings.ToUpper(strings.TrimSpace(part))
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
