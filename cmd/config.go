package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"tracking/internal/adapters/out/funfacts"
	"tracking/internal/adapters/out/holidays"
	"tracking/internal/adapters/out/postgres"
	"tracking/internal/adapters/out/rediscache"
	"tracking/internal/core/domain/services"
	"tracking/internal/ingestion"
	"tracking/internal/jobs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v4"
)

const (
	DefaultHTTPPort                 = "8080"
	DefaultKafkaTrackingEventsTopic = "tracking.events"
	DefaultKafkaConsumerGroup       = "tracking-api"
	DefaultKafkaDeadLetterTopic     = "tracking.events.dlq"
	DefaultLogLevel                 = "info"
	DefaultLogFormat                = "json"
)

// Config is read from an optional .env file, an optional YAML file and the
// environment, in that order. Later sources win.
type Config struct {
	HTTPPort string `yaml:"http_port" env:"HTTP_PORT"`

	DBHost     string `yaml:"db_host" env:"DB_HOST"`
	DBPort     string `yaml:"db_port" env:"DB_PORT"`
	DBUser     string `yaml:"db_user" env:"DB_USER"`
	DBPassword string `yaml:"db_password" env:"DB_PASSWORD"`
	DBName     string `yaml:"db_name" env:"DB_NAME"`
	DBSslMode  string `yaml:"db_sslmode" env:"DB_SSLMODE"`
	DBDriver   string `yaml:"db_driver" env:"DB_DRIVER"`

	HolidayAPIURL     string        `yaml:"holiday_api_url" env:"HOLIDAY_API_URL"`
	HolidayCountry    string        `yaml:"holiday_country" env:"HOLIDAY_COUNTRY"`
	FunFactAPIURL     string        `yaml:"fun_fact_api_url" env:"FUN_FACT_API_URL"`
	EnrichmentTimeout time.Duration `yaml:"enrichment_timeout" env:"ENRICHMENT_TIMEOUT"`

	// RedisAddr enables the holiday cache when set.
	RedisAddr       string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	HolidayCacheTTL time.Duration `yaml:"holiday_cache_ttl" env:"HOLIDAY_CACHE_TTL"`

	// KafkaBrokers enables the tracking event consumer and the dead-letter topic when set.
	KafkaBrokers             []string `yaml:"kafka_brokers" env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTrackingEventsTopic string   `yaml:"kafka_tracking_events_topic" env:"KAFKA_TRACKING_EVENTS_TOPIC"`
	KafkaConsumerGroup       string   `yaml:"kafka_consumer_group" env:"KAFKA_CONSUMER_GROUP"`
	KafkaDeadLetterTopic     string   `yaml:"kafka_dead_letter_topic" env:"KAFKA_DEAD_LETTER_TOPIC"`

	IngestionWorkers   int `yaml:"ingestion_workers" env:"INGESTION_WORKERS"`
	IngestionQueueSize int `yaml:"ingestion_queue_size" env:"INGESTION_QUEUE_SIZE"`

	PurgeSchedule string `yaml:"purge_schedule" env:"PURGE_SCHEDULE"`

	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT"`
}

// LoadConfig builds the configuration. yamlPath may be empty.
func LoadConfig(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.HTTPPort, DefaultHTTPPort)
	setDefault(&c.DBHost, "localhost")
	setDefault(&c.DBPort, "5432")
	setDefault(&c.DBSslMode, "disable")
	setDefault(&c.DBDriver, postgres.DriverPGX)
	setDefault(&c.HolidayAPIURL, holidays.DefaultBaseURL)
	setDefault(&c.HolidayCountry, services.DefaultHolidayCountry)
	setDefault(&c.FunFactAPIURL, funfacts.DefaultURL)
	setDefault(&c.KafkaTrackingEventsTopic, DefaultKafkaTrackingEventsTopic)
	setDefault(&c.KafkaConsumerGroup, DefaultKafkaConsumerGroup)
	setDefault(&c.KafkaDeadLetterTopic, DefaultKafkaDeadLetterTopic)
	setDefault(&c.PurgeSchedule, jobs.DefaultPurgeSchedule)
	setDefault(&c.LogLevel, DefaultLogLevel)
	setDefault(&c.LogFormat, DefaultLogFormat)

	if c.EnrichmentTimeout <= 0 {
		c.EnrichmentTimeout = services.DefaultEnrichmentTimeout
	}
	if c.HolidayCacheTTL <= 0 {
		c.HolidayCacheTTL = rediscache.DefaultTTL
	}
	if c.IngestionWorkers <= 0 {
		c.IngestionWorkers = ingestion.DefaultWorkers
	}
	if c.IngestionQueueSize <= 0 {
		c.IngestionQueueSize = ingestion.DefaultQueueSize
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func (c Config) DatabaseSettings() postgres.Settings {
	return postgres.Settings{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
		Driver:   c.DBDriver,
	}
}
