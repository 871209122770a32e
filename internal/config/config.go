package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures runtime configuration for the API service.
type Config struct {
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Gateway   GatewayConfig
	Kafka     KafkaConfig
	Telemetry TelemetryConfig
	Service   ServiceConfig
}

type HTTPConfig struct {
	Port          int
	MetricsPath   string
	ShutdownGrace time.Duration
}

type DatabaseConfig struct {
	URL            string
	AutoMigrate    bool
	MigrationsPath string
}

// GatewayConfig holds the payment provider credentials and checkout
// parameters.
type GatewayConfig struct {
	BaseURL   string
	SecretKey string
	ReturnURL string
	Timeout   time.Duration
	Currency  string
}

type KafkaConfig struct {
	Brokers []string
}

type TelemetryConfig struct {
	LogLevel      string
	OTelEndpoint  string
	EnableTracing bool
	EnableMetrics bool
	SampleRate    float64
}

type ServiceConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load reads configuration from environment variables, applying defaults
// when needed.
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("API_HTTP_PORT", 8080)
	viper.SetDefault("API_METRICS_PATH", "/metrics")
	viper.SetDefault("API_SHUTDOWN_GRACE", "15s")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("AUTO_MIGRATE", true)
	viper.SetDefault("MIGRATIONS_PATH", "migrations")
	viper.SetDefault("PAYMONGO_BASE_URL", "https://api.paymongo.com")
	viper.SetDefault("PAYMONGO_SECRET_KEY", "")
	viper.SetDefault("PAYMONGO_RETURN_URL", "")
	viper.SetDefault("PAYMONGO_TIMEOUT", "30s")
	viper.SetDefault("PAYMONGO_CURRENCY", "php")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("OTEL_ENABLE_TRACING", true)
	viper.SetDefault("OTEL_ENABLE_METRICS", true)
	viper.SetDefault("OTEL_SAMPLE_RATE", 1.0)
	viper.SetDefault("SERVICE_NAME", "hive-fulfillment")
	viper.SetDefault("SERVICE_VERSION", "0.1.0")
	viper.SetDefault("SERVICE_ENVIRONMENT", "development")

	shutdownGrace, err := time.ParseDuration(viper.GetString("API_SHUTDOWN_GRACE"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_SHUTDOWN_GRACE: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(viper.GetString("PAYMONGO_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYMONGO_TIMEOUT: %w", err)
	}

	var brokers []string
	if raw := viper.GetString("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	return &Config{
		HTTP: HTTPConfig{
			Port:          viper.GetInt("API_HTTP_PORT"),
			MetricsPath:   viper.GetString("API_METRICS_PATH"),
			ShutdownGrace: shutdownGrace,
		},
		Database: DatabaseConfig{
			URL:            viper.GetString("DATABASE_URL"),
			AutoMigrate:    viper.GetBool("AUTO_MIGRATE"),
			MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		},
		Gateway: GatewayConfig{
			BaseURL:   viper.GetString("PAYMONGO_BASE_URL"),
			SecretKey: viper.GetString("PAYMONGO_SECRET_KEY"),
			ReturnURL: viper.GetString("PAYMONGO_RETURN_URL"),
			Timeout:   gatewayTimeout,
			Currency:  viper.GetString("PAYMONGO_CURRENCY"),
		},
		Kafka: KafkaConfig{
			Brokers: brokers,
		},
		Telemetry: TelemetryConfig{
			LogLevel:      viper.GetString("LOG_LEVEL"),
			OTelEndpoint:  viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			EnableTracing: viper.GetBool("OTEL_ENABLE_TRACING"),
			EnableMetrics: viper.GetBool("OTEL_ENABLE_METRICS"),
			SampleRate:    viper.GetFloat64("OTEL_SAMPLE_RATE"),
		},
		Service: ServiceConfig{
			Name:        viper.GetString("SERVICE_NAME"),
			Version:     viper.GetString("SERVICE_VERSION"),
			Environment: viper.GetString("SERVICE_ENVIRONMENT"),
		},
	}, nil
}

// Validate checks configuration required at startup.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Gateway.SecretKey == "" {
		return fmt.Errorf("PAYMONGO_SECRET_KEY is required")
	}
	if c.Gateway.ReturnURL == "" {
		return fmt.Errorf("PAYMONGO_RETURN_URL is required")
	}
	return nil
}
