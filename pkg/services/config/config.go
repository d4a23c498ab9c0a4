package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type SessionConfig struct {
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	RedisURL   string `mapstructure:"redis_url"` // empty selects the in-memory store
}

type AuditConfig struct {
	ConfidenceThreshold      float64 `mapstructure:"confidence_threshold"`
	MinRecommendationSavings float64 `mapstructure:"min_recommendation_savings"`
	HighImpactSavings        float64 `mapstructure:"high_impact_savings"`
	MediumImpactSavings      float64 `mapstructure:"medium_impact_savings"`
}

type ClassifierConfig struct {
	InactiveDays int `mapstructure:"inactive_days"`
	StaleDays    int `mapstructure:"stale_days"`
}

type Config struct {
	Server                ServerConfig     `mapstructure:"server"`
	Session               SessionConfig    `mapstructure:"session"`
	Audit                 AuditConfig      `mapstructure:"audit"`
	Classifier            ClassifierConfig `mapstructure:"classifier"`
	DatabasePath          string           `mapstructure:"database_path"`
	RegistryPath          string           `mapstructure:"registry_path"`
	ReportURLBase         string           `mapstructure:"report_url_base"`
	ReportExpiryHours     int              `mapstructure:"report_expiry_hours"`
	MaxLicensesPerRequest int              `mapstructure:"max_licenses_per_request"`
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c Config) ReportExpiry() time.Duration {
	return time.Duration(c.ReportExpiryHours) * time.Hour
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("audit.confidence_threshold", 0.8)
	v.SetDefault("audit.min_recommendation_savings", 10.0)
	v.SetDefault("audit.high_impact_savings", 500.0)
	v.SetDefault("audit.medium_impact_savings", 100.0)
	v.SetDefault("classifier.inactive_days", 90)
	v.SetDefault("classifier.stale_days", 365)
	v.SetDefault("database_path", "license-atlas.db")
	v.SetDefault("report_url_base", "/api/v1/reports")
	v.SetDefault("report_expiry_hours", 24)
	v.SetDefault("max_licenses_per_request", 1000)
}

// LoadConfig reads the server configuration file, filling unset keys from
// defaults and LICENSE_ATLAS_* environment variables. An empty path yields
// the pure default configuration.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("license_atlas")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
