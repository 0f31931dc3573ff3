package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Data   DataConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DataConfig holds the location and names of the source dataset files.
type DataConfig struct {
	Dir              string
	BatFile          string
	HerpFile         string
	ThreatStatusFile string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides defaults matching the published
// dataset file names.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("BAT_FILE", "DOC_Bat_bioweb_data_2023.csv")
	v.SetDefault("HERP_FILE", "DOC_Bioweb_Herpetofauna_data_2023.csv")
	v.SetDefault("THREAT_STATUS_FILE", "threat_status.csv")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Data: DataConfig{
			Dir:              v.GetString("DATA_DIR"),
			BatFile:          v.GetString("BAT_FILE"),
			HerpFile:         v.GetString("HERP_FILE"),
			ThreatStatusFile: v.GetString("THREAT_STATUS_FILE"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Data.Dir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.Data.BatFile == "" {
		return fmt.Errorf("BAT_FILE is required")
	}
	if c.Data.HerpFile == "" {
		return fmt.Errorf("HERP_FILE is required")
	}
	if c.Data.ThreatStatusFile == "" {
		return fmt.Errorf("THREAT_STATUS_FILE is required")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
