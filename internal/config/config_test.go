package config

import (
	"os"
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Data.Dir != "./data" {
		t.Errorf("Expected data dir ./data, got %s", cfg.Data.Dir)
	}
	if cfg.Data.BatFile != "DOC_Bat_bioweb_data_2023.csv" {
		t.Errorf("Expected default bat file, got %s", cfg.Data.BatFile)
	}
	if cfg.Data.HerpFile != "DOC_Bioweb_Herpetofauna_data_2023.csv" {
		t.Errorf("Expected default herp file, got %s", cfg.Data.HerpFile)
	}
	if cfg.Data.ThreatStatusFile != "threat_status.csv" {
		t.Errorf("Expected default threat status file, got %s", cfg.Data.ThreatStatusFile)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("DATA_DIR", "/srv/bioweb/data")
	os.Setenv("BAT_FILE", "bats.csv")
	os.Setenv("HERP_FILE", "herps.csv")
	os.Setenv("THREAT_STATUS_FILE", "threats.csv")
	os.Setenv("CORS_ORIGINS", "http://example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Data.Dir != "/srv/bioweb/data" {
		t.Errorf("Expected data dir /srv/bioweb/data, got %s", cfg.Data.Dir)
	}
	if cfg.Data.BatFile != "bats.csv" {
		t.Errorf("Expected bat file bats.csv, got %s", cfg.Data.BatFile)
	}
	if len(cfg.CORS.Origins) != 1 {
		t.Fatalf("Expected 1 CORS origin, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing data dir", func(c *Config) { c.Data.Dir = "" }},
		{"missing bat file", func(c *Config) { c.Data.BatFile = "" }},
		{"missing herp file", func(c *Config) { c.Data.HerpFile = "" }},
		{"missing threat status file", func(c *Config) { c.Data.ThreatStatusFile = "" }},
		{"missing CORS origins", func(c *Config) { c.CORS.Origins = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty string", "", 0},
		{"single origin", "http://localhost:3000", 1},
		{"multiple origins", "http://a.com,http://b.com,http://c.com", 3},
		{"with whitespace", " http://a.com , http://b.com ", 2},
		{"trailing comma", "http://a.com,", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseOrigins(tt.input)
			if len(got) != tt.want {
				t.Errorf("Expected %d origins, got %d (%v)", tt.want, len(got), got)
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Env:  "development",
		},
		Data: DataConfig{
			Dir:              "./data",
			BatFile:          "bats.csv",
			HerpFile:         "herps.csv",
			ThreatStatusFile: "threats.csv",
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
	}
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"PORT", "ENV", "DATA_DIR", "BAT_FILE", "HERP_FILE",
		"THREAT_STATUS_FILE", "CORS_ORIGINS",
	} {
		os.Unsetenv(key)
	}
}
