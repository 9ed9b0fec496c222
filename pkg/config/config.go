package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Source files
	AllStarFile    string `mapstructure:"ALLSTAR_FILE"`
	CollegeFile    string `mapstructure:"COLLEGE_FILE"`
	ProStatsFile   string `mapstructure:"PRO_STATS_FILE"`
	DraftFile      string `mapstructure:"DRAFT_FILE"`
	AttributesFile string `mapstructure:"ATTRIBUTES_FILE"`

	// Dataset window. Professional stats are scanned CAREER_HORIZON_YEARS
	// past END_YEAR so a prospect drafted near the end of the window still
	// gets full career credit.
	StartYear          int `mapstructure:"START_YEAR"`
	EndYear            int `mapstructure:"END_YEAR"`
	CareerHorizonYears int `mapstructure:"CAREER_HORIZON_YEARS"`

	// Dataset rebuild schedule
	RefreshInterval string `mapstructure:"REFRESH_INTERVAL"`
	RebuildOnStart  bool   `mapstructure:"REBUILD_ON_START"`

	// Prediction endpoint rate limiting (requests per second, burst)
	PredictRateLimit float64 `mapstructure:"PREDICT_RATE_LIMIT"`
	PredictRateBurst int     `mapstructure:"PREDICT_RATE_BURST"`

	// Batch export
	OutputFile string `mapstructure:"OUTPUT_FILE"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("ALLSTAR_FILE", "data/allstar_selections.csv")
	viper.SetDefault("COLLEGE_FILE", "data/college_stats.csv")
	viper.SetDefault("PRO_STATS_FILE", "data/nba_season_stats.csv")
	viper.SetDefault("DRAFT_FILE", "data/draft_picks.xlsx")
	viper.SetDefault("ATTRIBUTES_FILE", "")

	viper.SetDefault("START_YEAR", 2010)
	viper.SetDefault("END_YEAR", 2019)
	viper.SetDefault("CAREER_HORIZON_YEARS", 5)

	viper.SetDefault("REFRESH_INTERVAL", "24h")
	viper.SetDefault("REBUILD_ON_START", true)

	viper.SetDefault("PREDICT_RATE_LIMIT", 10.0)
	viper.SetDefault("PREDICT_RATE_BURST", 20)

	viper.SetDefault("OUTPUT_FILE", "nba_success_dataset.csv")

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if config.StartYear > config.EndYear {
		return nil, fmt.Errorf("START_YEAR %d is after END_YEAR %d", config.StartYear, config.EndYear)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
