package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env           string `mapstructure:"env"`            // current application environment (local, dev, prod etc)
	Addr          string `mapstructure:"addr"`           // HTTP listen address for the quiz service
	DBPath        string `mapstructure:"db_path"`        // path to the sqlite file backing local storage
	CORSOrigin    string `mapstructure:"cors_origin"`    // browser UI origin allowed to call the API
	QuestionCount int    `mapstructure:"question_count"` // number of questions drawn per daily quiz
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "daily-quiz.db")
	v.SetDefault("cors_origin", "http://localhost:3000")
	v.SetDefault("question_count", 5)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("addr", "ADDR")
	_ = v.BindEnv("db_path", "DB_PATH")
	_ = v.BindEnv("cors_origin", "CORS_ORIGIN")
	_ = v.BindEnv("question_count", "QUESTION_COUNT")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if cfg.QuestionCount <= 0 {
		return nil, fmt.Errorf("question_count must be positive, got %d", cfg.QuestionCount)
	}

	return &cfg, nil
}
