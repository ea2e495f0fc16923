package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Quiz struct {
		QuestionCount      int    `yaml:"question_count"`
		SessionSeconds     int    `yaml:"session_seconds"`
		SessionTimer       *bool  `yaml:"session_timer"`
		PerQuestionSeconds int    `yaml:"per_question_seconds"`
		PerQuestionTimer   *bool  `yaml:"per_question_timer"`
		WordsFile          string `yaml:"words_file"`
		WordsHeader        bool   `yaml:"words_header"`
	} `yaml:"quiz"`
	Report struct {
		URL  string `yaml:"url"`
		Auto bool   `yaml:"auto"`
	} `yaml:"report"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// EnabledOr resolves an optional boolean flag against its default.
func EnabledOr(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
