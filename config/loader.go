package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read.
const (
	EnvAPIKey  = "BUSTRACKER_API_KEY"
	EnvBaseURL = "BUSTRACKER_BASE_URL"
)

// Load reads configuration from the first readable path, applies
// environment overrides and validates the result. paths may be empty
// when the whole configuration comes from the environment.
func Load(paths ...string) (Config, error) {
	var cfg Config

	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if data != nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		cfg.BaseURL = base
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
