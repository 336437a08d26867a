// Package config loads application configuration from environment variables
// into tagged structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process (missing files are fine), then
// the environment is parsed into any struct using `env` field tags. Each
// configuration type is parsed at most once and cached for the lifetime of
// the process.
//
//	type APIConfig struct {
//	    BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:5000"`
//	}
//
//	var cfg APIConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics on failure for configuration the binary cannot start
// without.
package config
