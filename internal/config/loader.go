package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "FARM_"

// Load arma la Config en capas (menor -> mayor precedencia):
//  1. defaults (New)
//  2. archivo YAML si FARM_CONFIG está definido
//  3. variables de entorno FARM_* (incluye las que trae .env)
func Load() (*Config, error) {
	if err := loadDotEnv(envFileName()); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path := os.Getenv("FARM_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// FARM_TOKEN_TTL -> token_ttl
	envProvider := env.ProviderWithValue(envPrefix, ".", envValue)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// compat: el router leía DB_DSN directamente
	if cfg.DBDSN == "" {
		cfg.DBDSN = strings.TrimSpace(os.Getenv("DB_DSN"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// listKeys se leen de env como valores separados por coma.
var listKeys = map[string]bool{
	"cors_origins": true,
}

func envValue(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, envPrefix))
	if listKeys[key] {
		return key, splitList(v)
	}
	return key, v
}

func splitList(v string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envFileName() string {
	if v := os.Getenv("FARM_ENV_FILE"); v != "" {
		return v
	}
	return ".env"
}

// loadDotEnv no pisa variables ya definidas; un .env ausente no es error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
}
