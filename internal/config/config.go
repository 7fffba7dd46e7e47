// Package config carga la configuración del servicio: defaults, YAML opcional y variables FARM_*.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Config contiene la configuración del proceso.
type Config struct {
	Addr      string `koanf:"addr"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
	AppName   string `koanf:"app_name"`

	// DBDSN vacío => repos en memoria.
	DBDSN string `koanf:"db_dsn"`

	// PIN de acceso en claro, o PINHash ya codificado (argon2id). PINHash gana si ambos están.
	PIN     string `koanf:"pin"`
	PINHash string `koanf:"pin_hash"`

	// TokenKey en hex (32 bytes). Vacío => se genera una por proceso.
	TokenKey string        `koanf:"token_key"`
	TokenTTL time.Duration `koanf:"token_ttl"`

	// Timezone de la finca; define "hoy" para las alertas.
	Timezone string `koanf:"timezone"`

	CORSOrigins   []string `koanf:"cors_origins"`
	UpcomingLimit int      `koanf:"upcoming_limit"`

	LoginRPS   float64 `koanf:"login_rps"`
	LoginBurst int     `koanf:"login_burst"`

	// DevMode acepta X-Debug-User-ID sin token.
	DevMode bool `koanf:"dev_mode"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// New devuelve la configuración por defecto.
func New() *Config {
	return &Config{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		AppName:       "farm-dashboard",
		PIN:           "1234",
		TokenTTL:      12 * time.Hour,
		Timezone:      "America/Bogota",
		CORSOrigins:   []string{"http://localhost:5173"},
		UpcomingLimit: 5,
		LoginRPS:      0.2,
		LoginBurst:    5,
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  15 * time.Second,
	}
}

// Location resuelve Timezone. Llamar después de Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate revisa los valores que no tienen un fallback razonable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.PINHash == "" && !isPIN(c.PIN) {
		return fmt.Errorf("%w: pin must be 4 digits", ErrInvalidConfig)
	}
	if c.TokenKey != "" {
		if b, err := hex.DecodeString(c.TokenKey); err != nil || len(b) != 32 {
			return fmt.Errorf("%w: token_key must be 64 hex characters", ErrInvalidConfig)
		}
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token_ttl must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	if c.UpcomingLimit <= 0 {
		return fmt.Errorf("%w: upcoming_limit must be positive", ErrInvalidConfig)
	}
	if c.LoginRPS <= 0 || c.LoginBurst <= 0 {
		return fmt.Errorf("%w: login_rps and login_burst must be positive", ErrInvalidConfig)
	}
	return nil
}

func isPIN(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
