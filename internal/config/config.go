// Package config provides Viper-based configuration loading for the LEmud server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// Name is the server identifier used in logs and broadcasts.
	Name string `mapstructure:"name"`
	// StartRoom overrides the world's configured starting room when non-empty.
	StartRoom string `mapstructure:"start_room"`
}

// TelnetConfig holds Telnet acceptor settings.
type TelnetConfig struct {
	// Host is the bind address for the Telnet listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the Telnet listener.
	Port int `mapstructure:"port"`
	// ReadTimeout is the per-read timeout for Telnet connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for Telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
func (t TelnetConfig) Addr() string {
	return fmt.Sprintf("%s:%d", t.Host, t.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds combat-engine tuning parameters.
type GameConfig struct {
	// RoundInterval is the cadence at which the round ticker fires.
	RoundInterval time.Duration `mapstructure:"round_interval"`
	// ReconnectGrace is how long an unreachable connection is tolerated
	// before its combat session is torn down.
	ReconnectGrace time.Duration `mapstructure:"reconnect_grace"`
	// PlayerHitChance is the probability (0-1) that a player attack lands.
	PlayerHitChance float64 `mapstructure:"player_hit_chance"`
	// PlayerDamageMin and PlayerDamageMax bound the uniform player damage roll.
	PlayerDamageMin int `mapstructure:"player_damage_min"`
	PlayerDamageMax int `mapstructure:"player_damage_max"`
	// MonsterHitChance is the probability (0-1) that a monster attack lands.
	MonsterHitChance float64 `mapstructure:"monster_hit_chance"`
	// DeathFloor is the health value at or below which a player is fully
	// dead rather than unconscious. Must be negative.
	DeathFloor int `mapstructure:"death_floor"`
	// RespawnHealthFraction is the fraction (0-1] of max health restored
	// when a dead player respawns.
	RespawnHealthFraction float64 `mapstructure:"respawn_health_fraction"`
	// TemplateCacheTTL is how long loaded monster templates are served
	// before the template directory is re-read.
	TemplateCacheTTL time.Duration `mapstructure:"template_cache_ttl"`
	// SweepTargetPolicy selects what an aggressor-less hostile monster does
	// during the room sweep: "random_occupant" or "none".
	SweepTargetPolicy string `mapstructure:"sweep_target_policy"`
}

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Telnet   TelnetConfig   `mapstructure:"telnet"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateServer(c.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelnet(c.Telnet); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateServer(s ServerConfig) error {
	if s.Name == "" {
		return errors.New("server.name must not be empty")
	}
	return nil
}

func validateTelnet(t TelnetConfig) error {
	var errs []string
	if t.Port < 1 || t.Port > 65535 {
		errs = append(errs, fmt.Sprintf("telnet.port must be 1-65535, got %d", t.Port))
	}
	if t.ReadTimeout < 0 {
		errs = append(errs, "telnet.read_timeout must not be negative")
	}
	if t.WriteTimeout < 0 {
		errs = append(errs, "telnet.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.RoundInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.round_interval must be > 0, got %s", g.RoundInterval))
	}
	if g.ReconnectGrace < 0 {
		errs = append(errs, "game.reconnect_grace must not be negative")
	}
	if g.PlayerHitChance < 0 || g.PlayerHitChance > 1 {
		errs = append(errs, fmt.Sprintf("game.player_hit_chance must be 0-1, got %g", g.PlayerHitChance))
	}
	if g.MonsterHitChance < 0 || g.MonsterHitChance > 1 {
		errs = append(errs, fmt.Sprintf("game.monster_hit_chance must be 0-1, got %g", g.MonsterHitChance))
	}
	if g.PlayerDamageMin < 1 {
		errs = append(errs, fmt.Sprintf("game.player_damage_min must be >= 1, got %d", g.PlayerDamageMin))
	}
	if g.PlayerDamageMax < g.PlayerDamageMin {
		errs = append(errs, "game.player_damage_max must not be less than game.player_damage_min")
	}
	if g.DeathFloor >= 0 {
		errs = append(errs, fmt.Sprintf("game.death_floor must be negative, got %d", g.DeathFloor))
	}
	if g.RespawnHealthFraction <= 0 || g.RespawnHealthFraction > 1 {
		errs = append(errs, fmt.Sprintf("game.respawn_health_fraction must be in (0, 1], got %g", g.RespawnHealthFraction))
	}
	if g.TemplateCacheTTL < 0 {
		errs = append(errs, "game.template_cache_ttl must not be negative")
	}
	validPolicies := map[string]bool{"random_occupant": true, "none": true}
	if !validPolicies[g.SweepTargetPolicy] {
		errs = append(errs, fmt.Sprintf("game.sweep_target_policy must be one of [random_occupant, none], got %q", g.SweepTargetPolicy))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with LEMUD_ prefix
	v.SetEnvPrefix("LEMUD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "lemud")
	v.SetDefault("server.start_room", "")

	v.SetDefault("telnet.host", "0.0.0.0")
	v.SetDefault("telnet.port", 4000)
	v.SetDefault("telnet.read_timeout", "10m")
	v.SetDefault("telnet.write_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "lemud")
	v.SetDefault("database.password", "lemud")
	v.SetDefault("database.name", "lemud")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.round_interval", "3s")
	v.SetDefault("game.reconnect_grace", "10s")
	v.SetDefault("game.player_hit_chance", 0.5)
	v.SetDefault("game.player_damage_min", 1)
	v.SetDefault("game.player_damage_max", 3)
	v.SetDefault("game.monster_hit_chance", 0.5)
	v.SetDefault("game.death_floor", -10)
	v.SetDefault("game.respawn_health_fraction", 0.5)
	v.SetDefault("game.template_cache_ttl", "1m")
	v.SetDefault("game.sweep_target_policy", "random_occupant")
}
