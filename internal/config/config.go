// Package config loads runtime settings from viper.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"jyotish-lab/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. JYOTISH_CHART_AYANAMSA.
const EnvPrefix = "JYOTISH"

// ChartConfig holds the chart options of domain.Configuration in their
// on-disk form.
type ChartConfig struct {
	Ayanamsa     string             `mapstructure:"ayanamsa"`
	HouseSystem  string             `mapstructure:"house_system"`
	Sections     domain.Sections    `mapstructure:"sections"`
	DashaSystems []string           `mapstructure:"dasha_systems"`
	Calibration  domain.Calibration `mapstructure:"calibration"`
	TransitDays  int                `mapstructure:"transit_days"`
}

// EphemerisConfig selects and tunes the position provider.
type EphemerisConfig struct {
	// Mode is one of "rpc", "ws" or "fixture".
	Mode       string        `mapstructure:"mode"`
	URL        string        `mapstructure:"url"`
	Fixture    string        `mapstructure:"fixture"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// StorageConfig selects where batch results go.
type StorageConfig struct {
	// Backend is "memory" or "db".
	Backend       string `mapstructure:"backend"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickhouseDSN string `mapstructure:"clickhouse_dsn"`
	MaxConns      int32  `mapstructure:"max_conns"`
}

// Config holds all runtime configuration.
// Values are populated from jyotish.yaml, JYOTISH_* env vars, and CLI flags.
type Config struct {
	Chart       ChartConfig     `mapstructure:"chart"`
	Ephemeris   EphemerisConfig `mapstructure:"ephemeris"`
	Storage     StorageConfig   `mapstructure:"storage"`
	OutputDir   string          `mapstructure:"output_dir"`
	MetricsAddr string          `mapstructure:"metrics_addr"`
	LogLevel    string          `mapstructure:"log_level"`
	LogFormat   string          `mapstructure:"log_format"`
}

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	def := domain.DefaultConfiguration()

	v.SetDefault("chart.ayanamsa", string(def.Ayanamsa))
	v.SetDefault("chart.house_system", string(def.HouseSystem))
	v.SetDefault("chart.sections.shadow_points", def.Sections.ShadowPoints)
	v.SetDefault("chart.sections.vargas", def.Sections.Vargas)
	v.SetDefault("chart.sections.shadbala", def.Sections.Shadbala)
	v.SetDefault("chart.sections.dashas", def.Sections.Dashas)
	v.SetDefault("chart.sections.panchanga", def.Sections.Panchanga)
	v.SetDefault("chart.sections.ashtakavarga", def.Sections.Ashtakavarga)
	v.SetDefault("chart.sections.yogas", def.Sections.Yogas)
	v.SetDefault("chart.sections.jaimini", def.Sections.Jaimini)
	v.SetDefault("chart.sections.doshas", def.Sections.Doshas)
	v.SetDefault("chart.sections.transits", def.Sections.Transits)
	v.SetDefault("chart.dasha_systems", []string{string(domain.DashaVimshottari)})
	v.SetDefault("chart.calibration.ayana_scale", def.Calibration.AyanaScale)
	v.SetDefault("chart.calibration.kaala_baseline", def.Calibration.KaalaBaseline)
	v.SetDefault("chart.transit_days", def.TransitDays)

	v.SetDefault("ephemeris.mode", "rpc")
	v.SetDefault("ephemeris.url", "http://127.0.0.1:8545")
	v.SetDefault("ephemeris.fixture", "")
	v.SetDefault("ephemeris.timeout", 10*time.Second)
	v.SetDefault("ephemeris.max_retries", 3)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.postgres_dsn", "postgres://localhost:5432/jyotish?sslmode=disable")
	v.SetDefault("storage.clickhouse_dsn", "clickhouse://localhost:9000/jyotish")
	v.SetDefault("storage.max_conns", 4)

	v.SetDefault("output_dir", "out")
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// BindEnv enables JYOTISH_* overrides for nested keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the global viper, applying built-in
// defaults for any values not set by config file, environment, or flags.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads configuration from v.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings. Chart options are never
// rejected; unknown values fall back to defaults when converted.
func (c Config) Validate() error {
	switch c.Ephemeris.Mode {
	case "rpc", "ws", "fixture":
	default:
		return fmt.Errorf("ephemeris.mode must be rpc, ws or fixture, got %q", c.Ephemeris.Mode)
	}
	if c.Ephemeris.Mode == "fixture" && c.Ephemeris.Fixture == "" {
		return fmt.Errorf("ephemeris.fixture is required in fixture mode")
	}
	switch c.Storage.Backend {
	case "memory", "db":
	default:
		return fmt.Errorf("storage.backend must be memory or db, got %q", c.Storage.Backend)
	}
	return nil
}

// Configuration converts the chart section into a normalized domain value.
func (c Config) Configuration() domain.Configuration {
	systems := make([]domain.DashaSystem, len(c.Chart.DashaSystems))
	for i, s := range c.Chart.DashaSystems {
		systems[i] = domain.DashaSystem(strings.ToUpper(strings.TrimSpace(s)))
	}
	return domain.Configuration{
		Ayanamsa:     domain.Ayanamsa(c.Chart.Ayanamsa),
		HouseSystem:  domain.HouseSystem(c.Chart.HouseSystem),
		Sections:     c.Chart.Sections,
		DashaSystems: systems,
		Calibration:  c.Chart.Calibration,
		TransitDays:  c.Chart.TransitDays,
	}.Normalize()
}

// Logger builds the structured logger described by LogLevel and LogFormat.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
