package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"quyca-monitor/internal/logging"
	"quyca-monitor/internal/risk"
	"quyca-monitor/internal/settings"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    logging.Config   `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Risk       RiskConfig       `mapstructure:"risk"`
	Chart      ChartConfig      `mapstructure:"chart"`
	Server     ServerConfig     `mapstructure:"server"`
	Alerts     AlertsConfig     `mapstructure:"alerts"`
	Export     ExportConfig     `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// SimulationConfig governs the refresh cadence and the mock data source.
type SimulationConfig struct {
	Interval              time.Duration `mapstructure:"interval"`
	Schedule              string        `mapstructure:"schedule"`
	RegenerateProbability float64       `mapstructure:"regenerate_probability"`
	Seed                  int64         `mapstructure:"seed"`
	Timezone              string        `mapstructure:"timezone"`
	InitialTemperature    float64       `mapstructure:"initial_temperature"`
	SeriesHours           int           `mapstructure:"series_hours"`
}

// ThresholdConfig is one named risk table.
type ThresholdConfig struct {
	Risk     float64 `mapstructure:"risk"`
	Critical float64 `mapstructure:"critical"`
}

// RiskConfig keeps the live-reading and chart tables apart.
type RiskConfig struct {
	Reading ThresholdConfig `mapstructure:"reading"`
	Chart   ThresholdConfig `mapstructure:"chart"`
}

// ChartConfig sets the chart domain and PNG size.
type ChartConfig struct {
	YMin   float64 `mapstructure:"y_min"`
	YMax   float64 `mapstructure:"y_max"`
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
}

// ServerConfig covers the HTTP/WebSocket surface.
type ServerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AlertsConfig sizes the in-memory alert log.
type AlertsConfig struct {
	Capacity int  `mapstructure:"capacity"`
	Seed     bool `mapstructure:"seed_fixtures"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	PNGPath string `mapstructure:"png"`
	CSVPath string `mapstructure:"csv"`
}

// Load builds configuration from file, .env, environment, and defaults.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("QUYCA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	def := settings.Default()

	v.SetDefault("app.name", "quyca")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("simulation.interval", def.Interval.String())
	v.SetDefault("simulation.schedule", "")
	v.SetDefault("simulation.regenerate_probability", def.RegenerateProbability)
	v.SetDefault("simulation.seed", int64(0))
	v.SetDefault("simulation.timezone", "Local")
	v.SetDefault("simulation.initial_temperature", def.InitialTemperature)
	v.SetDefault("simulation.series_hours", def.SeriesHours)

	v.SetDefault("risk.reading.risk", def.ReadingRisk.Risk)
	v.SetDefault("risk.reading.critical", def.ReadingRisk.Critical)
	v.SetDefault("risk.chart.risk", def.ChartRisk.Risk)
	v.SetDefault("risk.chart.critical", def.ChartRisk.Critical)

	v.SetDefault("chart.y_min", def.ChartDomain.Min)
	v.SetDefault("chart.y_max", def.ChartDomain.Max)
	v.SetDefault("chart.width", 1280)
	v.SetDefault("chart.height", 720)

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("alerts.capacity", 100)
	v.SetDefault("alerts.seed_fixtures", true)

	v.SetDefault("export.png", "")
	v.SetDefault("export.csv", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Simulation.Interval <= 0 {
		return fmt.Errorf("simulation.interval must be greater than zero")
	}
	if p := c.Simulation.RegenerateProbability; p < 0 || p > 1 {
		return fmt.Errorf("simulation.regenerate_probability must be within [0, 1], got %v", p)
	}
	if c.Simulation.SeriesHours <= 0 {
		return fmt.Errorf("simulation.series_hours must be greater than zero")
	}
	if _, err := c.location(); err != nil {
		return err
	}
	if err := c.readingTable().Validate(); err != nil {
		return err
	}
	if err := c.chartTable().Validate(); err != nil {
		return err
	}
	if c.Chart.YMin >= c.Chart.YMax {
		return fmt.Errorf("chart.y_min %.1f must be below chart.y_max %.1f", c.Chart.YMin, c.Chart.YMax)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be greater than zero")
	}
	if c.Alerts.Capacity <= 0 {
		return fmt.Errorf("alerts.capacity must be greater than zero")
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required when server.enabled is true")
	}
	return nil
}

// Settings derives the immutable runtime settings. Call after Validate.
func (c *Config) Settings() settings.Settings {
	loc, err := c.location()
	if err != nil {
		loc = time.Local
	}
	return settings.Settings{
		Interval:              c.Simulation.Interval,
		Schedule:              c.Simulation.Schedule,
		RegenerateProbability: c.Simulation.RegenerateProbability,
		Seed:                  c.Simulation.Seed,
		Location:              loc,
		InitialTemperature:    c.Simulation.InitialTemperature,
		SeriesHours:           c.Simulation.SeriesHours,
		ReadingRisk:           c.readingTable(),
		ChartRisk:             c.chartTable(),
		ChartDomain:           settings.Domain{Min: c.Chart.YMin, Max: c.Chart.YMax},
	}
}

func (c *Config) location() (*time.Location, error) {
	name := c.Simulation.Timezone
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("simulation.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) readingTable() risk.Table {
	return risk.Table{Name: risk.ReadingTable.Name, Risk: c.Risk.Reading.Risk, Critical: c.Risk.Reading.Critical}
}

func (c *Config) chartTable() risk.Table {
	return risk.Table{Name: risk.ChartTable.Name, Risk: c.Risk.Chart.Risk, Critical: c.Risk.Chart.Critical}
}
