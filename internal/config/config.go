package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Alert channels understood by cmd/vitals-monitor.
const (
	AlertChannelConsole = "console"
	AlertChannelLog     = "log"
	AlertChannelQueue   = "queue"
)

// Config is the vitals monitor configuration.
type Config struct {
	Storage struct {
		PatientFile string `yaml:"patient_file"`
	} `yaml:"storage"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Alert struct {
		Channel string `yaml:"channel"` // console | log | queue
		Queue   string `yaml:"queue"`
	} `yaml:"alert"`

	Vitals struct {
		// TemperatureTolerance is kept as a string so YAML floats do not lose precision.
		TemperatureTolerance string `yaml:"temperature_tolerance"`
	} `yaml:"vitals"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Storage.PatientFile = "patients.jsonl"
	cfg.HTTP.Addr = ":8080"
	cfg.Alert.Channel = AlertChannelConsole
	cfg.Alert.Queue = "patient_alerts"
	cfg.Vitals.TemperatureTolerance = "1.5"
	cfg.Log.Level = "info"
	cfg.Log.Format = "json"
	return cfg
}

// Load builds the configuration from defaults, then the YAML file at path (skipped when
// path is empty or the file does not exist), then environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Storage.PatientFile = getEnv("PATIENT_FILE", cfg.Storage.PatientFile)
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Alert.Channel = getEnv("ALERT_CHANNEL", cfg.Alert.Channel)
	cfg.Alert.Queue = getEnv("ALERT_QUEUE", cfg.Alert.Queue)
	cfg.Vitals.TemperatureTolerance = getEnv("TEMPERATURE_TOLERANCE", cfg.Vitals.TemperatureTolerance)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Alert.Channel {
	case AlertChannelConsole, AlertChannelLog, AlertChannelQueue:
	default:
		return fmt.Errorf("unknown alert channel %q", c.Alert.Channel)
	}
	if c.Storage.PatientFile == "" {
		return errors.New("patient file path is required")
	}
	tolerance, err := c.TemperatureTolerance()
	if err != nil {
		return err
	}
	if tolerance.IsNegative() {
		return fmt.Errorf("temperature tolerance must not be negative, got %s", tolerance)
	}
	return nil
}

// TemperatureTolerance parses Vitals.TemperatureTolerance.
func (c *Config) TemperatureTolerance() (decimal.Decimal, error) {
	tolerance, err := decimal.NewFromString(c.Vitals.TemperatureTolerance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid temperature tolerance %q: %w", c.Vitals.TemperatureTolerance, err)
	}
	return tolerance, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
