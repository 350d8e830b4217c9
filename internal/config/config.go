package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/RolAlek/cli-app-logs-analyzer/internal/output"
	"github.com/RolAlek/cli-app-logs-analyzer/internal/parser"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LOGS_ANALYZER_WORKERS.
const EnvPrefix = "LOGS_ANALYZER"

// Keys shared by viper, flags and the config file.
const (
	KeyReport  = "report"
	KeyOutput  = "output"
	KeyColor   = "color"
	KeyWorkers = "workers"
	KeyMarker  = "marker"
	KeyPattern = "pattern"
	KeyVerbose = "verbose"
)

var (
	// ErrMissingReport is returned when no report type is set by flag,
	// environment or config file.
	ErrMissingReport = errors.New("missing report type: set --report, " + EnvPrefix + "_REPORT or report in the config file")

	// ErrInvalidWorkers is returned when workers is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidOutput is returned for an unsupported output format.
	ErrInvalidOutput = errors.New("invalid output format")

	// ErrEmptyMarker is returned when the marker is blank.
	ErrEmptyMarker = errors.New("invalid marker: must not be empty")
)

// Config holds the settings for a single analyzer run.
type Config struct {
	Report  string `mapstructure:"report"`
	Output  string `mapstructure:"output"`
	Color   bool   `mapstructure:"color"`
	Workers int    `mapstructure:"workers"`
	Marker  string `mapstructure:"marker"`
	Pattern string `mapstructure:"pattern"` // empty derives the pattern from Marker
	Verbose bool   `mapstructure:"verbose"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyReport, "")
	v.SetDefault(KeyOutput, output.FormatText)
	v.SetDefault(KeyColor, false)
	v.SetDefault(KeyWorkers, runtime.NumCPU())
	v.SetDefault(KeyMarker, parser.DefaultMarker)
	v.SetDefault(KeyPattern, "")
	v.SetDefault(KeyVerbose, false)
}

// ReadIn wires environment overrides and reads the config file. An explicit
// cfgFile must exist; otherwise .logs-analyzer.yaml is looked up in $HOME
// and the working directory and silently skipped when absent.
func ReadIn(v *viper.Viper, cfgFile string) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	v.AddConfigPath(".")
	v.SetConfigName(".logs-analyzer")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that do not depend on input files. A report
// type must be present; whether it is known is left to the dispatcher.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Report) == "" {
		return ErrMissingReport
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if strings.TrimSpace(c.Marker) == "" {
		return ErrEmptyMarker
	}

	for _, f := range output.Formats() {
		if strings.EqualFold(c.Output, f) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q (expected one of %s)", ErrInvalidOutput, c.Output, strings.Join(output.Formats(), ", "))
}
