package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/A248/bank-data/internal/analysis"
	apperrors "github.com/A248/bank-data/internal/errors"
	"github.com/A248/bank-data/internal/workbook"
)

// EnvPrefix namespaces every environment variable read by Load
const EnvPrefix = "BANKDATA"

// Config represents the complete application configuration
type Config struct {
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Analysis   AnalysisConfig   `yaml:"analysis" envconfig:"ANALYSIS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Download   DownloadConfig   `yaml:"download" envconfig:"DOWNLOAD"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/bankdata.log" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	OutputPrefix string `yaml:"output_prefix" envconfig:"OUTPUT_PREFIX" default:"output/bank-data" validate:"required"`
}

// AnalysisConfig tunes sheet analysis
type AnalysisConfig struct {
	BannedPhrases        []analysis.BannedPhrase `yaml:"banned_phrases" ignored:"true" validate:"dive"`
	SkippableLabels      []string                `yaml:"skippable_labels" envconfig:"SKIPPABLE_LABELS" default:"Weight"`
	SkippedSheets        []string                `yaml:"skipped_sheets" envconfig:"SKIPPED_SHEETS" default:"Cover Page,Contents"`
	SkippedSheetPrefixes []string                `yaml:"skipped_sheet_prefixes" envconfig:"SKIPPED_SHEET_PREFIXES" default:"Appendix"`
	// DiscardBelow must be positive: the analyzer reads zero as "use the default"
	DiscardBelow         float64                 `yaml:"discard_below" envconfig:"DISCARD_BELOW" default:"0.15" validate:"gt=0,lte=1"`
	SparseBelow          float64                 `yaml:"sparse_below" envconfig:"SPARSE_BELOW" default:"0.80" validate:"gtefield=DiscardBelow,lte=1"`
}

// ProcessingConfig controls the condense run
type ProcessingConfig struct {
	// Workers bounds concurrent workbook decoding; zero means GOMAXPROCS
	Workers int  `yaml:"workers" envconfig:"WORKERS" default:"0" validate:"gte=0"`
	BOM     bool `yaml:"bom" envconfig:"BOM" default:"false"`
}

// DownloadConfig contains publication download configuration
type DownloadConfig struct {
	BaseURL    string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://www.bb.org.bd/pub/monthly/econtrds" validate:"required,url"`
	FromYear   int           `yaml:"from_year" envconfig:"FROM_YEAR" default:"2012" validate:"gte=1971"`
	RateLimit  float64       `yaml:"rate_limit" envconfig:"RATE_LIMIT" default:"4" validate:"gt=0"`
	Burst      int           `yaml:"burst" envconfig:"BURST" default:"2" validate:"gte=1"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"60s" validate:"gt=0"`
	Schedule   string        `yaml:"schedule" envconfig:"SCHEDULE"`
	SkipMonths []string      `yaml:"skip_months" envconfig:"SKIP_MONTHS" default:"2015-11" validate:"dive,datetime=2006-01"`
}

// TelemetryConfig selects the metric and trace exporters
type TelemetryConfig struct {
	Metrics     string `yaml:"metrics" envconfig:"METRICS" default:"prometheus" validate:"oneof=prometheus none"`
	Traces      string `yaml:"traces" envconfig:"TRACES" default:"none" validate:"oneof=stdout none"`
	MetricsAddr string `yaml:"metrics_addr" envconfig:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// Load loads configuration from environment variables and a YAML file.
// An empty path searches the usual locations and tolerates no file at all.
func Load(path string) (*Config, error) {
	var cfg Config

	// Defaults and environment first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	explicit := path != ""
	if !explicit {
		path = getConfigFilePath()
	}
	if path != "" {
		fileConfig, err := loadFromFile(path)
		if err != nil {
			if explicit || !os.IsNotExist(err) {
				return nil, apperrors.NewConfigError("failed to load config from file", err).
					WithContext("path", path)
			}
		} else {
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if len(cfg.Analysis.BannedPhrases) == 0 {
		cfg.Analysis.BannedPhrases = append([]analysis.BannedPhrase(nil), analysis.DefaultBannedPhrases...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence).
// A file value replaces the default only when it is non-zero and its
// environment variable is unset.
func mergeConfigs(fileConfig, envConfig Config) Config {
	overlay(reflect.ValueOf(&envConfig).Elem(), reflect.ValueOf(fileConfig), EnvPrefix)
	return envConfig
}

func overlay(dst, src reflect.Value, prefix string) {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key := prefix + "_" + strings.ToUpper(field.Tag.Get("envconfig"))
		if field.Type.Kind() == reflect.Struct {
			overlay(dst.Field(i), src.Field(i), key)
			continue
		}
		value := src.Field(i)
		if value.IsZero() {
			continue
		}
		if field.Tag.Get("ignored") != "true" {
			if _, set := os.LookupEnv(key); set {
				continue
			}
		}
		dst.Field(i).Set(value)
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"bankdata.yaml",
		"configs/bankdata.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	err := v.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return apperrors.NewConfigError("config validation failed: "+strings.Join(problems, "; "), nil)
}

// AnalysisOptions builds sheet analysis options from the configuration
func (c *Config) AnalysisOptions() analysis.Options {
	opts := analysis.DefaultOptions()
	opts.Inspector = analysis.NewSupportInspector(c.Analysis.BannedPhrases, c.Analysis.SkippableLabels)
	opts.DiscardBelow = c.Analysis.DiscardBelow
	opts.SparseBelow = c.Analysis.SparseBelow
	return opts
}

// WorkbookOptions builds decoder options from the configuration
func (c *Config) WorkbookOptions() workbook.Options {
	return workbook.Options{
		SkippedSheets:        c.Analysis.SkippedSheets,
		SkippedSheetPrefixes: c.Analysis.SkippedSheetPrefixes,
	}
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/bankdata.log",
		},
		Paths: PathsConfig{
			DataDir:      "data",
			OutputPrefix: "output/bank-data",
		},
		Analysis: AnalysisConfig{
			BannedPhrases:        append([]analysis.BannedPhrase(nil), analysis.DefaultBannedPhrases...),
			SkippableLabels:      append([]string(nil), analysis.DefaultSkippableLabels...),
			SkippedSheets:        []string{"Cover Page", "Contents"},
			SkippedSheetPrefixes: []string{"Appendix"},
			DiscardBelow:         analysis.DefaultDiscardBelow,
			SparseBelow:          analysis.DefaultSparseBelow,
		},
		Download: DownloadConfig{
			BaseURL:    "https://www.bb.org.bd/pub/monthly/econtrds",
			FromYear:   2012,
			RateLimit:  4,
			Burst:      2,
			Timeout:    60 * time.Second,
			SkipMonths: []string{"2015-11"},
		},
		Telemetry: TelemetryConfig{
			Metrics: "prometheus",
			Traces:  "none",
		},
	}
}
