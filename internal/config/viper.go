// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-ingest/internal/categorizer"
	"fjacquet/statement-ingest/internal/pdfparser"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "STMT"

// ProfileAuto lets the text pipeline detect the statement sub-format.
const ProfileAuto = "auto"

// RuleSourceYAML and RuleSourcePostgres select where merchant rules live.
const (
	RuleSourceYAML     = "yaml"
	RuleSourcePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	CSV      CSVConfig      `mapstructure:"csv" yaml:"csv"`
	Parser   ParserConfig   `mapstructure:"parser" yaml:"parser"`
	OCR      OCRConfig      `mapstructure:"ocr" yaml:"ocr"`
	Rules    RulesConfig    `mapstructure:"rules" yaml:"rules"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Import   ImportConfig   `mapstructure:"import" yaml:"import"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// ParserConfig drives the text pipeline.
type ParserConfig struct {
	// Profile is "auto" or a pdfparser profile name.
	Profile string `mapstructure:"profile" yaml:"profile"`
	// AmountPolicy overrides the profile's amount policy when set.
	AmountPolicy  string `mapstructure:"amount_policy" yaml:"amount_policy"`
	PdftotextPath string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
}

// OCRConfig drives the scanned statement pipeline.
type OCRConfig struct {
	TesseractPath string  `mapstructure:"tesseract_path" yaml:"tesseract_path"`
	PdftoppmPath  string  `mapstructure:"pdftoppm_path" yaml:"pdftoppm_path"`
	Language      string  `mapstructure:"language" yaml:"language"`
	DPI           int     `mapstructure:"dpi" yaml:"dpi"`
	PSM           int     `mapstructure:"psm" yaml:"psm"`
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
}

// RulesConfig selects the merchant rule source and the evaluation orderings
// of the two classification call sites.
type RulesConfig struct {
	Source          string `mapstructure:"source" yaml:"source"`
	File            string `mapstructure:"file" yaml:"file"`
	ImportOrdering  string `mapstructure:"import_ordering" yaml:"import_ordering"`
	SuggestOrdering string `mapstructure:"suggest_ordering" yaml:"suggest_ordering"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn" yaml:"-"`
}

type ImportConfig struct {
	AccountID string `mapstructure:"account_id" yaml:"account_id"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration from configFile, or from the standard
// locations when configFile is empty. Environment variables win over the
// file, the file wins over defaults.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-ingest")
		v.AddConfigPath(".statement-ingest")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. DATABASE_URL is the conventional name; STMT_DATABASE_DSN still wins
	if err := v.BindEnv("database.dsn", EnvPrefix+"_DATABASE_DSN", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database environment variables: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("parser.profile", ProfileAuto)
	v.SetDefault("parser.amount_policy", "")
	v.SetDefault("parser.pdftotext_path", "pdftotext")

	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.pdftoppm_path", "pdftoppm")
	v.SetDefault("ocr.language", "spa")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.min_confidence", 30.0)

	v.SetDefault("rules.source", RuleSourceYAML)
	v.SetDefault("rules.file", "merchant_rules.yaml")
	v.SetDefault("rules.import_ordering", string(categorizer.OrderBulkImport))
	v.SetDefault("rules.suggest_ordering", string(categorizer.OrderLiveSuggestion))

	v.SetDefault("database.dsn", "")

	v.SetDefault("import.account_id", "default")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if utf8.RuneCountInString(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Parser.Profile != ProfileAuto {
		if _, ok := pdfparser.ProfileByName(config.Parser.Profile); !ok {
			return fmt.Errorf("unknown parser.profile: %s", config.Parser.Profile)
		}
	}
	if config.Parser.AmountPolicy != "" {
		if _, ok := pdfparser.PolicyByName(config.Parser.AmountPolicy); !ok {
			return fmt.Errorf("unknown parser.amount_policy: %s", config.Parser.AmountPolicy)
		}
	}

	if config.OCR.DPI < 72 || config.OCR.DPI > 1200 {
		return fmt.Errorf("ocr.dpi must be between 72 and 1200, got: %d", config.OCR.DPI)
	}
	if config.OCR.PSM < 0 || config.OCR.PSM > 13 {
		return fmt.Errorf("ocr.psm must be between 0 and 13, got: %d", config.OCR.PSM)
	}
	if config.OCR.MinConfidence < 0 || config.OCR.MinConfidence > 100 {
		return fmt.Errorf("ocr.min_confidence must be between 0 and 100, got: %f", config.OCR.MinConfidence)
	}

	switch config.Rules.Source {
	case RuleSourceYAML:
	case RuleSourcePostgres:
		if config.Database.DSN == "" {
			return fmt.Errorf("database.dsn required when rules.source is %s", RuleSourcePostgres)
		}
	default:
		return fmt.Errorf("unknown rules.source: %s (must be '%s' or '%s')", config.Rules.Source, RuleSourceYAML, RuleSourcePostgres)
	}
	if _, err := categorizer.ParseOrdering(config.Rules.ImportOrdering); err != nil {
		return fmt.Errorf("rules.import_ordering: %w", err)
	}
	if _, err := categorizer.ParseOrdering(config.Rules.SuggestOrdering); err != nil {
		return fmt.Errorf("rules.suggest_ordering: %w", err)
	}

	if strings.TrimSpace(config.Import.AccountID) == "" {
		return fmt.Errorf("import.account_id must not be empty")
	}

	return nil
}

// Delimiter returns the CSV delimiter as a rune.
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
