// pkg/config/config.go
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// AutoDetect as CATEGORICAL_COLUMNS selects categorical columns from the data.
const AutoDetect = "auto"

// DefaultCategorical lists the text and boolean columns of the merged
// Favorita sales tables.
var DefaultCategorical = []string{
	"family", "city", "state", "type", "onpromotion",
	"holiday_type", "locale", "locale_name", "description", "transferred",
}

// Config represents the pipeline configuration
type Config struct {
	// Inputs
	TrainPath      string
	ValidationPath string

	// Outputs
	OutputDir string
	Plot      bool

	// Encoding
	CategoricalColumns []string
	InferCategorical   bool

	// Tree
	MaxDepth int

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from the environment, after reading a
// .env file when one is present. Unset variables keep their defaults.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	cfg := &Config{
		TrainPath:      getEnv("TRAIN_PATH", filepath.Join("splitter", "train.csv")),
		ValidationPath: getEnv("VALIDATION_PATH", filepath.Join("splitter", "validation.csv")),
		OutputDir:      getEnv("OUTPUT_DIR", "decision_tree"),
		Plot:           getEnvAsBool("PLOT", true),
		MaxDepth:       getEnvAsInt("MAX_DEPTH", 0), // 0 means grow fully
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}

	if v := getEnv("CATEGORICAL_COLUMNS", ""); strings.EqualFold(v, AutoDetect) {
		cfg.InferCategorical = true
	} else {
		cfg.CategoricalColumns = getEnvAsList("CATEGORICAL_COLUMNS", DefaultCategorical)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if c.TrainPath == "" || c.ValidationPath == "" {
		return errors.New("train and validation paths are required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.MaxDepth < 0 {
		return errors.New("max depth cannot be negative")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return errors.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// ModelPath is where the fitted tree is written.
func (c *Config) ModelPath() string { return filepath.Join(c.OutputDir, "model.pkl") }

// ScorePath is where the score report is written.
func (c *Config) ScorePath() string { return filepath.Join(c.OutputDir, "score_and_metadata.csv") }

// PlotPath is where the predicted-vs-actual plot is written.
func (c *Config) PlotPath() string { return filepath.Join(c.OutputDir, "predictions.png") }

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
