package config

import (
	"os"
	"strconv"

	"multistats/internal/errors"
	"multistats/internal/render"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Render      RenderConfig      `validate:"required"`
	Summary     SummaryConfig     `validate:"required"`
	Correlation CorrelationConfig `validate:"required"`
	Output      OutputConfig      `validate:"required"`
	LogLevel    string            `validate:"omitempty,oneof=ERROR WARN WARNING INFO DEBUG TRACE error warn warning info debug trace"`
}

// RenderConfig holds settings shared by every chart
type RenderConfig struct {
	DPI                int     `validate:"gt=0,lte=1200"`
	AnnotationFontSize float64 `validate:"gt=0"`
	Grid               bool
}

// SummaryConfig holds the two-panel summary chart defaults
type SummaryConfig struct {
	FigureWidth   float64 `validate:"gt=0"`
	FigureHeight  float64 `validate:"gt=0"`
	TitleFontSize float64 `validate:"gt=0"`
	Whisker       float64 `validate:"gt=0"`
}

// CorrelationConfig holds the scatter-matrix defaults
type CorrelationConfig struct {
	FigureWidth  float64 `validate:"gt=0"`
	FigureHeight float64 `validate:"gt=0"`
	FontSize     float64 `validate:"gt=0"`
}

// OutputConfig controls where and how the CLI writes results
type OutputConfig struct {
	Dir     string `validate:"required"`
	Format  string `validate:"required,oneof=png jpg jpeg svg pdf"`
	Workers int    `validate:"gte=1,lte=64"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Render: RenderConfig{
			DPI:                getEnvIntOrDefault("MULTISTATS_DPI", 96),
			AnnotationFontSize: getEnvFloatOrDefault("MULTISTATS_FONT_SIZE", 14),
			Grid:               getEnvBoolOrDefault("MULTISTATS_GRID", true),
		},
		Summary: SummaryConfig{
			FigureWidth:   getEnvFloatOrDefault("MULTISTATS_SUMMARY_FIG_W", 17),
			FigureHeight:  getEnvFloatOrDefault("MULTISTATS_SUMMARY_FIG_H", 7),
			TitleFontSize: getEnvFloatOrDefault("MULTISTATS_SUMMARY_TITLE_SIZE", 30),
			Whisker:       getEnvFloatOrDefault("MULTISTATS_WHISKER", 1.5),
		},
		Correlation: CorrelationConfig{
			FigureWidth:  getEnvFloatOrDefault("MULTISTATS_SCATTER_FIG_W", 17),
			FigureHeight: getEnvFloatOrDefault("MULTISTATS_SCATTER_FIG_H", 10),
			FontSize:     getEnvFloatOrDefault("MULTISTATS_SCATTER_FONT_SIZE", 20),
		},
		Output: OutputConfig{
			Dir:     getEnvOrDefault("MULTISTATS_OUTPUT_DIR", "."),
			Format:  getEnvOrDefault("MULTISTATS_OUTPUT_FORMAT", "png"),
			Workers: getEnvIntOrDefault("MULTISTATS_WORKERS", 4),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Validate returns an error if the Config object is invalid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// SummaryRender builds the per-call render configuration for summary charts
func (c *Config) SummaryRender() render.Config {
	rc := render.DefaultSummaryConfig()
	rc.Width = c.Summary.FigureWidth
	rc.Height = c.Summary.FigureHeight
	rc.TitleFontSize = c.Summary.TitleFontSize
	c.applyShared(&rc)
	return rc
}

// CorrelationRender builds the per-call render configuration for scatter matrices
func (c *Config) CorrelationRender() render.Config {
	rc := render.DefaultScatterConfig()
	rc.Width = c.Correlation.FigureWidth
	rc.Height = c.Correlation.FigureHeight
	c.applyShared(&rc)
	rc.AnnotationFontSize = c.Correlation.FontSize
	return rc
}

func (c *Config) applyShared(rc *render.Config) {
	rc.DPI = c.Render.DPI
	rc.AnnotationFontSize = c.Render.AnnotationFontSize
	rc.Grid = c.Render.Grid
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
