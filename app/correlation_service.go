package app

import (
	"time"

	"multistats/domain/sample"
	"multistats/internal"
	"multistats/internal/analysis/correlation"
	"multistats/internal/errors"
	"multistats/internal/render"
)

// CorrelationService builds the pairwise Pearson matrix and the annotated
// scatter matrix for a table
type CorrelationService struct {
	engine *correlation.Engine
	base   render.Config
	logger *internal.Logger
}

// CorrelationOption adjusts a single PlotCorrelations call
type CorrelationOption func(*render.Config)

// WithCorrelationFigureSize sets the figure size in inches. A height of 5 or
// less is rendered as 6.
func WithCorrelationFigureSize(width, height float64) CorrelationOption {
	return func(c *render.Config) {
		if width > 0 {
			c.Width = width
		}
		if height > 0 {
			c.Height = height
		}
	}
}

// WithFontSize sets the size of the coefficient annotations in points
func WithFontSize(size float64) CorrelationOption {
	return func(c *render.Config) {
		if size > 0 {
			c.AnnotationFontSize = size
		}
	}
}

// WithCorrelationRenderConfig replaces the whole render configuration
func WithCorrelationRenderConfig(cfg render.Config) CorrelationOption {
	return func(c *render.Config) { *c = cfg }
}

// NewCorrelationService creates a correlation service with default chart settings
func NewCorrelationService(logger *internal.Logger) *CorrelationService {
	return NewCorrelationServiceWith(correlation.NewEngine(), render.DefaultScatterConfig(), logger)
}

// NewCorrelationServiceWith creates a correlation service from explicit parts
func NewCorrelationServiceWith(engine *correlation.Engine, base render.Config, logger *internal.Logger) *CorrelationService {
	if engine == nil {
		engine = correlation.NewEngine()
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &CorrelationService{
		engine: engine,
		base:   base,
		logger: logger.With("CorrelationPlotter"),
	}
}

// PlotCorrelations returns the scatter-matrix chart and the correlation matrix for t
func (s *CorrelationService) PlotCorrelations(t *sample.Table, opts ...CorrelationOption) (*render.Chart, *sample.CorrelationMatrix, error) {
	start := time.Now()
	cfg := s.base
	for _, opt := range opts {
		opt(&cfg)
	}

	corr, err := s.engine.Matrix(t)
	if err != nil {
		return nil, nil, errors.Wrap(err, "computing correlations")
	}

	chart, err := render.NewScatterMatrix(t, corr, cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "rendering scatter matrix")
	}

	s.logger.Debug("correlated %d columns over %d rows in %s", t.ColumnCount(), t.RowCount(), time.Since(start))
	return chart, corr, nil
}
