package app

import (
	"time"

	"multistats/domain/core"
	"multistats/domain/sample"
	"multistats/internal"
	"multistats/internal/analysis/summary"
	"multistats/internal/errors"
	"multistats/internal/render"
)

// SummarizerService computes descriptive statistics, box-plot outliers and
// the annotated two-panel chart for one sample
type SummarizerService struct {
	computer *summary.Computer
	base     render.Config
	logger   *internal.Logger
}

// SummaryResult is the output of one Summarize call. The chart belongs to
// the caller and has not been drawn yet.
type SummaryResult struct {
	Variable    string             `json:"variable"`
	Fingerprint core.SampleHash    `json:"fingerprint"`
	Outliers    sample.OutlierSet  `json:"outliers"`
	Statistics  *sample.Statistics `json:"statistics"`
	Chart       *render.Chart      `json:"-"`
}

// SummaryOption adjusts a single Summarize call
type SummaryOption func(*summaryRequest)

type summaryRequest struct {
	title string
	cfg   render.Config
}

// WithTitle sets the chart title shown above the box plot
func WithTitle(title string) SummaryOption {
	return func(r *summaryRequest) { r.title = title }
}

// WithTitleFontSize sets the title size in points
func WithTitleFontSize(size float64) SummaryOption {
	return func(r *summaryRequest) {
		if size > 0 {
			r.cfg.TitleFontSize = size
		}
	}
}

// WithFigureSize sets the figure size in inches. A height of 5 or less is
// rendered as 6.
func WithFigureSize(width, height float64) SummaryOption {
	return func(r *summaryRequest) {
		if width > 0 {
			r.cfg.Width = width
		}
		if height > 0 {
			r.cfg.Height = height
		}
	}
}

// WithSummaryRenderConfig replaces the whole render configuration
func WithSummaryRenderConfig(cfg render.Config) SummaryOption {
	return func(r *summaryRequest) { r.cfg = cfg }
}

// NewSummarizerService creates a summarizer with the standard 1.5×IQR
// fences and default chart settings
func NewSummarizerService(logger *internal.Logger) *SummarizerService {
	return NewSummarizerServiceWith(summary.NewComputer(), render.DefaultSummaryConfig(), logger)
}

// NewSummarizerServiceWith creates a summarizer from explicit parts
func NewSummarizerServiceWith(computer *summary.Computer, base render.Config, logger *internal.Logger) *SummarizerService {
	if computer == nil {
		computer = summary.NewComputer()
	}
	if logger == nil {
		logger = internal.NopLogger()
	}
	return &SummarizerService{
		computer: computer,
		base:     base,
		logger:   logger.With("Summarizer"),
	}
}

// Summarize returns the outliers, the statistics and the chart for x
func (s *SummarizerService) Summarize(x []float64, variableName string, opts ...SummaryOption) (*SummaryResult, error) {
	start := time.Now()
	req := summaryRequest{cfg: s.base}
	for _, opt := range opts {
		opt(&req)
	}

	data := sample.Sample(x)
	outliers, stats, err := s.computer.Compute(data, variableName)
	if err != nil {
		s.logger.Debug("statistics for %q failed: %v", variableName, err)
		return nil, errors.Wrapf(err, "summarizing %s", variableName)
	}
	fences, err := s.computer.Fences(data)
	if err != nil {
		return nil, errors.Wrapf(err, "summarizing %s", variableName)
	}

	chart, err := render.NewSummaryChart(render.SummaryInput{
		Data:       data,
		Variable:   variableName,
		Title:      req.title,
		Statistics: stats,
		Fences:     fences,
	}, req.cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering summary of %s", variableName)
	}

	s.logger.Debug("summarized %q: n=%d outliers=%d in %s", variableName, len(data), len(outliers), time.Since(start))
	return &SummaryResult{
		Variable:    variableName,
		Fingerprint: core.ComputeSampleHash(variableName, data),
		Outliers:    outliers,
		Statistics:  stats,
		Chart:       chart,
	}, nil
}
