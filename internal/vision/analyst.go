// File: internal/vision/analyst.go
// Package vision wraps the multimodal model with the screenshot tasks the
// agent needs: locating elements by description, reading pages, classifying
// and solving captchas, and comparing before/after states.
package vision

import (
	"context"

	"go.uber.org/zap"
)

// Analyzer is the slice of the vision transport this package consumes.
// *llmclient.VisionClient satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, prompt, pngBase64 string) (string, error)
	AnalyzePair(ctx context.Context, firstPrompt, firstPNG, secondPrompt, secondPNG string) (string, error)
}

// Analyst runs screenshot analysis tasks against the vision model.
type Analyst struct {
	model  Analyzer
	logger *zap.Logger
}

// NewAnalyst wires an analyst over a vision transport.
func NewAnalyst(model Analyzer, logger *zap.Logger) *Analyst {
	return &Analyst{
		model:  model,
		logger: logger.Named("vision"),
	}
}
