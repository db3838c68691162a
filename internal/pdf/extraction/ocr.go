package extraction

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// StrategyOCR names the render-and-transcribe strategy
const StrategyOCR = "ocr"

// DefaultOCRDPI is the rasterization resolution used for transcription
const DefaultOCRDPI = 300

// Renderer rasterizes document pages
type Renderer interface {
	// PageCount returns the number of pages in the document at path
	PageCount(path string) (int, error)
	// RenderPage renders one zero-based page at dpi
	RenderPage(ctx context.Context, path string, page int, dpi float64) (image.Image, error)
}

// Transcriber turns an image into text
type Transcriber interface {
	Transcribe(ctx context.Context, img image.Image) (string, error)
}

// OCRStrategy renders each page and parses the transcribed text
type OCRStrategy struct {
	renderer    Renderer
	transcriber Transcriber
	dpi         float64
	logger      *zap.Logger
}

// NewOCRStrategy creates the OCR strategy; dpi <= 0 selects DefaultOCRDPI
func NewOCRStrategy(renderer Renderer, transcriber Transcriber, dpi float64, logger *zap.Logger) *OCRStrategy {
	if dpi <= 0 {
		dpi = DefaultOCRDPI
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OCRStrategy{
		renderer:    renderer,
		transcriber: transcriber,
		dpi:         dpi,
		logger:      logger,
	}
}

// Name implements Strategy
func (s *OCRStrategy) Name() string { return StrategyOCR }

// Extract implements Strategy. A page that fails to render or transcribe fails the whole strategy.
func (s *OCRStrategy) Extract(ctx context.Context, path string) (map[string]string, error) {
	if s.renderer == nil || s.transcriber == nil {
		return nil, errors.New("OCR is not configured")
	}

	pageCount, err := s.renderer.PageCount(path)
	if err != nil {
		return nil, fmt.Errorf("failed to count pages: %w", err)
	}

	fields := make(map[string]string)
	for page := 0; page < pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := s.renderer.RenderPage(ctx, path, page, s.dpi)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", page+1, err)
		}

		text, err := s.transcriber.Transcribe(ctx, img)
		if err != nil {
			return nil, fmt.Errorf("failed to transcribe page %d: %w", page+1, err)
		}

		s.logger.Debug("page transcribed", zap.Int("page", page+1), zap.Int("chars", len(text)))
		ParseColonLines(norm.NFKC.String(text), fields)
	}

	return fields, nil
}
