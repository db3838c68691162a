package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// StrategyText names the text-layout strategy
const StrategyText = "text"

// TextStrategy parses "Label: value" lines out of each page's plain text
type TextStrategy struct {
	logger *zap.Logger
}

// NewTextStrategy creates the text-layout strategy
func NewTextStrategy(logger *zap.Logger) *TextStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextStrategy{logger: logger}
}

// Name implements Strategy
func (ts *TextStrategy) Name() string { return StrategyText }

// Extract implements Strategy
func (ts *TextStrategy) Extract(ctx context.Context, path string) (map[string]string, error) {
	pages, err := ts.ReadPageText(ctx, path)
	if err != nil {
		return nil, err
	}
	ts.logger.Debug("page text read", zap.String("path", path), zap.Int("pages", len(pages)))

	fields := make(map[string]string)
	for _, text := range pages {
		ParseColonLines(text, fields)
	}
	return fields, nil
}

// errNoPage marks a page slot with no page object behind it
var errNoPage = errors.New("page not present")

// ReadPageText returns the plain text of every page, in page order. A page
// whose text cannot be decoded fails the whole read.
func (ts *TextStrategy) ReadPageText(ctx context.Context, path string) ([]string, error) {
	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	return readPages(ctx, pdfReader.NumPage(), func(pageNum int) (string, error) {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			return "", errNoPage
		}
		return page.GetPlainText(nil)
	})
}

// readPages calls read for pages 1..count
func readPages(ctx context.Context, count int, read func(pageNum int) (string, error)) ([]string, error) {
	pages := make([]string, 0, count)
	for pageNum := 1; pageNum <= count; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := read(pageNum)
		if errors.Is(err, errNoPage) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read text of page %d: %w", pageNum, err)
		}
		pages = append(pages, content)
	}

	return pages, nil
}
