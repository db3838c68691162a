package extraction

import "go.uber.org/zap"

// ChainOptions selects the strategies of the default chain
type ChainOptions struct {
	EnableOCR    bool
	OCRDPI       float64
	OCRLanguages []string
}

// NewDefaultChain builds forms -> text -> OCR, leaving OCR out when disabled
func NewDefaultChain(opts ChainOptions, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}

	strategies := []Strategy{
		NewFormStrategy(logger.Named(StrategyForms)),
		NewTextStrategy(logger.Named(StrategyText)),
	}
	if opts.EnableOCR {
		strategies = append(strategies, NewOCRStrategy(
			NewFitzRenderer(),
			NewTesseractTranscriber(opts.OCRLanguages...),
			opts.OCRDPI,
			logger.Named(StrategyOCR),
		))
	}

	return NewChain(logger, strategies...)
}
