package fnol

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
)

// Extractor acquires raw fields from a document. *extraction.Chain satisfies it.
type Extractor interface {
	Extract(ctx context.Context, path string) *extraction.Outcome
}

// Result is the complete outcome of processing one claim document
type Result struct {
	ExtractedFields CanonicalFieldSet `json:"extractedFields"`
	MissingFields   []string          `json:"missingFields"`
	RoutingDecision
}

// Processor runs extraction, mapping, validation and routing for one document at a time.
// It holds no per-document state and may be shared between goroutines.
type Processor struct {
	extractor Extractor
	mapper    *Mapper
	logger    *zap.Logger
}

// NewProcessor wires the pipeline; a nil mapper uses the default field map
func NewProcessor(extractor Extractor, mapper *Mapper, logger *zap.Logger) *Processor {
	if mapper == nil {
		mapper = NewMapper(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		extractor: extractor,
		mapper:    mapper,
		logger:    logger,
	}
}

// Mapper returns the mapper used by the processor
func (p *Processor) Mapper() *Mapper {
	return p.mapper
}

// Process extracts and routes the claim in the document at path.
// It always returns a complete Result; unreadable documents route to manual review.
func (p *Processor) Process(ctx context.Context, path string) *Result {
	logger := p.logger.With(zap.String("request_id", uuid.NewString()), zap.String("path", path))

	outcome := p.extractor.Extract(ctx, path)
	logger.Info("fields extracted",
		zap.String("strategy", outcome.Strategy),
		zap.Bool("fallback_used", outcome.FallbackUsed()),
		zap.Int("raw_fields", len(outcome.Fields)),
		zap.Int("attempts", len(outcome.Attempts)))

	return p.processRaw(RawFieldSet(outcome.Fields), logger)
}

// ProcessRaw maps, validates and routes an already extracted field set
func (p *Processor) ProcessRaw(raw RawFieldSet) *Result {
	return p.processRaw(raw, p.logger)
}

func (p *Processor) processRaw(raw RawFieldSet, logger *zap.Logger) *Result {
	fields := p.mapper.Map(raw)
	missing := FindMissing(fields)

	if len(missing) == 0 {
		if _, ok := ParseDamage(fields[FieldEstimatedDamage]); !ok {
			logger.Warn("estimated damage is not a number, treating as 0",
				zap.String("value", fields[FieldEstimatedDamage]))
		}
	}

	decision := Route(fields, missing)
	logger.Info("claim routed",
		zap.String("route", decision.Route),
		zap.Strings("missing", missing))

	return &Result{
		ExtractedFields: fields,
		MissingFields:   missing,
		RoutingDecision: decision,
	}
}
