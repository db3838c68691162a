package extraction

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Strategy acquires raw label/value pairs from a document.
// An empty map with a nil error means the document had nothing this strategy could read.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, path string) (map[string]string, error)
}

// StrategyError records why a strategy produced nothing
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("%s strategy failed: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// Attempt describes one strategy run
type Attempt struct {
	Strategy   string        `json:"strategy"`
	FieldCount int           `json:"field_count"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// Outcome is the result of running a Chain over one document
type Outcome struct {
	Fields   map[string]string `json:"fields"`
	Strategy string            `json:"strategy,omitempty"` // empty when every strategy came back empty
	Attempts []Attempt         `json:"attempts"`
}

// FallbackUsed reports whether a strategy other than the first one supplied the fields
func (o *Outcome) FallbackUsed() bool {
	return len(o.Attempts) > 1 && o.Strategy != ""
}

// Chain runs strategies in priority order until one returns fields
type Chain struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewChain creates a chain over strategies, tried in the given order
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		strategies: strategies,
		logger:     logger,
	}
}

// Strategies returns the strategy names in the order they are tried
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract never fails: strategy errors are logged and recorded on the outcome,
// and a document nothing could read yields an empty field set.
func (c *Chain) Extract(ctx context.Context, path string) *Outcome {
	outcome := &Outcome{
		Fields:   map[string]string{},
		Attempts: make([]Attempt, 0, len(c.strategies)),
	}

	for _, strategy := range c.strategies {
		if err := ctx.Err(); err != nil {
			c.logger.Warn("extraction stopped", zap.String("path", path), zap.Error(err))
			break
		}

		start := time.Now()
		fields, err := runStrategy(ctx, strategy, path)
		attempt := Attempt{
			Strategy:   strategy.Name(),
			FieldCount: len(fields),
			Duration:   time.Since(start),
			Err:        err,
		}
		outcome.Attempts = append(outcome.Attempts, attempt)

		if err != nil {
			c.logger.Warn("extraction strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.String("path", path),
				zap.Error(err))
			continue
		}

		c.logger.Debug("extraction strategy finished",
			zap.String("strategy", strategy.Name()),
			zap.Int("fields", len(fields)),
			zap.Duration("duration", attempt.Duration))

		if len(fields) > 0 {
			outcome.Fields = fields
			outcome.Strategy = strategy.Name()
			return outcome
		}
	}

	return outcome
}

// runStrategy shields the chain from panics inside the PDF libraries
func runStrategy(ctx context.Context, strategy Strategy, path string) (fields map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			fields = nil
			err = &StrategyError{Strategy: strategy.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	fields, err = strategy.Extract(ctx, path)
	if err != nil {
		return nil, &StrategyError{Strategy: strategy.Name(), Err: err}
	}
	return fields, nil
}
