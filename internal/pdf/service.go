package pdf

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-fnol-router/internal/fnol"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/security"
)

// Service exposes claim processing to the outer surfaces, adding path
// confinement and file validation in front of the fnol pipeline
type Service struct {
	maxFileSize   int64
	validator     *Validator
	pathValidator *security.PathValidator
	chain         *extraction.Chain
	processor     *fnol.Processor
	logger        *zap.Logger
}

// NewService creates a claim service confined to configuredDirectory.
// A nil mapper selects the built-in field map.
func NewService(maxFileSize int64, configuredDirectory string, chain *extraction.Chain,
	mapper *fnol.Mapper, logger *zap.Logger,
) (*Service, error) {
	if chain == nil {
		return nil, fmt.Errorf("extraction chain cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		validator:     NewValidator(maxFileSize),
		pathValidator: pathValidator,
		chain:         chain,
		processor:     fnol.NewProcessor(chain, mapper, logger),
		logger:        logger,
	}, nil
}

// ProcessFile extracts and routes the claim in req.Path. Relative paths are
// resolved against the claims directory.
func (s *Service) ProcessFile(ctx context.Context, req ProcessFileRequest) (*ProcessFileResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	if err := s.validator.Check(path); err != nil {
		return nil, fmt.Errorf("file validation failed: %w", err)
	}

	return &ProcessFileResult{
		Path:   path,
		Result: s.processor.Process(ctx, path),
	}, nil
}

// ValidateFile performs validation on a claim document
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.pathValidator.NormalizePath(req.Path)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// ListClaims lists claim documents in the claims directory
func (s *Service) ListClaims(req ListClaimsRequest) (*ListClaimsResult, error) {
	return s.validator.ListClaims(s.pathValidator.Directory(), req)
}

// FieldMap describes the field map the processor maps with
func (s *Service) FieldMap() *FieldMapResult {
	fm := s.processor.Mapper().FieldMap()

	mandatory := make([]string, len(fnol.MandatoryFields))
	copy(mandatory, fnol.MandatoryFields)

	return &FieldMapResult{
		Fields:          fm.Fields(),
		MandatoryFields: mandatory,
		AMIndicator:     fm.AMIndicator(),
		PMIndicator:     fm.PMIndicator(),
	}
}

// Strategies returns the extraction strategies in the order they are tried
func (s *Service) Strategies() []string {
	return s.chain.Strategies()
}

// Directory returns the claims directory
func (s *Service) Directory() string {
	return s.pathValidator.Directory()
}
