package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/a3tai/mcp-fnol-router/internal/config"
	"github.com/a3tai/mcp-fnol-router/internal/fnol"
	"github.com/a3tai/mcp-fnol-router/internal/logging"
	"github.com/a3tai/mcp-fnol-router/internal/pdf"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
)

// defaultClaimFile is processed when no path is given
const defaultClaimFile = "form.pdf"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, rest, err := config.LoadProcessFlags(args)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		printHelp(stdout)
		return 0
	case errors.Is(err, config.ErrVersionRequested):
		fmt.Fprintln(stdout, "fnol_process")
		return 0
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		printUsage(stderr)
		return 1
	}

	pdfPath := defaultClaimFile
	if len(rest) > 0 {
		pdfPath = rest[0]
	}
	if _, err := os.Stat(pdfPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Error: File not found: %s\n", pdfPath)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	result, err := processClaim(ctx, cfg, pdfPath, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error processing claim: %v\n", err)
		return 1
	}

	if err := outputJSON(stdout, result); err != nil {
		fmt.Fprintf(stderr, "Error outputting results: %v\n", err)
		return 1
	}
	return 0
}

func processClaim(ctx context.Context, cfg *config.Config, pdfPath string, logger *zap.Logger) (*fnol.Result, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	if err := pdf.NewValidator(cfg.MaxFileSize).Check(absPath); err != nil {
		return nil, fmt.Errorf("file validation failed: %w", err)
	}

	fieldMap, err := cfg.LoadFieldMap()
	if err != nil {
		return nil, err
	}

	chain := extraction.NewDefaultChain(cfg.ChainOptions(), logger)
	processor := fnol.NewProcessor(chain, fnol.NewMapper(fieldMap), logger)

	return processor.Process(ctx, absPath), nil
}

func outputJSON(w io.Writer, result *fnol.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "FNOL Process - Extract claim fields from an FNOL PDF and recommend a route")
	fmt.Fprintln(w)
	printUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "OPTIONS:")
	fmt.Fprintln(w, "  --fieldmap      YAML file overriding the built-in field map")
	fmt.Fprintln(w, "  --no-ocr        Disable the OCR fallback")
	fmt.Fprintln(w, "  --dpi           Rendering resolution for OCR (default 300)")
	fmt.Fprintln(w, "  --lang          Tesseract languages, '+' separated (default eng)")
	fmt.Fprintln(w, "  --maxfilesize   Maximum PDF file size in bytes")
	fmt.Fprintln(w, "  --verbose       Enable debug logging on stderr")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXTRACTION ORDER:")
	fmt.Fprintln(w, "  1. AcroForm fields")
	fmt.Fprintln(w, "  2. Text layout parsing (\"Label: value\" lines)")
	fmt.Fprintln(w, "  3. OCR of rendered pages")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "EXAMPLES:")
	fmt.Fprintln(w, "  fnol_process claim.pdf")
	fmt.Fprintln(w, "  fnol_process --no-ocr --fieldmap fields.yaml claims/acord-2.pdf")
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintf(w, "  fnol_process [OPTIONS] [pdf_file]   (default %s)\n", defaultClaimFile)
}
