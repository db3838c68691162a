package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-fnol-router/internal/pdf/pdftest"
)

func TestRun_PrintsRoutedClaim(t *testing.T) {
	path := pdftest.WriteFile(t, "claim.pdf", pdftest.FormPDF([]pdftest.FormField{
		{Name: "Text7", Value: "POL-77"},
		{Name: "NAME OF INSURED First Middle Last", Value: "Ana Lima"},
		{Name: "DATE OF LOSS", Value: "05/05/2024"},
		{Name: "TEXT4", Value: "07:30"},
		{Name: "Check Box5", Value: "/Yes"},
		{Name: "ESTIMATE AMOUNT_2", Value: "1200"},
	}))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--no-ocr", path}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	var out map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Contains(t, out, "extractedFields")
	assert.Contains(t, out, "missingFields")
	assert.Contains(t, out, "recommendedRoute")
	assert.Contains(t, out, "reasoning")

	assert.Contains(t, stdout.String(), "\n  \"extractedFields\"")
}

func TestRun_DamagedXRefFallsThroughToExtraction(t *testing.T) {
	path := pdftest.WriteFile(t, "damaged.pdf", pdftest.CorruptStartXRef(pdftest.FormPDF([]pdftest.FormField{
		{Name: "Text7", Value: "POL-1"},
	})))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--no-ocr", path}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())

	var out struct {
		ExtractedFields  map[string]string `json:"extractedFields"`
		MissingFields    []string          `json:"missingFields"`
		RecommendedRoute string            `json:"recommendedRoute"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, "POL-1", out.ExtractedFields["policy_number"])
	assert.Equal(t, "Manual review", out.RecommendedRoute)
	assert.NotContains(t, out.MissingFields, "policy_number")
}

func TestRun_UnreadablePDFRoutesToManualReview(t *testing.T) {
	path := pdftest.WriteFile(t, "scan.pdf", []byte("%PDF-1.4 truncated"))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--no-ocr", path}, &stdout, &stderr)
	require.Equal(t, 0, code, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), `"recommendedRoute": "Manual review"`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "missing file",
			args:       []string{"--no-ocr", filepath.Join(t.TempDir(), "nope.pdf")},
			wantStderr: "File not found",
		},
		{
			name:       "unknown flag",
			args:       []string{"--bogus"},
			wantStderr: "USAGE:",
		},
		{
			name:       "not a pdf",
			args:       []string{"--no-ocr", pdftest.WriteFile(t, "notes.txt", []byte("hello"))},
			wantStderr: "file validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.Contains(t, stderr.String(), tt.wantStderr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "fnol_process [OPTIONS] [pdf_file]")
	assert.Contains(t, stdout.String(), "--no-ocr")
}
