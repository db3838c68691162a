package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-fnol-router/internal/pdf/pdftest"
)

func writeClaim(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	formPath := writeClaim(t, dir, "form.pdf", pdftest.FormPDF([]pdftest.FormField{
		{Name: "Text7", Value: "POL-1"},
		{Name: "Check Box5", Value: "/Yes"},
	}))
	textPath := writeClaim(t, dir, "typed.pdf", pdftest.TextPDF([][]string{{"Text7: POL-1"}, {"page two"}}))
	writeClaim(t, dir, "notes.txt", []byte("Text7: POL-1"))
	writeClaim(t, dir, "empty.pdf", nil)
	writeClaim(t, dir, "garbage.pdf", []byte("definitely not a pdf document"))
	writeClaim(t, dir, "folder.pdf/inner.pdf", []byte("x"))

	tests := []struct {
		name       string
		path       string
		maxSize    int64
		valid      bool
		message    string
		pages      int
		formFields int
	}{
		{name: "form", path: formPath, valid: true, pages: 1, formFields: 2},
		{name: "flat text", path: textPath, valid: true, pages: 2},
		{name: "empty path", path: "", message: "path cannot be empty"},
		{name: "missing", path: filepath.Join(dir, "missing.pdf"), message: "file does not exist"},
		{name: "directory", path: filepath.Join(dir, "folder.pdf"), message: "path is a directory"},
		{name: "wrong extension", path: filepath.Join(dir, "notes.txt"), message: "file is not a PDF"},
		{name: "empty file", path: filepath.Join(dir, "empty.pdf"), message: "file is empty"},
		{name: "too large", path: formPath, maxSize: 10, message: "file too large"},
		{name: "corrupt", path: filepath.Join(dir, "garbage.pdf"), message: "invalid PDF file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxSize := tt.maxSize
			if maxSize == 0 {
				maxSize = 1 << 20
			}

			result, err := NewValidator(maxSize).ValidateFile(ValidateFileRequest{Path: tt.path})

			require.NoError(t, err)
			assert.Equal(t, tt.path, result.Path)
			assert.Equal(t, tt.valid, result.Valid)
			if tt.message != "" {
				assert.Contains(t, result.Message, tt.message)
			}
			if tt.valid {
				assert.Empty(t, result.Message)
				assert.Equal(t, tt.pages, result.Pages)
				assert.Equal(t, tt.formFields, result.FormFields)
				assert.Positive(t, result.Size)
			}
		})
	}
}

func TestValidator_Check(t *testing.T) {
	dir := t.TempDir()
	valid := writeClaim(t, dir, "ok.pdf", pdftest.TextPDF([][]string{{"hello"}}))
	corrupt := writeClaim(t, dir, "bad.pdf", []byte("%PDF-1.4 truncated"))
	notes := writeClaim(t, dir, "notes.txt", []byte("hello"))
	large := writeClaim(t, dir, "large.pdf", make([]byte, 64*1024))

	v := NewValidator(32 * 1024)
	assert.NoError(t, v.Check(valid))
	// readability is decided by the extraction chain, not here
	assert.NoError(t, v.Check(corrupt))
	assert.ErrorContains(t, v.Check(notes), "file is not a PDF")
	assert.ErrorContains(t, v.Check(large), "file too large")
	assert.ErrorContains(t, v.Check(dir), "path is a directory")
	assert.ErrorContains(t, v.Check(filepath.Join(dir, "nope.pdf")), "does not exist")
}

func TestValidator_ListClaims(t *testing.T) {
	dir := t.TempDir()
	doc := pdftest.TextPDF([][]string{{"x"}})
	writeClaim(t, dir, "acord-2024-001.pdf", doc)
	writeClaim(t, dir, "acord-2024-002.PDF", doc)
	writeClaim(t, dir, "scans/fnol-smith.pdf", doc)
	writeClaim(t, dir, ".cache/hidden.pdf", doc)
	writeClaim(t, dir, "readme.txt", []byte("x"))
	writeClaim(t, dir, "empty.pdf", nil)

	tests := []struct {
		name     string
		req      ListClaimsRequest
		expected []string
	}{
		{
			name:     "all",
			req:      ListClaimsRequest{},
			expected: []string{"acord-2024-001.pdf", "acord-2024-002.PDF", "fnol-smith.pdf"},
		},
		{
			name:     "query words",
			req:      ListClaimsRequest{Query: "ACORD 002"},
			expected: []string{"acord-2024-002.PDF"},
		},
		{
			name:     "no match",
			req:      ListClaimsRequest{Query: "jones"},
			expected: []string{},
		},
		{
			name:     "limit",
			req:      ListClaimsRequest{Query: "acord", Limit: 1},
			expected: nil, // one of the two, walk order decides
		},
	}

	v := NewValidator(1 << 20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := v.ListClaims(dir, tt.req)
			require.NoError(t, err)
			assert.Equal(t, dir, result.Directory)
			assert.Equal(t, len(result.Files), result.TotalCount)

			if tt.expected == nil {
				assert.Len(t, result.Files, tt.req.Limit)
				return
			}
			names := make([]string, 0, len(result.Files))
			for _, f := range result.Files {
				names = append(names, f.Name)
			}
			assert.Equal(t, tt.expected, names)
		})
	}
}

func TestValidator_ListClaimsMissingDirectory(t *testing.T) {
	v := NewValidator(1 << 20)

	result, err := v.ListClaims(filepath.Join(t.TempDir(), "later"), ListClaimsRequest{})
	require.NoError(t, err)
	assert.Empty(t, result.Files)

	_, err = v.ListClaims("", ListClaimsRequest{})
	assert.ErrorContains(t, err, "directory cannot be empty")
}
