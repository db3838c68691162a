package pdf

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-fnol-router/internal/fnol"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/extraction"
	"github.com/a3tai/mcp-fnol-router/internal/pdf/pdftest"
)

const acordDescription = "DESCRIPTION OF ACCIDENT ACORD 101 Additional Remarks Schedule may be attached if more space is required"

func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	chain := extraction.NewDefaultChain(extraction.ChainOptions{EnableOCR: false}, nil)
	service, err := NewService(1<<20, dir, chain, nil, nil)
	require.NoError(t, err)
	return service
}

func TestNewService_Errors(t *testing.T) {
	chain := extraction.NewDefaultChain(extraction.ChainOptions{}, nil)

	_, err := NewService(1024, t.TempDir(), nil, nil, nil)
	assert.ErrorContains(t, err, "extraction chain cannot be nil")

	_, err = NewService(1024, "", chain, nil, nil)
	assert.ErrorContains(t, err, "failed to create path validator")
}

func TestService_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	writeClaim(t, dir, "claims/acord.pdf", pdftest.FormPDF([]pdftest.FormField{
		{Name: "Text7", Value: "POL-77"},
		{Name: "NAME OF INSURED First Middle Last", Value: "Jane Doe"},
		{Name: "DATE OF LOSS", Value: "02/02/2024"},
		{Name: acordDescription, Value: "Tree branch fell on the roof"},
		{Name: "ESTIMATE AMOUNT_2", Value: "1200"},
	}))
	writeClaim(t, dir, "claims/typed.pdf", pdftest.TextPDF([][]string{{"Text7: POL-78", "VIN: 1HG"}}))
	writeClaim(t, dir, "broken.pdf", []byte("not a pdf"))
	writeClaim(t, dir, "notes.txt", []byte("not a pdf either"))
	writeClaim(t, dir, "claims/damaged-xref.pdf", pdftest.CorruptStartXRef(pdftest.FormPDF([]pdftest.FormField{
		{Name: "Text7", Value: "POL-1"},
	})))
	outside := writeClaim(t, t.TempDir(), "elsewhere.pdf", pdftest.TextPDF([][]string{{"x"}}))

	service := newTestService(t, dir)

	tests := []struct {
		name        string
		path        string
		route       string
		missing     []string
		expectError string
	}{
		{
			name:    "relative path to a filled form",
			path:    "claims/acord.pdf",
			route:   fnol.RouteFastTrack,
			missing: []string{},
		},
		{
			name:    "absolute path to a flat document",
			path:    filepath.Join(dir, "claims", "typed.pdf"),
			route:   fnol.RouteManualReview,
			missing: []string{"policyholder_name", "incident_date", "incident_description", "estimated_damage"},
		},
		{name: "outside the claims directory", path: outside, expectError: "security validation failed"},
		{name: "traversal", path: "../elsewhere.pdf", expectError: "security validation failed"},
		{
			name:    "unreadable pdf routes to manual review",
			path:    "broken.pdf",
			route:   fnol.RouteManualReview,
			missing: fnol.MandatoryFields,
		},
		{
			name:    "damaged xref still read by the form tier",
			path:    "claims/damaged-xref.pdf",
			route:   fnol.RouteManualReview,
			missing: []string{"policyholder_name", "incident_date", "incident_description", "estimated_damage"},
		},
		{name: "not a pdf", path: "notes.txt", expectError: "file validation failed"},
		{name: "missing", path: "claims/none.pdf", expectError: "file does not exist"},
		{name: "empty", path: "", expectError: "path cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.ProcessFile(context.Background(), ProcessFileRequest{Path: tt.path})
			if tt.expectError != "" {
				assert.ErrorContains(t, err, tt.expectError)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(result.Path))
			assert.Equal(t, tt.route, result.Result.Route)
			assert.Equal(t, tt.missing, result.Result.MissingFields)
		})
	}
}

func TestService_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	writeClaim(t, dir, "ok.pdf", pdftest.TextPDF([][]string{{"x"}}))
	service := newTestService(t, dir)

	result, err := service.ValidateFile(ValidateFileRequest{Path: "ok.pdf"})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, filepath.Join(dir, "ok.pdf"), result.Path)

	result, err = service.ValidateFile(ValidateFileRequest{Path: "missing.pdf"})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Message, "file does not exist")

	_, err = service.ValidateFile(ValidateFileRequest{Path: "/etc/passwd"})
	assert.ErrorContains(t, err, "security validation failed")
}

func TestService_FieldMap(t *testing.T) {
	service := newTestService(t, t.TempDir())

	result := service.FieldMap()

	assert.Equal(t, fnol.MandatoryFields, result.MandatoryFields)
	assert.Equal(t, "Check Box5", result.AMIndicator)
	assert.Equal(t, "Check Box6", result.PMIndicator)
	require.Len(t, result.Fields, 13)
	assert.Equal(t, fnol.FieldSpec{Name: "policy_number", Aliases: []string{"Text7"}}, result.Fields[0])

	result.MandatoryFields[0] = "changed"
	assert.Equal(t, "policy_number", fnol.MandatoryFields[0])
}

func TestService_FieldMapCustom(t *testing.T) {
	fm, err := fnol.ParseFieldMap([]byte("fields:\n  policy_number: [Policy No]\n"))
	require.NoError(t, err)

	chain := extraction.NewDefaultChain(extraction.ChainOptions{}, nil)
	service, err := NewService(1024, t.TempDir(), chain, fnol.NewMapper(fm), nil)
	require.NoError(t, err)

	assert.Equal(t, []fnol.FieldSpec{{Name: "policy_number", Aliases: []string{"Policy No"}}}, service.FieldMap().Fields)
}

func TestService_ServerInfo(t *testing.T) {
	dir := t.TempDir()
	writeClaim(t, dir, "a.pdf", pdftest.TextPDF([][]string{{"x"}}))
	writeClaim(t, dir, "b.pdf", pdftest.TextPDF([][]string{{"x"}}))
	service := newTestService(t, dir)

	info, err := service.ServerInfo("mcp-fnol-router", "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "mcp-fnol-router", info.ServerName)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, dir, info.ClaimsDirectory)
	assert.Equal(t, int64(1<<20), info.MaxFileSize)
	assert.Equal(t, []string{extraction.StrategyForms, extraction.StrategyText}, info.Strategies)
	assert.Len(t, info.Claims, 2)
	assert.Len(t, info.AvailableTools, 5)
	assert.Contains(t, info.UsageGuidance, "forms -> text")
	assert.Contains(t, info.UsageGuidance, "up to 1MB")
}
