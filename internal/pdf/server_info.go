package pdf

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-fnol-router/internal/descriptions"
)

// serverInfoClaimsLimit keeps the server info listing short; fnol_list_claims has the rest
const serverInfoClaimsLimit = 10

// ServerInfo describes the server, its extraction setup and the claims on hand
func (s *Service) ServerInfo(serverName, version string) (*ServerInfoResult, error) {
	claims, err := s.ListClaims(ListClaimsRequest{Limit: serverInfoClaimsLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	return &ServerInfoResult{
		ServerName:      serverName,
		Version:         version,
		ClaimsDirectory: s.Directory(),
		MaxFileSize:     s.maxFileSize,
		Strategies:      s.Strategies(),
		Claims:          claims.Files,
		AvailableTools:  availableTools(),
		UsageGuidance:   s.usageGuidance(),
	}, nil
}

func availableTools() []ToolInfo {
	const pathParam = "path (required): path to the PDF, absolute or relative to the claims directory"

	return []ToolInfo{
		{
			Name:        descriptions.ToolProcessFile,
			Description: descriptions.GetToolDescription(descriptions.ToolProcessFile),
			Usage:       "Extract fields from an FNOL PDF and get the recommended route.",
			Parameters:  pathParam,
		},
		{
			Name:        descriptions.ToolValidateFile,
			Description: descriptions.GetToolDescription(descriptions.ToolValidateFile),
			Usage:       "Check that a file is a readable PDF before processing it.",
			Parameters:  pathParam,
		},
		{
			Name:        descriptions.ToolListClaims,
			Description: descriptions.GetToolDescription(descriptions.ToolListClaims),
			Usage:       "Find claim PDFs in the claims directory.",
			Parameters:  "query (optional): words the file name must contain, limit (optional): maximum results",
		},
		{
			Name:        descriptions.ToolFieldMap,
			Description: descriptions.GetToolDescription(descriptions.ToolFieldMap),
			Usage:       "Inspect the canonical fields and the labels mapped onto them.",
			Parameters:  "No parameters required",
		},
		{
			Name:        descriptions.ToolServerInfo,
			Description: descriptions.GetToolDescription(descriptions.ToolServerInfo),
			Usage:       "Get server capabilities and the claims directory contents.",
			Parameters:  "No parameters required",
		},
	}
}

func (s *Service) usageGuidance() string {
	maxFileSizeMB := s.maxFileSize / (1024 * 1024)

	return fmt.Sprintf(`FNOL Router Usage Guide:

1. FIND CLAIMS:
   - Use 'fnol_list_claims' to find claim PDFs in the claims directory

2. VALIDATE FILES:
   - Use 'fnol_validate_file' to check a file is readable and see whether it has form fields

3. ROUTE CLAIMS:
   - Use 'fnol_process_file' to extract the fields and get the recommended route
   - Extraction order: %s

ROUTING RULES (first match wins):
   - Any mandatory field missing -> Manual review
   - Description mentions fraud, inconsistent or staged -> Investigation Flag
   - Estimated damage below 25,000 -> Fast-track
   - Otherwise -> Standard Processing

IMPORTANT NOTES:
- Paths must stay inside the claims directory
- The server can handle files up to %dMB
- Use 'fnol_field_map' to see which source labels are recognised`,
		strings.Join(s.Strategies(), " -> "), maxFileSizeMB)
}
