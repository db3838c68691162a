package pdf

import "github.com/a3tai/mcp-fnol-router/internal/fnol"

// FileInfo represents a claim document found in the claims directory
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Request Types

// ProcessFileRequest asks for one claim document to be extracted and routed
type ProcessFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileRequest represents a request to validate a claim document
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ListClaimsRequest lists claim documents, optionally filtered by a name query
type ListClaimsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// Response Types

// ProcessFileResult is the routed claim together with the document it came from
type ProcessFileResult struct {
	Path   string       `json:"path"`
	Result *fnol.Result `json:"result"`
}

// ValidateFileResult represents the result of a claim document validation
type ValidateFileResult struct {
	Valid      bool   `json:"valid"`
	Path       string `json:"path"`
	Message    string `json:"message,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Size       int64  `json:"size,omitempty"`
	FormFields int    `json:"form_fields"` // 0 for flat or scanned documents
}

// ListClaimsResult holds the claim documents found in the claims directory
type ListClaimsResult struct {
	Directory  string     `json:"directory"`
	Query      string     `json:"query,omitempty"`
	Files      []FileInfo `json:"files"`
	TotalCount int        `json:"total_count"`
}

// FieldMapResult describes the canonical vocabulary in effect
type FieldMapResult struct {
	Fields          []fnol.FieldSpec `json:"fields"`
	MandatoryFields []string         `json:"mandatory_fields"`
	AMIndicator     string           `json:"am_indicator"`
	PMIndicator     string           `json:"pm_indicator"`
}

// ToolInfo describes one MCP tool for the server info listing
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Usage       string `json:"usage"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult represents the server information response
type ServerInfoResult struct {
	ServerName      string     `json:"server_name"`
	Version         string     `json:"version"`
	ClaimsDirectory string     `json:"claims_directory"`
	MaxFileSize     int64      `json:"max_file_size"`
	Strategies      []string   `json:"strategies"`
	Claims          []FileInfo `json:"claims"`
	AvailableTools  []ToolInfo `json:"available_tools"`
	UsageGuidance   string     `json:"usage_guidance"`
}
