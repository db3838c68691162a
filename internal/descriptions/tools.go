package descriptions

import "sort"

// Tool names exposed by the MCP server
const (
	ToolProcessFile  = "fnol_process_file"
	ToolValidateFile = "fnol_validate_file"
	ToolListClaims   = "fnol_list_claims"
	ToolFieldMap     = "fnol_field_map"
	ToolServerInfo   = "fnol_server_info"
)

const (
	ProcessFileDescription = `Extract the claim fields from a First Notice of Loss PDF and recommend how to route it.

**When to use:** A new loss notice arrived and needs triage: which fields are present, which mandatory ones are missing, and which queue it belongs in.

**How it works:** Reads interactive form fields first, falls back to the document text, then to OCR of the rendered pages for scanned forms. Labels are mapped to canonical claim fields before the routing rules run.

**Result:** JSON with extractedFields, missingFields, recommendedRoute and reasoning. Routes are "Manual review", "Investigation Flag", "Fast-track" and "Standard Processing".

**Examples:**
• Triage a filled ACORD form: "Route claims/acord-2024-0113.pdf"
• Check a scanned notice: "What is missing from scans/fnol-smith.pdf?"

**Best practices:** A "Manual review" route lists the missing mandatory fields in the reasoning; use fnol_validate_file first when the file comes from an untrusted upload.`

	ValidateFileDescription = `Check that a claim document is a readable PDF within the size limit before processing it.

**When to use:** Before fnol_process_file in batch or upload workflows.

**Result:** Whether the file is valid, its page count and size, and how many interactive form fields it carries. Zero form fields means the text or OCR fallback will be used.

**Examples:**
• "Is claims/upload-77.pdf a usable PDF?"
• "Does scans/fnol-smith.pdf have fillable fields?"`

	ListClaimsDescription = `List the claim PDFs available in the claims directory.

**When to use:** To discover documents before processing them.

**Parameters:** query (optional) keeps only files whose name contains every word of the query, case-insensitively. limit (optional) caps the number of results.

**Examples:**
• "List all claims"
• "Find claims for acord 2024"`

	FieldMapDescription = `Show the canonical claim fields, the source labels mapped onto each, and the mandatory fields used for routing.

**When to use:** To understand why a field was or was not extracted, or to check a custom field map loaded with --fieldmap.`

	ServerInfoDescription = `Get server information: version, claims directory, extraction strategies in order, available claim documents and usage guidance.

**When to use:** At the start of a session to learn what the server can do.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolProcessFile:  ProcessFileDescription,
	ToolValidateFile: ValidateFileDescription,
	ToolListClaims:   ListClaimsDescription,
	ToolFieldMap:     FieldMapDescription,
	ToolServerInfo:   ServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns all tool names, sorted
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
