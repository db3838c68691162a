package fnol

import "strings"

// FindMissing returns the mandatory fields that are absent or blank, in MandatoryFields order
func FindMissing(fields CanonicalFieldSet) []string {
	missing := make([]string, 0, len(MandatoryFields))
	for _, name := range MandatoryFields {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
