package fnol

import (
	"sort"
	"strings"
)

// RawFieldSet maps a source label, as captured from the document, to its raw value
type RawFieldSet map[string]string

// CanonicalFieldSet maps canonical field names to resolved values
type CanonicalFieldSet map[string]string

// checkedValues are the raw checkbox states treated as ticked
var checkedValues = map[string]bool{
	"/yes": true,
	"yes":  true,
	"on":   true,
	"true": true,
}

// Mapper projects raw label/value pairs onto the canonical vocabulary
type Mapper struct {
	fieldMap *FieldMap
}

// NewMapper creates a mapper bound to fieldMap; nil selects DefaultFieldMap
func NewMapper(fieldMap *FieldMap) *Mapper {
	if fieldMap == nil {
		fieldMap = DefaultFieldMap()
	}
	return &Mapper{fieldMap: fieldMap}
}

// FieldMap returns the map the mapper was built with
func (m *Mapper) FieldMap() *FieldMap {
	return m.fieldMap
}

// Map resolves every canonical field from raw. Fields with no non-empty match
// are left out of the result entirely.
func (m *Mapper) Map(raw RawFieldSet) CanonicalFieldSet {
	fields := make(CanonicalFieldSet)
	labels := sortedLabels(raw)

	for _, spec := range m.fieldMap.fields {
		if value, ok := matchAliases(spec.Aliases, labels, raw); ok {
			fields[spec.Name] = value
		}
	}

	m.applyTimeOfDay(fields, raw)
	applyDescriptionFallback(fields)

	return fields
}

// matchAliases returns the first non-empty value whose label equals an alias,
// trying aliases in order
func matchAliases(aliases, labels []string, raw RawFieldSet) (string, bool) {
	for _, alias := range aliases {
		for _, label := range labels {
			if !strings.EqualFold(alias, label) {
				continue
			}
			if value := raw[label]; strings.TrimSpace(value) != "" {
				return value, true
			}
		}
	}
	return "", false
}

func (m *Mapper) applyTimeOfDay(fields CanonicalFieldSet, raw RawFieldSet) {
	timeValue := strings.TrimSpace(fields[FieldIncidentTime])
	if timeValue == "" {
		return
	}

	switch {
	case IsChecked(raw[m.fieldMap.amIndicator]):
		fields[FieldIncidentTime] = timeValue + " AM"
	case IsChecked(raw[m.fieldMap.pmIndicator]):
		fields[FieldIncidentTime] = timeValue + " PM"
	}
}

func applyDescriptionFallback(fields CanonicalFieldSet) {
	if strings.TrimSpace(fields[FieldIncidentDescription]) != "" {
		return
	}
	if damage := fields[FieldDamageDescription]; strings.TrimSpace(damage) != "" {
		fields[FieldIncidentDescription] = damage
	}
}

// IsChecked reports whether a raw checkbox value means "ticked"
func IsChecked(value string) bool {
	return checkedValues[strings.ToLower(strings.TrimSpace(value))]
}

// sortedLabels gives map iteration a stable order so repeated runs agree
func sortedLabels(raw RawFieldSet) []string {
	labels := make([]string, 0, len(raw))
	for label := range raw {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
