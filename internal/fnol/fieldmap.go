package fnol

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Canonical field names referenced by the mapping and routing rules
const (
	FieldPolicyNumber        = "policy_number"
	FieldPolicyholderName    = "policyholder_name"
	FieldIncidentDate        = "incident_date"
	FieldIncidentTime        = "incident_time"
	FieldIncidentDescription = "incident_description"
	FieldDamageDescription   = "damage_description"
	FieldEstimatedDamage     = "estimated_damage"
)

// Raw labels of the ACORD time-of-day checkboxes
const (
	DefaultAMIndicator = "Check Box5"
	DefaultPMIndicator = "Check Box6"
)

// MandatoryFields lists the canonical fields required for automatic routing, in report order
var MandatoryFields = []string{
	FieldPolicyNumber,
	FieldPolicyholderName,
	FieldIncidentDate,
	FieldIncidentDescription,
	FieldEstimatedDamage,
}

// FieldSpec binds a canonical field name to the source labels accepted for it
type FieldSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
}

// FieldMap is the ordered canonical vocabulary used by the Mapper.
// A FieldMap is never modified after construction; share it freely.
type FieldMap struct {
	fields      []FieldSpec
	amIndicator string
	pmIndicator string
}

// NewFieldMap builds a FieldMap from specs in declaration order.
// Aliases are copied so later changes to the input do not leak in.
func NewFieldMap(specs []FieldSpec, amIndicator, pmIndicator string) (*FieldMap, error) {
	seen := make(map[string]bool, len(specs))
	fields := make([]FieldSpec, 0, len(specs))

	for i, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("field %d has no name", i)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("duplicate canonical field: %s", spec.Name)
		}
		if len(spec.Aliases) == 0 {
			return nil, fmt.Errorf("field %s has no aliases", spec.Name)
		}
		seen[spec.Name] = true

		aliases := make([]string, len(spec.Aliases))
		copy(aliases, spec.Aliases)
		fields = append(fields, FieldSpec{Name: spec.Name, Aliases: aliases})
	}

	if amIndicator == "" {
		amIndicator = DefaultAMIndicator
	}
	if pmIndicator == "" {
		pmIndicator = DefaultPMIndicator
	}

	return &FieldMap{
		fields:      fields,
		amIndicator: amIndicator,
		pmIndicator: pmIndicator,
	}, nil
}

// DefaultFieldMap returns the built-in map for the ACORD automobile loss notice
func DefaultFieldMap() *FieldMap {
	fm, err := NewFieldMap([]FieldSpec{
		{Name: FieldPolicyNumber, Aliases: []string{"Text7"}},
		{Name: FieldPolicyholderName, Aliases: []string{"NAME OF INSURED First Middle Last"}},
		{Name: FieldIncidentDate, Aliases: []string{"DATE OF LOSS", "TEXT3"}},
		{Name: FieldIncidentTime, Aliases: []string{"TEXT4"}},
		{Name: "incident_location_detail", Aliases: []string{"STREET LOCATION OF LOSS"}},
		{Name: FieldIncidentDescription, Aliases: []string{
			"DESCRIPTION OF ACCIDENT ACORD 101 Additional Remarks Schedule may be attached if more space is required",
		}},
		{Name: "claimant", Aliases: []string{"NAME OF INSURED First Middle Last"}},
		{Name: "third_partie", Aliases: []string{"TEXT48"}},
		{Name: "third_partie_contact", Aliases: []string{"CELL HOME BUS PRIMARY_6"}},
		{Name: "third_partie_email", Aliases: []string{"PRIMARY EMAIL ADDRESS_6"}},
		{Name: "Asset Type", Aliases: []string{"NON  VEHICLE"}},
		{Name: "Asset ID", Aliases: []string{"VIN"}},
		{Name: FieldEstimatedDamage, Aliases: []string{"ESTIMATE AMOUNT_2"}},
	}, DefaultAMIndicator, DefaultPMIndicator)
	if err != nil {
		panic(fmt.Sprintf("fnol: invalid built-in field map: %v", err))
	}
	return fm
}

// Fields returns a copy of the field specs in declaration order
func (m *FieldMap) Fields() []FieldSpec {
	out := make([]FieldSpec, len(m.fields))
	for i, f := range m.fields {
		aliases := make([]string, len(f.Aliases))
		copy(aliases, f.Aliases)
		out[i] = FieldSpec{Name: f.Name, Aliases: aliases}
	}
	return out
}

// Names returns the canonical vocabulary in declaration order
func (m *FieldMap) Names() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Has reports whether name belongs to the canonical vocabulary
func (m *FieldMap) Has(name string) bool {
	for _, f := range m.fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// AMIndicator returns the raw label of the AM checkbox
func (m *FieldMap) AMIndicator() string { return m.amIndicator }

// PMIndicator returns the raw label of the PM checkbox
func (m *FieldMap) PMIndicator() string { return m.pmIndicator }

// fieldMapFile is the YAML layout accepted by LoadFieldMap:
//
//	indicators:
//	  am: Check Box5
//	  pm: Check Box6
//	fields:
//	  policy_number: [Text7]
//	  incident_date: [DATE OF LOSS, TEXT3]
//
// The order of keys under "fields" is the mapping order.
type fieldMapFile struct {
	Indicators struct {
		AM string `yaml:"am"`
		PM string `yaml:"pm"`
	} `yaml:"indicators"`
	Fields yaml.Node `yaml:"fields"`
}

// LoadFieldMap reads a FieldMap from a YAML file
func LoadFieldMap(path string) (*FieldMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read field map: %w", err)
	}
	return ParseFieldMap(data)
}

// ParseFieldMap decodes the YAML field map layout documented on fieldMapFile
func ParseFieldMap(data []byte) (*FieldMap, error) {
	var file fieldMapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse field map: %w", err)
	}

	if file.Fields.Kind != yaml.MappingNode {
		return nil, errors.New("field map must contain a 'fields' mapping")
	}

	// yaml.Node keeps the document order; decoding into a Go map would lose it
	content := file.Fields.Content
	specs := make([]FieldSpec, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		keyNode, valueNode := content[i], content[i+1]

		var aliases []string
		switch valueNode.Kind {
		case yaml.SequenceNode:
			if err := valueNode.Decode(&aliases); err != nil {
				return nil, fmt.Errorf("field %s: %w", keyNode.Value, err)
			}
		case yaml.ScalarNode:
			aliases = []string{valueNode.Value}
		default:
			return nil, fmt.Errorf("field %s: aliases must be a string or a list (line %d)",
				keyNode.Value, valueNode.Line)
		}

		specs = append(specs, FieldSpec{Name: keyNode.Value, Aliases: aliases})
	}

	return NewFieldMap(specs, file.Indicators.AM, file.Indicators.PM)
}
