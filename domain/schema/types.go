package schema

import "strings"

// EnhancementTargets holds the minimum counts a two-tab template tracks:
// how many pre-seeded rows partners enriched, how deeply, and how many new
// rows they contributed.
type EnhancementTargets struct {
	MinEnhancedOrgs int `yaml:"min_enhanced_orgs" json:"min_enhanced_orgs"`
	MinFieldsPerOrg int `yaml:"min_fields_per_org" json:"min_fields_per_org"`
	MinNewOrgs      int `yaml:"min_new_orgs" json:"min_new_orgs"`
}

// TemplateSchema describes one data-collection template: which columns a
// submission must carry, which dropdown values are allowed, and where in
// the workbook the data lives. Schemas are immutable after registry load.
type TemplateSchema struct {
	Identifier         string              `yaml:"identifier" json:"identifier"`
	RequiredFields     []string            `yaml:"required_fields" json:"required_fields"`
	OptionalFields     []string            `yaml:"optional_fields" json:"optional_fields"`
	Dropdowns          map[string][]string `yaml:"dropdowns" json:"dropdowns"`
	SheetName          string              `yaml:"sheet_name" json:"sheet_name"`
	EnhancementTargets *EnhancementTargets `yaml:"enhancement_targets" json:"enhancement_targets,omitempty"`
}

// HasEnhancementTargets reports whether the enhancement-depth check applies
// to this template.
func (s TemplateSchema) HasEnhancementTargets() bool {
	return s.EnhancementTargets != nil
}

// Prefix returns the token before the first underscore of the identifier,
// used for filename matching (e.g. "3" for "3_Value_Chain_Mapping").
func (s TemplateSchema) Prefix() string {
	if i := strings.Index(s.Identifier, "_"); i >= 0 {
		return s.Identifier[:i]
	}
	return s.Identifier
}

// AllowedDropdownValues returns the allowed set for a dropdown field, or
// false when the field has no dropdown constraint.
func (s TemplateSchema) AllowedDropdownValues(field string) ([]string, bool) {
	values, ok := s.Dropdowns[field]
	return values, ok
}
