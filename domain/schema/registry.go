package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/fbal23/BIO-RED-Validation-Portal/internal/errors"
)

//go:embed templates.yaml
var templatesYAML []byte

type registryDocument struct {
	Templates []TemplateSchema `yaml:"templates"`
}

// Registry is the immutable identifier → schema mapping, loaded once at
// process start.
type Registry struct {
	schemas map[string]TemplateSchema
	ids     []string
}

// Load parses the embedded template registry and validates it.
func Load() (*Registry, error) {
	return loadFrom(templatesYAML)
}

// MustLoad is Load for process startup paths where a broken embedded
// registry is unrecoverable.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(err)
	}
	return r
}

func loadFrom(data []byte) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse template registry")
	}
	if len(doc.Templates) == 0 {
		return nil, apperrors.ConfigInvalid("template registry is empty")
	}

	schemas := make(map[string]TemplateSchema, len(doc.Templates))
	ids := make([]string, 0, len(doc.Templates))
	for _, tpl := range doc.Templates {
		if err := validateSchema(tpl); err != nil {
			return nil, err
		}
		if _, dup := schemas[tpl.Identifier]; dup {
			return nil, apperrors.ConfigInvalid(fmt.Sprintf("duplicate template identifier %q", tpl.Identifier))
		}
		schemas[tpl.Identifier] = tpl
		ids = append(ids, tpl.Identifier)
	}

	// Sorted iteration keeps prefix matching deterministic.
	sort.Strings(ids)

	return &Registry{schemas: schemas, ids: ids}, nil
}

func validateSchema(tpl TemplateSchema) error {
	if tpl.Identifier == "" {
		return apperrors.ConfigInvalid("template with empty identifier")
	}
	if tpl.SheetName == "" {
		return apperrors.ConfigInvalid(fmt.Sprintf("template %q has no sheet name", tpl.Identifier))
	}
	seen := make(map[string]bool, len(tpl.RequiredFields))
	for _, field := range tpl.RequiredFields {
		if field == "" {
			return apperrors.ConfigInvalid(fmt.Sprintf("template %q has an empty required field", tpl.Identifier))
		}
		if seen[field] {
			return apperrors.ConfigInvalid(fmt.Sprintf("template %q lists required field %q twice", tpl.Identifier, field))
		}
		seen[field] = true
	}
	return nil
}

// Get looks up a schema by identifier.
func (r *Registry) Get(id string) (TemplateSchema, bool) {
	s, ok := r.schemas[id]
	return s, ok
}

// Identifiers returns all template identifiers in sorted order.
func (r *Registry) Identifiers() []string {
	return append([]string(nil), r.ids...)
}

// Identify maps a file name to its template schema by checking whether the
// name starts with each identifier's prefix token. First match in sorted
// identifier order wins.
//
// Known weak point: matching on the leading numeral alone means a file named
// "10_..." would match prefix "1". With nine templates this cannot collide;
// kept as-is rather than silently switching to full-token matching.
func (r *Registry) Identify(filename string) (TemplateSchema, error) {
	for _, id := range r.ids {
		s := r.schemas[id]
		if strings.HasPrefix(filename, s.Prefix()) {
			return s, nil
		}
	}
	return TemplateSchema{}, apperrors.UnknownTemplate(filename)
}
