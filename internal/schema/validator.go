package schema

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrInvalidDocument is returned when a document does not match its schema
var ErrInvalidDocument = errors.New("document does not match schema")

// Validator validates data against a JSON Schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a validator from schema bytes.
func NewValidator(schemaData []byte) (*Validator, error) {
	RegisterCustomFormats()
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, errors.Wrap(err, "compile schema")
	}
	return &Validator{schema: s}, nil
}

// Validate validates a decoded document against the schema.
func (v *Validator) Validate(data map[string]interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return errors.Wrap(err, "validation error")
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return errors.Wrap(ErrInvalidDocument, strings.Join(problems, "; "))
	}
	return nil
}

// ValidateBytes validates raw JSON bytes.
func (v *Validator) ValidateBytes(data []byte) error {
	var obj map[string]interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "invalid JSON")
	}
	return v.Validate(obj)
}

// ValidateYAML validates raw YAML bytes.
func (v *Validator) ValidateYAML(data []byte) error {
	var obj map[string]interface{}
	if err := yaml.Unmarshal(data, &obj); err != nil {
		return errors.Wrap(err, "invalid YAML")
	}
	return v.Validate(obj)
}
