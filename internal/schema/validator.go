// Package schema validates persisted documents against JSON Schemas.
package schema

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/KirkDiggler/rpg-perception/internal/errors"
)

//go:embed fog_exploration.schema.json
var fogExplorationSchema []byte

// Validator validates data against a JSON Schema
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles a validator from schema bytes
func NewValidator(schemaData []byte) (*Validator, error) {
	registerFormats()
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInternal, "failed to compile schema")
	}
	return &Validator{schema: compiled}, nil
}

// NewFogExplorationValidator returns the validator for FogExploration documents
func NewFogExplorationValidator() (*Validator, error) {
	return NewValidator(fogExplorationSchema)
}

// Validate validates a decoded value against the schema
func (v *Validator) Validate(data interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return errors.Wrap(err, "validation error")
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.InvalidArgumentf("document failed validation: %s", strings.Join(msgs, "; ")).
			WithMeta("violations", msgs)
	}
	return nil
}

// ValidateBytes validates raw JSON bytes
func (v *Validator) ValidateBytes(data []byte) error {
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "invalid JSON")
	}
	return v.Validate(obj)
}
