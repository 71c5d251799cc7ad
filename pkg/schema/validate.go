// Package schema validates configuration documents against JSON schemas.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ValidationError describes a schema violation, pointing at the offending
// document location.
type ValidationError struct {
	Path   string // JSONPath-style location of the violation.
	Detail string // Detailed error message.
}

func (e *ValidationError) Error() string {
	if e.Path != "" && e.Path != "$" {
		return fmt.Sprintf("error at %s: %s", e.Path, e.Detail)
	}

	return "validation error: " + e.Detail
}

// Validator validates data against a JSON schema.
// Uses [github.com/santhosh-tekuri/jsonschema/v6].
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the provided JSON schema document. The name is used
// as the schema resource identifier in error messages.
func NewValidator(name string, schemaData []byte) (*Validator, error) {
	var schema any
	if err := json.Unmarshal(schemaData, &schema); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schema); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}

	jss, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Validator{schema: jss}, nil
}

// MustNewValidator is [NewValidator], panicking on error. Intended for
// compiled-in schemas.
func MustNewValidator(name string, schemaData []byte) *Validator {
	v, err := NewValidator(name, schemaData)
	if err != nil {
		panic(err)
	}

	return v
}

// Validate checks data against the schema and returns a [ValidationError]
// describing the most specific violation.
func (v *Validator) Validate(data any) error {
	err := v.schema.Validate(data)
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("schema validation: %w", err)
	}

	return &ValidationError{
		Path:   instancePath(mostSpecificLocation(validationErr)),
		Detail: validationErr.Error(),
	}
}

// mostSpecificLocation walks the error's causes and returns the longest
// instance location, which usually names the field a user needs to fix.
func mostSpecificLocation(err *jsonschema.ValidationError) []string {
	longest := err.InstanceLocation

	for _, cause := range err.Causes {
		if loc := mostSpecificLocation(cause); len(loc) > len(longest) {
			longest = loc
		}
	}

	return longest
}

func instancePath(location []string) string {
	if len(location) == 0 {
		return "$"
	}

	return "$." + strings.Join(location, ".")
}
