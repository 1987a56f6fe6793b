package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/iforgor/internal/utils"
)

// schemaURL names the embedded schema resource inside the compiler.
const schemaURL = "iforgor://todos.schema.json"

// documentSchema describes the on-disk task document.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "iforgor tasks",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "description", "done"],
    "properties": {
      "name": {"type": "string"},
      "description": {"type": "string"},
      "done": {"type": "boolean"}
    }
  }
}`

// ErrInvalidDocument is returned when the task document does not match the
// expected structure.
var ErrInvalidDocument = errors.New("invalid task document")

// ValidationError represents a schema violation with its location.
type ValidationError struct {
	Path string // dot/bracket path to the offending value, "" for the root
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
}

// validateDocument checks raw JSON against the document schema. Syntax errors
// are returned as is; structural problems come back as ErrInvalidDocument
// wrapping the first *ValidationError found.
func validateDocument(schema *jsonschema.Schema, data []byte) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	err := schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	leaf := firstLeaf(ve)
	return fmt.Errorf("%w: %w", ErrInvalidDocument, &ValidationError{
		Path: utils.JSONPointerToPath(leaf.InstanceLocation),
		Err:  errors.New(leaf.Message),
	})
}

// firstLeaf descends to the most specific cause of a schema error.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
