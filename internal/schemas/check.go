// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package schemas checks a composed document against a JSON Schema contract
// supplied by the downstream renderer.
package schemas

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-builder/pkg/types"
)

// LoadError reports a schema file that could not be read or compiled.
type LoadError struct {
	Path  string
	Cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading schema %s: %v", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled contract.
type Schema struct {
	path   string
	schema *gojsonschema.Schema
}

// Load reads and compiles a schema. Files ending in .yaml or .yml are parsed
// as YAML; anything else as JSON.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &types.NotFoundError{What: "schema", Path: path}
		}
		return nil, &LoadError{Path: path, Cause: err}
	}

	var loader gojsonschema.JSONLoader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, &LoadError{Path: path, Cause: err}
		}
		loader = gojsonschema.NewGoLoader(v)
	default:
		loader = gojsonschema.NewBytesLoader(data)
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, &LoadError{Path: path, Cause: err}
	}
	return &Schema{path: path, schema: compiled}, nil
}

// Path returns the file the schema was loaded from.
func (s *Schema) Path() string {
	return s.path
}

// Check validates doc and returns one "field: description" message per
// violation. A nil slice means the document satisfies the schema.
func (s *Schema) Check(doc *types.Document) ([]string, error) {
	var v any
	if err := doc.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(v))
	if err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msgs = append(msgs, field+": "+desc.Description())
	}
	return msgs, nil
}
