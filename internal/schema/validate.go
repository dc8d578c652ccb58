// Package schema provides JSON schema validation for fixture option files.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/plugintester/schema"
)

const fixtureOptionsSchemaName = "fixture-options.schema.json"

var (
	fixtureOptionsSchema *jsonschema.Schema
	compileOnce          sync.Once
	compileErr           error
)

// compileSchemas compiles all embedded schemas once.
func compileSchemas() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		data, err := schemafs.FS.ReadFile(fixtureOptionsSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("read fixture options schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal fixture options schema: %w", err)
			return
		}

		if err := compiler.AddResource(fixtureOptionsSchemaName, doc); err != nil {
			compileErr = fmt.Errorf("add fixture options schema resource: %w", err)
			return
		}

		fixtureOptionsSchema, err = compiler.Compile(fixtureOptionsSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile fixture options schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateFixtureOptions validates JSON data against the fixture options schema.
func ValidateFixtureOptions(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return ValidateFixtureOptionsValue(v)
}

// ValidateFixtureOptionsValue validates an already decoded document. The
// value must use JSON types (map[string]any, []any, float64, string, bool).
func ValidateFixtureOptionsValue(v any) error {
	if err := compileSchemas(); err != nil {
		return err
	}

	if err := fixtureOptionsSchema.Validate(v); err != nil {
		return fmt.Errorf("fixture options validation failed: %w", err)
	}

	return nil
}
