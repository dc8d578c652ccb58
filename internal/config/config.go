package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/plugintester/internal/errors"
	"github.com/AndreyAkinshin/plugintester/internal/schema"
)

// FindOptionsFile returns the path of the options file in dir, or "" when
// there is none. More than one options file is a configuration error.
func FindOptionsFile(dir string) (string, error) {
	var found []string
	for _, name := range OptionsFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("failed to stat options file: %w", err)
		}
		if !info.IsDir() {
			found = append(found, path)
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", &errors.HarnessError{
			Kind:    errors.KindConfig,
			Message: fmt.Sprintf("%v: %s", errors.ErrMultipleOptionsFiles, strings.Join(found, ", ")),
			Cause:   errors.ErrMultipleOptionsFiles,
		}
	}
}

// Load reads, decodes, and schema-validates an options file. The returned
// document uses JSON value types regardless of the file format. Unknown keys
// are reported as warnings.
func Load(path string) (map[string]any, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Configf("failed to read options file %s: %v", path, err)
	}

	doc, err := decode(path, data)
	if err != nil {
		return nil, nil, errors.Configf("failed to parse options file %s: %v", path, err)
	}

	if err := schema.ValidateFixtureOptionsValue(doc); err != nil {
		return nil, nil, errors.Configf("invalid options file %s: %v", path, err)
	}

	m, ok := doc.(map[string]any)
	if !ok {
		return nil, nil, errors.Configf("options file %s must contain an object", path)
	}

	return m, detectUnknownFields(m), nil
}

// decode parses data according to the file extension of path and converts
// the result to JSON value types.
func decode(path string, data []byte) (any, error) {
	var raw any
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		if raw == nil {
			raw = map[string]any{}
		}
	case ".toml":
		var m map[string]any
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, err
		}
		raw = m
	default:
		return nil, fmt.Errorf("unsupported options file extension %q", filepath.Ext(path))
	}
	return toJSONValue(raw)
}

// toJSONValue round-trips v through encoding/json so that numbers become
// float64 and maps become map[string]any.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode converts a merged options document into FixtureOptions, applies
// defaults, and validates the result.
func Decode(doc map[string]any) (*FixtureOptions, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Configf("failed to encode fixture options: %v", err)
	}

	var opts FixtureOptions
	if err := json.Unmarshal(data, &opts); err != nil {
		return nil, errors.Configf("failed to decode fixture options: %v", err)
	}

	applyDefaults(&opts)

	if err := Validate(&opts); err != nil {
		return nil, &errors.HarnessError{
			Kind:    errors.KindConfig,
			Message: fmt.Sprintf("invalid fixture options: %v", err),
			Cause:   err,
		}
	}
	return &opts, nil
}

// Inheritable returns a copy of doc without the keys that apply only to the
// directory that declared them.
func Inheritable(doc map[string]any) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	for _, k := range nonInheritedKeys {
		delete(out, k)
	}
	return out
}
