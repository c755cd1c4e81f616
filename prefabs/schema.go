package prefabs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*jsonschema.Schema{}
)

var notFound = map[string]error{
	"npc":   ErrUnknownArchetype,
	"item":  ErrUnknownItem,
	"level": ErrUnknownLevel,
}

// Schema compiles the embedded schema/<name>.json once and caches it.
func Schema(name string) (*jsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	path := "schema/" + name + ".json"
	data, err := SchemaFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: read schema %s: %w", name, err)
	}
	s, err := jsonschema.CompileString(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("prefabs: compile schema %s: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// Validate checks a YAML document against the named schema.
func Validate(schemaName string, data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	// The validator wants JSON-shaped values, so round-trip through JSON.
	js, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	var doc any
	if err := json.Unmarshal(js, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}

	schema, err := Schema(schemaName)
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSpec, err)
	}
	return nil
}

func loadValidated[T any](path, schemaName string) (T, error) {
	var zero T
	data, err := Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if sentinel, ok := notFound[schemaName]; ok {
				err = sentinel
			}
		}
		return zero, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	if err := Validate(schemaName, data); err != nil {
		return zero, fmt.Errorf("prefabs: validate %s: %w", path, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	return spec, nil
}
