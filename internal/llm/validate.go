package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds schemas by Name. Names must therefore be unique per shape.
var compiled sync.Map // string -> *jsonschema.Schema

// validateResponse checks raw against schema and returns
// *ErrInvalidResponse on any mismatch. A nil schema accepts everything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}

	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %w", schema.Name, err)}
	}
	return nil
}

// CompileSchema reports whether s is a valid JSON Schema. Packages that
// declare schemas call it from their tests.
func CompileSchema(s *Schema) error {
	_, err := compileSchema(s)
	return err
}

func compileSchema(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}

	// Round-trip through encoding/json so Go literals ([]string, int)
	// become the generic JSON values the compiler expects.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", s.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", s.Name, err)
	}

	url := "mem://misparia/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", s.Name, err)
	}

	compiled.Store(s.Name, sch)
	return sch, nil
}
