package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed decider_schema.json
var schemaBytes []byte

var (
	schema     *gojsonschema.Schema
	schemaOnce sync.Once
	schemaErr  error
)

// loadSchema compiles the embedded schema once.
func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		if len(schemaBytes) == 0 {
			schemaErr = fmt.Errorf("embedded schema decider_schema.json is empty")
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaBytes))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile embedded schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidateJSON checks a JSON config document against the embedded schema.
func ValidateJSON(doc []byte) error {
	return validate(gojsonschema.NewBytesLoader(doc))
}

// ValidateYAML checks a YAML config document against the embedded schema.
// An empty document is valid.
func ValidateYAML(doc []byte) error {
	var data interface{}
	if err := yaml.Unmarshal(doc, &data); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if data == nil {
		return nil
	}
	return validate(gojsonschema.NewGoLoader(data))
}

func validate(doc gojsonschema.JSONLoader) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}
	result, err := s.Validate(doc)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var b strings.Builder
	b.WriteString("config failed schema validation:")
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "(root)" || field == "" {
			field = desc.Context().String()
		}
		fmt.Fprintf(&b, "\n  - %s: %s", field, desc.Description())
	}
	return fmt.Errorf("%s", b.String())
}
