package config

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/lmacfy-config.v1.schema.json
var schemaFS embed.FS

// validateSchema checks the raw YAML document against the JSON Schema.
// The YAML is decoded to plain Go values first; gojsonschema only speaks
// JSON-shaped data.
func validateSchema(data []byte) error {
	var document interface{}
	if err := yaml.Unmarshal(data, &document); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if document == nil {
		// an empty file is a valid, all-defaults config
		return nil
	}

	schemaBytes, err := schemaFS.ReadFile("schemas/lmacfy-config.v1.schema.json")
	if err != nil {
		return fmt.Errorf("failed to load JSON schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	for _, desc := range result.Errors() {
		fmt.Fprintf(&sb, "\n  - %s", desc.String())
	}
	return fmt.Errorf("schema violations:%s", sb.String())
}
