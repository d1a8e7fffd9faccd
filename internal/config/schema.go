package config

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

const schemaID = "https://github.com/1broseidon/deskfolio/config.schema.json"

// Schema returns the JSON Schema describing config.yaml.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.FieldNameTag = "yaml"
	r.DoNotReference = true
	r.RequiredFromJSONSchemaTags = true
	schema := r.Reflect(&Config{})
	schema.ID = schemaID
	schema.Title = "deskfolio configuration"
	schema.Description = "Configuration file for the deskfolio daemon and terminal desktop"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
