package structure

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of the structure file.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.FieldNameTag = "toml"
	r.AllowAdditionalProperties = false
	schema := r.Reflect(&Definition{})

	schema.ID = "https://github.com/bnema/panectl/structure.schema.json"
	schema.Title = "panectl structure"
	schema.Description = "Pane tree resolved by panectl route paths"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return data, nil
}
