package schemas

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
)

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	itemsKey                = "items"
)

// Reflect builds an inline JSON Schema for T that strict structured-output endpoints
// accept: no $ref, no extra properties, every property required.
func Reflect[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	raw, err := reflector.Reflect(v).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	var schema map[string]any
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	delete(schema, "$schema")
	delete(schema, "$id")

	EnsureStrict(schema)
	return schema, nil
}

// EnsureStrict walks a schema and closes every object: additionalProperties is false
// and all declared properties are listed as required, in sorted order.
func EnsureStrict(schema map[string]any) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]any); ok {
			names := make([]string, 0, len(properties))
			for name := range properties {
				names = append(names, name)
			}
			sort.Strings(names)
			if len(names) > 0 {
				schema[requiredKey] = names
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]any); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]any); ok {
				EnsureStrict(propMap)
			}
		}
	}

	if items, ok := schema[itemsKey].(map[string]any); ok {
		EnsureStrict(items)
	}

	if additional, ok := schema[additionalPropertiesKey].(map[string]any); ok {
		EnsureStrict(additional)
	}
}
