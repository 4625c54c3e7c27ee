package assist

import (
	"sync"

	"github.com/toc-cloud/toc-cloud/internal/schemas"
)

// SchemaName is the structured-output schema name sent to the service.
const SchemaName = "ai_assist"

type schemaComment struct {
	Severity string `json:"severity" jsonschema:"enum=warn,enum=crit"`
	Text     string `json:"text"`
}

type schemaComments struct {
	Line1 []schemaComment `json:"1"`
	Line2 []schemaComment `json:"2"`
	Line3 []schemaComment `json:"3"`
	Line4 []schemaComment `json:"4"`
}

type schemaEnvelope struct {
	Comments schemaComments `json:"comments"`
}

var (
	responseSchema    map[string]any
	responseSchemaErr error
	responseSchemaOne sync.Once
)

// ResponseSchema returns the strict schema for {"comments": {"1".."4": [{severity, text}]}}.
// The returned map is shared and must not be modified.
func ResponseSchema() (map[string]any, error) {
	responseSchemaOne.Do(func() {
		responseSchema, responseSchemaErr = schemas.Reflect[schemaEnvelope]()
	})
	return responseSchema, responseSchemaErr
}

// ValidateRaw checks a cleaned model reply against ResponseSchema.
func ValidateRaw(raw string) error {
	schema, err := ResponseSchema()
	if err != nil {
		return err
	}
	return schemas.ValidateDocument(SchemaName, schema, []byte(raw))
}
