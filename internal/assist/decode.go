package assist

import (
	"encoding/json"
	"strings"

	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// DecodeComments reads a model reply. Malformed pieces degrade instead of failing
// (see CoerceComments); only an unreadable document is a ParseError.
func DecodeComments(raw string) (Comments, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if cleaned == "" {
		return EmptyComments(), &ParseError{Message: "empty model output"}
	}

	var envelope struct {
		Comments json.RawMessage `json:"comments"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return EmptyComments(), &ParseError{Message: "model output is not a JSON object", Cause: err}
	}

	return CoerceComments(envelope.Comments), nil
}

// CoerceComments turns an arbitrary JSON value into Comments with every line key
// present. Non-array lines are empty and bare strings count as warn comments.
func CoerceComments(raw json.RawMessage) Comments {
	out := EmptyComments()

	var byKey map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &byKey) != nil {
		return out
	}

	for _, key := range LineKeys {
		var items []json.RawMessage
		if json.Unmarshal(byKey[key], &items) != nil {
			continue
		}
		for _, item := range items {
			if c, ok := coerceComment(item); ok {
				out[key] = append(out[key], c)
			}
		}
	}
	return out
}

func coerceComment(item json.RawMessage) (Comment, bool) {
	if isNull(item) {
		return Comment{}, false
	}

	var text string
	if json.Unmarshal(item, &text) == nil {
		return Comment{Severity: SeverityWarn, Text: text}, true
	}

	var obj map[string]json.RawMessage
	if json.Unmarshal(item, &obj) != nil {
		return Comment{}, false
	}
	if isNull(obj["text"]) || json.Unmarshal(obj["text"], &text) != nil {
		return Comment{}, false
	}
	var severity string
	_ = json.Unmarshal(obj["severity"], &severity)
	return Comment{Severity: ParseSeverity(severity), Text: text}, true
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
