package formats

import (
	"encoding/json"

	"github.com/threadline/go-sdk/pkg/messages"
)

// Kind identifies one of the recognized message shapes.
type Kind int

const (
	KindUnknown Kind = iota
	KindV1
	KindV2
	KindV3
	KindModel
	KindUI
)

// String returns the shape name.
func (k Kind) String() string {
	switch k {
	case KindV1:
		return "v1"
	case KindV2:
		return "v2"
	case KindV3:
		return "v3"
	case KindModel:
		return "model"
	case KindUI:
		return "ui"
	default:
		return "unknown"
	}
}

// Detect classifies a decoded JSON object into one of the recognized shapes.
// Canonical shapes are checked before generic ones: a v2/v3 message also has
// role and content fields and would otherwise be misclassified as a model
// message. A value matching no predicate is an unhandled-shape error.
func Detect(raw map[string]any) (Kind, error) {
	if content, ok := raw["content"].(map[string]any); ok {
		if f, ok := numberField(content, "format"); ok {
			switch f {
			case messages.FormatV2:
				return KindV2, nil
			case messages.FormatV3:
				return KindV3, nil
			}
		}
	}

	_, hasRole := raw["role"]

	// Legacy v1: flat content plus role and threadId, no format tag.
	if hasRole {
		if _, hasThread := raw["threadId"]; hasThread && isFlatContent(raw["content"]) {
			return KindV1, nil
		}
	}

	// UI messages carry a top-level parts array, not a content envelope.
	if _, ok := raw["parts"].([]any); ok {
		return KindUI, nil
	}

	if hasRole && isFlatContent(raw["content"]) {
		return KindModel, nil
	}

	return KindUnknown, messages.NewUnhandledShapeError(raw)
}

// isFlatContent reports whether a body is a plain string or a block array.
func isFlatContent(v any) bool {
	switch v.(type) {
	case string:
		return true
	case []any:
		return true
	default:
		return false
	}
}

// numberField reads an integer-valued field from a decoded JSON object,
// tolerating the float64 the json package produces.
func numberField(obj map[string]any, key string) (int, bool) {
	switch n := obj[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
