package timeline

import (
	"encoding/json"
	"fmt"

	"github.com/threadline/go-sdk/pkg/messages"
	"github.com/threadline/go-sdk/pkg/messages/formats"
)

// emptyContent checks the minimal shape requirement: a message must carry a
// non-empty content or a non-empty parts field. The first return names the
// missing field for the error report; ok is true when the shape passes.
func emptyContent(input any) (missing string, ok bool) {
	switch v := input.(type) {
	case *messages.Message:
		return partsMissing(len(v.Content.Parts) > 0)
	case messages.Message:
		return partsMissing(len(v.Content.Parts) > 0)
	case formats.UIMessage:
		return partsMissing(len(v.Parts) > 0)
	case *formats.UIMessage:
		return partsMissing(len(v.Parts) > 0)
	case formats.V2Message:
		if len(v.Content.Parts) > 0 || v.Content.Content != "" {
			return "", true
		}
		return "content and parts", false
	case *formats.V2Message:
		return emptyContent(*v)
	case formats.ModelMessage:
		return contentMissing(flatContentPresent(v.Content))
	case *formats.ModelMessage:
		return contentMissing(flatContentPresent(v.Content))
	case formats.V1Message:
		return contentMissing(flatContentPresent(v.Content))
	case *formats.V1Message:
		return contentMissing(flatContentPresent(v.Content))
	case map[string]any:
		return emptyContentMap(v)
	case json.RawMessage:
		return emptyContentJSON(v)
	case []byte:
		return emptyContentJSON(v)
	default:
		// Unrecognized shapes fail later as unhandled-shape errors; this
		// check only guards emptiness.
		return "", true
	}
}

func partsMissing(present bool) (string, bool) {
	if present {
		return "", true
	}
	return "parts", false
}

func contentMissing(present bool) (string, bool) {
	if present {
		return "", true
	}
	return "content", false
}

func flatContentPresent(c formats.ModelContent) bool {
	if c.IsText {
		return c.Text != ""
	}
	return len(c.Blocks) > 0
}

func emptyContentMap(raw map[string]any) (string, bool) {
	if parts, ok := raw["parts"].([]any); ok {
		return partsMissing(len(parts) > 0)
	}
	switch c := raw["content"].(type) {
	case string:
		return contentMissing(c != "")
	case []any:
		return contentMissing(len(c) > 0)
	case map[string]any:
		// Envelope shape: parts inside the content object.
		if parts, ok := c["parts"].([]any); ok && len(parts) > 0 {
			return "", true
		}
		if s, ok := c["content"].(string); ok && s != "" {
			return "", true
		}
		return "content and parts", false
	default:
		return "content", false
	}
}

func emptyContentJSON(data []byte) (string, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		// Malformed JSON surfaces as a conversion error during normalize.
		return "", true
	}
	return emptyContentMap(raw)
}

// shapeName describes an input's shape for error reporting.
func shapeName(input any) string {
	switch v := input.(type) {
	case formats.UIMessage, *formats.UIMessage:
		return "ui"
	case formats.V2Message, *formats.V2Message:
		return "v2"
	case formats.V1Message, *formats.V1Message:
		return "v1"
	case formats.ModelMessage, *formats.ModelMessage:
		return "model"
	case *messages.Message, messages.Message:
		return "v3"
	case map[string]any:
		if kind, err := formats.Detect(v); err == nil {
			return kind.String()
		}
		return "unknown"
	case json.RawMessage, []byte:
		return "json"
	default:
		return fmt.Sprintf("%T", v)
	}
}
