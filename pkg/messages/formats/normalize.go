package formats

import (
	"encoding/json"

	"github.com/threadline/go-sdk/pkg/messages"
)

// Normalize converts an input in any recognized shape to the canonical
// representation. Typed shape values are dispatched directly; raw JSON
// (bytes or a decoded object) is classified by Detect first. Inputs matching
// no shape return an unhandled-shape error.
func Normalize(input any) (*messages.Message, error) {
	switch v := input.(type) {
	case *messages.Message:
		return normalizeCanonical(v.Clone())
	case messages.Message:
		return normalizeCanonical(v.Clone())
	case V2Message:
		return V2ToCanonical(v)
	case *V2Message:
		return V2ToCanonical(*v)
	case V1Message:
		return V1ToCanonical(v)
	case *V1Message:
		return V1ToCanonical(*v)
	case ModelMessage:
		return ModelToCanonical(v)
	case *ModelMessage:
		return ModelToCanonical(*v)
	case UIMessage:
		return UIToCanonical(v)
	case *UIMessage:
		return UIToCanonical(*v)
	case json.RawMessage:
		return normalizeJSON(v)
	case []byte:
		return normalizeJSON(v)
	case map[string]any:
		return normalizeMap(v)
	default:
		return nil, messages.NewUnhandledShapeError(input)
	}
}

// normalizeCanonical finishes a message already in canonical shape: the
// role still collapses (stored v3 records from the tool-role era) and the
// format tag is pinned.
func normalizeCanonical(m *messages.Message) (*messages.Message, error) {
	role, err := messages.CanonicalRole(m.Role)
	if err != nil {
		return nil, err
	}
	m.Role = role
	m.Content.Format = messages.FormatV3
	return m, nil
}

func normalizeJSON(data []byte) (*messages.Message, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, messages.NewConversionError("json", "canonical", "invalid JSON", err)
	}
	return normalizeDetected(raw, data)
}

func normalizeMap(raw map[string]any) (*messages.Message, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, messages.NewConversionError("map", "canonical", "unencodable value", err)
	}
	return normalizeDetected(raw, data)
}

// normalizeDetected classifies raw and decodes data into the matching typed
// shape before converting.
func normalizeDetected(raw map[string]any, data []byte) (*messages.Message, error) {
	kind, err := Detect(raw)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindV3:
		var m messages.Message
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, messages.NewConversionError("v3", "canonical", "malformed envelope", err)
		}
		return normalizeCanonical(&m)
	case KindV2:
		var v V2Message
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, messages.NewConversionError("v2", "canonical", "malformed envelope", err)
		}
		return V2ToCanonical(v)
	case KindV1:
		var v V1Message
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, messages.NewConversionError("v1", "canonical", "malformed message", err)
		}
		return V1ToCanonical(v)
	case KindUI:
		var u UIMessage
		if err := json.Unmarshal(data, &u); err != nil {
			return nil, messages.NewConversionError("ui", "canonical", "malformed message", err)
		}
		return UIToCanonical(u)
	case KindModel:
		var mm ModelMessage
		if err := json.Unmarshal(data, &mm); err != nil {
			return nil, messages.NewConversionError("model", "canonical", "malformed message", err)
		}
		return ModelToCanonical(mm)
	default:
		return nil, messages.NewUnhandledShapeError(raw)
	}
}

// RoleOf extracts the declared role of an input without converting it, so
// callers can route system messages before normalization. The second return
// reports whether a role could be determined.
func RoleOf(input any) (messages.Role, bool) {
	switch v := input.(type) {
	case *messages.Message:
		return v.Role, true
	case messages.Message:
		return v.Role, true
	case V2Message:
		return v.Role, true
	case *V2Message:
		return v.Role, true
	case V1Message:
		return v.Role, true
	case *V1Message:
		return v.Role, true
	case ModelMessage:
		return v.Role, true
	case *ModelMessage:
		return v.Role, true
	case UIMessage:
		return v.Role, true
	case *UIMessage:
		return v.Role, true
	case json.RawMessage:
		return roleOfJSON(v)
	case []byte:
		return roleOfJSON(v)
	case map[string]any:
		if r, ok := v["role"].(string); ok {
			return messages.Role(r), true
		}
		return "", false
	default:
		return "", false
	}
}

func roleOfJSON(data []byte) (messages.Role, bool) {
	var probe struct {
		Role string `json:"role"`
	}
	if err := json.Unmarshal(data, &probe); err != nil || probe.Role == "" {
		return "", false
	}
	return messages.Role(probe.Role), true
}

// IsPlainSystemShape reports whether an input is the plain role+content
// shape system messages must arrive in: a model message with a string body.
// Raw objects are classified first, so the same message is accepted or
// rejected regardless of the carrier it arrives in; part-based and envelope
// shapes are not acceptable carriers for system content.
func IsPlainSystemShape(input any) (string, bool) {
	switch v := input.(type) {
	case ModelMessage:
		if v.Content.IsText {
			return v.Content.Text, true
		}
	case *ModelMessage:
		if v.Content.IsText {
			return v.Content.Text, true
		}
	case map[string]any:
		return plainSystemFromMap(v)
	case json.RawMessage:
		return plainSystemFromJSON(v)
	case []byte:
		return plainSystemFromJSON(v)
	}
	return "", false
}

func plainSystemFromJSON(data []byte) (string, bool) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", false
	}
	return plainSystemFromMap(raw)
}

func plainSystemFromMap(raw map[string]any) (string, bool) {
	if kind, err := Detect(raw); err != nil || kind != KindModel {
		return "", false
	}
	s, ok := raw["content"].(string)
	return s, ok
}
