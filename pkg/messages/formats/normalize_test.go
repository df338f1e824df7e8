package formats

import (
	"encoding/json"
	"testing"

	"github.com/threadline/go-sdk/pkg/messages"
)

func TestNormalizeTypedShapes(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"V2 message", V2Message{Role: messages.RoleUser, Content: V2Content{
			Format: messages.FormatV2, Parts: []V2Part{{Type: messages.PartTypeText, Text: "hi"}}}}},
		{"V1 message", V1Message{Role: messages.RoleUser, ThreadID: "t1", Content: V1Content{Text: "hi", IsText: true}}},
		{"Model message", NewModelTextMessage(messages.RoleUser, "hi")},
		{"UI message", UIMessage{Role: messages.RoleUser, Parts: []messages.Part{&messages.TextPart{Text: "hi"}}}},
		{"Pointer shape", &V1Message{Role: messages.RoleUser, ThreadID: "t1", Content: V1Content{Text: "hi", IsText: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if m.Role != messages.RoleUser {
				t.Errorf("Expected user role, got %s", m.Role)
			}
			if m.Content.Format != messages.FormatV3 {
				t.Errorf("Expected canonical format tag, got %d", m.Content.Format)
			}
			if m.TextContent() != "hi" {
				t.Errorf("Expected text 'hi', got %q", m.TextContent())
			}
		})
	}
}

func TestNormalizeRawJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		role messages.Role
	}{
		{"V2 bytes", `{"id":"m1","role":"user","content":{"format":2,"parts":[{"type":"text","text":"hi"}]}}`, messages.RoleUser},
		{"V1 bytes", `{"role":"user","threadId":"t1","content":"hi"}`, messages.RoleUser},
		{"UI bytes", `{"role":"user","parts":[{"type":"text","text":"hi"}]}`, messages.RoleUser},
		{"Model bytes", `{"role":"assistant","content":"hi"}`, messages.RoleAssistant},
		{"Tool-role model bytes", `{"role":"tool","content":[{"type":"tool-result","toolCallId":"c1","toolName":"w","output":{}}]}`, messages.RoleAssistant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Normalize([]byte(tt.data))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if m.Role != tt.role {
				t.Errorf("Expected role %s, got %s", tt.role, m.Role)
			}
			if m.Content.Format != messages.FormatV3 {
				t.Errorf("Expected canonical format tag, got %d", m.Content.Format)
			}
		})
	}

	t.Run("Decoded map input", func(t *testing.T) {
		raw := map[string]any{"role": "user", "threadId": "t1", "content": "hello"}
		m, err := Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		if m.ThreadID != "t1" || m.TextContent() != "hello" {
			t.Errorf("Unexpected canonical message: %+v", m)
		}
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		if _, err := Normalize([]byte(`{not json`)); !messages.IsConversionError(err) {
			t.Errorf("Expected conversion error, got %v", err)
		}
	})
}

func TestNormalizeCanonicalInput(t *testing.T) {
	in := messages.New(messages.RoleTool)
	in.AppendPart(&messages.TextPart{Text: "result"})
	in.Content.Format = 0 // stored records from before the tag was pinned

	m, err := Normalize(in)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if m.Role != messages.RoleAssistant {
		t.Errorf("Expected tool role collapsed to assistant, got %s", m.Role)
	}
	if m.Content.Format != messages.FormatV3 {
		t.Errorf("Expected format tag pinned, got %d", m.Content.Format)
	}
	if m == in {
		t.Error("Normalize must not return the caller's message")
	}
}

func TestNormalizeUnhandledShape(t *testing.T) {
	if _, err := Normalize(struct{ X int }{1}); !messages.IsUnhandledShapeError(err) {
		t.Errorf("Expected unhandled-shape error, got %v", err)
	}
	if _, err := Normalize(map[string]any{"foo": "bar"}); !messages.IsUnhandledShapeError(err) {
		t.Errorf("Expected unhandled-shape error, got %v", err)
	}
}

func TestRoleOf(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  messages.Role
		ok    bool
	}{
		{"Typed model message", NewModelTextMessage(messages.RoleSystem, "be brief"), messages.RoleSystem, true},
		{"Raw JSON", json.RawMessage(`{"role":"assistant","content":"x"}`), messages.RoleAssistant, true},
		{"Decoded map", map[string]any{"role": "user"}, messages.RoleUser, true},
		{"No role", map[string]any{"content": "x"}, messages.Role(""), false},
		{"Unknown type", 42, messages.Role(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RoleOf(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("RoleOf() = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestIsPlainSystemShape(t *testing.T) {
	t.Run("Model message with string body", func(t *testing.T) {
		content, ok := IsPlainSystemShape(NewModelTextMessage(messages.RoleSystem, "be brief"))
		if !ok || content != "be brief" {
			t.Errorf("Expected plain shape with content, got %q, %v", content, ok)
		}
	})

	t.Run("Raw JSON with string content", func(t *testing.T) {
		content, ok := IsPlainSystemShape([]byte(`{"role":"system","content":"be brief"}`))
		if !ok || content != "be brief" {
			t.Errorf("Expected plain shape with content, got %q, %v", content, ok)
		}
	})

	t.Run("Envelope content is not plain", func(t *testing.T) {
		raw := map[string]any{"role": "system", "content": map[string]any{"format": float64(2), "parts": []any{}}}
		if _, ok := IsPlainSystemShape(raw); ok {
			t.Error("Expected envelope shape to be rejected")
		}
	})

	t.Run("Part-based shapes are not plain", func(t *testing.T) {
		u := UIMessage{Role: messages.RoleSystem, Parts: []messages.Part{&messages.TextPart{Text: "x"}}}
		if _, ok := IsPlainSystemShape(u); ok {
			t.Error("Expected UI shape to be rejected")
		}
	})

	t.Run("Carrier does not change the decision", func(t *testing.T) {
		// The same v1-shaped message, typed and as raw JSON: both rejected.
		typed := V1Message{Role: messages.RoleSystem, ThreadID: "t1", Content: V1Content{Text: "be brief", IsText: true}}
		if _, ok := IsPlainSystemShape(typed); ok {
			t.Error("Expected typed v1 message to be rejected")
		}
		raw := []byte(`{"role":"system","threadId":"t1","content":"be brief"}`)
		if _, ok := IsPlainSystemShape(raw); ok {
			t.Error("Expected v1-shaped raw JSON to be rejected")
		}
	})
}
