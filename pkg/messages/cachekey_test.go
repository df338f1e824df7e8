package messages

import (
	"encoding/json"
	"testing"
)

func TestPartKey(t *testing.T) {
	t.Run("Equal parts share a key", func(t *testing.T) {
		a := &TextPart{Text: "hello"}
		b := &TextPart{Text: "hello"}
		if PartKey(a) != PartKey(b) {
			t.Error("Expected identical text parts to share a key")
		}
	})

	t.Run("Different text differs", func(t *testing.T) {
		a := &TextPart{Text: "hello"}
		b := &TextPart{Text: "world"}
		if PartKey(a) == PartKey(b) {
			t.Error("Expected different text parts to have different keys")
		}
	})

	t.Run("Part kind contributes to the key", func(t *testing.T) {
		a := &TextPart{Text: "thinking"}
		b := &ReasoningPart{Text: "thinking"}
		if PartKey(a) == PartKey(b) {
			t.Error("Expected text and reasoning parts with the same text to differ")
		}
	})

	t.Run("Tool state contributes to the key", func(t *testing.T) {
		input := json.RawMessage(`{"city":"SF"}`)
		a := &ToolPart{ToolName: "weather", ToolCallID: "call_1", State: ToolStateInputAvailable, Input: input}
		b := &ToolPart{ToolName: "weather", ToolCallID: "call_1", State: ToolStateOutputAvailable, Input: input}
		if PartKey(a) == PartKey(b) {
			t.Error("Expected tool parts in different states to have different keys")
		}
	})

	t.Run("Adjacent fields never alias", func(t *testing.T) {
		a := &FilePart{URL: "ab", MediaType: "c"}
		b := &FilePart{URL: "a", MediaType: "bc"}
		if PartKey(a) == PartKey(b) {
			t.Error("Expected length-prefixed fields to prevent aliasing")
		}
	})
}

func TestPartsKey(t *testing.T) {
	a := []Part{&TextPart{Text: "one"}, &TextPart{Text: "two"}}
	b := []Part{&TextPart{Text: "two"}, &TextPart{Text: "one"}}
	if PartsKey(a) == PartsKey(b) {
		t.Error("Expected part order to contribute to the sequence key")
	}
}

func TestMessageKey(t *testing.T) {
	a := New(RoleUser)
	a.AppendPart(&TextPart{Text: "hello"})
	b := New(RoleUser)
	b.AppendPart(&TextPart{Text: "hello"})

	t.Run("Identifiers and timestamps never contribute", func(t *testing.T) {
		if MessageKey(a) != MessageKey(b) {
			t.Error("Expected messages differing only in ID to share a key")
		}
	})

	t.Run("Role contributes", func(t *testing.T) {
		c := b.Clone()
		c.Role = RoleAssistant
		if MessageKey(a) == MessageKey(c) {
			t.Error("Expected role to contribute to the key")
		}
	})

	t.Run("Parts contribute", func(t *testing.T) {
		c := b.Clone()
		c.AppendPart(&TextPart{Text: "more"})
		if MessageKey(a) == MessageKey(c) {
			t.Error("Expected the part sequence to contribute to the key")
		}
	})
}

func TestCountPartKey(t *testing.T) {
	parts := []Part{
		&TextPart{Text: "dup"},
		&TextPart{Text: "other"},
		&TextPart{Text: "dup"},
	}
	key := PartKey(&TextPart{Text: "dup"})
	if n := CountPartKey(parts, key); n != 2 {
		t.Errorf("Expected 2 occurrences, got %d", n)
	}
}

func TestPartsEqual(t *testing.T) {
	t.Run("JSON key order does not matter", func(t *testing.T) {
		a := []Part{&ToolPart{ToolName: "calc", ToolCallID: "c1", State: ToolStateInputAvailable, Input: json.RawMessage(`{"a":1,"b":2}`)}}
		b := []Part{&ToolPart{ToolName: "calc", ToolCallID: "c1", State: ToolStateInputAvailable, Input: json.RawMessage(`{"b":2,"a":1}`)}}
		if !PartsEqual(a, b) {
			t.Error("Expected structural equality to ignore JSON key order")
		}
	})

	t.Run("Length mismatch", func(t *testing.T) {
		a := []Part{&TextPart{Text: "x"}}
		if PartsEqual(a, nil) {
			t.Error("Expected sequences of different length to be unequal")
		}
	})
}

func TestEquivalent(t *testing.T) {
	a := New(RoleUser)
	a.AppendPart(&TextPart{Text: "hello"})
	b := New(RoleUser)
	b.AppendPart(&TextPart{Text: "hello"})

	t.Run("Ignores identifiers and timestamps", func(t *testing.T) {
		if !Equivalent(a, b) {
			t.Error("Expected messages with equal role and parts to be equivalent")
		}
	})

	t.Run("Role matters", func(t *testing.T) {
		c := b.Clone()
		c.Role = RoleAssistant
		if Equivalent(a, c) {
			t.Error("Expected messages with different roles to differ")
		}
	})
}

func TestMetadataEqual(t *testing.T) {
	if !MetadataEqual(nil, map[string]any{}) {
		t.Error("Expected nil and empty metadata to be equal")
	}
	if !MetadataEqual(map[string]any{"a": 1.0}, map[string]any{"a": 1.0}) {
		t.Error("Expected equal metadata bags to compare equal")
	}
	if MetadataEqual(map[string]any{"a": 1.0}, map[string]any{"a": 2.0}) {
		t.Error("Expected differing metadata bags to compare unequal")
	}
}
