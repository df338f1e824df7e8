package messages

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// PartKey produces a deterministic fingerprint for a single part. Two parts
// with the same key are treated as structurally equivalent by the dedup and
// replay guards; timestamps never contribute to a key.
func PartKey(p Part) string {
	h := fnv.New64a()
	writeString := func(s string) {
		// Length prefix keeps adjacent fields from aliasing.
		fmt.Fprintf(h, "%d:%s;", len(s), s)
	}
	writeString(p.PartType())
	switch v := p.(type) {
	case *TextPart:
		writeString(v.Text)
	case *ReasoningPart:
		writeString(v.Text)
	case *FilePart:
		writeString(v.URL)
		writeString(v.MediaType)
	case *SourceURLPart:
		writeString(v.SourceID)
		writeString(v.URL)
	case *StepStartPart:
		// type alone identifies it
	case *ToolPart:
		writeString(v.ToolCallID)
		writeString(string(v.State))
		writeString(string(v.Input))
		writeString(string(v.Output))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// PartsKey produces an order-preserving fingerprint for a part sequence.
func PartsKey(parts []Part) string {
	h := fnv.New64a()
	for _, p := range parts {
		fmt.Fprintf(h, "%s|", PartKey(p))
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// MessageKey produces a timestamp-insensitive fingerprint over a message's
// role and part sequence.
func MessageKey(m *Message) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s", m.Role, PartsKey(m.Content.Parts))
	return fmt.Sprintf("%016x", h.Sum64())
}

// CountPartKey counts how many parts in the sequence carry the given key.
func CountPartKey(parts []Part, key string) int {
	n := 0
	for _, p := range parts {
		if PartKey(p) == key {
			n++
		}
	}
	return n
}

// PartsEqual reports structural equality of two part sequences. It compares
// the serialized JSON documents so that key order and metadata encoding
// differences do not matter.
func PartsEqual(a, b []Part) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		ab, err := MarshalPart(a[i])
		if err != nil {
			return false
		}
		bb, err := MarshalPart(b[i])
		if err != nil {
			return false
		}
		if !jsonpatch.Equal(ab, bb) {
			return false
		}
	}
	return true
}

// Equivalent reports whether two messages are structurally equal: same role
// and equivalent part sequences, ignoring timestamps and identifiers. The
// ordered fingerprint is the fast path; sequences that serialize differently
// but encode the same documents fall back to the structural comparison. Used
// by the memory-recall dedup rule, which must never duplicate content already
// present from a prior turn.
func Equivalent(a, b *Message) bool {
	if a.Role != b.Role {
		return false
	}
	if MessageKey(a) == MessageKey(b) {
		return true
	}
	return PartsEqual(a.Content.Parts, b.Content.Parts)
}

// MetadataEqual reports structural equality of two metadata bags.
func MetadataEqual(a, b map[string]any) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return jsonpatch.Equal(ab, bb)
}
