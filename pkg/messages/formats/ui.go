package formats

import (
	"github.com/threadline/go-sdk/pkg/messages"
)

// UIToCanonical converts a UI message to the canonical representation. UI
// parts share the canonical part kinds, so this is a role mapping plus a
// deep copy of the part sequence.
func UIToCanonical(u UIMessage) (*messages.Message, error) {
	role, err := messages.CanonicalRole(u.Role)
	if err != nil {
		return nil, err
	}

	m := messages.New(role)
	if u.ID != "" {
		m.ID = u.ID
	}
	m.Content.Parts = messages.CloneParts(u.Parts)
	if u.Metadata != nil {
		for k, v := range u.Metadata {
			m.SetMetadata(k, v)
		}
	}
	return m, nil
}

// CanonicalToUI converts a canonical message to the UI shape. Tool parts
// still in an input-only state are in flight and not safe to show; they are
// filtered out entirely, while resolved parts are always kept. Internal
// metadata bookkeeping is stripped.
func CanonicalToUI(m *messages.Message) UIMessage {
	parts := make([]messages.Part, 0, len(m.Content.Parts))
	for _, p := range m.Content.Parts {
		if tp, ok := p.(*messages.ToolPart); ok && !tp.State.Resolved() {
			continue
		}
		parts = append(parts, messages.ClonePart(p))
	}
	return UIMessage{
		ID:       m.ID,
		Role:     m.Role,
		Parts:    parts,
		Metadata: m.PublicMetadata(),
	}
}

// CanonicalToUIAll converts a canonical sequence to UI messages.
func CanonicalToUIAll(msgs []*messages.Message) []UIMessage {
	out := make([]UIMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, CanonicalToUI(m))
	}
	return out
}
