package messages

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content envelope format versions. FormatV3 is the canonical in-memory
// format; FormatV2 is the persisted schema the storage collaborator speaks.
const (
	FormatV2 = 2
	FormatV3 = 3
)

// OriginalContentKey is the metadata key under which a legacy v2 content
// string is stashed across a v2 to v3 conversion so a later round-trip can
// restore it byte-identically. It is internal bookkeeping and must be
// stripped from every public read projection.
const OriginalContentKey = "__originalContent"

// Content is the format-tagged envelope holding a message's ordered parts.
type Content struct {
	Format   int            `json:"format"`
	Parts    []Part         `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// contentJSON is the wire form of Content; parts are decoded individually by
// their type discriminator.
type contentJSON struct {
	Format   int               `json:"format"`
	Parts    []json.RawMessage `json:"parts"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Content) MarshalJSON() ([]byte, error) {
	raw := contentJSON{Format: c.Format, Metadata: c.Metadata}
	raw.Parts = make([]json.RawMessage, 0, len(c.Parts))
	for _, p := range c.Parts {
		b, err := MarshalPart(p)
		if err != nil {
			return nil, err
		}
		raw.Parts = append(raw.Parts, b)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw contentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Format = raw.Format
	c.Metadata = raw.Metadata
	c.Parts = make([]Part, 0, len(raw.Parts))
	for _, rp := range raw.Parts {
		p, err := UnmarshalPart(rp)
		if err != nil {
			return err
		}
		c.Parts = append(c.Parts, p)
	}
	return nil
}

// Message is the canonical, version-tagged message representation. The role
// is always user or assistant; system and tool traffic is normalized away
// before a Message is constructed.
type Message struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
	ThreadID   string    `json:"threadId,omitempty"`
	ResourceID string    `json:"resourceId,omitempty"`
	Content    Content   `json:"content"`
}

// New creates an empty canonical message with a generated ID.
func New(role Role) *Message {
	return &Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: Content{Format: FormatV3},
	}
}

// EnsureID assigns a generated ID if the message has none.
func (m *Message) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
}

// AppendPart appends a part to the content envelope.
func (m *Message) AppendPart(p Part) {
	m.Content.Parts = append(m.Content.Parts, p)
}

// TextContent concatenates the text of all text parts.
func (m *Message) TextContent() string {
	var sb strings.Builder
	for _, p := range m.Content.Parts {
		if tp, ok := p.(*TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

// ToolPart returns the message's tool part with the given call ID, scanning
// from the end, or nil.
func (m *Message) ToolPart(toolCallID string) *ToolPart {
	for i := len(m.Content.Parts) - 1; i >= 0; i-- {
		if tp, ok := m.Content.Parts[i].(*ToolPart); ok && tp.ToolCallID == toolCallID {
			return tp
		}
	}
	return nil
}

// Clone returns a deep copy of the message.
func (m *Message) Clone() *Message {
	c := *m
	c.Content.Parts = CloneParts(m.Content.Parts)
	if m.Content.Metadata != nil {
		meta := make(map[string]any, len(m.Content.Metadata))
		for k, v := range m.Content.Metadata {
			meta[k] = v
		}
		c.Content.Metadata = meta
	}
	return &c
}

// SetMetadata sets a metadata key, allocating the bag if needed.
func (m *Message) SetMetadata(key string, value any) {
	if m.Content.Metadata == nil {
		m.Content.Metadata = make(map[string]any, 1)
	}
	m.Content.Metadata[key] = value
}

// PublicMetadata returns the metadata bag without internal bookkeeping keys,
// or nil when nothing remains. The returned map is a copy.
func (m *Message) PublicMetadata() map[string]any {
	if m.Content.Metadata == nil {
		return nil
	}
	out := make(map[string]any, len(m.Content.Metadata))
	for k, v := range m.Content.Metadata {
		if k == OriginalContentKey {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
