package formats

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/threadline/go-sdk/pkg/messages"
)

// Model-message content block type discriminators.
const (
	BlockTypeText       = "text"
	BlockTypeReasoning  = "reasoning"
	BlockTypeToolCall   = "tool-call"
	BlockTypeToolResult = "tool-result"
	BlockTypeFile       = "file"
	BlockTypeImage      = "image"
)

// ModelBlock is one typed content block of a model message.
type ModelBlock struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	Data       string          `json:"data,omitempty"`
	Image      string          `json:"image,omitempty"`
	MediaType  string          `json:"mediaType,omitempty"`
	Filename   string          `json:"filename,omitempty"`
}

// ModelContent is a model message body: either a plain string or an ordered
// block array.
type ModelContent struct {
	Text   string
	IsText bool
	Blocks []ModelBlock
}

// MarshalJSON emits a bare string for plain-text bodies and a block array
// otherwise.
func (c ModelContent) MarshalJSON() ([]byte, error) {
	if c.IsText {
		return json.Marshal(c.Text)
	}
	return json.Marshal(c.Blocks)
}

// UnmarshalJSON accepts both body encodings.
func (c *ModelContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		c.IsText = true
		c.Blocks = nil
		return nil
	}
	var blocks []ModelBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("model message content must be a string or block array: %w", err)
	}
	c.IsText = false
	c.Blocks = blocks
	return nil
}

// ModelMessage is the provider-facing message shape: a role and a string or
// block-array body.
type ModelMessage struct {
	Role    messages.Role `json:"role"`
	Content ModelContent  `json:"content"`
}

// NewModelTextMessage builds a plain-text model message.
func NewModelTextMessage(role messages.Role, text string) ModelMessage {
	return ModelMessage{Role: role, Content: ModelContent{Text: text, IsText: true}}
}

// UIMessage is the user-facing shape: a top-level parts array sharing the
// canonical part kinds, not nested in a content envelope.
type UIMessage struct {
	ID       string          `json:"id,omitempty"`
	Role     messages.Role   `json:"role"`
	Parts    []messages.Part `json:"parts"`
	Metadata map[string]any  `json:"metadata,omitempty"`
}

type uiMessageJSON struct {
	ID       string            `json:"id,omitempty"`
	Role     messages.Role     `json:"role"`
	Parts    []json.RawMessage `json:"parts"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (u UIMessage) MarshalJSON() ([]byte, error) {
	raw := uiMessageJSON{ID: u.ID, Role: u.Role, Metadata: u.Metadata}
	raw.Parts = make([]json.RawMessage, 0, len(u.Parts))
	for _, p := range u.Parts {
		b, err := messages.MarshalPart(p)
		if err != nil {
			return nil, err
		}
		raw.Parts = append(raw.Parts, b)
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (u *UIMessage) UnmarshalJSON(data []byte) error {
	var raw uiMessageJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	u.Role = raw.Role
	u.Metadata = raw.Metadata
	u.Parts = make([]messages.Part, 0, len(raw.Parts))
	for _, rp := range raw.Parts {
		p, err := messages.UnmarshalPart(rp)
		if err != nil {
			return err
		}
		u.Parts = append(u.Parts, p)
	}
	return nil
}

// V1Content is a legacy v1 body: a plain string or a model-block array.
type V1Content = ModelContent

// V1Message is the legacy flat-content schema: role and threadId at the top
// level, no format tag on the body.
type V1Message struct {
	ID         string        `json:"id,omitempty"`
	Role       messages.Role `json:"role"`
	Type       string        `json:"type,omitempty"`
	ThreadID   string        `json:"threadId"`
	ResourceID string        `json:"resourceId,omitempty"`
	CreatedAt  time.Time     `json:"createdAt,omitempty"`
	Content    V1Content     `json:"content"`
}

// Persisted v2 part type discriminators that differ from the canonical set.
const (
	v2PartTypeSource = "source"
)

// ReasoningDetail is one segment of a v2 reasoning part. Plain segments
// carry Text; redacted segments carry Data and contribute nothing to the
// flattened v3 reasoning text.
type ReasoningDetail struct {
	Type string `json:"type"` // "text" or "redacted"
	Text string `json:"text,omitempty"`
	Data string `json:"data,omitempty"`
}

// V2Source identifies a cited source in the persisted v2 schema.
type V2Source struct {
	SourceType string `json:"sourceType,omitempty"`
	ID         string `json:"id,omitempty"`
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
}

// V2Part is one part of a persisted v2 message. It is a single wire struct
// with a type discriminator rather than a union; only the fields relevant to
// the type are populated.
type V2Part struct {
	Type       string            `json:"type"`
	Text       string            `json:"text,omitempty"`
	Details    []ReasoningDetail `json:"details,omitempty"`
	Data       string            `json:"data,omitempty"`
	MimeType   string            `json:"mimeType,omitempty"`
	Filename   string            `json:"filename,omitempty"`
	Source     *V2Source         `json:"source,omitempty"`
	ToolCallID string            `json:"toolCallId,omitempty"`
	State      string            `json:"state,omitempty"`
	Input      json.RawMessage   `json:"input,omitempty"`
	Output     json.RawMessage   `json:"output,omitempty"`
}

// V2Content is the persisted v2 envelope: format tag 2, a part array, and an
// optional legacy content string distinct from the parts.
type V2Content struct {
	Format   int            `json:"format"`
	Parts    []V2Part       `json:"parts"`
	Content  string         `json:"content,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// V2Message is the persisted v2 schema, the serialization contract with the
// storage collaborator. It must remain stable: old records must still
// classify and convert.
type V2Message struct {
	ID         string        `json:"id"`
	Role       messages.Role `json:"role"`
	CreatedAt  time.Time     `json:"createdAt"`
	ThreadID   string        `json:"threadId,omitempty"`
	ResourceID string        `json:"resourceId,omitempty"`
	Content    V2Content     `json:"content"`
}
