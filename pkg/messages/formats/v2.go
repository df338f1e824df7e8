package formats

import (
	"strings"

	"github.com/threadline/go-sdk/pkg/messages"
)

// V2ToCanonical converts a persisted v2 message to the canonical (v3)
// representation. Reasoning detail lists flatten to a single text field, and
// the optional legacy content string is stashed in message metadata so a
// later round-trip can restore it byte-identically instead of re-deriving it
// from text parts.
func V2ToCanonical(v V2Message) (*messages.Message, error) {
	role, err := messages.CanonicalRole(v.Role)
	if err != nil {
		return nil, err
	}

	m := messages.New(role)
	if v.ID != "" {
		m.ID = v.ID
	}
	m.CreatedAt = v.CreatedAt
	m.ThreadID = v.ThreadID
	m.ResourceID = v.ResourceID

	for _, p := range v.Content.Parts {
		part, err := v2PartToCanonical(p)
		if err != nil {
			return nil, err
		}
		if part != nil {
			m.AppendPart(part)
		}
	}

	if v.Content.Metadata != nil {
		for k, val := range v.Content.Metadata {
			m.SetMetadata(k, val)
		}
	}
	if v.Content.Content != "" {
		m.SetMetadata(messages.OriginalContentKey, v.Content.Content)
	}
	return m, nil
}

// v2PartToCanonical converts one v2 part, returning nil for parts that
// normalize away (an all-redacted reasoning part has no text left).
func v2PartToCanonical(p V2Part) (messages.Part, error) {
	switch {
	case p.Type == messages.PartTypeText:
		return &messages.TextPart{Text: p.Text}, nil
	case p.Type == messages.PartTypeReasoning:
		text := flattenReasoningDetails(p.Details)
		if text == "" {
			return nil, nil
		}
		return &messages.ReasoningPart{Text: text}, nil
	case p.Type == messages.PartTypeFile:
		return &messages.FilePart{
			URL:       messages.FileDataToURL(p.Data, p.MimeType),
			MediaType: p.MimeType,
			Filename:  p.Filename,
		}, nil
	case p.Type == v2PartTypeSource:
		if p.Source == nil {
			return nil, nil
		}
		return &messages.SourceURLPart{
			SourceID: p.Source.ID,
			URL:      p.Source.URL,
			Title:    p.Source.Title,
		}, nil
	case p.Type == messages.PartTypeStepStart:
		return &messages.StepStartPart{}, nil
	case messages.IsToolPartType(p.Type):
		return &messages.ToolPart{
			ToolName:   messages.ToolNameFromPartType(p.Type),
			ToolCallID: p.ToolCallID,
			State:      messages.ToolState(p.State),
			Input:      p.Input,
			Output:     p.Output,
		}, nil
	default:
		return nil, messages.NewConversionError("v2", "canonical", "unknown part type "+p.Type, nil)
	}
}

// flattenReasoningDetails concatenates the plain-text segments of a v2
// reasoning detail list; redacted segments are omitted.
func flattenReasoningDetails(details []ReasoningDetail) string {
	var sb strings.Builder
	for _, d := range details {
		if d.Type == "text" {
			sb.WriteString(d.Text)
		}
	}
	return sb.String()
}

// CanonicalToV2 converts a canonical message to the persisted v2 shape.
// Flattened reasoning wraps back into a single plain-text detail segment,
// and a stashed legacy content string is restored to its own field rather
// than re-derived from the parts.
func CanonicalToV2(m *messages.Message) V2Message {
	out := V2Message{
		ID:         m.ID,
		Role:       m.Role,
		CreatedAt:  m.CreatedAt,
		ThreadID:   m.ThreadID,
		ResourceID: m.ResourceID,
		Content:    V2Content{Format: messages.FormatV2},
	}

	for _, p := range m.Content.Parts {
		switch v := p.(type) {
		case *messages.TextPart:
			out.Content.Parts = append(out.Content.Parts, V2Part{Type: messages.PartTypeText, Text: v.Text})
		case *messages.ReasoningPart:
			if v.Text == "" {
				continue
			}
			out.Content.Parts = append(out.Content.Parts, V2Part{
				Type:    messages.PartTypeReasoning,
				Details: []ReasoningDetail{{Type: "text", Text: v.Text}},
			})
		case *messages.FilePart:
			out.Content.Parts = append(out.Content.Parts, V2Part{
				Type:     messages.PartTypeFile,
				Data:     v.URL,
				MimeType: v.MediaType,
				Filename: v.Filename,
			})
		case *messages.SourceURLPart:
			out.Content.Parts = append(out.Content.Parts, V2Part{
				Type: v2PartTypeSource,
				Source: &V2Source{
					SourceType: "url",
					ID:         v.SourceID,
					URL:        v.URL,
					Title:      v.Title,
				},
			})
		case *messages.StepStartPart:
			out.Content.Parts = append(out.Content.Parts, V2Part{Type: messages.PartTypeStepStart})
		case *messages.ToolPart:
			out.Content.Parts = append(out.Content.Parts, V2Part{
				Type:       v.PartType(),
				ToolCallID: v.ToolCallID,
				State:      string(v.State),
				Input:      v.Input,
				Output:     v.Output,
			})
		}
	}

	if meta := m.Content.Metadata; meta != nil {
		if orig, ok := meta[messages.OriginalContentKey].(string); ok {
			out.Content.Content = orig
		}
	}
	out.Content.Metadata = m.PublicMetadata()
	return out
}

// CanonicalToV2All converts a canonical sequence to the persisted v2 shape.
func CanonicalToV2All(msgs []*messages.Message) []V2Message {
	out := make([]V2Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, CanonicalToV2(m))
	}
	return out
}
