package formats

import (
	"github.com/threadline/go-sdk/pkg/messages"
)

// V1ToCanonical converts a legacy v1 message to the canonical
// representation. A plain string body becomes a single text part; a block
// array is the stored model-message shape, and for assistant turns gains a
// leading step-start marker, preserving the v1 lineage's output.
func V1ToCanonical(v V1Message) (*messages.Message, error) {
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

	if v.Content.IsText {
		m.AppendPart(&messages.TextPart{Text: v.Content.Text})
		return m, nil
	}

	if role == messages.RoleAssistant {
		m.AppendPart(&messages.StepStartPart{})
	}
	for _, b := range v.Content.Blocks {
		if err := appendBlock(m, b); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// CanonicalToV1 converts a canonical message to the legacy v1 shape. A
// message holding a single text part flattens to a string body; anything
// richer is stored as a block array. The v1 type field reflects the dominant
// content: tool-call when unresolved tool parts are present, tool-result
// when resolved ones are, text otherwise.
func CanonicalToV1(m *messages.Message) V1Message {
	out := V1Message{
		ID:         m.ID,
		Role:       m.Role,
		Type:       "text",
		ThreadID:   m.ThreadID,
		ResourceID: m.ResourceID,
		CreatedAt:  m.CreatedAt,
	}

	if len(m.Content.Parts) == 1 {
		if tp, ok := m.Content.Parts[0].(*messages.TextPart); ok {
			out.Content = V1Content{Text: tp.Text, IsText: true}
			return out
		}
	}

	var blocks []ModelBlock
	for _, p := range m.Content.Parts {
		switch v := p.(type) {
		case *messages.TextPart:
			blocks = append(blocks, ModelBlock{Type: BlockTypeText, Text: v.Text})
		case *messages.ReasoningPart:
			blocks = append(blocks, ModelBlock{Type: BlockTypeReasoning, Text: v.Text})
		case *messages.FilePart:
			blocks = append(blocks, ModelBlock{
				Type:      BlockTypeFile,
				Data:      v.URL,
				MediaType: v.MediaType,
				Filename:  v.Filename,
			})
		case *messages.ToolPart:
			blocks = append(blocks, ModelBlock{
				Type:       BlockTypeToolCall,
				ToolCallID: v.ToolCallID,
				ToolName:   v.ToolName,
				Input:      v.Input,
			})
			if v.State.Resolved() {
				blocks = append(blocks, ModelBlock{
					Type:       BlockTypeToolResult,
					ToolCallID: v.ToolCallID,
					ToolName:   v.ToolName,
					Output:     v.Output,
				})
				out.Type = BlockTypeToolResult
			} else if out.Type == "text" {
				out.Type = BlockTypeToolCall
			}
		case *messages.SourceURLPart, *messages.StepStartPart:
			// no v1 block representation; the leading step-start is
			// re-synthesized on conversion back
		}
	}
	out.Content = V1Content{Blocks: blocks}
	return out
}
