package formats

import (
	"github.com/threadline/go-sdk/pkg/messages"
)

// ModelToCanonical converts a model message to the canonical representation.
// Tool-role messages collapse into assistant-owned parts; system-role
// messages are the caller's responsibility to route away first.
func ModelToCanonical(mm ModelMessage) (*messages.Message, error) {
	role, err := messages.CanonicalRole(mm.Role)
	if err != nil {
		return nil, err
	}

	m := messages.New(role)
	if mm.Content.IsText {
		m.AppendPart(&messages.TextPart{Text: mm.Content.Text})
		return m, nil
	}

	for _, b := range mm.Content.Blocks {
		if err := appendBlock(m, b); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// appendBlock converts one model content block onto a canonical message.
// A tool-result block with a matching in-message call merges onto the
// existing part instead of appending a new one.
func appendBlock(m *messages.Message, b ModelBlock) error {
	switch b.Type {
	case BlockTypeText:
		m.AppendPart(&messages.TextPart{Text: b.Text})
	case BlockTypeReasoning:
		if b.Text != "" {
			m.AppendPart(&messages.ReasoningPart{Text: b.Text})
		}
	case BlockTypeToolCall:
		// A call replayed after its result resolved never reverts the part.
		if existing := m.ToolPart(b.ToolCallID); existing != nil {
			return nil
		}
		m.AppendPart(&messages.ToolPart{
			ToolName:   b.ToolName,
			ToolCallID: b.ToolCallID,
			State:      messages.ToolStateInputAvailable,
			Input:      b.Input,
		})
	case BlockTypeToolResult:
		if existing := m.ToolPart(b.ToolCallID); existing != nil {
			if !existing.State.Resolved() {
				existing.State = messages.ToolStateOutputAvailable
				existing.Output = b.Output
			}
			return nil
		}
		// No matching call in this message: synthesize a result-only part.
		m.AppendPart(&messages.ToolPart{
			ToolName:   b.ToolName,
			ToolCallID: b.ToolCallID,
			State:      messages.ToolStateOutputAvailable,
			Output:     b.Output,
		})
	case BlockTypeFile:
		m.AppendPart(&messages.FilePart{
			URL:       messages.FileDataToURL(b.Data, b.MediaType),
			MediaType: b.MediaType,
			Filename:  b.Filename,
		})
	case BlockTypeImage:
		mediaType := b.MediaType
		if mediaType == "" {
			mediaType = "image/png"
		}
		m.AppendPart(&messages.FilePart{
			URL:       messages.FileDataToURL(b.Image, mediaType),
			MediaType: mediaType,
		})
	default:
		return messages.NewConversionError("model", "canonical", "unknown content block type "+b.Type, nil)
	}
	return nil
}

// CanonicalToModel converts a canonical message into model messages. An
// assistant message with resolved tool parts expands into an assistant
// message carrying the tool-call blocks followed by a tool message carrying
// the results; unresolved tool parts are stripped, since a model must never
// be shown a dangling call it did not finish. Step markers and source links
// have no model-side representation and are dropped.
func CanonicalToModel(m *messages.Message) []ModelMessage {
	var blocks []ModelBlock
	var results []ModelBlock

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
			if !v.State.Resolved() {
				continue
			}
			blocks = append(blocks, ModelBlock{
				Type:       BlockTypeToolCall,
				ToolCallID: v.ToolCallID,
				ToolName:   v.ToolName,
				Input:      v.Input,
			})
			results = append(results, ModelBlock{
				Type:       BlockTypeToolResult,
				ToolCallID: v.ToolCallID,
				ToolName:   v.ToolName,
				Output:     v.Output,
			})
		case *messages.SourceURLPart, *messages.StepStartPart:
			// no model-side representation
		}
	}

	var out []ModelMessage

	// A single text block collapses back to a plain string body.
	if len(blocks) == 1 && blocks[0].Type == BlockTypeText {
		out = append(out, NewModelTextMessage(m.Role, blocks[0].Text))
	} else if len(blocks) > 0 {
		out = append(out, ModelMessage{Role: m.Role, Content: ModelContent{Blocks: blocks}})
	}

	if len(results) > 0 {
		out = append(out, ModelMessage{Role: messages.RoleTool, Content: ModelContent{Blocks: results}})
	}
	return out
}

// CanonicalToModelAll converts a canonical sequence to model messages.
func CanonicalToModelAll(msgs []*messages.Message) []ModelMessage {
	var out []ModelMessage
	for _, m := range msgs {
		out = append(out, CanonicalToModel(m)...)
	}
	return out
}
