package messages

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Part type discriminators as they appear on the wire. Tool parts use a
// dynamic "tool-<name>" discriminator and are handled separately.
const (
	PartTypeText      = "text"
	PartTypeReasoning = "reasoning"
	PartTypeFile      = "file"
	PartTypeSourceURL = "source-url"
	PartTypeStepStart = "step-start"

	toolPartPrefix = "tool-"
)

// Part is one semantic unit of message content within a Content envelope.
// The set of implementations is closed; converters switch exhaustively over
// it, so adding a kind forces every converter to be updated.
type Part interface {
	// PartType returns the wire discriminator for this part.
	PartType() string

	isPart()
}

// TextPart is a plain text segment.
type TextPart struct {
	Text string `json:"text"`
}

func (p *TextPart) PartType() string { return PartTypeText }
func (p *TextPart) isPart()          {}

// ReasoningPart carries model reasoning flattened to a single text field.
// The persisted v2 schema stores reasoning as a list of detail segments;
// conversion between the two lives in the formats package.
type ReasoningPart struct {
	Text string `json:"text"`
}

func (p *ReasoningPart) PartType() string { return PartTypeReasoning }
func (p *ReasoningPart) isPart()          {}

// FilePart references a file by URL. The URL is either a remote reference
// preserved verbatim or a data URI wrapping an inline payload; see
// FileDataToURL for the disambiguation rules.
type FilePart struct {
	URL       string `json:"url"`
	MediaType string `json:"mediaType,omitempty"`
	Filename  string `json:"filename,omitempty"`
}

func (p *FilePart) PartType() string { return PartTypeFile }
func (p *FilePart) isPart()          {}

// SourceURLPart is a cited source link.
type SourceURLPart struct {
	SourceID string `json:"sourceId,omitempty"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
}

func (p *SourceURLPart) PartType() string { return PartTypeSourceURL }
func (p *SourceURLPart) isPart()          {}

// StepStartPart marks a step boundary within an assistant turn.
type StepStartPart struct{}

func (p *StepStartPart) PartType() string { return PartTypeStepStart }
func (p *StepStartPart) isPart()          {}

// ToolState is the lifecycle state of a tool invocation. It only moves
// forward: input-streaming, input-available, output-available.
type ToolState string

const (
	ToolStateInputStreaming  ToolState = "input-streaming"
	ToolStateInputAvailable  ToolState = "input-available"
	ToolStateOutputAvailable ToolState = "output-available"
)

// Resolved reports whether the invocation has produced its output.
func (s ToolState) Resolved() bool { return s == ToolStateOutputAvailable }

// Before reports whether s precedes other in the forward-only lifecycle.
func (s ToolState) Before(other ToolState) bool {
	return toolStateRank(s) < toolStateRank(other)
}

func toolStateRank(s ToolState) int {
	switch s {
	case ToolStateInputStreaming:
		return 0
	case ToolStateInputAvailable:
		return 1
	case ToolStateOutputAvailable:
		return 2
	default:
		return -1
	}
}

// ToolPart is a unified tool invocation/result part. A call and its later
// result share one part; the result merge advances State and fills Output.
type ToolPart struct {
	ToolName   string          `json:"-"`
	ToolCallID string          `json:"toolCallId"`
	State      ToolState       `json:"state"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

func (p *ToolPart) PartType() string { return toolPartPrefix + p.ToolName }
func (p *ToolPart) isPart()          {}

// IsToolPartType reports whether a wire discriminator names a tool part.
func IsToolPartType(t string) bool { return strings.HasPrefix(t, toolPartPrefix) }

// ToolNameFromPartType extracts the tool name from a "tool-<name>"
// discriminator.
func ToolNameFromPartType(t string) string { return strings.TrimPrefix(t, toolPartPrefix) }

// partEnvelope is the wire form shared by all part kinds.
type partEnvelope struct {
	Type       string          `json:"type"`
	Text       string          `json:"text,omitempty"`
	URL        string          `json:"url,omitempty"`
	MediaType  string          `json:"mediaType,omitempty"`
	Filename   string          `json:"filename,omitempty"`
	SourceID   string          `json:"sourceId,omitempty"`
	Title      string          `json:"title,omitempty"`
	ToolCallID string          `json:"toolCallId,omitempty"`
	State      ToolState       `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
}

// MarshalPart serializes a part with its type discriminator.
func MarshalPart(p Part) ([]byte, error) {
	env := partEnvelope{Type: p.PartType()}
	switch v := p.(type) {
	case *TextPart:
		env.Text = v.Text
	case *ReasoningPart:
		env.Text = v.Text
	case *FilePart:
		env.URL = v.URL
		env.MediaType = v.MediaType
		env.Filename = v.Filename
	case *SourceURLPart:
		env.SourceID = v.SourceID
		env.URL = v.URL
		env.Title = v.Title
	case *StepStartPart:
		// type only
	case *ToolPart:
		env.ToolCallID = v.ToolCallID
		env.State = v.State
		env.Input = v.Input
		env.Output = v.Output
	default:
		return nil, fmt.Errorf("unknown part type %T", p)
	}
	return json.Marshal(env)
}

// UnmarshalPart deserializes a part by its type discriminator.
func UnmarshalPart(data []byte) (Part, error) {
	var env partEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return partFromEnvelope(env)
}

func partFromEnvelope(env partEnvelope) (Part, error) {
	switch {
	case env.Type == PartTypeText:
		return &TextPart{Text: env.Text}, nil
	case env.Type == PartTypeReasoning:
		return &ReasoningPart{Text: env.Text}, nil
	case env.Type == PartTypeFile:
		return &FilePart{URL: env.URL, MediaType: env.MediaType, Filename: env.Filename}, nil
	case env.Type == PartTypeSourceURL:
		return &SourceURLPart{SourceID: env.SourceID, URL: env.URL, Title: env.Title}, nil
	case env.Type == PartTypeStepStart:
		return &StepStartPart{}, nil
	case IsToolPartType(env.Type):
		return &ToolPart{
			ToolName:   ToolNameFromPartType(env.Type),
			ToolCallID: env.ToolCallID,
			State:      env.State,
			Input:      env.Input,
			Output:     env.Output,
		}, nil
	default:
		return nil, fmt.Errorf("unknown part type %q", env.Type)
	}
}

// ClonePart returns a deep copy of a part.
func ClonePart(p Part) Part {
	switch v := p.(type) {
	case *TextPart:
		c := *v
		return &c
	case *ReasoningPart:
		c := *v
		return &c
	case *FilePart:
		c := *v
		return &c
	case *SourceURLPart:
		c := *v
		return &c
	case *StepStartPart:
		return &StepStartPart{}
	case *ToolPart:
		c := *v
		c.Input = cloneRaw(v.Input)
		c.Output = cloneRaw(v.Output)
		return &c
	default:
		return p
	}
}

// CloneParts returns a deep copy of a part slice.
func CloneParts(parts []Part) []Part {
	if parts == nil {
		return nil
	}
	out := make([]Part, len(parts))
	for i, p := range parts {
		out[i] = ClonePart(p)
	}
	return out
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	c := make(json.RawMessage, len(r))
	copy(c, r)
	return c
}
