package timeline

import (
	"github.com/threadline/go-sdk/pkg/messages"
	"github.com/threadline/go-sdk/pkg/messages/formats"
)

// placeholderUserContent opens a model-ready conversation that would
// otherwise start with an assistant turn; some providers reject a
// conversation that does not open with a user message.
const placeholderUserContent = "."

// Projection is a pure, point-in-time view over the canonical list,
// renderable into any supported external format. Projections hold deep
// copies; a growing timeline never mutates an already-taken projection.
type Projection struct {
	msgs []*messages.Message
}

// snapshot clones the messages passing the filter, in timeline order.
func (tl *Timeline) snapshot(keep func(id string) bool) Projection {
	tl.mu.RLock()
	defer tl.mu.RUnlock()

	var out []*messages.Message
	for _, m := range tl.msgs {
		if keep == nil || keep(m.ID) {
			out = append(out, m.Clone())
		}
	}
	return Projection{msgs: out}
}

// All projects every canonical message.
func (tl *Timeline) All() Projection {
	return tl.snapshot(nil)
}

// Remembered projects only messages recalled from memory.
func (tl *Timeline) Remembered() Projection {
	return tl.snapshot(func(id string) bool { return tl.tagged(id, SourceMemory) })
}

// Input projects only new user input.
func (tl *Timeline) Input() Projection {
	return tl.snapshot(func(id string) bool { return tl.tagged(id, SourceUser) })
}

// Response projects only new model output.
func (tl *Timeline) Response() Projection {
	return tl.snapshot(func(id string) bool { return tl.tagged(id, SourceResponse) })
}

// Len returns the number of messages in the projection.
func (p Projection) Len() int { return len(p.msgs) }

// Canonical returns the projection in canonical form. Internal metadata
// bookkeeping is stripped.
func (p Projection) Canonical() []*messages.Message {
	out := make([]*messages.Message, 0, len(p.msgs))
	for _, m := range p.msgs {
		c := m.Clone()
		c.Content.Metadata = m.PublicMetadata()
		out = append(out, c)
	}
	return out
}

// UI returns the projection as UI messages, with in-flight tool parts
// filtered out.
func (p Projection) UI() []formats.UIMessage {
	return formats.CanonicalToUIAll(p.msgs)
}

// V2 returns the projection in the persisted v2 shape, the snapshot handed
// to the storage collaborator.
func (p Projection) V2() []formats.V2Message {
	return formats.CanonicalToV2All(p.msgs)
}

// V1 returns the projection in the legacy v1 shape.
func (p Projection) V1() []formats.V1Message {
	out := make([]formats.V1Message, 0, len(p.msgs))
	for _, m := range p.msgs {
		out = append(out, formats.CanonicalToV1(m))
	}
	return out
}

// Model returns the projection as model messages. Unresolved tool calls are
// stripped by the conversion.
func (p Projection) Model() []formats.ModelMessage {
	return formats.CanonicalToModelAll(p.msgs)
}

// ModelReady returns the conversation as handed to the model-invocation
// collaborator: resolved system messages first, then the ordered turns with
// dangling tool calls stripped, opening with a user turn even if a
// placeholder has to be synthesized.
func (tl *Timeline) ModelReady() []formats.ModelMessage {
	p := tl.All()

	var out []formats.ModelMessage
	for _, sys := range tl.AllSystemMessages() {
		out = append(out, formats.NewModelTextMessage(messages.RoleSystem, sys.Content))
	}

	turns := p.Model()
	if len(turns) == 0 || turns[0].Role != messages.RoleUser {
		out = append(out, formats.NewModelTextMessage(messages.RoleUser, placeholderUserContent))
	}
	return append(out, turns...)
}
