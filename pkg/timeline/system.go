package timeline

import (
	"github.com/google/uuid"
)

// SystemMessage is a plain system directive held outside the canonical list.
type SystemMessage struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// systemPools holds system messages in two pools: untagged (user or
// developer supplied) and tagged by purpose (for example "memory"). Both
// pools deduplicate by content equality.
type systemPools struct {
	untagged []SystemMessage
	tagged   map[string][]SystemMessage
	tagOrder []string
}

func newSystemPools() *systemPools {
	return &systemPools{tagged: make(map[string][]SystemMessage)}
}

// add stores a system message under the given tag ("" for the untagged
// pool); duplicates are dropped.
func (sp *systemPools) add(content, tag string) {
	pool := sp.untagged
	if tag != "" {
		pool = sp.tagged[tag]
	}
	for _, existing := range pool {
		if existing.Content == content {
			return
		}
	}

	msg := SystemMessage{ID: uuid.New().String(), Content: content}
	if tag == "" {
		sp.untagged = append(sp.untagged, msg)
		return
	}
	if _, seen := sp.tagged[tag]; !seen {
		sp.tagOrder = append(sp.tagOrder, tag)
	}
	sp.tagged[tag] = append(sp.tagged[tag], msg)
}

// all returns every pooled system message, untagged first, then tagged pools
// in first-seen tag order.
func (sp *systemPools) all() []SystemMessage {
	out := make([]SystemMessage, 0, len(sp.untagged))
	out = append(out, sp.untagged...)
	for _, tag := range sp.tagOrder {
		out = append(out, sp.tagged[tag]...)
	}
	return out
}

// AddSystem adds an untagged system message, deduplicating by content.
func (tl *Timeline) AddSystem(content string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.system.add(content, "")
}

// AddTaggedSystem adds a system message under a purpose tag, deduplicating
// by content within that tag's pool.
func (tl *Timeline) AddTaggedSystem(content, tag string) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.system.add(content, tag)
}

// SystemMessages returns the untagged system messages.
func (tl *Timeline) SystemMessages() []SystemMessage {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	out := make([]SystemMessage, len(tl.system.untagged))
	copy(out, tl.system.untagged)
	return out
}

// TaggedSystemMessages returns the system messages pooled under a tag.
func (tl *Timeline) TaggedSystemMessages(tag string) []SystemMessage {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	pool := tl.system.tagged[tag]
	out := make([]SystemMessage, len(pool))
	copy(out, pool)
	return out
}

// AllSystemMessages returns every pooled system message, untagged first.
func (tl *Timeline) AllSystemMessages() []SystemMessage {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return tl.system.all()
}
