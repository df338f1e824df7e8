package timeline

import (
	"encoding/json"
	"io"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/threadline/go-sdk/pkg/messages"
	"github.com/threadline/go-sdk/pkg/messages/formats"
)

// SourceTag is the provenance label recorded when a message enters the
// timeline.
type SourceTag string

const (
	// SourceMemory marks messages recalled from storage.
	SourceMemory SourceTag = "memory"
	// SourceUser marks new user input.
	SourceUser SourceTag = "user"
	// SourceResponse marks new model output.
	SourceResponse SourceTag = "response"
	// SourceContext marks injected contextual messages.
	SourceContext SourceTag = "context"
)

// Validate validates that a tag is one of the recognized values.
func (t SourceTag) Validate() error {
	switch t {
	case SourceMemory, SourceUser, SourceResponse, SourceContext:
		return nil
	default:
		return &messages.MessageError{
			Type:    messages.ErrorTypeConversion,
			Message: "unknown source tag " + string(t),
			Field:   "sourceTag",
		}
	}
}

// Options configures a Timeline.
type Options struct {
	// ThreadID and ResourceID bind the timeline to a conversation. Messages
	// declaring conflicting identifiers are rejected, except recalled memory
	// which is flagged instead.
	ThreadID   string
	ResourceID string

	// Logger receives non-fatal anomalies (cross-thread recall). Defaults to
	// a discard logger.
	Logger logrus.FieldLogger
}

// DefaultOptions returns default timeline options.
func DefaultOptions() Options {
	return Options{Logger: discardLogger()}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Timeline holds the canonical ordered message list, per-source-tag
// membership sets, and the separately pooled system messages. See the
// package documentation for the concurrency discipline.
type Timeline struct {
	mu sync.RWMutex

	threadID   string
	resourceID string
	log        logrus.FieldLogger

	msgs    []*messages.Message
	tags    map[SourceTag]map[string]struct{}
	unsaved map[string]struct{}

	system *systemPools
	clock  *timestampClock

	crossThreadNoted bool
}

// New creates an empty timeline.
func New(options ...Options) *Timeline {
	opts := DefaultOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}

	return &Timeline{
		threadID:   opts.ThreadID,
		resourceID: opts.ResourceID,
		log:        opts.Logger,
		tags: map[SourceTag]map[string]struct{}{
			SourceMemory:   {},
			SourceUser:     {},
			SourceResponse: {},
			SourceContext:  {},
		},
		unsaved: make(map[string]struct{}),
		system:  newSystemPools(),
		clock:   newTimestampClock(),
	}
}

// ThreadID returns the bound thread identifier.
func (tl *Timeline) ThreadID() string { return tl.threadID }

// ResourceID returns the bound resource identifier.
func (tl *Timeline) ResourceID() string { return tl.resourceID }

// Len returns the number of canonical messages.
func (tl *Timeline) Len() int {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	return len(tl.msgs)
}

// Latest returns a copy of the newest canonical message, or nil when empty.
func (tl *Timeline) Latest() *messages.Message {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	if len(tl.msgs) == 0 {
		return nil
	}
	return tl.msgs[len(tl.msgs)-1].Clone()
}

// ByID returns a copy of the message with the given ID, or nil.
func (tl *Timeline) ByID(id string) *messages.Message {
	tl.mu.RLock()
	defer tl.mu.RUnlock()
	if i := tl.indexByID(id); i >= 0 {
		return tl.msgs[i].Clone()
	}
	return nil
}

// Add ingests a message, or a slice of messages, in any recognized shape
// under the given source tag. Each message is validated, normalized to the
// canonical representation, deduplicated, and appended, merged into the
// in-flight assistant turn, or replaced in place. Errors are programmer or
// integration errors and are never retried internally.
func (tl *Timeline) Add(input any, tag SourceTag) error {
	if err := tag.Validate(); err != nil {
		return err
	}

	for _, item := range expandBatch(input) {
		if err := tl.addOne(item, tag); err != nil {
			return err
		}
	}
	return nil
}

// expandBatch flattens slice inputs into individual messages. Byte slices
// are raw JSON, not batches.
func expandBatch(input any) []any {
	switch input.(type) {
	case []byte, json.RawMessage:
		return []any{input}
	}
	v := reflect.ValueOf(input)
	if !v.IsValid() || v.Kind() != reflect.Slice {
		return []any{input}
	}
	out := make([]any, v.Len())
	for i := 0; i < v.Len(); i++ {
		out[i] = v.Index(i).Interface()
	}
	return out
}

func (tl *Timeline) addOne(input any, tag SourceTag) error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	role, _ := formats.RoleOf(input)

	// Minimal shape check before any conversion work.
	if missing, ok := emptyContent(input); !ok {
		return messages.NewInvalidContentError(role, string(tag), missing)
	}

	// System traffic never enters the canonical list.
	if role == messages.RoleSystem {
		content, plain := formats.IsPlainSystemShape(input)
		if !plain {
			return messages.NewSystemFormatError(shapeName(input))
		}
		tl.system.add(content, "")
		return nil
	}

	m, err := formats.Normalize(input)
	if err != nil {
		if me, ok := err.(*messages.MessageError); ok && me.Source == "" {
			me.Source = string(tag)
		}
		return err
	}

	if err := tl.bindIdentifiers(m, tag); err != nil {
		return err
	}

	// Memory recall must never duplicate what a prior turn already added.
	if tag == SourceMemory {
		for _, existing := range tl.msgs {
			if messages.Equivalent(existing, m) {
				return nil
			}
		}
	}

	m.EnsureID()
	explicit := m.CreatedAt
	m.CreatedAt = tl.clock.assign(tl.maxCreatedAt(), explicit, tag)

	// Streaming-append: a new assistant message arriving while the latest
	// message is the same thread's assistant turn continues that turn
	// instead of opening a new one. Recalled messages never retroactively
	// append to an in-flight turn.
	if latest := tl.latestLocked(); latest != nil &&
		latest.Role == messages.RoleAssistant &&
		m.Role == messages.RoleAssistant &&
		latest.ThreadID == m.ThreadID &&
		tag != SourceMemory {
		mergeStreamingParts(latest, m)
		tl.register(latest.ID, tag)
		tl.resort()
		return nil
	}

	// Same ID: idempotent skip when structurally identical, in-place
	// replacement otherwise. Never a duplicate. An edit without its own
	// timestamp keeps the replaced entry's time, and with it its position.
	if idx := tl.indexByID(m.ID); idx >= 0 {
		if messages.Equivalent(tl.msgs[idx], m) &&
			messages.MetadataEqual(tl.msgs[idx].Content.Metadata, m.Content.Metadata) {
			return nil
		}
		if explicit.IsZero() {
			m.CreatedAt = tl.msgs[idx].CreatedAt
		}
		tl.msgs[idx] = m
	} else {
		tl.msgs = append(tl.msgs, m)
	}

	tl.register(m.ID, tag)
	tl.resort()
	return nil
}

// bindIdentifiers defaults missing thread/resource identifiers to the bound
// values and enforces consistency. Recalled cross-thread content is
// permitted: it is flagged through the logger and a memory-tagged system
// annotation rather than rejected.
func (tl *Timeline) bindIdentifiers(m *messages.Message, tag SourceTag) error {
	if m.ThreadID == "" {
		m.ThreadID = tl.threadID
	}
	if m.ResourceID == "" {
		m.ResourceID = tl.resourceID
	}

	threadConflict := tl.threadID != "" && m.ThreadID != tl.threadID
	resourceConflict := tl.resourceID != "" && m.ResourceID != tl.resourceID
	if !threadConflict && !resourceConflict {
		return nil
	}

	if tag != SourceMemory {
		if threadConflict {
			return messages.NewThreadMismatchError("threadId", m.ThreadID, tl.threadID)
		}
		return messages.NewThreadMismatchError("resourceId", m.ResourceID, tl.resourceID)
	}

	tl.log.WithFields(logrus.Fields{
		"messageId":  m.ID,
		"threadId":   m.ThreadID,
		"resourceId": m.ResourceID,
	}).Warn("recalled message belongs to another conversation")
	if !tl.crossThreadNoted {
		tl.system.add("Some of the remembered context comes from another conversation.", string(SourceMemory))
		tl.crossThreadNoted = true
	}
	return nil
}

// register records a message under a source tag and, for user and response
// traffic, marks it pending persistence. A message appended-to during a
// streaming merge accumulates multiple memberships.
func (tl *Timeline) register(id string, tag SourceTag) {
	tl.tags[tag][id] = struct{}{}
	if tag == SourceUser || tag == SourceResponse {
		tl.unsaved[id] = struct{}{}
	}
}

// resort restores ascending CreatedAt order; stable so equal timestamps keep
// insertion order. Recalled and system-adjacent inserts can arrive out of
// wall-clock order relative to messages already present.
func (tl *Timeline) resort() {
	sort.SliceStable(tl.msgs, func(i, j int) bool {
		return tl.msgs[i].CreatedAt.Before(tl.msgs[j].CreatedAt)
	})
}

func (tl *Timeline) latestLocked() *messages.Message {
	if len(tl.msgs) == 0 {
		return nil
	}
	return tl.msgs[len(tl.msgs)-1]
}

func (tl *Timeline) indexByID(id string) int {
	for i, m := range tl.msgs {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func (tl *Timeline) maxCreatedAt() time.Time {
	var max time.Time
	for _, m := range tl.msgs {
		if m.CreatedAt.After(max) {
			max = m.CreatedAt
		}
	}
	return max
}

// tagged reports whether a message is registered under a tag.
func (tl *Timeline) tagged(id string, tag SourceTag) bool {
	_, ok := tl.tags[tag][id]
	return ok
}

// DrainUnsaved atomically snapshots and clears the set of messages pending
// persistence, returning copies in timeline order. Each message is handed
// off at most once per drain; callers that fail to persist a batch re-queue
// it themselves (see SaveQueue).
func (tl *Timeline) DrainUnsaved() []*messages.Message {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if len(tl.unsaved) == 0 {
		return nil
	}
	out := make([]*messages.Message, 0, len(tl.unsaved))
	for _, m := range tl.msgs {
		if _, ok := tl.unsaved[m.ID]; ok {
			out = append(out, m.Clone())
		}
	}
	tl.unsaved = make(map[string]struct{})
	return out
}
