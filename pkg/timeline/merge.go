package timeline

import (
	"github.com/threadline/go-sdk/pkg/messages"
)

// anchor maps a part's index in the incoming message to the index of its
// counterpart in the latest canonical message. Anchors are recorded for tool
// parts whose call ID already exists in the latest message and drive the
// insertion positions of everything streamed around them.
type anchor struct {
	in int // index in the incoming part sequence
	at int // index in the latest message's part sequence
}

// mergeStreamingParts reconciles an incoming assistant delta into the latest
// assistant message in place.
//
// Tool parts are matched by call ID, scanning the existing parts from the
// end. A matched result updates the existing part: type, call ID and input
// are preserved, only the output and state advance, and a part already in
// output-available state ignores later call parts rather than reverting.
// Each match records an anchor.
//
// Every other incoming part is placed by interpolating between the nearest
// surrounding anchors (appending at the end when none exist), and inserted
// only when no equivalent part already occupies that span and the part does
// not already occur the expected number of times, so replayed deltas never
// duplicate content.
func mergeStreamingParts(latest, incoming *messages.Message) {
	var anchors []anchor
	matched := make(map[int]bool)

	for i, p := range incoming.Content.Parts {
		tp, ok := p.(*messages.ToolPart)
		if !ok {
			continue
		}
		for j := len(latest.Content.Parts) - 1; j >= 0; j-- {
			lp, ok := latest.Content.Parts[j].(*messages.ToolPart)
			if !ok || lp.ToolCallID != tp.ToolCallID {
				continue
			}
			if tp.State.Resolved() && !lp.State.Resolved() {
				lp.State = messages.ToolStateOutputAvailable
				lp.Output = tp.Output
			}
			anchors = append(anchors, anchor{in: i, at: j})
			matched[i] = true
			break
		}
	}

	for i, p := range incoming.Content.Parts {
		if matched[i] {
			continue
		}

		key := messages.PartKey(p)

		// Whole-part replay guard: a part that already occurs as often in
		// the latest message as in the incoming one is a repeated delta.
		if messages.CountPartKey(latest.Content.Parts, key) >=
			messages.CountPartKey(incoming.Content.Parts, key) {
			continue
		}

		pos, lo, hi := insertionWindow(anchors, i, len(latest.Content.Parts))

		// Span dedup: an equivalent part already inside the window means
		// this delta was replayed.
		dup := false
		for j := lo; j < hi && j < len(latest.Content.Parts); j++ {
			if messages.PartKey(latest.Content.Parts[j]) == key {
				dup = true
				break
			}
		}
		if dup {
			continue
		}

		latest.Content.Parts = insertPart(latest.Content.Parts, pos, p)
		for k := range anchors {
			if anchors[k].at >= pos {
				anchors[k].at++
			}
		}
	}

	if incoming.CreatedAt.After(latest.CreatedAt) {
		latest.CreatedAt = incoming.CreatedAt
	}
}

// insertionWindow computes where an incoming part at index i belongs in the
// latest part sequence, and the span [lo, hi) in which an equivalent part
// counts as a duplicate. With anchors on both sides the position is
// interpolated proportionally; with one anchor it is offset from that
// anchor; with none, parts append at the end and the whole sequence is the
// dedup span.
func insertionWindow(anchors []anchor, i, latestLen int) (pos, lo, hi int) {
	var prev, next *anchor
	for k := range anchors {
		a := &anchors[k]
		if a.in < i && (prev == nil || a.in > prev.in) {
			prev = a
		}
		if a.in > i && (next == nil || a.in < next.in) {
			next = a
		}
	}

	switch {
	case prev == nil && next == nil:
		return latestLen, 0, latestLen
	case next == nil:
		pos = prev.at + (i - prev.in)
		if pos > latestLen {
			pos = latestLen
		}
		return pos, prev.at + 1, latestLen
	case prev == nil:
		pos = next.at - (next.in - i)
		if pos < 0 {
			pos = 0
		}
		return pos, 0, next.at
	default:
		span := next.at - prev.at
		gap := next.in - prev.in
		pos = prev.at + (i-prev.in)*span/gap
		if pos <= prev.at {
			pos = prev.at + 1
		}
		if pos > next.at {
			pos = next.at
		}
		return pos, prev.at + 1, next.at
	}
}

func insertPart(parts []messages.Part, pos int, p messages.Part) []messages.Part {
	if pos < 0 {
		pos = 0
	}
	if pos > len(parts) {
		pos = len(parts)
	}
	out := make([]messages.Part, 0, len(parts)+1)
	out = append(out, parts[:pos]...)
	out = append(out, messages.ClonePart(p))
	out = append(out, parts[pos:]...)
	return out
}
