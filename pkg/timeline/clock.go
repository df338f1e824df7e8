package timeline

import "time"

// minStep is the minimum gap between two synthetic timestamps, chosen so a
// total order survives sub-millisecond wall clocks and storage layers that
// round to milliseconds.
const minStep = time.Millisecond

// timestampClock assigns creation times that are globally monotonic across a
// timeline's lifetime. It moves through three states: unset (nothing
// assigned yet), anchored (a first explicit source time was recorded), and
// advancing (synthetic times stepping past the latest known time).
type timestampClock struct {
	anchored bool
	anchor   time.Time
	last     time.Time
	now      func() time.Time
}

func newTimestampClock() *timestampClock {
	return &timestampClock{now: time.Now}
}

// assign returns the creation time for a new message. maxStored is the
// latest CreatedAt across all stored messages; monotonicity is enforced
// against it rather than the last anchor alone, so messages added out of
// original order cannot move time backwards.
//
// Messages recalled from memory or carrying a model response keep an
// explicit source time untouched: their historical time is authoritative and
// advancing it would reorder true history.
func (c *timestampClock) assign(maxStored, explicit time.Time, tag SourceTag) time.Time {
	latest := maxStored
	if c.last.After(latest) {
		latest = c.last
	}

	hasExplicit := !explicit.IsZero()
	if hasExplicit && (tag == SourceMemory || tag == SourceResponse) {
		return explicit
	}

	if hasExplicit {
		if !c.anchored {
			c.anchored = true
			c.anchor = explicit
			c.last = explicit
			return explicit
		}
		if explicit.After(latest) {
			c.last = explicit
			return explicit
		}
		// Explicit time not later than the latest known: advance instead.
		t := latest.Add(minStep)
		c.last = t
		return t
	}

	// Synthetic assignment: step past everything known, but never behind the
	// wall clock.
	t := latest.Add(minStep)
	if wall := c.now(); wall.After(t) {
		t = wall
	}
	c.last = t
	return t
}
