package timeline

import (
	"testing"
	"time"
)

func fixedClock(wall time.Time) *timestampClock {
	c := newTimestampClock()
	c.now = func() time.Time { return wall }
	return c
}

func TestTimestampClock(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Synthetic times step forward", func(t *testing.T) {
		c := fixedClock(base)

		first := c.assign(time.Time{}, time.Time{}, SourceUser)
		if !first.Equal(base) {
			t.Errorf("Expected first synthetic time at the wall clock, got %v", first)
		}

		second := c.assign(first, time.Time{}, SourceResponse)
		if !second.After(first) {
			t.Errorf("Expected strictly increasing time, got %v then %v", first, second)
		}
		if second.Sub(first) < minStep {
			t.Errorf("Expected at least %v between synthetic times, got %v", minStep, second.Sub(first))
		}
	})

	t.Run("First explicit time anchors untouched", func(t *testing.T) {
		c := fixedClock(base)
		explicit := base.Add(-time.Hour)

		got := c.assign(time.Time{}, explicit, SourceUser)
		if !got.Equal(explicit) {
			t.Errorf("Expected anchor returned unmodified, got %v", got)
		}
	})

	t.Run("Stale explicit time advances instead", func(t *testing.T) {
		c := fixedClock(base)
		anchor := c.assign(time.Time{}, base, SourceUser)

		stale := base.Add(-time.Minute)
		got := c.assign(anchor, stale, SourceUser)
		if !got.Equal(anchor.Add(minStep)) {
			t.Errorf("Expected stale time bumped to latest+step, got %v", got)
		}
	})

	t.Run("Later explicit time is accepted", func(t *testing.T) {
		c := fixedClock(base)
		c.assign(time.Time{}, base, SourceUser)

		later := base.Add(time.Minute)
		got := c.assign(base, later, SourceUser)
		if !got.Equal(later) {
			t.Errorf("Expected later explicit time accepted, got %v", got)
		}
	})

	t.Run("Memory keeps its historical time", func(t *testing.T) {
		c := fixedClock(base)
		c.assign(time.Time{}, base, SourceUser)

		old := base.Add(-24 * time.Hour)
		got := c.assign(base, old, SourceMemory)
		if !got.Equal(old) {
			t.Errorf("Expected recalled time preserved, got %v", got)
		}
	})

	t.Run("Response keeps its reported time", func(t *testing.T) {
		c := fixedClock(base)
		c.assign(time.Time{}, base, SourceUser)

		earlier := base.Add(-time.Second)
		got := c.assign(base, earlier, SourceResponse)
		if !got.Equal(earlier) {
			t.Errorf("Expected response time preserved, got %v", got)
		}
	})

	t.Run("Monotonic against stored maximum", func(t *testing.T) {
		c := fixedClock(base)
		maxStored := base.Add(time.Hour) // a recalled message far in the future

		got := c.assign(maxStored, time.Time{}, SourceUser)
		if !got.After(maxStored) {
			t.Errorf("Expected synthetic time past the stored maximum, got %v", got)
		}
	})
}
