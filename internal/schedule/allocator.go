package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/internal/extract"
)

// Allocator enumerates bookable slots for a day.
type Allocator struct {
	store calendar.Store
}

// NewAllocator creates an allocator over the given calendar store.
func NewAllocator(store calendar.Store) *Allocator {
	if store == nil {
		panic("schedule: calendar store required")
	}
	return &Allocator{store: store}
}

// SuggestAlternatives returns the free hourly slots within business hours
// on the given day, ascending. When preferredTime parses and is itself
// free, it is moved to the front of the list (a single reorder, not a
// re-sort) so callers can present the closest match first. An empty
// result means the day is fully booked.
func (a *Allocator) SuggestAlternatives(ctx context.Context, day time.Time, preferredTime string) ([]extract.TimeOfDay, error) {
	booked, err := a.store.ListActiveTimes(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("schedule: list booked slots: %w", err)
	}

	occupied := make(map[int]bool, len(booked))
	for _, t := range booked {
		occupied[t.Hour()] = true
	}

	var free []extract.TimeOfDay
	for hour := OpenHour; hour < CloseHour; hour++ {
		if !occupied[hour] {
			free = append(free, extract.TimeOfDay{Hour: hour})
		}
	}

	if preferredTime != "" {
		if pref, err := extract.ParseTimeOfDay(preferredTime); err == nil {
			for i, slot := range free {
				if slot == pref {
					copy(free[1:i+1], free[:i])
					free[0] = pref
					break
				}
			}
		}
	}

	return free, nil
}
