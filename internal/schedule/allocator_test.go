package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brightsmile/clinic-assistant/internal/calendar"
	"github.com/brightsmile/clinic-assistant/internal/extract"
)

func TestSuggestAlternativesEmptyDay(t *testing.T) {
	store := calendar.NewMemoryStore()
	alloc := NewAllocator(store)

	slots, err := alloc.SuggestAlternatives(context.Background(), monday, "")
	require.NoError(t, err)
	require.Len(t, slots, CloseHour-OpenHour)
	for i, slot := range slots {
		require.Equal(t, extract.TimeOfDay{Hour: OpenHour + i}, slot)
	}
}

func TestSuggestAlternativesSkipsBooked(t *testing.T) {
	store := calendar.NewMemoryStore()
	ctx := context.Background()
	book(t, store, monday, 9)
	book(t, store, monday, 14)

	alloc := NewAllocator(store)
	slots, err := alloc.SuggestAlternatives(ctx, monday, "")
	require.NoError(t, err)
	require.Len(t, slots, 6)
	for _, slot := range slots {
		require.NotEqual(t, 9, slot.Hour)
		require.NotEqual(t, 14, slot.Hour)
	}
}

func TestSuggestAlternativesPreferredFirst(t *testing.T) {
	store := calendar.NewMemoryStore()
	book(t, store, monday, 9)

	alloc := NewAllocator(store)
	slots, err := alloc.SuggestAlternatives(context.Background(), monday, "2:00 PM")
	require.NoError(t, err)
	require.Equal(t, extract.TimeOfDay{Hour: 14}, slots[0])

	// Remaining slots keep their ascending order.
	rest := slots[1:]
	for i := 1; i < len(rest); i++ {
		require.Less(t, rest[i-1].Hour, rest[i].Hour)
	}
}

func TestSuggestAlternativesPreferredBooked(t *testing.T) {
	store := calendar.NewMemoryStore()
	book(t, store, monday, 10)

	alloc := NewAllocator(store)
	slots, err := alloc.SuggestAlternatives(context.Background(), monday, "10:00 AM")
	require.NoError(t, err)
	require.Equal(t, extract.TimeOfDay{Hour: 9}, slots[0])
	for _, slot := range slots {
		require.NotEqual(t, 10, slot.Hour)
	}
}

func TestSuggestAlternativesFullDay(t *testing.T) {
	store := calendar.NewMemoryStore()
	for hour := OpenHour; hour < CloseHour; hour++ {
		book(t, store, monday, hour)
	}

	alloc := NewAllocator(store)
	slots, err := alloc.SuggestAlternatives(context.Background(), monday, "10:00 AM")
	require.NoError(t, err)
	require.Empty(t, slots)
}

func book(t *testing.T, store *calendar.MemoryStore, day time.Time, hour int) {
	t.Helper()
	at := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
	_, err := store.Create(context.Background(), "p-1", at, "General Checkup", "")
	require.NoError(t, err)
}
