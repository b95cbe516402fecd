package models

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// MonthLayout is the time layout of a month key ("YYYY-MM").
const MonthLayout = "2006-01"

// MonthlyProgress is one month of a member's history as it appears on the wire.
type MonthlyProgress struct {
	// Month is the zero-padded calendar month, e.g. "2024-03".
	Month string `json:"month"`

	// UnitsCompleted is the number of ahzab recorded for that month.
	UnitsCompleted int `json:"ahzabCompleted"`
}

// History maps a month key to the units recorded for it.
// Keys are unique by construction; ordering is applied when the history is
// listed or serialized. Zero-padded month keys sort chronologically.
type History map[string]int

// Set records units for month, replacing any previous value.
func (h *History) Set(month string, units int) {
	if *h == nil {
		*h = make(History)
	}
	(*h)[month] = units
}

// Get returns the units recorded for month.
func (h History) Get(month string) (int, bool) {
	units, ok := h[month]
	return units, ok
}

// Months returns the recorded months in ascending order.
func (h History) Months() []string {
	months := make([]string, 0, len(h))
	for month := range h {
		months = append(months, month)
	}
	slices.Sort(months)
	return months
}

// Entries returns the history as a list sorted ascending by month.
func (h History) Entries() []MonthlyProgress {
	entries := make([]MonthlyProgress, 0, len(h))
	for _, month := range h.Months() {
		entries = append(entries, MonthlyProgress{Month: month, UnitsCompleted: h[month]})
	}
	return entries
}

// Clone returns a copy of the history.
func (h History) Clone() History {
	return maps.Clone(h)
}

// MarshalJSON encodes the history as a month-sorted array.
func (h History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Entries())
}

// UnmarshalJSON decodes a month array. Repeated months collapse into one
// entry and the last occurrence wins.
func (h *History) UnmarshalJSON(data []byte) error {
	var entries []MonthlyProgress
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to decode monthly progress: %w", err)
	}
	if len(entries) == 0 {
		*h = nil
		return nil
	}
	out := make(History, len(entries))
	for _, e := range entries {
		out[e.Month] = e.UnitsCompleted
	}
	*h = out
	return nil
}

// MonthOf returns the month key containing t, in t's location.
func MonthOf(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonth validates a "YYYY-MM" month key and returns the first instant of
// that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	if len(month) != len(MonthLayout) {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", month)
	}
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return t, nil
}
