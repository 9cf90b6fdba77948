package promo

import (
	"sort"
	"time"
)

// FilterActive keeps enabled promotions whose validity window contains now.
// The result is sorted by priority ascending then id ascending, which fixes
// the tie-break order for everything downstream.
func FilterActive(promos []Promotion, now time.Time) []Promotion {
	out := make([]Promotion, 0, len(promos))
	for _, p := range promos {
		if !p.Enabled {
			continue
		}
		if p.StartAt != nil && now.Before(*p.StartAt) {
			continue
		}
		if p.EndAt != nil && now.After(*p.EndAt) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].priority() != out[j].priority() {
			return out[i].priority() < out[j].priority()
		}
		return out[i].ID < out[j].ID
	})
	return out
}
