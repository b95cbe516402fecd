package calculator

import (
	"cmp"
	"slices"

	"github.com/mmynk/hizbtrack/internal/models"
)

// ratio returns completed/total, or 0 when the member has no capacity.
func ratio(m models.Member) float64 {
	if m.TotalUnits <= 0 {
		return 0
	}
	return float64(m.CompletedUnits) / float64(m.TotalUnits)
}

// MemberPercent returns how much of their capacity a member has completed, in percent.
func MemberPercent(m models.Member) float64 {
	return ratio(m) * 100
}

// GroupProgressPercent computes the share of the whole group's reading that is done.
// Based on: sum(completed) / (member_count × group_total) × 100
//
// The group default capacity is used for every member, so this differs from
// AverageProgressPercent when members have individual capacities.
func GroupProgressPercent(doc *models.GroupData) float64 {
	if doc == nil || len(doc.Members) == 0 || doc.TotalUnits <= 0 {
		return 0
	}

	completed := 0
	for _, m := range doc.Members {
		completed += m.CompletedUnits
	}

	possible := len(doc.Members) * doc.TotalUnits
	return float64(completed) / float64(possible) * 100
}

// AverageProgressPercent computes the mean of the members' own completion percentages.
func AverageProgressPercent(doc *models.GroupData) float64 {
	if doc == nil || len(doc.Members) == 0 {
		return 0
	}

	sum := 0.0
	for _, m := range doc.Members {
		sum += ratio(m)
	}
	return sum / float64(len(doc.Members)) * 100
}

// RankMembers returns a copy of members sorted by completion ratio, highest first.
// Members with equal ratios keep their relative order.
func RankMembers(members []models.Member) []models.Member {
	ranked := slices.Clone(members)
	slices.SortStableFunc(ranked, func(a, b models.Member) int {
		return cmp.Compare(ratio(b), ratio(a))
	})
	return ranked
}

// TopPerformers returns the n members with the highest completion ratio.
// Ties keep insertion order. The input slice is not modified.
func TopPerformers(members []models.Member, n int) []models.Member {
	return firstN(RankMembers(members), n)
}

// TopPerformersForMonth returns the n members who recorded the most units in
// month. Members with no entry, or a zero entry, for that month are left out.
// Ties keep insertion order.
func TopPerformersForMonth(members []models.Member, month string, n int) []models.Member {
	var active []models.Member
	for _, m := range members {
		if units, ok := m.History.Get(month); ok && units > 0 {
			active = append(active, m)
		}
	}

	slices.SortStableFunc(active, func(a, b models.Member) int {
		return cmp.Compare(b.History[month], a.History[month])
	})
	return firstN(active, n)
}

func firstN(members []models.Member, n int) []models.Member {
	if n <= 0 || len(members) == 0 {
		return []models.Member{}
	}
	if n > len(members) {
		n = len(members)
	}
	return members[:n:n]
}
