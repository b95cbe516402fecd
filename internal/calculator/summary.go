package calculator

import "github.com/mmynk/hizbtrack/internal/models"

// GroupSummary holds the dashboard figures for a whole group.
type GroupSummary struct {
	MemberCount    int
	GroupPercent   float64
	AveragePercent float64
	CompletedUnits int // Sum of every member's current total
	CapacityUnits  int // Sum of every member's own capacity
	Top            []models.Member
}

// MemberSummary holds the detail figures for one member.
type MemberSummary struct {
	Percent        float64
	Remaining      int    // Units left to finish, never negative
	BestMonth      string // Month with the highest recorded count, empty without history
	BestMonthUnits int
	MonthsTracked  int
}

// Summarize computes the group figures and the topN performers.
func Summarize(doc *models.GroupData, topN int) GroupSummary {
	summary := GroupSummary{
		GroupPercent:   GroupProgressPercent(doc),
		AveragePercent: AverageProgressPercent(doc),
		Top:            []models.Member{},
	}
	if doc == nil {
		return summary
	}

	summary.MemberCount = len(doc.Members)
	for _, m := range doc.Members {
		summary.CompletedUnits += m.CompletedUnits
		summary.CapacityUnits += m.TotalUnits
	}
	summary.Top = TopPerformers(doc.Members, topN)
	return summary
}

// SummarizeMember computes the detail figures for m.
// When several months share the highest count the earliest one is reported.
func SummarizeMember(m models.Member) MemberSummary {
	summary := MemberSummary{
		Percent:       MemberPercent(m),
		Remaining:     max(m.TotalUnits-m.CompletedUnits, 0),
		MonthsTracked: len(m.History),
	}

	for _, month := range m.History.Months() {
		if units := m.History[month]; summary.BestMonth == "" || units > summary.BestMonthUnits {
			summary.BestMonth = month
			summary.BestMonthUnits = units
		}
	}
	return summary
}
