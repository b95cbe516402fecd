package service

import (
	"github.com/mmynk/hizbtrack/internal/calculator"
	"github.com/mmynk/hizbtrack/internal/models"
	"github.com/mmynk/hizbtrack/pkg/api"
)

// toAPIGroup converts the stored document to its wire form, keeping member order.
func toAPIGroup(doc *models.GroupData) *api.Group {
	return &api.Group{
		Name:       doc.Name,
		TotalUnits: doc.TotalUnits,
		CreatedAt:  doc.CreatedAt.Unix(),
		Members:    toAPIMembers(doc.Members),
	}
}

func toAPIMembers(members []models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = toAPIMember(m)
	}
	return out
}

func toAPIMember(m models.Member) *api.Member {
	entries := m.History.Entries()
	history := make([]*api.MonthlyProgress, len(entries))
	for i, e := range entries {
		history[i] = &api.MonthlyProgress{
			Month:          e.Month,
			UnitsCompleted: e.UnitsCompleted,
		}
	}

	return &api.Member{
		ID:              m.ID,
		Name:            m.Name,
		AvatarColor:     m.AvatarColor,
		TotalUnits:      m.TotalUnits,
		CompletedUnits:  m.CompletedUnits,
		Percent:         calculator.MemberPercent(m),
		PhotoURL:        m.PhotoURL,
		MonthlyProgress: history,
	}
}
