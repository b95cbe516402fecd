package tracker

import (
	"strconv"
	"time"

	"github.com/mmynk/hizbtrack/internal/models"
)

// DefaultKey is the blob name the group document is stored under.
const DefaultKey = "quranGroupData"

// Palette is the rotating list of avatar colors handed to new members.
var Palette = []string{
	"#0EA5E9", "#10B981", "#8B5CF6", "#F59E0B", "#EF4444",
	"#EC4899", "#6366F1", "#14B8A6", "#F97316", "#84CC16",
}

// colorFor returns the palette color for the member at position index.
func colorFor(index int) string {
	return Palette[index%len(Palette)]
}

// seedDocument returns the document used when nothing has been stored yet.
func seedDocument(now time.Time) *models.GroupData {
	names := []string{
		"Naim Nadia",
		"Abada Afaf",
		"Nadia Fouad",
		"Nadia Znasti",
		"Sakina Charkaoui",
	}

	members := make([]models.Member, len(names))
	for i, name := range names {
		members[i] = models.Member{
			ID:          strconv.Itoa(i + 1),
			Name:        name,
			AvatarColor: colorFor(i),
			TotalUnits:  models.DefaultTotalUnits,
		}
	}

	return &models.GroupData{
		Name:       "اقرأ و ارتقى",
		Members:    members,
		TotalUnits: models.DefaultTotalUnits,
		CreatedAt:  now.UTC().Round(0),
	}
}
