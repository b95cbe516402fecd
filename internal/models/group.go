package models

import "time"

// DefaultTotalUnits is the number of ahzab in one full reading.
const DefaultTotalUnits = 60

// GroupData is the single persisted document describing a reading group.
type GroupData struct {
	// Name is the display name of the group.
	Name string `json:"name"`

	// Members is the list of readers in insertion order.
	// Display layers sort copies of it; the stored order is never changed.
	Members []Member `json:"members"`

	// TotalUnits is the default capacity given to new members.
	TotalUnits int `json:"totalAhzab"`

	// CreatedAt is when the document was first created.
	CreatedAt time.Time `json:"createdAt"`
}

// Member is one reader of the group.
type Member struct {
	// ID is an opaque identifier, unique within the group.
	ID string `json:"id"`

	// Name is the display name. Duplicates are allowed.
	Name string `json:"name"`

	// AvatarColor is a CSS hex color assigned from the palette on creation.
	AvatarColor string `json:"avatarColor"`

	// TotalUnits is this member's capacity.
	TotalUnits int `json:"totalAhzab"`

	// CompletedUnits is the current total progress.
	CompletedUnits int `json:"completedAhzab"`

	// PhotoURL is an optional reference to a profile picture.
	PhotoURL string `json:"photoUrl,omitempty"`

	// History holds progress per calendar month.
	History History `json:"monthlyProgress,omitempty"`
}

// FindMember returns the index of the member with the given ID, or -1.
func (g *GroupData) FindMember(id string) int {
	for i := range g.Members {
		if g.Members[i].ID == id {
			return i
		}
	}
	return -1
}

// Member returns a pointer to the member with the given ID.
// The pointer aliases the Members slice and is invalidated by appends.
func (g *GroupData) Member(id string) (*Member, bool) {
	i := g.FindMember(id)
	if i < 0 {
		return nil, false
	}
	return &g.Members[i], true
}

// Normalize puts the document in the form a JSON round trip produces:
// CreatedAt in UTC without a monotonic clock reading, and empty histories as nil.
func (g *GroupData) Normalize() {
	g.CreatedAt = g.CreatedAt.UTC().Round(0)
	for i := range g.Members {
		if len(g.Members[i].History) == 0 {
			g.Members[i].History = nil
		}
	}
}

// Clone returns a deep copy of the document.
func (g *GroupData) Clone() *GroupData {
	out := *g
	if g.Members != nil {
		out.Members = make([]Member, len(g.Members))
		for i, m := range g.Members {
			out.Members[i] = m.Clone()
		}
	}
	return &out
}

// Clone returns a copy of the member that shares no history storage.
func (m Member) Clone() Member {
	m.History = m.History.Clone()
	return m
}
