// Package api defines the wire messages of the hizbtrack ProgressService and
// the Connect handler and client constructors for it.
package api

// Group is the wire form of the group document.
type Group struct {
	Name       string    `json:"name"`
	TotalUnits int       `json:"totalUnits"`
	CreatedAt  int64     `json:"createdAt"` // Unix seconds
	Members    []*Member `json:"members"`
}

// Member is the wire form of one group member.
type Member struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	AvatarColor     string             `json:"avatarColor"`
	TotalUnits      int                `json:"totalUnits"`
	CompletedUnits  int                `json:"completedUnits"`
	Percent         float64            `json:"percent"`
	PhotoURL        string             `json:"photoUrl,omitempty"`
	MonthlyProgress []*MonthlyProgress `json:"monthlyProgress"`
}

// MonthlyProgress is one month of a member's history.
type MonthlyProgress struct {
	Month          string `json:"month"`
	UnitsCompleted int    `json:"unitsCompleted"`
}

// GroupSummary carries the dashboard aggregates.
type GroupSummary struct {
	MemberCount    int       `json:"memberCount"`
	GroupPercent   float64   `json:"groupPercent"`
	AveragePercent float64   `json:"averagePercent"`
	CompletedUnits int       `json:"completedUnits"`
	CapacityUnits  int       `json:"capacityUnits"`
	Top            []*Member `json:"top"`
}

// MemberSummary carries the detail figures for one member.
type MemberSummary struct {
	Percent        float64 `json:"percent"`
	Remaining      int     `json:"remaining"`
	BestMonth      string  `json:"bestMonth,omitempty"`
	BestMonthUnits int     `json:"bestMonthUnits"`
	MonthsTracked  int     `json:"monthsTracked"`
}

type GetGroupRequest struct{}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMemberRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type AddMemberResponse struct {
	Group  *Group  `json:"group"`
	Member *Member `json:"member"`
}

type RemoveMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

// UpdateProgressRequest sets a member's progress. Without Month the current
// total is updated; with Month only that month's history entry is.
type UpdateProgressRequest struct {
	MemberID       string `json:"memberId" validate:"required"`
	CompletedUnits int    `json:"completedUnits" validate:"gte=0"`
	Month          string `json:"month,omitempty" validate:"omitempty,datetime=2006-01"`
}

type UpdateProgressResponse struct {
	Group  *Group  `json:"group"`
	Member *Member `json:"member"`
}

// GetStatsRequest asks for the group aggregates. TopN defaults to 3 when zero.
// When Month is set the response also ranks that month's readers.
type GetStatsRequest struct {
	TopN  int    `json:"topN,omitempty" validate:"gte=0,lte=100"`
	Month string `json:"month,omitempty" validate:"omitempty,datetime=2006-01"`
}

type GetStatsResponse struct {
	Summary     *GroupSummary `json:"summary"`
	TopForMonth []*Member     `json:"topForMonth"`
}

type GetMemberStatsRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

type GetMemberStatsResponse struct {
	Member  *Member        `json:"member"`
	Summary *MemberSummary `json:"summary"`
}
