package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/hizbtrack/internal/calculator"
	"github.com/mmynk/hizbtrack/internal/middleware"
	"github.com/mmynk/hizbtrack/internal/models"
	"github.com/mmynk/hizbtrack/pkg/api"
)

// defaultTopN is how many leaders GetStats returns when the request leaves it unset.
const defaultTopN = 3

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrOutOfRange     = errors.New("completed units out of range")
)

// GroupStore is the document store the service works on.
type GroupStore interface {
	Load(ctx context.Context) (*models.GroupData, error)
	AddMember(ctx context.Context, name string) (*models.GroupData, error)
	RemoveMember(ctx context.Context, id string) (*models.GroupData, error)
	UpdateProgress(ctx context.Context, id string, completedUnits int, month string) (*models.GroupData, error)
}

// Ensure ProgressService implements api.ProgressServiceHandler
var _ api.ProgressServiceHandler = (*ProgressService)(nil)

// ProgressService implements the Connect ProgressService.
// It performs all input validation; the store accepts whatever it is given.
type ProgressService struct {
	store    GroupStore
	validate *validator.Validate
}

// NewProgressService creates a new ProgressService with the given document store.
func NewProgressService(store GroupStore) *ProgressService {
	return &ProgressService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// GetGroup returns the whole group document.
func (s *ProgressService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	slog.Info("GetGroup request received")

	doc, err := s.store.Load(ctx)
	if err != nil {
		slog.Error("GetGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("GetGroup successful", "members_count", len(doc.Members))

	return connect.NewResponse(&api.GetGroupResponse{
		Group: toAPIGroup(doc),
	}), nil
}

// AddMember adds a member with zero progress.
func (s *ProgressService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	req.Msg.Name = strings.TrimSpace(req.Msg.Name)
	slog.Info("AddMember request received", "name", req.Msg.Name)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid member: %w", err))
	}

	doc, err := s.store.AddMember(ctx, req.Msg.Name)
	if err != nil {
		slog.Error("AddMember failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	recordGroup(doc)

	added := doc.Members[len(doc.Members)-1]
	slog.Info("Member added", "member_id", added.ID, "members_count", len(doc.Members))

	return connect.NewResponse(&api.AddMemberResponse{
		Group:  toAPIGroup(doc),
		Member: toAPIMember(added),
	}), nil
}

// RemoveMember deletes a member by ID.
func (s *ProgressService) RemoveMember(ctx context.Context, req *connect.Request[api.RemoveMemberRequest]) (*connect.Response[api.RemoveMemberResponse], error) {
	slog.Info("RemoveMember request received", "member_id", req.Msg.MemberID)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	if _, err := s.findMember(ctx, req.Msg.MemberID); err != nil {
		return nil, err
	}

	doc, err := s.store.RemoveMember(ctx, req.Msg.MemberID)
	if err != nil {
		slog.Error("RemoveMember failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	recordGroup(doc)

	slog.Info("Member removed", "member_id", req.Msg.MemberID, "members_count", len(doc.Members))

	return connect.NewResponse(&api.RemoveMemberResponse{
		Group: toAPIGroup(doc),
	}), nil
}

// UpdateProgress sets a member's current progress, or back-fills one month
// of history when a month is given.
func (s *ProgressService) UpdateProgress(ctx context.Context, req *connect.Request[api.UpdateProgressRequest]) (*connect.Response[api.UpdateProgressResponse], error) {
	slog.Info("UpdateProgress request received",
		"member_id", req.Msg.MemberID,
		"completed_units", req.Msg.CompletedUnits,
		"month", req.Msg.Month,
	)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	member, err := s.findMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, err
	}
	if req.Msg.CompletedUnits > member.TotalUnits {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("%w: must be between 0 and %d", ErrOutOfRange, member.TotalUnits))
	}

	doc, err := s.store.UpdateProgress(ctx, req.Msg.MemberID, req.Msg.CompletedUnits, req.Msg.Month)
	if err != nil {
		slog.Error("UpdateProgress failed", "member_id", req.Msg.MemberID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	recordGroup(doc)

	mode := "current"
	if req.Msg.Month != "" {
		mode = "historical"
	}
	middleware.ProgressUpdatesTotal.WithLabelValues(mode).Inc()

	updated, ok := doc.Member(req.Msg.MemberID)
	if !ok {
		// Removed by another writer between the check and the update.
		return nil, connect.NewError(connect.CodeNotFound, ErrMemberNotFound)
	}

	slog.Info("Progress updated", "member_id", updated.ID, "mode", mode)

	return connect.NewResponse(&api.UpdateProgressResponse{
		Group:  toAPIGroup(doc),
		Member: toAPIMember(*updated),
	}), nil
}

// GetStats computes the group aggregates and leaders.
func (s *ProgressService) GetStats(ctx context.Context, req *connect.Request[api.GetStatsRequest]) (*connect.Response[api.GetStatsResponse], error) {
	slog.Info("GetStats request received", "top_n", req.Msg.TopN, "month", req.Msg.Month)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	topN := req.Msg.TopN
	if topN == 0 {
		topN = defaultTopN
	}

	doc, err := s.store.Load(ctx)
	if err != nil {
		slog.Error("GetStats failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	summary := calculator.Summarize(doc, topN)
	resp := &api.GetStatsResponse{
		Summary: &api.GroupSummary{
			MemberCount:    summary.MemberCount,
			GroupPercent:   summary.GroupPercent,
			AveragePercent: summary.AveragePercent,
			CompletedUnits: summary.CompletedUnits,
			CapacityUnits:  summary.CapacityUnits,
			Top:            toAPIMembers(summary.Top),
		},
		TopForMonth: []*api.Member{},
	}
	if req.Msg.Month != "" {
		resp.TopForMonth = toAPIMembers(calculator.TopPerformersForMonth(doc.Members, req.Msg.Month, topN))
	}

	slog.Info("GetStats successful",
		"members_count", summary.MemberCount,
		"group_percent", summary.GroupPercent,
	)

	return connect.NewResponse(resp), nil
}

// GetMemberStats returns one member with their detail figures.
func (s *ProgressService) GetMemberStats(ctx context.Context, req *connect.Request[api.GetMemberStatsRequest]) (*connect.Response[api.GetMemberStatsResponse], error) {
	slog.Info("GetMemberStats request received", "member_id", req.Msg.MemberID)

	if err := s.validate.Struct(req.Msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	member, err := s.findMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, err
	}

	summary := calculator.SummarizeMember(*member)

	return connect.NewResponse(&api.GetMemberStatsResponse{
		Member: toAPIMember(*member),
		Summary: &api.MemberSummary{
			Percent:        summary.Percent,
			Remaining:      summary.Remaining,
			BestMonth:      summary.BestMonth,
			BestMonthUnits: summary.BestMonthUnits,
			MonthsTracked:  summary.MonthsTracked,
		},
	}), nil
}

// findMember loads the document and looks up a member, returning Connect errors.
func (s *ProgressService) findMember(ctx context.Context, id string) (*models.Member, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		slog.Error("Failed to load group", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	member, ok := doc.Member(id)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s", ErrMemberNotFound, id))
	}
	return member, nil
}

func recordGroup(doc *models.GroupData) {
	middleware.RecordGroup(calculator.GroupProgressPercent(doc), len(doc.Members))
}
