package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ProgressServiceName is the fully-qualified name of the ProgressService.
const ProgressServiceName = "hizbtrack.v1.ProgressService"

// Procedure paths of the ProgressService.
const (
	ProgressServiceGetGroupProcedure       = "/hizbtrack.v1.ProgressService/GetGroup"
	ProgressServiceAddMemberProcedure      = "/hizbtrack.v1.ProgressService/AddMember"
	ProgressServiceRemoveMemberProcedure   = "/hizbtrack.v1.ProgressService/RemoveMember"
	ProgressServiceUpdateProgressProcedure = "/hizbtrack.v1.ProgressService/UpdateProgress"
	ProgressServiceGetStatsProcedure       = "/hizbtrack.v1.ProgressService/GetStats"
	ProgressServiceGetMemberStatsProcedure = "/hizbtrack.v1.ProgressService/GetMemberStats"
)

// ProgressServiceHandler is implemented by the server side of the service.
type ProgressServiceHandler interface {
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	UpdateProgress(context.Context, *connect.Request[UpdateProgressRequest]) (*connect.Response[UpdateProgressResponse], error)
	GetStats(context.Context, *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error)
	GetMemberStats(context.Context, *connect.Request[GetMemberStatsRequest]) (*connect.Response[GetMemberStatsResponse], error)
}

// NewProgressServiceHandler builds an HTTP handler for svc and returns the
// path prefix to mount it on.
func NewProgressServiceHandler(svc ProgressServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	getGroup := connect.NewUnaryHandler(ProgressServiceGetGroupProcedure, svc.GetGroup, opts...)
	addMember := connect.NewUnaryHandler(ProgressServiceAddMemberProcedure, svc.AddMember, opts...)
	removeMember := connect.NewUnaryHandler(ProgressServiceRemoveMemberProcedure, svc.RemoveMember, opts...)
	updateProgress := connect.NewUnaryHandler(ProgressServiceUpdateProgressProcedure, svc.UpdateProgress, opts...)
	getStats := connect.NewUnaryHandler(ProgressServiceGetStatsProcedure, svc.GetStats, opts...)
	getMemberStats := connect.NewUnaryHandler(ProgressServiceGetMemberStatsProcedure, svc.GetMemberStats, opts...)

	return "/" + ProgressServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ProgressServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case ProgressServiceAddMemberProcedure:
			addMember.ServeHTTP(w, r)
		case ProgressServiceRemoveMemberProcedure:
			removeMember.ServeHTTP(w, r)
		case ProgressServiceUpdateProgressProcedure:
			updateProgress.ServeHTTP(w, r)
		case ProgressServiceGetStatsProcedure:
			getStats.ServeHTTP(w, r)
		case ProgressServiceGetMemberStatsProcedure:
			getMemberStats.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ProgressServiceClient is a client for the ProgressService.
type ProgressServiceClient interface {
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	AddMember(context.Context, *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error)
	RemoveMember(context.Context, *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error)
	UpdateProgress(context.Context, *connect.Request[UpdateProgressRequest]) (*connect.Response[UpdateProgressResponse], error)
	GetStats(context.Context, *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error)
	GetMemberStats(context.Context, *connect.Request[GetMemberStatsRequest]) (*connect.Response[GetMemberStatsResponse], error)
}

// NewProgressServiceClient constructs a client for the service at baseURL
// (for example, http://localhost:8080).
func NewProgressServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ProgressServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)

	return &progressServiceClient{
		getGroup: connect.NewClient[GetGroupRequest, GetGroupResponse](
			httpClient, baseURL+ProgressServiceGetGroupProcedure, opts...),
		addMember: connect.NewClient[AddMemberRequest, AddMemberResponse](
			httpClient, baseURL+ProgressServiceAddMemberProcedure, opts...),
		removeMember: connect.NewClient[RemoveMemberRequest, RemoveMemberResponse](
			httpClient, baseURL+ProgressServiceRemoveMemberProcedure, opts...),
		updateProgress: connect.NewClient[UpdateProgressRequest, UpdateProgressResponse](
			httpClient, baseURL+ProgressServiceUpdateProgressProcedure, opts...),
		getStats: connect.NewClient[GetStatsRequest, GetStatsResponse](
			httpClient, baseURL+ProgressServiceGetStatsProcedure, opts...),
		getMemberStats: connect.NewClient[GetMemberStatsRequest, GetMemberStatsResponse](
			httpClient, baseURL+ProgressServiceGetMemberStatsProcedure, opts...),
	}
}

type progressServiceClient struct {
	getGroup       *connect.Client[GetGroupRequest, GetGroupResponse]
	addMember      *connect.Client[AddMemberRequest, AddMemberResponse]
	removeMember   *connect.Client[RemoveMemberRequest, RemoveMemberResponse]
	updateProgress *connect.Client[UpdateProgressRequest, UpdateProgressResponse]
	getStats       *connect.Client[GetStatsRequest, GetStatsResponse]
	getMemberStats *connect.Client[GetMemberStatsRequest, GetMemberStatsResponse]
}

func (c *progressServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *progressServiceClient) AddMember(ctx context.Context, req *connect.Request[AddMemberRequest]) (*connect.Response[AddMemberResponse], error) {
	return c.addMember.CallUnary(ctx, req)
}

func (c *progressServiceClient) RemoveMember(ctx context.Context, req *connect.Request[RemoveMemberRequest]) (*connect.Response[RemoveMemberResponse], error) {
	return c.removeMember.CallUnary(ctx, req)
}

func (c *progressServiceClient) UpdateProgress(ctx context.Context, req *connect.Request[UpdateProgressRequest]) (*connect.Response[UpdateProgressResponse], error) {
	return c.updateProgress.CallUnary(ctx, req)
}

func (c *progressServiceClient) GetStats(ctx context.Context, req *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}

func (c *progressServiceClient) GetMemberStats(ctx context.Context, req *connect.Request[GetMemberStatsRequest]) (*connect.Response[GetMemberStatsResponse], error) {
	return c.getMemberStats.CallUnary(ctx, req)
}
