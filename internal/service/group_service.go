package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// GroupService implements the Connect GroupService.
type GroupService struct {
	store    storage.Store
	balances *BalanceQuery
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, balances *BalanceQuery) *GroupService {
	return &GroupService{store: store, balances: balances}
}

// callerID returns the authenticated user ID put in ctx by RequireAuth.
func callerID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// memberGroup loads groupID and checks that userID belongs to it. Outsiders
// get the same NotFound as for a missing group.
func memberGroup(ctx context.Context, store storage.Store, groupID, userID string) (*models.Group, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(userID) {
		return nil, errNotMember(groupID)
	}
	return group, nil
}

func errNotMember(groupID string) error {
	return fmt.Errorf("group %s not found or not a member: %w", groupID, storage.ErrNotFound)
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateGroup request received", "name", req.Msg.Name, "user_id", userID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	group := &models.Group{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		CreatedBy:   userID,
	}

	// Save to storage (generates ID and CreatedAt, adds creator as member)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Group created", "group_id", group.ID)
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	group, err := memberGroup(ctx, s.store, req.Msg.GroupID, userID)
	if err != nil {
		slog.Warn("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	users, err := s.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		slog.Error("GetGroup failed to load members", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := groupToAPI(group)
	out.MemberNames = make(map[string]string, len(users))
	for id, u := range users {
		out.MemberNames[id] = u.DisplayName
	}

	return connect.NewResponse(&api.GetGroupResponse{Group: out}), nil
}

// ListGroups lists the groups the caller belongs to.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	groups, err := s.store.ListGroupsForUser(ctx, userID, storage.Page{Offset: req.Msg.Offset, Limit: req.Msg.Limit})
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Group, len(groups))
	for i, group := range groups {
		out[i] = groupToAPI(group)
	}

	slog.Info("ListGroups successful", "user_id", userID, "count", len(groups))
	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddMember adds an existing user to a group. Only the creator may add members.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.AddMemberRequest]) (*connect.Response[api.AddMemberResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("AddMember request received", "group_id", req.Msg.GroupID, "member_id", req.Msg.UserID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	if group.CreatedBy != userID {
		return nil, connectError(fmt.Errorf("%w: only the group creator can add members", ErrPermissionDenied))
	}

	member, err := s.store.GetUserByID(ctx, req.Msg.UserID)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if member == nil {
		return nil, connectError(fmt.Errorf("user %s: %w", req.Msg.UserID, storage.ErrNotFound))
	}

	if err := s.store.AddGroupMember(ctx, group.ID, member.ID); err != nil {
		slog.Error("AddMember failed", "group_id", group.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	updated, err := s.store.GetGroup(ctx, group.ID)
	if err != nil {
		return nil, connectError(err)
	}

	slog.Info("Member added", "group_id", group.ID, "member_id", member.ID)
	return connect.NewResponse(&api.AddMemberResponse{Group: groupToAPI(updated)}), nil
}

// DeleteGroup removes a group with its expenses and payments. Only the
// creator may delete it.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[api.DeleteGroupRequest]) (*connect.Response[api.DeleteGroupResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, connectError(err)
	}
	if group.CreatedBy != userID {
		return nil, connectError(fmt.Errorf("%w: only the group creator can delete the group", ErrPermissionDenied))
	}

	if err := s.store.DeleteGroup(ctx, group.ID); err != nil {
		slog.Error("DeleteGroup failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Group deleted", "group_id", group.ID)
	return connect.NewResponse(&api.DeleteGroupResponse{}), nil
}

// GetGroupBalances returns every member's net balance and the simplified
// list of transfers that settles the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("GetGroupBalances request received", "group_id", req.Msg.GroupID)

	if err := validateRequest(req.Msg); err != nil {
		return nil, connectError(err)
	}

	resp, err := s.balances.Get(ctx, req.Msg.GroupID, userID)
	if err != nil {
		slog.Warn("GetGroupBalances failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, connectError(err)
	}

	slog.Info("GetGroupBalances successful",
		"group_id", req.Msg.GroupID,
		"members_count", len(resp.Balances),
		"settlements_count", len(resp.Simplified),
	)
	return connect.NewResponse(resp), nil
}
