package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestGroupLifecycle(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.register(t, "alice")
	bob := c.register(t, "bob")
	carol := c.register(t, "carol")

	resp, err := c.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{Name: "Roommates", Description: "Flat 4B"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := resp.Msg.Group

	if group.ID == "" || group.CreatedAt == 0 {
		t.Error("expected generated ID and CreatedAt")
	}
	if group.CreatedBy != alice.ID || len(group.Members) != 1 {
		t.Errorf("expected Alice as creator and only member, got %+v", group)
	}

	t.Run("creator adds members", func(t *testing.T) {
		added, err := c.groups.AddMember(ctx, as(alice, &api.AddMemberRequest{GroupID: group.ID, UserID: bob.ID}))
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if len(added.Msg.Group.Members) != 2 {
			t.Errorf("expected 2 members, got %v", added.Msg.Group.Members)
		}
	})

	t.Run("non-creator cannot add members", func(t *testing.T) {
		_, err := c.groups.AddMember(ctx, as(bob, &api.AddMemberRequest{GroupID: group.ID, UserID: carol.ID}))
		assertCode(t, err, connect.CodePermissionDenied)
	})

	t.Run("unknown user cannot be added", func(t *testing.T) {
		_, err := c.groups.AddMember(ctx, as(alice, &api.AddMemberRequest{GroupID: group.ID, UserID: "ghost"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("members can read the group", func(t *testing.T) {
		got, err := c.groups.GetGroup(ctx, as(bob, &api.GetGroupRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Msg.Group.Name != "Roommates" || got.Msg.Group.Description != "Flat 4B" {
			t.Errorf("unexpected group %+v", got.Msg.Group)
		}
		if got.Msg.Group.MemberNames[bob.ID] != "bob" || got.Msg.Group.MemberNames[alice.ID] != "alice" {
			t.Errorf("unexpected member names %v", got.Msg.Group.MemberNames)
		}
	})

	t.Run("outsiders cannot read the group", func(t *testing.T) {
		_, err := c.groups.GetGroup(ctx, as(carol, &api.GetGroupRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := c.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: "nonexistent"}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		_, err := c.groups.CreateGroup(ctx, as(alice, &api.CreateGroupRequest{}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("ListGroups only shows own groups", func(t *testing.T) {
		list, err := c.groups.ListGroups(ctx, as(carol, &api.ListGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(list.Msg.Groups) != 0 {
			t.Errorf("expected no groups for Carol, got %d", len(list.Msg.Groups))
		}

		list, err = c.groups.ListGroups(ctx, as(bob, &api.ListGroupsRequest{}))
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(list.Msg.Groups) != 1 {
			t.Errorf("expected 1 group for Bob, got %d", len(list.Msg.Groups))
		}
	})

	t.Run("only the creator deletes", func(t *testing.T) {
		_, err := c.groups.DeleteGroup(ctx, as(bob, &api.DeleteGroupRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodePermissionDenied)

		if _, err := c.groups.DeleteGroup(ctx, as(alice, &api.DeleteGroupRequest{GroupID: group.ID})); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		_, err = c.groups.GetGroup(ctx, as(alice, &api.GetGroupRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestGetGroupBalances(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.register(t, "alice")
	bob := c.register(t, "bob")
	carol := c.register(t, "carol")
	group := c.newGroup(t, alice, bob, carol)

	t.Run("new group is settled", func(t *testing.T) {
		resp, err := c.groups.GetGroupBalances(ctx, as(alice, &api.GetGroupBalancesRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		if len(resp.Msg.Balances) != 3 {
			t.Errorf("expected a balance per member, got %v", resp.Msg.Balances)
		}
		for id, b := range resp.Msg.Balances {
			if !b.IsZero() {
				t.Errorf("expected zero balance for %s, got %s", id, b)
			}
		}
		if resp.Msg.Simplified == nil || len(resp.Msg.Simplified) != 0 {
			t.Errorf("expected empty settlement list, got %v", resp.Msg.Simplified)
		}
	})

	// Alice pays 90 split equally.
	if _, err := c.expenses.CreateExpense(ctx, as(alice, &api.CreateExpenseRequest{
		Description: "Dinner",
		Amount:      d("90"),
		GroupID:     group.ID,
	})); err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	t.Run("equal split", func(t *testing.T) {
		resp, err := c.groups.GetGroupBalances(ctx, as(bob, &api.GetGroupBalancesRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}

		want := map[string]string{alice.ID: "60", bob.ID: "-30", carol.ID: "-30"}
		for id, amount := range want {
			if got := resp.Msg.Balances[id]; !got.Equal(d(amount)) {
				t.Errorf("balance[%s] = %s, want %s", id, got, amount)
			}
		}

		wantPlan := []api.Settlement{
			{FromUserID: bob.ID, ToUserID: alice.ID, Amount: d("30")},
			{FromUserID: carol.ID, ToUserID: alice.ID, Amount: d("30")},
		}
		if bob.ID > carol.ID {
			wantPlan[0], wantPlan[1] = wantPlan[1], wantPlan[0]
		}
		if len(resp.Msg.Simplified) != len(wantPlan) {
			t.Fatalf("expected %d settlements, got %v", len(wantPlan), resp.Msg.Simplified)
		}
		for i, s := range resp.Msg.Simplified {
			w := wantPlan[i]
			if s.FromUserID != w.FromUserID || s.ToUserID != w.ToUserID || !s.Amount.Equal(w.Amount) {
				t.Errorf("settlement %d = %+v, want %+v", i, s, w)
			}
		}
	})

	t.Run("payments settle balances", func(t *testing.T) {
		for _, u := range []testUser{bob, carol} {
			if _, err := c.payments.CreatePayment(ctx, as(u, &api.CreatePaymentRequest{
				FromUserID: u.ID,
				ToUserID:   alice.ID,
				Amount:     d("30"),
				GroupID:    group.ID,
			})); err != nil {
				t.Fatalf("CreatePayment failed: %v", err)
			}
		}

		resp, err := c.groups.GetGroupBalances(ctx, as(carol, &api.GetGroupBalancesRequest{GroupID: group.ID}))
		if err != nil {
			t.Fatalf("GetGroupBalances failed: %v", err)
		}
		for id, b := range resp.Msg.Balances {
			if !b.IsZero() {
				t.Errorf("expected %s settled, got %s", id, b)
			}
		}
		if len(resp.Msg.Simplified) != 0 {
			t.Errorf("expected no settlements, got %v", resp.Msg.Simplified)
		}
	})

	t.Run("outsiders are rejected", func(t *testing.T) {
		dave := c.register(t, "dave")
		_, err := c.groups.GetGroupBalances(ctx, as(dave, &api.GetGroupBalancesRequest{GroupID: group.ID}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := c.groups.GetGroupBalances(ctx, as(alice, &api.GetGroupBalancesRequest{GroupID: "nonexistent"}))
		assertCode(t, err, connect.CodeNotFound)
	})
}
