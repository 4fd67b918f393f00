package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()

	alice := c.register(t, "alice")
	if alice.ID == "" || alice.Token == "" {
		t.Fatalf("expected ID and token, got %+v", alice)
	}

	t.Run("login returns a working token", func(t *testing.T) {
		resp, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
			Email:    "ALICE@example.com",
			Password: "password123",
		}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != alice.ID {
			t.Errorf("expected user %s, got %s", alice.ID, resp.Msg.User.ID)
		}

		me, err := c.auth.GetCurrentUser(ctx, as(testUser{Token: resp.Msg.Token}, &api.GetCurrentUserRequest{}))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		if me.Msg.User.DisplayName != "alice" || me.Msg.User.Email != "alice@example.com" {
			t.Errorf("unexpected user %+v", me.Msg.User)
		}
	})

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "wrong password",
			call: func() error {
				_, err := c.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "nope-nope"}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "duplicate email",
			call: func() error {
				_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "alice@example.com", DisplayName: "A", Password: "password123"}))
				return err
			},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "weak password",
			call: func() error {
				_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "malformed email",
			call: func() error {
				_, err := c.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Email: "bob", DisplayName: "Bob", Password: "password123"}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "no token",
			call: func() error {
				_, err := c.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
		{
			name: "bad token",
			call: func() error {
				_, err := c.auth.GetCurrentUser(ctx, as(testUser{Token: "garbage"}, &api.GetCurrentUserRequest{}))
				return err
			},
			want: connect.CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.call(), tt.want)
		})
	}
}
