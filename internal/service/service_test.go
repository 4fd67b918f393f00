package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
)

type testClients struct {
	auth     *api.AuthServiceClient
	groups   *api.GroupServiceClient
	expenses *api.ExpenseServiceClient
	payments *api.PaymentServiceClient
	store    *sqlite.SQLiteStore
}

// setupTestServer serves all four services over a temp-file SQLite store.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticatorWithCost(store, bcrypt.MinCost)
	m := metrics.New(prometheus.NewRegistry())

	opts := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, api.PublicProcedures...),
		middleware.LoggingInterceptor(m),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, nil), opts))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, NewBalanceQuery(store, m)), opts))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(store, calculator.DefaultPlaces), opts))
	mux.Handle(api.NewPaymentServiceHandler(NewPaymentService(store, calculator.DefaultPlaces), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		auth:     api.NewAuthServiceClient(server.Client(), server.URL),
		groups:   api.NewGroupServiceClient(server.Client(), server.URL),
		expenses: api.NewExpenseServiceClient(server.Client(), server.URL),
		payments: api.NewPaymentServiceClient(server.Client(), server.URL),
		store:    store,
	}
}

type testUser struct {
	ID    string
	Token string
}

func (c *testClients) register(t *testing.T, name string) testUser {
	t.Helper()

	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       name + "@example.com",
		DisplayName: name,
		Password:    "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", name, err)
	}
	return testUser{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

// as builds a request authenticated as u.
func as[T any](u testUser, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+u.Token)
	return req
}

// newGroup creates a group owned by owner containing members.
func (c *testClients) newGroup(t *testing.T, owner testUser, members ...testUser) *api.Group {
	t.Helper()
	ctx := context.Background()

	resp, err := c.groups.CreateGroup(ctx, as(owner, &api.CreateGroupRequest{Name: "Trip"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	group := resp.Msg.Group
	for _, m := range members {
		added, err := c.groups.AddMember(ctx, as(owner, &api.AddMemberRequest{GroupID: group.ID, UserID: m.ID}))
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		group = added.Msg.Group
	}
	return group
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}
