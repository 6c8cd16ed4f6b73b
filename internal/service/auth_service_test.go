package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "Alice@Example.com ",
		DisplayName: "Alice",
		Password:    "password123",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, "alice@example.com", reg.Msg.User.Email)

	login, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, reg.Msg.User.ID, login.Msg.User.ID)

	me, err := env.auth.GetCurrentUser(ctx, as(testUser{Token: login.Msg.Token}, &api.GetCurrentUserRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Msg.User.DisplayName)
	assert.Equal(t, reg.Msg.User.ID, me.Msg.User.ID)
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")
	ctx := context.Background()

	_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "alice@example.com", DisplayName: "Alice again", Password: "password123",
	}))
	assertCode(t, connect.CodeAlreadyExists, err)

	_, err = env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email: "bob@example.com", DisplayName: "Bob", Password: "short",
	}))
	assertCode(t, connect.CodeInvalidArgument, err)

	_, err = env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{Password: "password123"}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email: "alice@example.com", Password: "not-the-password",
	}))
	assertCode(t, connect.CodeUnauthenticated, err)

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email: "nobody@example.com", Password: "password123",
	}))
	assertCode(t, connect.CodeUnauthenticated, err)
}

func TestGetCurrentUserRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.GetCurrentUser(context.Background(), connect.NewRequest(&api.GetCurrentUserRequest{}))
	assertCode(t, connect.CodeUnauthenticated, err)
}
