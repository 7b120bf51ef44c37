package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"taxease/internal/domain/auth"
)

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestUser(t *testing.T) {
	_, ok := GetUser(context.Background())
	assert.False(t, ok)

	_, ok = GetUser(WithUser(context.Background(), auth.UserContext{}))
	assert.False(t, ok)

	user, ok := GetUser(WithUser(context.Background(), auth.UserContext{UserID: "u1", Email: "a@example.com"}))
	assert.True(t, ok)
	assert.Equal(t, "u1", user.UserID)
}
