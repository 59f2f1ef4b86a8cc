package handler

import (
	"context"
	"strings"
	"testing"

	"gatebot/internal/domain"
	"gatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestAdminOnly(t *testing.T) {
	h, _ := newTestHandler(t, "")

	calls := 0
	next := func(tele.Context) error {
		calls++
		return nil
	}

	c := testutil.NewCommandContext(42, "/users")
	require.NoError(t, h.adminOnly(next)(c))
	assert.Equal(t, 0, calls)
	assert.Contains(t, c.SentText(0), "administrators only")

	c = testutil.NewCommandContext(adminID, "/users")
	require.NoError(t, h.adminOnly(next)(c))
	assert.Equal(t, 1, calls)
	assert.Empty(t, c.SentMessages())
}

func TestHandleRevoke(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		expectedReply   string
		expectedRevoked bool
		expectedReason  string
	}{
		{
			name:            "revoke with reason",
			text:            "/revoke 42 spam links",
			expectedReply:   "User 42 revoked",
			expectedRevoked: true,
			expectedReason:  "spam links",
		},
		{
			name:            "revoke without reason",
			text:            "/revoke 42",
			expectedReply:   "User 42 revoked",
			expectedRevoked: true,
		},
		{
			name:            "long reason is capped",
			text:            "/revoke 42 " + strings.Repeat("spam ", 60),
			expectedReply:   "User 42 revoked",
			expectedRevoked: true,
			expectedReason:  strings.Repeat("spam ", 60)[:domain.MaxRevokeReason],
		},
		{
			name:          "missing argument",
			text:          "/revoke",
			expectedReply: "Usage",
		},
		{
			name:          "bad id",
			text:          "/revoke bob",
			expectedReply: "Invalid user id",
		},
		{
			name:          "unknown user",
			text:          "/revoke 99",
			expectedReply: "never started",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, oracle := newTestHandler(t, "")
			require.NoError(t, oracle.MarkStarted(context.Background(), 42))

			c := testutil.NewCommandContext(adminID, tt.text)
			require.NoError(t, h.handleRevoke(c))

			assert.Contains(t, c.SentText(0), tt.expectedReply)
			assert.Equal(t, !tt.expectedRevoked, oracle.IsStarted(42))
			if tt.expectedRevoked {
				m, err := oracle.Membership(42)
				require.NoError(t, err)
				assert.Equal(t, tt.expectedReason, m.Reason)
			}
		})
	}
}

func TestHandleUnrevoke(t *testing.T) {
	h, oracle := newTestHandler(t, "")
	ctx := context.Background()
	require.NoError(t, oracle.MarkStarted(ctx, 42))
	require.NoError(t, oracle.Revoke(ctx, 42, "admin"))

	c := testutil.NewCommandContext(adminID, "/unrevoke 42")
	require.NoError(t, h.handleUnrevoke(c))

	assert.Contains(t, c.SentText(0), "restored")
	assert.True(t, oracle.IsStarted(42))

	c = testutil.NewCommandContext(adminID, "/unrevoke 99")
	require.NoError(t, h.handleUnrevoke(c))
	assert.Contains(t, c.SentText(0), "never started")
}

func TestHandleUsers(t *testing.T) {
	h, oracle := newTestHandler(t, "")

	c := testutil.NewCommandContext(adminID, "/users")
	require.NoError(t, h.handleUsers(c))
	assert.Equal(t, "No users yet.", c.SentText(0))

	ctx := context.Background()
	require.NoError(t, oracle.MarkStarted(ctx, 42))
	require.NoError(t, oracle.MarkStarted(ctx, 43))
	require.NoError(t, oracle.Revoke(ctx, 43, "admin"))

	c = testutil.NewCommandContext(adminID, "/users")
	require.NoError(t, h.handleUsers(c))

	text := c.SentText(0)
	assert.Contains(t, text, "2 users: 1 started, 1 revoked, 0 expired")
	assert.Contains(t, text, "42 · started")
	assert.Contains(t, text, "43 · revoked")
	assert.Contains(t, text, "· admin")
}
