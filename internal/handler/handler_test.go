package handler

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"gatebot/internal/domain"
	"gatebot/internal/gate"
	"gatebot/internal/middleware"
	"gatebot/internal/service"
	"gatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

const adminID = int64(1)

func newTestHandler(t *testing.T, password string) (*Handler, *service.Oracle) {
	t.Helper()
	logger := testutil.NewTestLogger()

	oracle := service.NewOracle(logger)
	require.NoError(t, oracle.Load(context.Background()))

	registry := gate.NewRegistry()
	registry.Set(oracle)

	h := NewHandler(
		nil,
		service.NewStartService(oracle, password, logger),
		oracle,
		middleware.NewGate(registry, logger),
		[]int64{adminID},
		logger,
	)
	return h, oracle
}

func TestHandleStart_NoPassword(t *testing.T) {
	h, oracle := newTestHandler(t, "")

	c := testutil.NewCommandContext(42, "/start")
	require.NoError(t, h.handleStart(c))

	assert.True(t, oracle.IsStarted(42))
	require.Len(t, c.SentMessages(), 1)
	assert.Contains(t, c.SentText(0), "Main menu")
}

func TestHandleStart_PasswordDialog(t *testing.T) {
	h, oracle := newTestHandler(t, "secret")

	c := testutil.NewCommandContext(42, "/start")
	require.NoError(t, h.handleStart(c))
	assert.Equal(t, msgAskPassword, c.SentText(0))
	assert.Equal(t, domain.StateWaitingPassword, h.GetState(42).State)
	assert.False(t, oracle.IsStarted(42))

	c = testutil.NewCommandContext(42, "wrong")
	require.NoError(t, h.handleText(c))
	assert.Equal(t, msgWrongPassword, c.SentText(0))
	assert.False(t, oracle.IsStarted(42))

	c = testutil.NewCommandContext(42, "secret")
	require.NoError(t, h.handleText(c))
	assert.Contains(t, c.SentText(0), msgAccessGranted)
	assert.True(t, oracle.IsStarted(42))
	assert.Equal(t, domain.StateIdle, h.GetState(42).State)
}

func TestHandleStart_DeepLinkPassword(t *testing.T) {
	h, oracle := newTestHandler(t, "secret")

	c := testutil.NewCommandContext(42, "/start secret")
	require.NoError(t, h.handleStart(c))

	assert.True(t, oracle.IsStarted(42))
	assert.Contains(t, c.SentText(0), msgAccessGranted)
}

func TestHandleStart_StartedUserSkipsPassword(t *testing.T) {
	h, oracle := newTestHandler(t, "secret")
	require.NoError(t, oracle.MarkStarted(context.Background(), 42))

	c := testutil.NewCommandContext(42, "/start")
	require.NoError(t, h.handleStart(c))

	assert.Equal(t, msgMainMenu, c.SentText(0))
}

func TestHandleStart_RevokedUserMustVerifyAgain(t *testing.T) {
	h, oracle := newTestHandler(t, "secret")
	ctx := context.Background()
	require.NoError(t, oracle.MarkStarted(ctx, 42))
	require.NoError(t, oracle.Revoke(ctx, 42, "admin"))

	c := testutil.NewCommandContext(42, "/start")
	require.NoError(t, h.handleStart(c))

	assert.Equal(t, msgAskPassword, c.SentText(0))
	assert.False(t, oracle.IsStarted(42))
}

func TestHandleStart_GroupChat(t *testing.T) {
	h, oracle := newTestHandler(t, "")

	c := testutil.NewCommandContext(42, "/start")
	c.Msg.Chat = &tele.Chat{ID: -100, Type: tele.ChatGroup}
	require.NoError(t, h.handleStart(c))

	assert.Equal(t, msgPrivateChatOnly, c.SentText(0))
	assert.False(t, oracle.IsStarted(42))
}

func TestHandleText_GatedEcho(t *testing.T) {
	h, oracle := newTestHandler(t, "")

	c := testutil.NewCommandContext(42, "hello")
	require.NoError(t, h.handleText(c))
	require.Len(t, c.SentMessages(), 1)
	assert.Contains(t, c.SentText(0), "/start first")

	require.NoError(t, oracle.MarkStarted(context.Background(), 42))

	c = testutil.NewCommandContext(42, "hello")
	require.NoError(t, h.handleText(c))
	assert.Equal(t, "🔁 hello", c.SentText(0))
}

func TestHandleText_IgnoresCommands(t *testing.T) {
	h, _ := newTestHandler(t, "")

	c := testutil.NewCommandContext(42, "/unknown")
	require.NoError(t, h.handleText(c))

	assert.Empty(t, c.SentMessages())
}

func TestHandleWhoAmI(t *testing.T) {
	h, oracle := newTestHandler(t, "")
	require.NoError(t, oracle.MarkStarted(context.Background(), 42))

	c := testutil.NewCommandContext(42, "/whoami")
	require.NoError(t, h.handleWhoAmI(c))

	assert.Contains(t, c.SentText(0), "42")
	assert.Contains(t, c.SentText(0), "started")
}

func TestHandleQuery(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectedTitle string
		expectedText  string
	}{
		{name: "echo", query: " cats ", expectedTitle: "Echo", expectedText: "cats"},
		{name: "empty query", query: "", expectedTitle: "Type something to echo", expectedText: "🔁"},
		{
			name:          "long cyrillic query is cut by characters",
			query:         "a" + strings.Repeat("я", 300),
			expectedTitle: "Echo",
			expectedText:  "a" + strings.Repeat("я", inlineMaxQuery-1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, "")

			c := testutil.NewInlineContext(42, tt.query)
			require.NoError(t, h.handleQuery(c))

			require.Len(t, c.Answers(), 1)
			require.Len(t, c.Answers()[0].Results, 1)
			article := c.Answers()[0].Results[0].(*tele.ArticleResult)
			assert.Equal(t, tt.expectedTitle, article.Title)
			content := article.Content.(*tele.InputTextMessageContent)
			assert.Equal(t, tt.expectedText, content.Text)
			assert.True(t, utf8.ValidString(content.Text))
		})
	}
}
