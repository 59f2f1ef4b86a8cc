package gate

import (
	"errors"
	"testing"

	"gatebot/internal/domain"
	"gatebot/internal/testutil"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

func TestExtract(t *testing.T) {
	anonymous := testutil.NewCommandContext(42, "/menu")
	anonymous.Msg.SenderChat = &tele.Chat{ID: -100123, Type: tele.ChatSuperGroup}

	fromBot := testutil.NewCommandContext(42, "/menu")
	fromBot.Msg.Sender.IsBot = true

	noSender := testutil.NewCommandContext(42, "/menu")
	noSender.Msg.Sender = nil

	botQuery := testutil.NewInlineContext(7, "cats")
	botQuery.Q.Sender.IsBot = true

	tests := []struct {
		name          string
		ctx           *testutil.FakeContext
		expected      Identity
		expectedError bool
	}{
		{
			name:     "command carries the sender",
			ctx:      testutil.NewCommandContext(42, "/menu"),
			expected: Identity{UserID: 42, Username: "user", Kind: domain.KindCommand},
		},
		{
			name:     "callback carries the presser, not the message author",
			ctx:      testutil.NewCallbackContext(42, "profile", ""),
			expected: Identity{UserID: 42, Username: "user", Kind: domain.KindCallback},
		},
		{
			name:     "inline query carries the querying user",
			ctx:      testutil.NewInlineContext(7, "cats"),
			expected: Identity{UserID: 7, Username: "user", Kind: domain.KindInline},
		},
		{
			name:          "message on behalf of a chat",
			ctx:           anonymous,
			expectedError: true,
		},
		{
			name:          "bot-authored message",
			ctx:           fromBot,
			expectedError: true,
		},
		{
			name:          "message without sender",
			ctx:           noSender,
			expectedError: true,
		},
		{
			name:          "inline query from bot",
			ctx:           botQuery,
			expectedError: true,
		},
		{
			name:          "service update",
			ctx:           &testutil.FakeContext{},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Extract(tt.ctx)
			if tt.expectedError {
				assert.True(t, errors.Is(err, ErrMalformedUpdate))
				assert.Equal(t, Identity{}, id)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, id)
		})
	}
}
