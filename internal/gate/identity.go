package gate

import (
	"fmt"

	"gatebot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Identity is who sent an update and which shape it came in
type Identity struct {
	UserID   int64
	Username string
	Kind     domain.UpdateKind
}

// Extract pulls the acting user out of a command, callback or inline update.
//
// Inline queries carry the querying user, callbacks the user who pressed the
// button (not the author of the message it is attached to) and messages the
// sender. Bot-authored updates, messages sent on behalf of a chat and service
// updates without a user are rejected with ErrMalformedUpdate.
//
// The order matters: telebot returns the callback's message from c.Message().
func Extract(c tele.Context) (Identity, error) {
	if q := c.Query(); q != nil {
		return identify(q.Sender, domain.KindInline)
	}

	if cb := c.Callback(); cb != nil {
		return identify(cb.Sender, domain.KindCallback)
	}

	if m := c.Message(); m != nil {
		if m.SenderChat != nil {
			return Identity{}, fmt.Errorf("%w: message sent on behalf of chat %d", ErrMalformedUpdate, m.SenderChat.ID)
		}
		return identify(m.Sender, domain.KindCommand)
	}

	return Identity{}, fmt.Errorf("%w: no message, callback or query", ErrMalformedUpdate)
}

func identify(u *tele.User, kind domain.UpdateKind) (Identity, error) {
	if u == nil || u.ID == 0 {
		return Identity{}, fmt.Errorf("%w: %s without sender", ErrMalformedUpdate, kind)
	}
	if u.IsBot {
		return Identity{}, fmt.Errorf("%w: %s from bot %d", ErrMalformedUpdate, kind, u.ID)
	}
	return Identity{UserID: u.ID, Username: u.Username, Kind: kind}, nil
}
