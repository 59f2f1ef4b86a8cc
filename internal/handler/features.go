package handler

import (
	"fmt"
	"strings"

	"gatebot/internal/domain"

	"github.com/google/uuid"
	tele "gopkg.in/telebot.v3"
)

// inlineMaxQuery is Telegram's inline query limit, in characters
const inlineMaxQuery = 256

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	text := strings.TrimSpace(c.Text())

	// Ignore unknown commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	if h.GetState(sender.ID).State == domain.StateWaitingPassword {
		return h.handlePassword(c, sender.ID, text)
	}

	return h.gatedEcho(c)
}

// handleEcho repeats the message back
func (h *Handler) handleEcho(c tele.Context) error {
	return c.Send("🔁 " + c.Text())
}

// handleMenu shows the main menu. Edits the message when pressed as a button.
func (h *Handler) handleMenu(c tele.Context) error {
	if c.Callback() != nil {
		if err := c.Edit(msgMainMenu, mainMenuMarkup()); err != nil {
			if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(msgMainMenu, mainMenuMarkup())
		}
		return c.Respond()
	}
	return c.Send(msgMainMenu, mainMenuMarkup())
}

// handleWhoAmI prints the caller's record
func (h *Handler) handleWhoAmI(c tele.Context) error {
	return c.Send(h.profileText(c.Sender().ID))
}

func (h *Handler) profileText(userID int64) string {
	u, ok := h.oracle.Lookup(userID)
	if !ok {
		return fmt.Sprintf("👤 %d\nNo record.", userID)
	}
	return fmt.Sprintf("👤 %d\nStarted: %s\nLast seen: %s\nStatus: %s",
		u.UserID,
		u.StartedAt.Format("2006-01-02 15:04 MST"),
		u.LastSeen.Format("2006-01-02 15:04 MST"),
		h.oracle.StatusOf(u).Status,
	)
}

// handleQuery echoes the inline query as a single article
func (h *Handler) handleQuery(c tele.Context) error {
	text := domain.TruncateRunes(strings.TrimSpace(c.Query().Text), inlineMaxQuery)

	title := "Echo"
	if text == "" {
		title = "Type something to echo"
		text = "🔁"
	}

	result := &tele.ArticleResult{
		Title:       title,
		Description: text,
	}
	result.SetContent(&tele.InputTextMessageContent{Text: text})
	result.SetResultID(uuid.NewString())

	return c.Answer(&tele.QueryResponse{
		Results:    tele.Results{result},
		IsPersonal: true,
	})
}
