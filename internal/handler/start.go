package handler

import (
	"context"
	"strings"

	"gatebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	msgMainMenu        = "🏠 Main menu\n\nChoose an action:"
	msgAskPassword     = "👋 Hi! This bot is private. Send the access password to continue."
	msgWrongPassword   = "❌ Wrong password. Try again or send /start to restart."
	msgAccessGranted   = "✅ Access granted!"
	msgPrivateChatOnly = "Please open a private chat with me and send /start."
)

// handleStart handles /start command. A payload is treated as the password,
// so t.me/<bot>?start=<password> links work.
func (h *Handler) handleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil || sender.IsBot {
		return nil
	}
	userID := sender.ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", sender.Username),
	)

	if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
		return c.Send(msgPrivateChatOnly)
	}

	if h.startService.IsStarted(userID) || !h.startService.RequiresPassword() {
		return h.admit(c, userID, msgMainMenu)
	}

	if payload := strings.TrimSpace(c.Message().Payload); payload != "" && h.startService.CheckPassword(payload) {
		return h.admit(c, userID, msgAccessGranted+"\n\n"+msgMainMenu)
	}

	h.SetState(userID, &domain.StateData{State: domain.StateWaitingPassword})
	return c.Send(msgAskPassword, removeKeyboard())
}

// handlePassword checks a password typed after /start
func (h *Handler) handlePassword(c tele.Context, userID int64, password string) error {
	if !h.startService.CheckPassword(password) {
		h.logger.Info("Wrong password", zap.Int64("user_id", userID))
		return c.Send(msgWrongPassword)
	}
	return h.admit(c, userID, msgAccessGranted+"\n\n"+msgMainMenu)
}

// admit marks the user started and shows the main menu
func (h *Handler) admit(c tele.Context, userID int64, text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := h.startService.Start(ctx, userID); err != nil {
		h.logger.Error("Failed to mark user started", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgInternalError)
	}

	h.ResetState(userID)
	return c.Send(text, mainMenuMarkup())
}
