package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gatebot/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// usersListLimit caps /users output to stay under Telegram's message size
const usersListLimit = 50

// adminOnly rejects callers not listed in ADMIN_IDS
func (h *Handler) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if sender := c.Sender(); sender == nil || !h.adminIDs[sender.ID] {
			return c.Send("⛔ This command is for administrators only.")
		}
		return next(c)
	}
}

// handleUsers prints a snapshot of the oracle
func (h *Handler) handleUsers(c tele.Context) error {
	users := h.oracle.Snapshot()
	if len(users) == 0 {
		return c.Send("No users yet.")
	}

	counts := map[domain.MembershipStatus]int{}
	var b strings.Builder
	for i, u := range users {
		status := h.oracle.StatusOf(u)
		counts[status.Status]++
		if i >= usersListLimit {
			continue
		}
		fmt.Fprintf(&b, "%d · %s · since %s", u.UserID, status.Status, u.StartedAt.Format("2006-01-02"))
		if status.Reason != "" {
			fmt.Fprintf(&b, " · %s", status.Reason)
		}
		b.WriteString("\n")
	}
	if len(users) > usersListLimit {
		fmt.Fprintf(&b, "… and %d more\n", len(users)-usersListLimit)
	}

	header := fmt.Sprintf("👥 %d users: %d started, %d revoked, %d expired\n\n",
		len(users),
		counts[domain.StatusStarted],
		counts[domain.StatusRevoked],
		counts[domain.StatusExpired],
	)
	return c.Send(header + b.String())
}

// handleRevoke handles /revoke <user_id> [reason]
func (h *Handler) handleRevoke(c tele.Context) error {
	args := c.Args()
	if len(args) == 0 {
		return c.Send("Usage: /revoke <user_id> [reason]")
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Invalid user id: " + args[0])
	}
	if _, ok := h.oracle.Lookup(userID); !ok {
		return c.Send(fmt.Sprintf("User %d has never started the bot.", userID))
	}

	reason := domain.TruncateRunes(strings.Join(args[1:], " "), domain.MaxRevokeReason)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := h.oracle.Revoke(ctx, userID, reason); err != nil {
		h.logger.Error("Failed to revoke user", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgInternalError)
	}

	h.logger.Info("User revoked",
		zap.Int64("user_id", userID),
		zap.Int64("admin_id", c.Sender().ID),
		zap.String("reason", reason),
	)
	return c.Send(fmt.Sprintf("🚫 User %d revoked.", userID))
}

// handleUnrevoke handles /unrevoke <user_id>
func (h *Handler) handleUnrevoke(c tele.Context) error {
	args := c.Args()
	if len(args) != 1 {
		return c.Send("Usage: /unrevoke <user_id>")
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return c.Send("Invalid user id: " + args[0])
	}
	if _, ok := h.oracle.Lookup(userID); !ok {
		return c.Send(fmt.Sprintf("User %d has never started the bot.", userID))
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := h.oracle.MarkStarted(ctx, userID); err != nil {
		h.logger.Error("Failed to restore user", zap.Int64("user_id", userID), zap.Error(err))
		return c.Send(msgInternalError)
	}

	h.logger.Info("User restored", zap.Int64("user_id", userID), zap.Int64("admin_id", c.Sender().ID))
	return c.Send(fmt.Sprintf("✅ User %d restored.", userID))
}
