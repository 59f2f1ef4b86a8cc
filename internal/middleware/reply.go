package middleware

import (
	"strings"

	"gatebot/internal/domain"
	"gatebot/internal/gate"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	// InlineTitle is the title of the single result returned to gated inline queries
	InlineTitle = "Please start the bot first"

	inlineInstructions = "To use this bot, open a private chat with it and send /start."
	startCommand       = "/start"

	// callbackAlertMax is the answerCallbackQuery text limit, in characters
	callbackAlertMax = 200
)

// startKeyboard offers a single button that re-sends /start
func startKeyboard() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(startCommand)))
	return menu
}

func lockedText(d gate.Decision) string {
	prompt := d.Prompt()
	return "🔒 " + strings.ToUpper(prompt[:1]) + prompt[1:]
}

func replyCommand(c tele.Context, d gate.Decision) error {
	return c.Send(lockedText(d), startKeyboard())
}

// replyCallback always acknowledges the press so the client drops its
// spinner, then optionally marks the message as gated.
func (g *Gate) replyCallback(c tele.Context, d gate.Decision) error {
	if err := c.Respond(&tele.CallbackResponse{
		Text:      domain.TruncateRunes(d.Prompt(), callbackAlertMax),
		ShowAlert: true,
	}); err != nil {
		return err
	}

	if !g.editOnCallback {
		return nil
	}
	if err := c.Edit(lockedText(d)); err != nil && !strings.Contains(err.Error(), "message is not modified") {
		g.logger.Debug("Failed to mark gated message", zap.Error(err))
	}
	return nil
}

// inlineAnswer is the answerInlineQuery payload. tele.QueryResponse drops a
// zero cache_time, which leaves the challenge cached by Telegram for its
// default five minutes.
type inlineAnswer struct {
	QueryID    string       `json:"inline_query_id"`
	Results    tele.Results `json:"results"`
	CacheTime  int          `json:"cache_time"`
	IsPersonal bool         `json:"is_personal"`
}

// replyInline answers with exactly one uncached result. An empty list would
// look like "no match" to the user.
func replyInline(c tele.Context, d gate.Decision) error {
	result := &tele.ArticleResult{
		Title:       InlineTitle,
		Description: d.Prompt(),
	}
	result.SetContent(&tele.InputTextMessageContent{Text: inlineInstructions})
	result.SetResultID(uuid.NewString())

	_, err := c.Bot().Raw("answerInlineQuery", &inlineAnswer{
		QueryID:    c.Query().ID,
		Results:    tele.Results{result},
		CacheTime:  0,
		IsPersonal: true,
	})
	return err
}
