package testutil

import (
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"
)

// Sent records one Send or Edit call
type Sent struct {
	What interface{}
	Opts []interface{}
}

// FakeContext is a tele.Context backed by a hand-built update.
// Methods not overridden here panic, which flags unexpected transport use.
type FakeContext struct {
	tele.Context

	Msg *tele.Message
	Cb  *tele.Callback
	Q   *tele.Query
	// B receives raw Bot API calls, see NewTestBot
	B *tele.Bot

	SendErr    error
	RespondErr error
	AnswerErr  error
	EditErr    error

	mu        sync.Mutex
	sent      []Sent
	edits     []Sent
	responses []*tele.CallbackResponse
	answers   []*tele.QueryResponse
}

// NewCommandContext builds a private-chat text message from userID
func NewCommandContext(userID int64, text string) *FakeContext {
	m := &tele.Message{
		ID:     1,
		Sender: &tele.User{ID: userID, Username: "user"},
		Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
		Text:   text,
	}
	if strings.HasPrefix(text, "/") {
		if _, payload, ok := strings.Cut(text, " "); ok {
			m.Payload = strings.TrimSpace(payload)
		}
	}
	return &FakeContext{Msg: m}
}

// NewCallbackContext builds a button press by userID on a message from the bot
func NewCallbackContext(userID int64, unique, data string) *FakeContext {
	return &FakeContext{Cb: &tele.Callback{
		ID:     "cb-1",
		Sender: &tele.User{ID: userID, Username: "user"},
		Message: &tele.Message{
			ID:     2,
			Sender: &tele.User{ID: 1000, IsBot: true, Username: "gatebot"},
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			Text:   "menu",
		},
		Unique: unique,
		Data:   data,
	}}
}

// NewInlineContext builds an inline query from userID
func NewInlineContext(userID int64, text string) *FakeContext {
	return &FakeContext{Q: &tele.Query{
		ID:     "q-1",
		Sender: &tele.User{ID: userID, Username: "user"},
		Text:   text,
	}}
}

func (c *FakeContext) Message() *tele.Message {
	if c.Msg != nil {
		return c.Msg
	}
	if c.Cb != nil {
		return c.Cb.Message
	}
	return nil
}

func (c *FakeContext) Bot() *tele.Bot { return c.B }

func (c *FakeContext) Callback() *tele.Callback { return c.Cb }

func (c *FakeContext) Query() *tele.Query { return c.Q }

func (c *FakeContext) Sender() *tele.User {
	switch {
	case c.Cb != nil:
		return c.Cb.Sender
	case c.Q != nil:
		return c.Q.Sender
	case c.Msg != nil:
		return c.Msg.Sender
	}
	return nil
}

func (c *FakeContext) Chat() *tele.Chat {
	if m := c.Message(); m != nil {
		return m.Chat
	}
	return nil
}

func (c *FakeContext) Text() string {
	switch {
	case c.Q != nil:
		return c.Q.Text
	case c.Msg != nil:
		return c.Msg.Text
	}
	return ""
}

func (c *FakeContext) Args() []string {
	switch {
	case c.Q != nil:
		return strings.Fields(c.Q.Text)
	case c.Cb != nil:
		if c.Cb.Data == "" {
			return nil
		}
		return strings.Split(c.Cb.Data, "|")
	case c.Msg != nil:
		return strings.Fields(c.Msg.Payload)
	}
	return nil
}

func (c *FakeContext) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, Sent{What: what, Opts: opts})
	return c.SendErr
}

func (c *FakeContext) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.edits = append(c.edits, Sent{What: what, Opts: opts})
	return c.EditErr
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(resp) == 0 {
		c.responses = append(c.responses, &tele.CallbackResponse{})
	} else {
		c.responses = append(c.responses, resp[0])
	}
	return c.RespondErr
}

func (c *FakeContext) Answer(resp *tele.QueryResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers = append(c.answers, resp)
	return c.AnswerErr
}

// SentMessages returns every Send call in order
func (c *FakeContext) SentMessages() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.sent...)
}

// Edits returns every Edit call in order
func (c *FakeContext) Edits() []Sent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Sent(nil), c.edits...)
}

// Responses returns every callback acknowledgement in order
func (c *FakeContext) Responses() []*tele.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.CallbackResponse(nil), c.responses...)
}

// Answers returns every inline answer in order
func (c *FakeContext) Answers() []*tele.QueryResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*tele.QueryResponse(nil), c.answers...)
}

// SentText returns the text of the n-th Send call, or "" if it was not a string
func (c *FakeContext) SentText(n int) string {
	sent := c.SentMessages()
	if n >= len(sent) {
		return ""
	}
	s, _ := sent[n].What.(string)
	return s
}
