package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

// APICall is one raw Bot API request captured by BotAPI
type APICall struct {
	Method string
	Body   []byte
}

// Decode unmarshals the request body into v
func (c APICall) Decode(v interface{}) error {
	return json.Unmarshal(c.Body, v)
}

// BotAPI is a fake Telegram Bot API endpoint. It records every request and
// answers with Reply, which defaults to a successful empty result.
type BotAPI struct {
	mu    sync.Mutex
	calls []APICall
	reply string
}

// NewTestBot returns an offline bot whose API calls go to a recording server
func NewTestBot(t *testing.T) (*tele.Bot, *BotAPI) {
	t.Helper()

	api := &BotAPI{reply: `{"ok":true,"result":true}`}
	srv := httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(srv.Close)

	bot, err := tele.NewBot(tele.Settings{
		URL:     srv.URL,
		Token:   "test-token",
		Offline: true,
	})
	require.NoError(t, err)
	return bot, api
}

// Fail makes every following call answer with a Bot API error
func (a *BotAPI) Fail(code int, description string) {
	body, _ := json.Marshal(map[string]interface{}{
		"ok":          false,
		"error_code":  code,
		"description": description,
	})
	a.mu.Lock()
	a.reply = string(body)
	a.mu.Unlock()
}

// Calls returns every recorded request in order
func (a *BotAPI) Calls() []APICall {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]APICall(nil), a.calls...)
}

func (a *BotAPI) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	a.mu.Lock()
	a.calls = append(a.calls, APICall{Method: method, Body: body})
	reply := a.reply
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, reply)
}
