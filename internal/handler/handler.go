package handler

import (
	"sync"
	"time"

	"gatebot/internal/domain"
	"gatebot/internal/middleware"
	"gatebot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// storeTimeout bounds a single oracle write-through from a handler
const storeTimeout = 5 * time.Second

const msgInternalError = "Something went wrong. Please try again later."

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	startService *service.StartService
	oracle       *service.Oracle
	gate         *middleware.Gate
	adminIDs     map[int64]bool
	logger       *zap.Logger

	gatedEcho tele.HandlerFunc

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	startService *service.StartService,
	oracle *service.Oracle,
	gate *middleware.Gate,
	adminIDs []int64,
	logger *zap.Logger,
) *Handler {
	h := &Handler{
		bot:          bot,
		startService: startService,
		oracle:       oracle,
		gate:         gate,
		adminIDs:     make(map[int64]bool, len(adminIDs)),
		logger:       logger,
		states:       make(map[int64]*domain.StateData),
	}
	for _, id := range adminIDs {
		h.adminIDs[id] = true
	}
	h.gatedEcho = gate.RequireStart()(h.handleEcho)
	return h
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands. /start is the only ungated entry point.
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/menu", h.handleMenu, h.gate.RequireStart())
	h.bot.Handle("/whoami", h.handleWhoAmI, h.gate.RequireStart())

	// Text messages: password dialog, otherwise gated echo
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnProfile, h.handleProfile, h.gate.RequireStartCallback())
	h.bot.Handle(&btnMainMenu, h.handleMenu, h.gate.RequireStartCallback())

	// Generic callback handler for buttons that lost their unique
	h.bot.Handle(tele.OnCallback, h.handleCallback, h.gate.RequireStartCallback())

	// Inline queries
	h.bot.Handle(tele.OnQuery, h.handleQuery, h.gate.RequireStartInline())

	// Admin commands
	admin := h.bot.Group()
	admin.Use(h.gate.RequireStart(), h.adminOnly)
	admin.Handle("/users", h.handleUsers)
	admin.Handle("/revoke", h.handleRevoke)
	admin.Handle("/unrevoke", h.handleUnrevoke)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	delete(h.states, userID)
}

// Inline keyboard buttons
var (
	btnProfile = tele.Btn{
		Unique: "profile",
		Text:   "👤 My access",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
	btnInline = tele.Btn{
		Text:            "🔎 Try inline",
		InlineQueryChat: "hello",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnProfile),
		menu.Row(btnInline),
	)
	return menu
}

// removeKeyboard hides the /start reply keyboard shown by the gate
func removeKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}
