package handler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"oghmai/internal/audio"
	"oghmai/internal/client"
	"oghmai/internal/domain"
	"oghmai/internal/service"
	"oghmai/internal/session"
	"oghmai/internal/wordlist"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const apiTimeout = 15 * time.Second

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	authService  *service.AuthService
	prefsService *service.PreferencesService
	api          client.API
	speaker      audio.Speaker
	sounds       audio.SoundEffects
	logger       *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	stateMux sync.RWMutex

	// Per-chat sessions, created lazily
	sessionMux  sync.Mutex
	discoveries map[int64]*session.Discovery
	challenges  map[int64]*session.Challenge
	lists       map[int64]*wordlist.Reconciler
	games       map[int64]*matchState

	// Per-user locks to serialize callback processing
	callbackMux   sync.Mutex
	callbackLocks map[int64]*sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	prefsService *service.PreferencesService,
	api client.API,
	speaker audio.Speaker,
	sounds audio.SoundEffects,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		authService:   authService,
		prefsService:  prefsService,
		api:           api,
		speaker:       speaker,
		sounds:        sounds,
		logger:        logger,
		states:        make(map[int64]*domain.StateData),
		discoveries:   make(map[int64]*session.Discovery),
		challenges:    make(map[int64]*session.Challenge),
		lists:         make(map[int64]*wordlist.Reconciler),
		games:         make(map[int64]*matchState),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnDescribe, h.handleDescribe)
	h.bot.Handle(&btnWordList, h.handleWordList)
	h.bot.Handle(&btnTest, h.handleTest)
	h.bot.Handle(&btnMatch, h.handleMatch)
	h.bot.Handle(&btnSettings, h.handleSettings)
	h.bot.Handle(&btnMainMenu, h.handleStart)

	// Generic callback handler for dynamic data
	h.bot.Handle(tele.OnCallback, h.handleCallback)
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
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// userLock returns the per-user mutex that serializes callbacks
func (h *Handler) userLock(userID int64) *sync.Mutex {
	h.callbackMux.Lock()
	defer h.callbackMux.Unlock()

	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	return lock
}

func (h *Handler) discoveryFor(chatID int64) *session.Discovery {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()

	d, exists := h.discoveries[chatID]
	if !exists {
		d = session.NewDiscovery(h.api, h.logger)
		h.discoveries[chatID] = d
	}
	return d
}

func (h *Handler) challengeFor(chatID int64) *session.Challenge {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()

	c, exists := h.challenges[chatID]
	if !exists {
		c = session.NewChallenge(h.api, h.sounds, h.logger)
		h.challenges[chatID] = c
	}
	return c
}

func (h *Handler) listFor(chatID int64) *wordlist.Reconciler {
	h.sessionMux.Lock()
	defer h.sessionMux.Unlock()

	l, exists := h.lists[chatID]
	if !exists {
		l = wordlist.New(h.api, h.logger)
		h.lists[chatID] = l
	}
	return l
}

// apiCtx returns the context used for backend calls from handlers
func (h *Handler) apiCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), apiTimeout)
}

// Inline keyboard buttons
var (
	btnDescribe = tele.Btn{
		Unique: "describe",
		Text:   "🔍 Describe a word",
	}
	btnWordList = tele.Btn{
		Unique: "word_list",
		Text:   "📚 My words",
	}
	btnTest = tele.Btn{
		Unique: "test",
		Text:   "🎯 Daily test",
	}
	btnMatch = tele.Btn{
		Unique: "match",
		Text:   "🧩 Match game",
	}
	btnSettings = tele.Btn{
		Unique: "settings",
		Text:   "⚙️ Settings",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

// mainMenuMarkup returns the main menu keyboard. A positive remaining
// count puts a badge on the test button.
func mainMenuMarkup(remainingTests int) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}

	testBtn := btnTest
	if remainingTests > 0 {
		testBtn.Text = fmt.Sprintf("🎯 Daily test (%d)", remainingTests)
	}

	menu.Inline(
		menu.Row(btnDescribe),
		menu.Row(btnWordList),
		menu.Row(testBtn),
		menu.Row(btnMatch),
		menu.Row(btnSettings),
	)
	return menu
}
