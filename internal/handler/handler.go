package handler

import (
	"context"
	"errors"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions.
// Every chat is one kiosk device; its session lives in the workflow.
type Handler struct {
	ctx      context.Context
	bot      *tele.Bot
	workflow *service.Workflow
	ledger   *service.LedgerService
	window   *service.WindowService
	logger   *zap.Logger
}

// NewHandler creates a new handler instance; ctx bounds backend calls made on behalf of chats
func NewHandler(
	ctx context.Context,
	bot *tele.Bot,
	workflow *service.Workflow,
	ledger *service.LedgerService,
	window *service.WindowService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		ctx:      ctx,
		bot:      bot,
		workflow: workflow,
		ledger:   ledger,
		window:   window,
		logger:   logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/id", h.handleChangeEmployee)
	h.bot.Handle("/report", h.handleReport)

	// Text messages
	h.bot.Handle(tele.OnText, h.handleText)

	// Callback queries (inline buttons)
	h.bot.Handle(&btnOrder, h.handleOrder)
	h.bot.Handle(&btnNoOrder, h.handleNoOrder)
	h.bot.Handle(&btnVegetarian, h.handleVegetarian)
	h.bot.Handle(&btnSetAsDefault, h.handleSetAsDefault)
	h.bot.Handle(&btnSelectAgain, h.handleSelectAgain)
	h.bot.Handle(&btnChangeEmployee, h.handleChangeEmployee)

	// Generic callback handler for buttons whose unique did not come through
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

// deviceID identifies the kiosk behind an update
func deviceID(c tele.Context) int64 {
	if chat := c.Chat(); chat != nil {
		return chat.ID
	}
	return c.Sender().ID
}

// userErrors are expected outcomes shown to the user through the session notice or state
var userErrors = []error{
	domain.ErrInvalidPIN,
	domain.ErrInvalidFormat,
	domain.ErrUnknownDepartment,
	domain.ErrNumberOutOfRange,
	domain.ErrEmployeeNotFound,
	domain.ErrWindowClosed,
	domain.ErrAlreadyExists,
	domain.ErrTransportFailure,
	domain.ErrOrderRejected,
	domain.ErrUnconfirmed,
	domain.ErrInvalidTransition,
}

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respond renders the session after an event, editing the message for button presses
func (h *Handler) respond(c tele.Context, s domain.Session, err error) error {
	id := deviceID(c)

	switch {
	case err == nil, isUserError(err):
	case errors.Is(err, domain.ErrSubmissionInProgress):
		if c.Callback() != nil {
			return c.Respond(&tele.CallbackResponse{Text: tr(s.Locale, msgSubmitting)})
		}
		return nil
	case errors.Is(err, domain.ErrNoSession):
		return h.handleStart(c)
	default:
		h.logger.Error("Kiosk event failed", zap.Int64("device_id", id), zap.Error(err))
		if s.State == "" {
			return c.Send(tr(localeZH, msgSystemError))
		}
	}

	text, markup := render(s)

	if c.Callback() != nil {
		if err := c.Edit(text, markup); err != nil {
			if handleErr := h.handleEditError(err, c, id); handleErr == nil {
				return nil // Message was already modified, just acknowledged
			}
			return c.Send(text, markup)
		}
		return c.Respond()
	}
	return c.Send(text, markup)
}
