package handler

import (
	"strings"
	"unicode"

	"mealkiosk/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, deviceID int64) error {
	if err == nil {
		return nil
	}

	// A toggle pressed twice renders the same text; nothing to send
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already up to date, acknowledging",
			zap.Int64("device_id", deviceID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("device_id", deviceID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// handleCallback handles callbacks not matched by a registered button
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("device_id", deviceID(c)),
	)

	key := callback.Unique
	if key == "" {
		key = data
	}

	switch key {
	case uniqueOrder:
		return h.handleOrder(c)
	case uniqueNoOrder:
		return h.handleNoOrder(c)
	case uniqueVegetarian:
		return h.handleVegetarian(c)
	case uniqueSetAsDefault:
		return h.handleSetAsDefault(c)
	case uniqueSelectAgain:
		return h.handleSelectAgain(c)
	case uniqueChangeEmployee:
		return h.handleChangeEmployee(c)
	}

	h.logger.Warn("Unhandled callback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

func (h *Handler) handleOrder(c tele.Context) error {
	return h.submit(c, domain.ChoiceOrder)
}

func (h *Handler) handleNoOrder(c tele.Context) error {
	return h.submit(c, domain.ChoiceNoOrder)
}

// submit answers the callback first so the spinner stops while the backend is called
func (h *Handler) submit(c tele.Context, choice domain.Choice) error {
	id := deviceID(c)

	if snap, ok := h.workflow.Snapshot(id); ok && !snap.Submitting {
		snap.Submitting = true
		text, markup := render(snap)
		if err := c.Edit(text, markup); err != nil {
			h.logger.Debug("Failed to show submitting state", zap.Error(err))
		}
	}

	s, err := h.workflow.Submit(h.ctx, id, choice)
	return h.respond(c, s, err)
}

func (h *Handler) handleVegetarian(c tele.Context) error {
	s, err := h.workflow.ToggleVegetarian(h.ctx, deviceID(c))
	return h.respond(c, s, err)
}

func (h *Handler) handleSetAsDefault(c tele.Context) error {
	s, err := h.workflow.ToggleSetAsDefault(h.ctx, deviceID(c))
	return h.respond(c, s, err)
}

func (h *Handler) handleSelectAgain(c tele.Context) error {
	s, err := h.workflow.SelectAgain(h.ctx, deviceID(c))
	return h.respond(c, s, err)
}

// handleChangeEmployee serves both the button and the /id command
func (h *Handler) handleChangeEmployee(c tele.Context) error {
	s, err := h.workflow.ChangeEmployee(h.ctx, deviceID(c))
	return h.respond(c, s, err)
}
