package handler

import (
	"strings"

	"mealkiosk/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleText routes typed input based on the session state
func (h *Handler) handleText(c tele.Context) error {
	id := deviceID(c)
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	snap, ok := h.workflow.Snapshot(id)
	if !ok {
		return h.handleStart(c)
	}

	switch snap.State {
	case domain.StateAuthGate:
		s, err := h.workflow.EnterPIN(h.ctx, id, text)
		// the PIN message stays out of the chat history
		if delErr := c.Delete(); delErr != nil {
			h.logger.Debug("Failed to delete PIN message", zap.Error(delErr))
		}
		return h.respond(c, s, err)

	case domain.StateIdentifyEmployee:
		s, err := h.workflow.EnterEmployeeID(h.ctx, id, text)
		return h.respond(c, s, err)

	default:
		// Nothing to type on other screens, show them again
		return h.respond(c, snap, nil)
	}
}
