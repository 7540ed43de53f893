package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// handleStart handles /start: the kiosk reloads from scratch
func (h *Handler) handleStart(c tele.Context) error {
	id := deviceID(c)

	h.logger.Info("Kiosk started",
		zap.Int64("device_id", id),
		zap.String("username", c.Sender().Username),
	)

	s, err := h.workflow.Start(h.ctx, id)
	return h.respond(c, s, err)
}
