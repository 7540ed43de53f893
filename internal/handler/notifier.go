package handler

import (
	"mealkiosk/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Sender delivers messages to a chat
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// ChatNotifier pushes background state changes (window poll, notice reset) to the kiosk chat
type ChatNotifier struct {
	sender Sender
	logger *zap.Logger
}

// NewChatNotifier creates a notifier sending through the bot
func NewChatNotifier(sender Sender, logger *zap.Logger) *ChatNotifier {
	return &ChatNotifier{
		sender: sender,
		logger: logger,
	}
}

// Notify renders the session and sends it as a new message
func (n *ChatNotifier) Notify(s domain.Session) {
	text, markup := render(s)
	if _, err := n.sender.Send(tele.ChatID(s.DeviceID), text, markup); err != nil {
		n.logger.Warn("Failed to push session update",
			zap.Int64("device_id", s.DeviceID),
			zap.String("state", string(s.State)),
			zap.Error(err),
		)
	}
}
