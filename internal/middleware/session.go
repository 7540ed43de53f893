package middleware

import (
	"context"

	"mealkiosk/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const systemErrorText = "系統錯誤，請稍後再試 / System error, please try again later"

// Sessions is the part of the workflow the middleware needs
type Sessions interface {
	Snapshot(deviceID int64) (domain.Session, bool)
	Start(ctx context.Context, deviceID int64) (domain.Session, error)
}

// SessionMiddleware makes sure the chat has a live kiosk session before any handler runs.
// A chat whose session was reaped or never started is loaded again.
func SessionMiddleware(ctx context.Context, sessions Sessions, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			// /start loads the session itself
			if c.Text() == "/start" {
				return next(c)
			}

			chat := c.Chat()
			if chat == nil {
				return next(c)
			}

			if _, ok := sessions.Snapshot(chat.ID); !ok {
				if _, err := sessions.Start(ctx, chat.ID); err != nil {
					logger.Error("Failed to start session in middleware",
						zap.Int64("device_id", chat.ID),
						zap.Error(err),
					)
					return c.Send(systemErrorText)
				}
				logger.Info("Session restored by middleware", zap.Int64("device_id", chat.ID))
			}

			return next(c)
		}
	}
}
