package middleware

import (
	"context"
	"testing"

	"mealkiosk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type fakeSessions struct {
	live    map[int64]bool
	started []int64
}

func (f *fakeSessions) Snapshot(deviceID int64) (domain.Session, bool) {
	if f.live[deviceID] {
		return domain.Session{DeviceID: deviceID}, true
	}
	return domain.Session{}, false
}

func (f *fakeSessions) Start(ctx context.Context, deviceID int64) (domain.Session, error) {
	f.started = append(f.started, deviceID)
	f.live[deviceID] = true
	return domain.Session{DeviceID: deviceID, State: domain.StateAuthGate}, nil
}

func newContext(t *testing.T, chatID int64, text string) tele.Context {
	t.Helper()
	bot, err := tele.NewBot(tele.Settings{Offline: true, Synchronous: true})
	require.NoError(t, err)
	return bot.NewContext(tele.Update{Message: &tele.Message{
		Text:   text,
		Chat:   &tele.Chat{ID: chatID},
		Sender: &tele.User{ID: chatID},
	}})
}

func TestSessionMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		live          bool
		text          string
		expectStarted bool
	}{
		{name: "live session passes through", live: true, text: "C7"},
		{name: "missing session is started", text: "C7", expectStarted: true},
		{name: "start command is left to the handler", text: "/start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := &fakeSessions{live: map[int64]bool{7: tt.live}}
			called := false
			next := func(c tele.Context) error {
				called = true
				return nil
			}

			mw := SessionMiddleware(context.Background(), sessions, zap.NewNop())
			err := mw(next)(newContext(t, 7, tt.text))

			require.NoError(t, err)
			assert.True(t, called)
			if tt.expectStarted {
				assert.Equal(t, []int64{7}, sessions.started)
			} else {
				assert.Empty(t, sessions.started)
			}
		})
	}
}
