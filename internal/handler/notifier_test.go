package handler

import (
	"fmt"
	"testing"

	"mealkiosk/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

type sentMessage struct {
	to   string
	text string
}

type fakeSender struct {
	sent []sentMessage
	err  error
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, sentMessage{to: to.Recipient(), text: fmt.Sprint(what)})
	return &tele.Message{}, nil
}

func TestChatNotifier_Notify(t *testing.T) {
	sender := &fakeSender{}
	n := NewChatNotifier(sender, zap.NewNop())

	n.Notify(domain.Session{
		DeviceID:   42,
		State:      domain.StateOutOfWindow,
		Locale:     localeEN,
		EmployeeID: "D3",
	})

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "42", sender.sent[0].to)
	assert.Contains(t, sender.sent[0].text, "Outside Order Hours")
}

func TestChatNotifier_SendError(t *testing.T) {
	sender := &fakeSender{err: fmt.Errorf("telegram: bot was blocked by the user")}
	n := NewChatNotifier(sender, zap.NewNop())

	assert.NotPanics(t, func() {
		n.Notify(domain.Session{DeviceID: 42, State: domain.StateIdentifyEmployee})
	})
}

func TestIsUserError(t *testing.T) {
	assert.True(t, isUserError(fmt.Errorf("wrapped: %w", domain.ErrWindowClosed)))
	assert.True(t, isUserError(domain.ErrInvalidPIN))
	assert.False(t, isUserError(domain.ErrSubmissionInProgress))
	assert.False(t, isUserError(fmt.Errorf("db error")))
	assert.False(t, isUserError(nil))
}
