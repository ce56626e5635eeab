package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangpi/chatvault/internal/client/api"
	"github.com/sangpi/chatvault/internal/client/config"
)

type fakeChatAPI struct {
	sessions   []api.Session
	thread     []api.Message
	reply      string
	sendErr    error
	sentTo     []string
	sentText   []string
	sentMIME   []string
	deleted    []string
	wipedAll   int
	feedback   []string
	newCounter int
	pings      int
	pingErr    error
}

func (f *fakeChatAPI) Ping(_ context.Context) error {
	f.pings++
	return f.pingErr
}

func (f *fakeChatAPI) NewSession(_ context.Context) (string, error) {
	f.newCounter++
	return "new-session", nil
}

func (f *fakeChatAPI) ListSessions(_ context.Context, _ int) ([]api.Session, error) {
	return f.sessions, nil
}

func (f *fakeChatAPI) Thread(_ context.Context, _ string) ([]api.Message, error) {
	return f.thread, nil
}

func (f *fakeChatAPI) SendTurn(_ context.Context, sessionID, text, mimeType string, _ []byte) (string, error) {
	if f.sendErr != nil {
		return "", f.sendErr
	}
	f.sentTo = append(f.sentTo, sessionID)
	f.sentText = append(f.sentText, text)
	f.sentMIME = append(f.sentMIME, mimeType)
	return f.reply, nil
}

func (f *fakeChatAPI) DeleteSession(_ context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeChatAPI) DeleteAllSessions(_ context.Context) error {
	f.wipedAll++
	return nil
}

func (f *fakeChatAPI) SendFeedback(_ context.Context, message string) error {
	f.feedback = append(f.feedback, message)
	return nil
}

func newChatApp(chat *fakeChatAPI) *App {
	return &App{
		api:      chat,
		username: "min",
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func TestSend_StartsSessionWhenNoneSelected(t *testing.T) {
	lines := captureOutput(t)
	stubInput(t, "hello", nil)

	chat := &fakeChatAPI{reply: "hi there"}
	a := newChatApp(chat)

	require.NoError(t, a.Send(context.Background()))
	assert.Equal(t, 1, chat.newCounter)
	assert.Equal(t, "new-session", a.sessionID)
	assert.Equal(t, []string{"hello"}, chat.sentText)
	assert.Contains(t, *lines, "hi there")
}

func TestSend_ReusesCurrentSession(t *testing.T) {
	captureOutput(t)
	stubInput(t, "again", nil)

	chat := &fakeChatAPI{reply: "ok"}
	a := newChatApp(chat)
	a.sessionID = "s1"

	require.NoError(t, a.Send(context.Background()))
	assert.Zero(t, chat.newCounter)
	assert.Equal(t, []string{"s1"}, chat.sentTo)
}

func TestSend_RequiresLogin(t *testing.T) {
	captureOutput(t)
	chat := &fakeChatAPI{}
	a := newChatApp(chat)
	a.username = ""

	err := a.Send(context.Background())
	assert.ErrorIs(t, err, errNotLoggedIn)
	assert.Empty(t, chat.sentText)
}

func TestNewChat(t *testing.T) {
	captureOutput(t)
	chat := &fakeChatAPI{}
	a := newChatApp(chat)
	a.sessionID = "old"

	require.NoError(t, a.NewChat(context.Background()))
	assert.Equal(t, "new-session", a.sessionID)
}

func TestOpen_SelectsByNumber(t *testing.T) {
	captureOutput(t)
	stubInput(t, "2", nil)

	chat := &fakeChatAPI{
		sessions: []api.Session{
			{SessionID: "recent", LastActivity: time.Now()},
			{SessionID: "older", LastActivity: time.Now().Add(-time.Hour)},
		},
		thread: []api.Message{{Role: "user", Content: "hi"}},
	}
	a := newChatApp(chat)

	require.NoError(t, a.Open(context.Background()))
	assert.Equal(t, "older", a.sessionID)
}

func TestOpen_InvalidNumber(t *testing.T) {
	captureOutput(t)
	stubInput(t, "99", nil)

	chat := &fakeChatAPI{sessions: []api.Session{{SessionID: "s1"}}}
	a := newChatApp(chat)

	require.NoError(t, a.Open(context.Background()))
	assert.Empty(t, a.sessionID)
}

func TestDelete(t *testing.T) {
	captureOutput(t)
	chat := &fakeChatAPI{}
	a := newChatApp(chat)
	a.sessionID = "s1"

	require.NoError(t, a.Delete(context.Background()))
	assert.Equal(t, []string{"s1"}, chat.deleted)
	assert.Empty(t, a.sessionID)
}

func TestWipe_NeedsConfirmation(t *testing.T) {
	captureOutput(t)
	chat := &fakeChatAPI{}
	a := newChatApp(chat)

	stubInput(t, "no", nil)
	require.NoError(t, a.Wipe(context.Background()))
	assert.Zero(t, chat.wipedAll)

	stubInput(t, "yes", nil)
	require.NoError(t, a.Wipe(context.Background()))
	assert.Equal(t, 1, chat.wipedAll)
}

func TestFeedback(t *testing.T) {
	captureOutput(t)
	stubInput(t, "great app", nil)

	chat := &fakeChatAPI{}
	a := newChatApp(chat)

	require.NoError(t, a.Feedback(context.Background()))
	assert.Equal(t, []string{"great app"}, chat.feedback)
}

func TestStatus(t *testing.T) {
	lines := captureOutput(t)

	chat := &fakeChatAPI{}
	a := newChatApp(chat)
	a.config = &config.Config{ServerURL: "http://127.0.0.1:8080"}

	require.NoError(t, a.Status(context.Background()))
	assert.Equal(t, 1, chat.pings)
	assert.Contains(t, *lines, "Server is up.")
	assert.Contains(t, *lines, "Logged in as")
}

func TestStatus_Unreachable(t *testing.T) {
	lines := captureOutput(t)

	chat := &fakeChatAPI{pingErr: api.ErrUnavailable}
	a := newChatApp(chat)
	a.config = &config.Config{ServerURL: "http://127.0.0.1:8080"}

	assert.Error(t, a.Status(context.Background()))
	assert.Contains(t, *lines, "Server unreachable at")
}
