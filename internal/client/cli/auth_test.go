package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangpi/chatvault/internal/common"
)

type fakeAuthService struct {
	loginErr   error
	registered []string
	loggedIn   []string
	loggedOut  int
}

func (f *fakeAuthService) Register(_ context.Context, username string, _ []byte) error {
	f.registered = append(f.registered, username)
	return nil
}

func (f *fakeAuthService) Login(_ context.Context, username string, _ []byte) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.loggedIn = append(f.loggedIn, username)
	return nil
}

func (f *fakeAuthService) TryAutoResume(_ context.Context) (string, error) {
	return "", common.ErrNotFound
}

func (f *fakeAuthService) Logout(_ context.Context) error {
	f.loggedOut++
	return nil
}

func stubInput(t *testing.T, text string, password []byte) {
	t.Helper()
	origText, origPw := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		return text, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) {
		pw := make([]byte, len(password))
		copy(pw, password)
		return pw, nil
	}
	t.Cleanup(func() { getSimpleText, getPassword = origText, origPw })
}

func newCLIApp(auth *fakeAuthService) *App {
	return &App{
		authService: auth,
		reader:      bufio.NewReader(strings.NewReader("")),
	}
}

func TestRegisterCommand(t *testing.T) {
	captureOutput(t)
	stubInput(t, "min", []byte("password1"))

	auth := &fakeAuthService{}
	a := newCLIApp(auth)

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, []string{"min"}, auth.registered)
}

func TestRegisterCommand_ShortPasswordNeverSent(t *testing.T) {
	lines := captureOutput(t)
	stubInput(t, "min", []byte("12345"))

	auth := &fakeAuthService{}
	a := newCLIApp(auth)

	require.NoError(t, a.Register(context.Background()))
	assert.Empty(t, auth.registered)
	assert.Contains(t, *lines, "Password must be at least 6 characters.")
}

func TestRegisterCommand_EmptyUsername(t *testing.T) {
	captureOutput(t)
	stubInput(t, "", []byte("password1"))

	auth := &fakeAuthService{}
	a := newCLIApp(auth)

	require.NoError(t, a.Register(context.Background()))
	assert.Empty(t, auth.registered)
}

func TestLoginCommand(t *testing.T) {
	captureOutput(t)
	stubInput(t, "min", []byte("password1"))

	auth := &fakeAuthService{}
	a := newCLIApp(auth)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "min", a.username)
	assert.True(t, a.isLoggedIn())
}

func TestLoginCommand_Failure(t *testing.T) {
	captureOutput(t)
	stubInput(t, "min", []byte("wrongpw"))

	auth := &fakeAuthService{loginErr: common.ErrUnauthorized}
	a := newCLIApp(auth)

	err := a.Login(context.Background())
	assert.Error(t, err)
	assert.False(t, a.isLoggedIn())
}

func TestLogoutCommand(t *testing.T) {
	captureOutput(t)

	auth := &fakeAuthService{}
	a := newCLIApp(auth)
	a.username = "min"
	a.sessionID = "s1"

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, 1, auth.loggedOut)
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.sessionID)
}
