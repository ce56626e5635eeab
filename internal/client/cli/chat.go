package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/sangpi/chatvault/internal/common"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first.")
		return errNotLoggedIn
	}
	return nil
}

// Status checks that the server is reachable and reports who is logged in.
func (a *App) Status(ctx context.Context) error {
	if err := a.api.Ping(ctx); err != nil {
		printlnFn("Server unreachable at", a.config.ServerURL)
		return err
	}
	printlnFn("Server is up.")
	if a.isLoggedIn() {
		printlnFn("Logged in as", a.username)
	} else {
		printlnFn("Not logged in.")
	}
	return nil
}

// NewChat switches to a fresh session. The session becomes visible in the
// directory only once the first message is sent.
func (a *App) NewChat(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := a.api.NewSession(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	a.sessionID = id
	printlnFn("Started a new chat.")
	return nil
}

// List prints the session directory, most recently active first.
func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	sessions, err := a.api.ListSessions(ctx, 0)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(sessions) == 0 {
		printlnFn("No chats yet.")
		return nil
	}

	for i, s := range sessions {
		printlnFn(fmt.Sprintf("%d. %.8s  (last activity %s)",
			i+1, s.SessionID, s.LastActivity.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

// Open selects a session by its number in the directory listing and prints
// its thread.
func (a *App) Open(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	sessions, err := a.api.ListSessions(ctx, 0)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	if len(sessions) == 0 {
		printlnFn("No chats yet.")
		return nil
	}

	raw, err := getSimpleText(a.reader, fmt.Sprintf("Chat number (1-%d)", len(sessions)), os.Stdout)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > len(sessions) {
		printlnFn("Invalid chat number.")
		return nil
	}

	a.sessionID = sessions[n-1].SessionID
	return a.History(ctx)
}

// Send prompts for a message, sends it to the current session, and prints
// the assistant's reply. Without a current session a fresh one is started.
func (a *App) Send(ctx context.Context) error {
	return a.sendMessage(ctx, "", nil)
}

// Attach prompts for a file and a message and sends both in one turn. The
// file content rides along for generation only; it is never stored.
func (a *App) Attach(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	path, err := getSimpleText(a.reader, "File path", os.Stdout)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		printlnFn("Cannot read file:", err.Error())
		return err
	}

	return a.sendMessage(ctx, http.DetectContentType(data), data)
}

func (a *App) sendMessage(ctx context.Context, mimeType string, data []byte) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	text, err := getSimpleText(a.reader, "Your message", os.Stdout)
	if err != nil {
		return err
	}
	if text == "" {
		printlnFn("Nothing to send.")
		return nil
	}

	if a.sessionID == "" {
		id, err := a.api.NewSession(ctx)
		if err != nil {
			printlnFn("Error:", err.Error())
			return err
		}
		a.sessionID = id
	}

	reply, err := a.api.SendTurn(ctx, a.sessionID, text, mimeType, data)
	if err != nil {
		if errors.Is(err, common.ErrGenerationUnavailable) {
			printlnFn("The assistant is unavailable right now; your message was saved.")
		} else {
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn(reply)
	return nil
}

// History prints the thread of the current session.
func (a *App) History(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.sessionID == "" {
		printlnFn("No chat selected; use 'open' or 'new'.")
		return nil
	}

	msgs, err := a.api.Thread(ctx, a.sessionID)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	for _, m := range msgs {
		printlnFn(fmt.Sprintf("[%s] %s", m.Role, m.Content))
	}
	return nil
}

// Delete removes the current session and its messages.
func (a *App) Delete(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.sessionID == "" {
		printlnFn("No chat selected; use 'open' first.")
		return nil
	}

	if err := a.api.DeleteSession(ctx, a.sessionID); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	a.sessionID = ""
	printlnFn("Chat deleted.")
	return nil
}

// Wipe removes the user's entire chat history after confirmation.
func (a *App) Wipe(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Delete ALL your chats? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.api.DeleteAllSessions(ctx); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	a.sessionID = ""
	printlnFn("All chats deleted.")
	return nil
}

// Feedback sends a feedback note to the operators.
func (a *App) Feedback(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	message, err := getSimpleText(a.reader, "Your feedback", os.Stdout)
	if err != nil {
		return err
	}
	if message == "" {
		printlnFn("Nothing to send.")
		return nil
	}

	if err := a.api.SendFeedback(ctx, message); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn("Thanks!")
	return nil
}
