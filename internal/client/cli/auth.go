package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sangpi/chatvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// minPasswordLength mirrors the server-side registration rule, so a too-short
// password is rejected before the round trip.
const minPasswordLength = 6

// Register prompts for a username and password and creates a new account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	if username == "" {
		printlnFn("Username cannot be empty.")
		return nil
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < minPasswordLength {
		printlnFn(fmt.Sprintf("Password must be at least %d characters.", minPasswordLength))
		return nil
	}

	if err := a.authService.Register(ctx, username, password); err != nil {
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Account created, you can log in now.")
	return nil
}

// Login prompts for credentials, authenticates, and remembers the session
// locally so the next start of the CLI resumes without a password.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.Login(ctx, username, password); err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.username = username
	a.sessionID = ""
	printlnFn(fmt.Sprintf("Hello, %s!", username))
	return nil
}

// Logout revokes the remembered session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	a.username = ""
	a.sessionID = ""
	printlnFn("Logged out.")
	return nil
}
