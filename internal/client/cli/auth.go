package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/secondbrain/internal/client/models"
)

// Input helpers are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

func (a *App) Signup(ctx context.Context, _ []string) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	if err := a.state.Session.Signup(ctx, userName, email, string(password)); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "User created successfully")
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	if err := a.state.Session.Login(ctx, email, string(password)); err != nil {
		return err
	}
	_, name := a.state.Session.User()
	fmt.Fprintf(a.out, "Login successful. Welcome, %s!\n", name)
	return nil
}

// Logout clears the cached stores and the saved session.
func (a *App) Logout(_ context.Context, _ []string) error {
	if err := a.state.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Profile(ctx context.Context, _ []string) error {
	if err := a.state.Session.FetchProfile(ctx); err != nil {
		return err
	}

	id, name := a.state.Session.User()
	fmt.Fprintf(a.out, "%s (%s)\n", name, id)

	var total int64
	for _, s := range a.state.Session.Stats() {
		fmt.Fprintf(a.out, "  %-8s %d\n", s.Type, s.Count)
		total += s.Count
	}
	fmt.Fprintf(a.out, "  %-8s %d\n", "total", total)
	return nil
}

// EditProfile prompts for optional changes; empty answers keep the value.
// A current password is asked for only when a new one is given.
func (a *App) EditProfile(ctx context.Context, _ []string) error {
	var u models.ProfileUpdate
	var err error

	if u.UserName, err = getSimpleText(a.reader, "New username (empty to keep)", a.out); err != nil {
		return err
	}
	if u.Email, err = getSimpleText(a.reader, "New email (empty to keep)", a.out); err != nil {
		return err
	}

	newPassword, err := getPassword(a.out, "New password (empty to keep)")
	if err != nil {
		return err
	}
	if len(newPassword) > 0 {
		current, err := getPassword(a.out, "Current password")
		if err != nil {
			return err
		}
		u.NewPassword, u.CurrentPassword = string(newPassword), string(current)
	}

	user, err := a.state.Session.UpdateProfile(ctx, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated successfully: %s <%s>\n", user.UserName, user.Email)
	return nil
}
