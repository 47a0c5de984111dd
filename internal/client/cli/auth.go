package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/posterboard/internal/common"
	"github.com/dmitrijs2005/posterboard/internal/filex"
)

// getSimpleText, getPassword and readDataURL are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	readDataURL   = filex.DataURL
)

// Register prompts for email, display name, password and an optional
// profile picture, then creates the account. The new session is kept.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	picture, err := getSimpleText(a.reader, "Profile picture path (empty to skip)", a.out)
	if err != nil {
		return err
	}
	var imageData string
	if picture != "" {
		if imageData, err = readDataURL(picture); err != nil {
			return err
		}
	}

	if err := a.api.Register(ctx, email, displayName, password, imageData); err != nil {
		return err
	}

	a.userName = email
	a.println("Registered and logged in")
	return nil
}

// Login prompts for credentials and opens a session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, email, password); err != nil {
		return err
	}

	a.userName = email
	a.printSession()
	return nil
}

// Refresh renews the whole session with the update token.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.api.Refresh(ctx); err != nil {
		return err
	}
	a.printSession()
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		return err
	}
	a.userName = ""
	a.println("You have been logged out")
	return nil
}

// WhoAmI asks the gRPC session service who the current token belongs to.
func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.identity.WhoAmI(ctx)
	if err != nil {
		return err
	}
	a.println(id.DisplayName, "<"+id.Email+">", id.ID)
	return nil
}

func (a *App) Secret(ctx context.Context) error {
	msg, err := a.api.Secret(ctx)
	if err != nil {
		return err
	}
	a.println(msg)
	return nil
}

func (a *App) printSession() {
	s, ok := a.api.Session()
	if !ok {
		return
	}
	a.println("Session valid until", s.SessionExpiration.Local().Format(time.DateTime))
}
