// Package cli implements the authctl subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/auth/models"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/gateway"
)

// ErrUsage is returned for unknown subcommands and missing arguments.
var ErrUsage = errors.New("usage: authctl [flags] register|login|verify [token]")

// getSimpleText and getPassword are indirections for tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// AuthAPI is the part of the auth service authctl drives.
type AuthAPI interface {
	Register(ctx context.Context, email string, password []byte, fullName *string) (*models.AuthResponse, error)
	Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error)
}

type App struct {
	auth     AuthAPI
	verifier gateway.Verifier
	reader   *bufio.Reader
	out      io.Writer
	timeout  time.Duration
}

func NewApp(auth AuthAPI, verifier gateway.Verifier, in io.Reader, out io.Writer, timeout time.Duration) *App {
	return &App{auth: auth, verifier: verifier, reader: bufio.NewReader(in), out: out, timeout: timeout}
}

// Run executes one subcommand.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	switch args[0] {
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "verify":
		token := ""
		if len(args) > 1 {
			token = args[1]
		}
		return a.Verify(ctx, token)
	case "help":
		fmt.Fprintln(a.out, ErrUsage.Error())
		return nil
	default:
		return ErrUsage
	}
}

// Register prompts for email, optional full name and password, and creates
// the account.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Full name (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeBytes(password)

	var fullName *string
	if name != "" {
		fullName = &name
	}

	resp, err := a.auth.Register(ctx, email, password, fullName)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (id %s, role %s)\n", resp.User.Email, resp.User.ID, resp.User.Role)
	a.printToken(resp.Token)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeBytes(password)

	resp, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", resp.User.Email)
	a.printToken(resp.Token)
	return nil
}

// Verify checks token with the auth service, prompting for it when empty.
func (a *App) Verify(ctx context.Context, token string) error {
	if token == "" {
		var err error
		if token, err = getSimpleText(a.reader, "Token", a.out); err != nil {
			return err
		}
	}
	if token == "" {
		return ErrUsage
	}

	claims, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return fmt.Errorf("token rejected: %w", err)
	}

	fmt.Fprintf(a.out, "Valid token\n  user_id:  %s\n  email:    %s\n  role:     %s\n", claims.UserID, claims.Email, claims.Role)
	if claims.FullName != nil {
		fmt.Fprintf(a.out, "  name:     %s\n", *claims.FullName)
	}
	return nil
}

func (a *App) printToken(t models.TokenView) {
	fmt.Fprintf(a.out, "Access token (%s, expires in %ds):\n%s\n", t.TokenType, t.ExpiresIn, t.AccessToken)
}
