// Package ports holds the contracts the match engine shares with its
// transport and storage adapters.
package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores for a missing user, player or template.
var ErrNotFound = errors.New("not found")

// ControlStyle hints how a transport should render a control.
type ControlStyle int

const (
	StylePrimary ControlStyle = iota
	StyleSecondary
	StyleSuccess
	StyleDanger
)

// Control is a button. Payload comes back verbatim when it is pressed.
type Control struct {
	Label   string
	Payload string
	Style   ControlStyle
}

// Messenger is the outbound chat transport.
type Messenger interface {
	SendText(ctx context.Context, chatID, text string, controls []Control) (messageID string, err error)
	// EditText replaces text and controls; nil controls removes them.
	EditText(ctx context.Context, chatID, messageID, text string, controls []Control) error
	NotifyUser(ctx context.Context, userID, text string) error
}

// User is a registered player account.
type User struct {
	ID       string
	Username string
	Points   int
	Currency int
}
