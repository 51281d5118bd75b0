package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds auth options. Loading and validating configuration is the
// caller's concern; we only read values from it.
type Config interface {
	// GetSigningSecret returns the explicit signing secret, empty if unset.
	GetSigningSecret() string
	// IsProduction reports whether the process runs in production.
	IsProduction() bool
	// GetSiteURL is the externally reachable base URL used in email links.
	GetSiteURL() string

	// Deployment identity, used only as last resort entropy when no
	// signing secret is configured in production.
	GetDeploymentID() string
	GetCommitHash() string
	GetPublicURL() string
	GetProjectID() string
	GetOrgID() string
}

// UserStore is the persistence contract this package consumes. The
// repository package ships a bun backed implementation.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
}

// LinkMailer delivers verification and reset links. Outbound email is an
// external collaborator; see NewLogMailer for the development stand-in.
type LinkMailer interface {
	SendLink(ctx context.Context, address, link string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
