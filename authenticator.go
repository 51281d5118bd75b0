package auth

import (
	"context"
	"errors"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

// Auther drives the credential flows: login, registration with email
// verification, and password reset. Persistence and mail delivery are
// collaborator contracts; Auther only produces and consumes tokens and
// password records.
type Auther struct {
	store  UserStore
	tokens *TokenService
	mailer LinkMailer
	cfg    Config
	logger Logger
}

// NewAuthenticator returns a new Auther.
func NewAuthenticator(store UserStore, tokens *TokenService, mailer LinkMailer, cfg Config) *Auther {
	if mailer == nil {
		mailer = NewLogMailer(nil)
	}
	return &Auther{
		store:  store,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		logger: defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Login verifies credentials and returns a session token. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindByEmail(ctx, NormalizeIdentifier(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Burn a derivation against a throwaway record so a missing
			// account costs the same as a wrong password.
			_, _ = VerifyPassword(password, dummyRecord())
			return "", ErrMismatchedHashAndPassword
		}
		return "", err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Login password verification failed", "error", err)
		return "", err
	}
	if !ok {
		return "", ErrMismatchedHashAndPassword
	}

	return s.tokens.IssueSessionToken(user.Email)
}

// SessionFromToken resolves a session token into its payload.
func (s *Auther) SessionFromToken(token string) (*SessionPayload, error) {
	return s.tokens.VerifySessionToken(token)
}

// Register hashes the password, wraps the pending account in an email
// verification token, and mails the confirmation link. No user record is
// created until the link is confirmed.
func (s *Auther) Register(ctx context.Context, email, username, password string) error {
	email = NormalizeIdentifier(email)
	username = NormalizeIdentifier(username)

	if err := validateRegistration(email, username, password); err != nil {
		return err
	}

	if _, err := s.store.FindByEmail(ctx, email); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	token, err := s.tokens.IssueEmailVerificationToken(email, username, hash)
	if err != nil {
		return err
	}

	return s.mailer.SendLink(ctx, email, VerificationLink(s.cfg.GetSiteURL(), token))
}

// ConfirmRegistration validates a verification token and creates the
// account it carries.
func (s *Auther) ConfirmRegistration(ctx context.Context, token string) (*User, error) {
	payload, err := s.tokens.VerifyEmailVerificationToken(token)
	if err != nil {
		return nil, err
	}

	return s.store.Create(ctx, &User{
		Role:           RoleMember,
		Email:          payload.Email,
		Username:       payload.Username,
		PasswordHash:   payload.PasswordHash,
		EmailValidated: true,
	})
}

// StartPasswordReset mails a reset link. Unknown emails are a silent
// no-op so the endpoint is not an account oracle.
func (s *Auther) StartPasswordReset(ctx context.Context, email string) error {
	email = NormalizeIdentifier(email)

	if _, err := s.store.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.tokens.IssueResetPasswordToken(email)
	if err != nil {
		return err
	}

	return s.mailer.SendLink(ctx, email, PasswordResetLink(s.cfg.GetSiteURL(), token))
}

// FinishPasswordReset validates a reset token and replaces the stored
// password record wholesale.
func (s *Auther) FinishPasswordReset(ctx context.Context, token, newPassword string) error {
	payload, err := s.tokens.VerifyResetPasswordToken(token)
	if err != nil {
		return err
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.store.UpdatePasswordHash(ctx, payload.Email, hash)
}

func validateRegistration(email, username, password string) error {
	return validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"username": validation.Validate(username, validation.Required, validation.Length(2, 64)),
		"password": validation.Validate(password, validation.Required, validation.Length(8, 256)),
	}.Filter()
}

var (
	dummyOnce   sync.Once
	dummyHashed string
)

// dummyRecord is a valid record for a password nobody knows. Computed
// once, lazily, so process startup does not pay for a derivation.
func dummyRecord() string {
	dummyOnce.Do(func() {
		if record, err := HashPassword(uuid.NewString()); err == nil {
			dummyHashed = record
		}
	})
	return dummyHashed
}
