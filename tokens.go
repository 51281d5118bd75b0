package auth

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Token lifetimes per kind.
const (
	SessionTokenTTL       = 7 * 24 * time.Hour
	VerifyEmailTokenTTL   = 30 * time.Minute
	ResetPasswordTokenTTL = 30 * time.Minute
)

// Kind tags baked into non-session payloads. A validator only accepts its
// own kind even though all kinds share one signing secret.
const (
	KindVerifyEmail   = "verify_email"
	KindResetPassword = "reset_password"
)

// SessionPayload is carried by session cookies.
type SessionPayload struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"`
}

// EmailVerificationPayload carries a pending registration through the
// email round trip, so no server side record exists until the link is
// clicked.
type EmailVerificationPayload struct {
	Kind         string `json:"kind"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// ResetPasswordPayload authorizes a single password change for email.
type ResetPasswordPayload struct {
	Kind      string `json:"kind"`
	Email     string `json:"email"`
	ExpiresAt int64  `json:"expiresAt"`
}

// sessionEnvelope catches stray kind tags so a verify_email or
// reset_password token can never pass as a session.
type sessionEnvelope struct {
	SessionPayload
	Kind string `json:"kind"`
}

// TokenService issues and validates the three token kinds over a shared
// codec. Issuance and validation are pure functions of (payload, secret,
// current time); instances are safe for unbounded concurrent use.
type TokenService struct {
	codec *TokenCodec
	now   func() time.Time
}

// NewTokenService creates a TokenService backed by codec.
func NewTokenService(codec *TokenCodec) *TokenService {
	return &TokenService{codec: codec, now: time.Now}
}

// WithClock overrides the time source. Used by tests to simulate expiry.
func (ts *TokenService) WithClock(now func() time.Time) *TokenService {
	if now != nil {
		ts.now = now
	}
	return ts
}

// IssueSessionToken mints a session token for email.
func (ts *TokenService) IssueSessionToken(email string) (string, error) {
	return ts.codec.Encode(SessionPayload{
		Email:     email,
		ExpiresAt: ts.expiry(SessionTokenTTL),
	})
}

// VerifySessionToken validates token and returns its payload, or
// ErrTokenInvalid. Expired, tampered, malformed, and wrong kind tokens
// are indistinguishable to the caller.
func (ts *TokenService) VerifySessionToken(token string) (*SessionPayload, error) {
	var env sessionEnvelope
	if !ts.codec.Decode(token, &env) {
		return nil, ErrTokenInvalid
	}
	if env.Kind != "" {
		return nil, ErrTokenInvalid
	}
	if err := validation.ValidateStruct(&env.SessionPayload,
		validation.Field(&env.SessionPayload.Email, validation.Required),
		validation.Field(&env.SessionPayload.ExpiresAt, validation.Required),
	); err != nil {
		return nil, ErrTokenInvalid
	}
	if ts.expired(env.ExpiresAt) {
		return nil, ErrTokenInvalid
	}
	payload := env.SessionPayload
	return &payload, nil
}

// IssueEmailVerificationToken mints a token carrying the pending account.
// Email and username are normalized before they are signed.
func (ts *TokenService) IssueEmailVerificationToken(email, username, passwordHash string) (string, error) {
	return ts.codec.Encode(EmailVerificationPayload{
		Kind:         KindVerifyEmail,
		Email:        NormalizeIdentifier(email),
		Username:     NormalizeIdentifier(username),
		PasswordHash: passwordHash,
		ExpiresAt:    ts.expiry(VerifyEmailTokenTTL),
	})
}

// VerifyEmailVerificationToken validates token, or returns ErrTokenInvalid.
func (ts *TokenService) VerifyEmailVerificationToken(token string) (*EmailVerificationPayload, error) {
	var payload EmailVerificationPayload
	if !ts.codec.Decode(token, &payload) {
		return nil, ErrTokenInvalid
	}
	if payload.Kind != KindVerifyEmail {
		return nil, ErrTokenInvalid
	}
	if err := validation.ValidateStruct(&payload,
		validation.Field(&payload.Email, validation.Required),
		validation.Field(&payload.Username, validation.Required),
		validation.Field(&payload.PasswordHash, validation.Required),
		validation.Field(&payload.ExpiresAt, validation.Required),
	); err != nil {
		return nil, ErrTokenInvalid
	}
	if ts.expired(payload.ExpiresAt) {
		return nil, ErrTokenInvalid
	}
	return &payload, nil
}

// IssueResetPasswordToken mints a reset token for a normalized email.
func (ts *TokenService) IssueResetPasswordToken(email string) (string, error) {
	return ts.codec.Encode(ResetPasswordPayload{
		Kind:      KindResetPassword,
		Email:     NormalizeIdentifier(email),
		ExpiresAt: ts.expiry(ResetPasswordTokenTTL),
	})
}

// VerifyResetPasswordToken validates token, or returns ErrTokenInvalid.
func (ts *TokenService) VerifyResetPasswordToken(token string) (*ResetPasswordPayload, error) {
	var payload ResetPasswordPayload
	if !ts.codec.Decode(token, &payload) {
		return nil, ErrTokenInvalid
	}
	if payload.Kind != KindResetPassword {
		return nil, ErrTokenInvalid
	}
	if err := validation.ValidateStruct(&payload,
		validation.Field(&payload.Email, validation.Required),
		validation.Field(&payload.ExpiresAt, validation.Required),
	); err != nil {
		return nil, ErrTokenInvalid
	}
	if ts.expired(payload.ExpiresAt) {
		return nil, ErrTokenInvalid
	}
	return &payload, nil
}

func (ts *TokenService) expiry(ttl time.Duration) int64 {
	return ts.now().Add(ttl).Unix()
}

// expired checks the expiry claim on its own: a correctly signed token
// past its expiresAt is still rejected.
func (ts *TokenService) expired(expiresAt int64) bool {
	return expiresAt <= ts.now().Unix()
}
