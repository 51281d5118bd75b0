package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"strings"
)

// TokenCodec signs and verifies self contained tokens. The wire format is
// two base64url segments joined by a dot:
//
//	<base64url(payload JSON)>.<base64url(HMAC-SHA256(payload segment))>
//
// ASCII only, so tokens are safe in cookie values and URL query params.
// The codec knows nothing about payload shapes; the token service layers
// structural and expiry checks on top.
type TokenCodec struct {
	secrets *SecretResolver
}

// NewTokenCodec creates a codec signing with the resolver's secret.
func NewTokenCodec(secrets *SecretResolver) *TokenCodec {
	return &TokenCodec{secrets: secrets}
}

// Encode serializes payload and signs it. Fails only when the secret
// cannot be resolved or the payload cannot be serialized.
func (c *TokenCodec) Encode(payload any) (string, error) {
	secret, err := c.secrets.Resolve()
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	segment := base64.RawURLEncoding.EncodeToString(raw)
	return segment + "." + signSegment(secret, segment), nil
}

// Decode verifies token and parses its payload into out. It returns false
// for any malformed, unsigned, or tampered input and never panics. The
// payload is only parsed after the signature checks out.
func (c *TokenCodec) Decode(token string, out any) bool {
	secret, err := c.secrets.Resolve()
	if err != nil {
		return false
	}

	segment, signature, found := strings.Cut(token, ".")
	if !found || segment == "" || signature == "" {
		return false
	}

	expected := signSegment(secret, segment)
	if len(signature) != len(expected) {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return false
	}

	raw, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, out) == nil
}

func signSegment(secret, segment string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(segment))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
