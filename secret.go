package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
)

// DevSigningSecret is the placeholder secret used outside production when
// nothing is configured. It is public by definition: never use it to sign
// anything you care about.
const DevSigningSecret = "insecure-dev-signing-secret"

const derivedSecretPrefix = "derived-signing-secret:"

// SecretResolver owns the process wide signing secret. Resolution happens
// once, on first use, and the result is held for the life of the process.
type SecretResolver struct {
	cfg    Config
	logger Logger

	once   sync.Once
	secret string
	err    error
}

// NewSecretResolver creates a SecretResolver reading from cfg.
func NewSecretResolver(cfg Config) *SecretResolver {
	return &SecretResolver{cfg: cfg, logger: defLogger{}}
}

func (r *SecretResolver) WithLogger(logger Logger) *SecretResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve returns the signing secret, computing it on first call. Safe for
// concurrent use; every caller observes the same value.
func (r *SecretResolver) Resolve() (string, error) {
	r.once.Do(func() {
		r.secret, r.err = r.resolve()
	})
	return r.secret, r.err
}

func (r *SecretResolver) resolve() (string, error) {
	if secret := strings.TrimSpace(r.cfg.GetSigningSecret()); secret != "" {
		return secret, nil
	}

	if !r.cfg.IsProduction() {
		return DevSigningSecret, nil
	}

	// Production with nothing configured: derive a stable secret from
	// deployment identity so restarts of the same deployment keep
	// verifying previously issued tokens.
	identity := make([]string, 0, 5)
	for _, field := range []string{
		r.cfg.GetDeploymentID(),
		r.cfg.GetCommitHash(),
		r.cfg.GetPublicURL(),
		r.cfg.GetProjectID(),
		r.cfg.GetOrgID(),
	} {
		if field = strings.TrimSpace(field); field != "" {
			identity = append(identity, field)
		}
	}

	if len(identity) == 0 {
		return "", ErrNoSigningSecret
	}

	r.logger.Warn("signing secret derived from deployment identity, configure an explicit secret")

	sum := sha256.Sum256([]byte(derivedSecretPrefix + strings.Join(identity, "|")))
	return hex.EncodeToString(sum[:]), nil
}
