package auth_test

import (
	"context"
	"fmt"
	"sync"

	auth "github.com/couchtube/go-auth"
)

// testConfig implements auth.Config for tests
type testConfig struct {
	signingSecret string
	production    bool
	siteURL       string
	deploymentID  string
	commitHash    string
	publicURL     string
	projectID     string
	orgID         string
}

func (c testConfig) GetSigningSecret() string { return c.signingSecret }
func (c testConfig) IsProduction() bool       { return c.production }
func (c testConfig) GetSiteURL() string       { return c.siteURL }
func (c testConfig) GetDeploymentID() string  { return c.deploymentID }
func (c testConfig) GetCommitHash() string    { return c.commitHash }
func (c testConfig) GetPublicURL() string     { return c.publicURL }
func (c testConfig) GetProjectID() string     { return c.projectID }
func (c testConfig) GetOrgID() string         { return c.orgID }

func newTestTokenService(secret string) *auth.TokenService {
	resolver := auth.NewSecretResolver(testConfig{signingSecret: secret})
	return auth.NewTokenService(auth.NewTokenCodec(resolver))
}

// captureLogger records formatted log lines per level
type captureLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newCaptureLogger() *captureLogger {
	return &captureLogger{lines: map[string][]string{}}
}

func (l *captureLogger) log(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, args...))
}

func (l *captureLogger) Debug(format string, args ...any) { l.log("debug", format, args...) }
func (l *captureLogger) Info(format string, args ...any)  { l.log("info", format, args...) }
func (l *captureLogger) Warn(format string, args ...any)  { l.log("warn", format, args...) }
func (l *captureLogger) Error(format string, args ...any) { l.log("error", format, args...) }

func (l *captureLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines[level])
}

// memStore is an in-memory auth.UserStore
type memStore struct {
	mu    sync.Mutex
	users map[string]*auth.User // keyed by email
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*auth.User{}}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[auth.NormalizeIdentifier(email)]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, auth.ErrUserNotFound
}

func (s *memStore) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == auth.NormalizeIdentifier(username) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (s *memStore) Create(_ context.Context, user *auth.User) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := auth.NormalizeIdentifier(user.Email)
	if _, ok := s.users[key]; ok {
		return nil, auth.ErrUserExists
	}
	copied := *user
	s.users[key] = &copied
	return user, nil
}

func (s *memStore) UpdatePasswordHash(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[auth.NormalizeIdentifier(email)]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

// captureMailer records delivered links instead of sending mail
type captureMailer struct {
	mu    sync.Mutex
	sent  []string
	links []string
}

func (m *captureMailer) SendLink(_ context.Context, address, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, address)
	m.links = append(m.links, link)
	return nil
}

func (m *captureMailer) lastLink() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.links) == 0 {
		return ""
	}
	return m.links[len(m.links)-1]
}

func (m *captureMailer) deliveries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.links)
}
