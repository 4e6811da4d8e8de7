package usagelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	keychainService = "Claude Code-credentials"
	// The first keychain read may show a permission dialog.
	keychainTimeout = 10 * time.Second
)

var (
	errNoAccessToken = errors.New("no access token")
	errTokenExpired  = errors.New("oauth token expired")
)

// CredentialSource is one place credentials can be read from.
type CredentialSource interface {
	Name() string
	Attempt(ctx context.Context, now time.Time) (*Credentials, error)
}

// CredentialResolver tries its sources in order and returns the first usable
// credentials.
type CredentialResolver struct {
	Sources []CredentialSource
	Log     *zap.Logger
}

// DefaultSources returns the credential sources available on goos: the
// keychain on darwin, then the credentials file under home.
func DefaultSources(goos, home string) []CredentialSource {
	var sources []CredentialSource
	if goos == "darwin" {
		sources = append(sources, NewKeychainSource())
	}
	return append(sources, &FileSource{Path: CredentialsPath(home)})
}

// Resolve returns nil when no source yields valid credentials. A source other
// than the last one that has no subscription type is skipped in favour of the
// following sources.
func (r *CredentialResolver) Resolve(ctx context.Context, now time.Time) *Credentials {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	for i, src := range r.Sources {
		creds, err := src.Attempt(ctx, now)
		if err != nil || creds == nil {
			log.Debug("credential source failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		if creds.SubscriptionType == "" && i < len(r.Sources)-1 {
			log.Debug("credentials missing subscriptionType, trying next source", zap.String("source", src.Name()))
			continue
		}
		log.Debug("using credentials", zap.String("source", src.Name()))
		return creds
	}
	return nil
}

// FileSource reads the JSON credentials file written by Claude Code.
type FileSource struct {
	Path string
}

// CredentialsPath is where Claude Code keeps credentials when no keychain is used.
func CredentialsPath(home string) string {
	return filepath.Join(home, ".claude", ".credentials.json")
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Attempt(_ context.Context, now time.Time) (*Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials: %w", err)
	}
	return parseCredentials(data, now)
}

// CommandRunner runs an external command and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// KeychainSource reads the credentials entry from the macOS login keychain
// through the security(1) tool.
type KeychainSource struct {
	Service string
	Timeout time.Duration
	Run     CommandRunner
}

func NewKeychainSource() *KeychainSource {
	return &KeychainSource{
		Service: keychainService,
		Timeout: keychainTimeout,
		Run:     execRunner,
	}
}

func (s *KeychainSource) Name() string { return "keychain" }

func (s *KeychainSource) Attempt(ctx context.Context, now time.Time) (*Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	out, err := s.Run(ctx, "security", "find-generic-password", "-s", s.Service, "-w")
	if err != nil {
		return nil, fmt.Errorf("keychain: %w", err)
	}
	data := strings.TrimSpace(string(out))
	if data == "" {
		return nil, errors.New("keychain: empty value")
	}
	return parseCredentials([]byte(data), now)
}

func parseCredentials(data []byte, now time.Time) (*Credentials, error) {
	var file credentialsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	oauth := file.ClaudeAiOauth
	if oauth == nil || oauth.AccessToken == "" {
		return nil, errNoAccessToken
	}
	if oauth.ExpiresAt != nil && *oauth.ExpiresAt <= float64(now.UnixMilli()) {
		return nil, errTokenExpired
	}
	return &Credentials{
		AccessToken:      oauth.AccessToken,
		SubscriptionType: oauth.SubscriptionType,
	}, nil
}
