package usagelimit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func credentialsJSON(token, subscription string, expiresAt int64) string {
	return fmt.Sprintf(`{"claudeAiOauth":{"accessToken":%q,"refreshToken":"r","subscriptionType":%q,"expiresAt":%d,"scopes":["user:inference"]}}`,
		token, subscription, expiresAt)
}

func writeCredentials(t *testing.T, home, content string) {
	t.Helper()
	path := CredentialsPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

type staticSource struct {
	name  string
	creds *Credentials
	err   error
	calls int
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Attempt(context.Context, time.Time) (*Credentials, error) {
	s.calls++
	return s.creds, s.err
}

func TestParseCredentials(t *testing.T) {
	future := testNow.Add(time.Hour).UnixMilli()

	tests := []struct {
		name    string
		data    string
		want    *Credentials
		wantErr error
	}{
		{
			name: "valid",
			data: credentialsJSON("tok", "max", future),
			want: &Credentials{AccessToken: "tok", SubscriptionType: "max"},
		},
		{
			name: "no expiry",
			data: `{"claudeAiOauth":{"accessToken":"tok","subscriptionType":"pro"}}`,
			want: &Credentials{AccessToken: "tok", SubscriptionType: "pro"},
		},
		{name: "expires now", data: credentialsJSON("tok", "max", testNow.UnixMilli()), wantErr: errTokenExpired},
		{name: "expired", data: credentialsJSON("tok", "max", testNow.Add(-time.Minute).UnixMilli()), wantErr: errTokenExpired},
		{name: "missing token", data: credentialsJSON("", "max", future), wantErr: errNoAccessToken},
		{name: "missing oauth", data: `{}`, wantErr: errNoAccessToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCredentials([]byte(tt.data), testNow)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseCredentials([]byte(`not json`), testNow)
	assert.Error(t, err)
}

func TestFileSource(t *testing.T) {
	home := t.TempDir()
	src := &FileSource{Path: CredentialsPath(home)}

	_, err := src.Attempt(context.Background(), testNow)
	assert.Error(t, err, "missing file")

	writeCredentials(t, home, credentialsJSON("tok", "team", testNow.Add(time.Hour).UnixMilli()))
	creds, err := src.Attempt(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, "team", creds.SubscriptionType)
}

func TestKeychainSource(t *testing.T) {
	future := testNow.Add(time.Hour).UnixMilli()
	var gotArgs []string
	var hadDeadline bool
	src := &KeychainSource{
		Service: keychainService,
		Timeout: keychainTimeout,
		Run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			_, hadDeadline = ctx.Deadline()
			gotArgs = append([]string{name}, args...)
			return []byte(credentialsJSON("kc-token", "max", future) + "\n"), nil
		},
	}

	creds, err := src.Attempt(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, "kc-token", creds.AccessToken)
	assert.True(t, hadDeadline)
	assert.Equal(t, []string{"security", "find-generic-password", "-s", "Claude Code-credentials", "-w"}, gotArgs)

	src.Run = func(context.Context, string, ...string) ([]byte, error) { return []byte("  \n"), nil }
	_, err = src.Attempt(context.Background(), testNow)
	assert.Error(t, err)

	src.Run = func(context.Context, string, ...string) ([]byte, error) { return nil, errors.New("exit status 44") }
	_, err = src.Attempt(context.Background(), testNow)
	assert.Error(t, err)
}

func TestKeychainSource_Timeout(t *testing.T) {
	src := &KeychainSource{
		Service: keychainService,
		Timeout: 10 * time.Millisecond,
		Run: func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	_, err := src.Attempt(context.Background(), testNow)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCredentialResolver_FallsThrough(t *testing.T) {
	failing := &staticSource{name: "keychain", err: errors.New("not found")}
	file := &staticSource{name: "file", creds: &Credentials{AccessToken: "f", SubscriptionType: "pro"}}
	r := &CredentialResolver{Sources: []CredentialSource{failing, file}}

	got := r.Resolve(context.Background(), testNow)
	require.NotNil(t, got)
	assert.Equal(t, "f", got.AccessToken)
	assert.Equal(t, 1, failing.calls)
}

func TestCredentialResolver_FirstSourceWins(t *testing.T) {
	first := &staticSource{name: "keychain", creds: &Credentials{AccessToken: "k", SubscriptionType: "max"}}
	second := &staticSource{name: "file", creds: &Credentials{AccessToken: "f", SubscriptionType: "pro"}}
	r := &CredentialResolver{Sources: []CredentialSource{first, second}}

	assert.Equal(t, "k", r.Resolve(context.Background(), testNow).AccessToken)
	assert.Zero(t, second.calls)
}

func TestCredentialResolver_MissingSubscriptionFallsThrough(t *testing.T) {
	partial := &staticSource{name: "keychain", creds: &Credentials{AccessToken: "k"}}
	file := &staticSource{name: "file", creds: &Credentials{AccessToken: "f", SubscriptionType: "max"}}
	r := &CredentialResolver{Sources: []CredentialSource{partial, file}}
	assert.Equal(t, "f", r.Resolve(context.Background(), testNow).AccessToken)

	file.err, file.creds = errors.New("missing"), nil
	assert.Nil(t, r.Resolve(context.Background(), testNow), "a partial result is not returned from a non-final source")

	last := &staticSource{name: "file", creds: &Credentials{AccessToken: "f"}}
	r = &CredentialResolver{Sources: []CredentialSource{last}}
	assert.Equal(t, &Credentials{AccessToken: "f"}, r.Resolve(context.Background(), testNow))
}

func TestCredentialResolver_ExpiredFileToken(t *testing.T) {
	home := t.TempDir()
	writeCredentials(t, home, credentialsJSON("tok", "max", testNow.UnixMilli()))
	r := &CredentialResolver{Sources: DefaultSources("linux", home)}

	assert.Nil(t, r.Resolve(context.Background(), testNow))
	assert.NotNil(t, r.Resolve(context.Background(), testNow.Add(-time.Millisecond)))
}

func TestDefaultSources(t *testing.T) {
	linux := DefaultSources("linux", "/home/u")
	require.Len(t, linux, 1)
	assert.Equal(t, "file", linux[0].Name())

	darwin := DefaultSources("darwin", "/Users/u")
	require.Len(t, darwin, 2)
	assert.Equal(t, "keychain", darwin[0].Name())
	assert.Equal(t, "file", darwin[1].Name())
}
