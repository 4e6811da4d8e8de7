package appupdate

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func noEnv(string) string { return "" }

func TestNormalizeReleaseVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"v1.2.3", "v1.2.3"},
		{"1.2.3", "v1.2.3"},
		{"v1.2", "v1.2.0"},
		{"v1.2.3-rc.1", ""},
		{"dev", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeReleaseVersion(tt.input); got != tt.want {
			t.Errorf("normalizeReleaseVersion(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDetectInstallMethod(t *testing.T) {
	env := map[string]string{"GOPATH": "/srv/gopath"}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name string
		path string
		want InstallMethod
	}{
		{"npm global", "/usr/local/lib/node_modules/@owloops/claude-powerline/bin/claude-powerline", InstallMethodNPM},
		{"homebrew cellar", "/opt/homebrew/Cellar/claude-powerline/1.9.0/bin/claude-powerline", InstallMethodHomebrew},
		{"go install default", "/Users/test/go/bin/claude-powerline", InstallMethodGoInstall},
		{"gopath", "/srv/gopath/bin/claude-powerline", InstallMethodGoInstall},
		{"other binary in go bin", "/Users/test/go/bin/other", InstallMethodUnknown},
		{"unknown", "/tmp/claude-powerline", InstallMethodUnknown},
		{"empty", "", InstallMethodUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectInstallMethod(tt.path, getenv); got != tt.want {
				t.Fatalf("detectInstallMethod(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func releaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tag_name":"` + tag + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckUpdateAvailable(t *testing.T) {
	srv := releaseServer(t, "v1.10.0")

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "1.9.2",
		ExecutablePath:   "/opt/homebrew/Cellar/claude-powerline/1.9.2/bin/claude-powerline",
		LatestReleaseURL: srv.URL,
		HTTPClient:       srv.Client(),
		Timeout:          time.Second,
		Getenv:           noEnv,
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !result.UpdateAvailable || result.LatestVersion != "v1.10.0" {
		t.Fatalf("result = %+v, want update to v1.10.0", result)
	}
	if result.UpgradeHint != "brew upgrade claude-powerline" {
		t.Fatalf("UpgradeHint = %q", result.UpgradeHint)
	}
}

func TestCheckNoUpdate(t *testing.T) {
	srv := releaseServer(t, "v1.9.2")

	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "v1.9.2",
		ExecutablePath:   "/tmp/claude-powerline",
		LatestReleaseURL: srv.URL,
		HTTPClient:       srv.Client(),
		Getenv:           noEnv,
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.UpdateAvailable {
		t.Fatal("expected UpdateAvailable=false")
	}
	if !strings.HasPrefix(result.UpgradeHint, "npm install -g @owloops/claude-powerline") {
		t.Fatalf("UpgradeHint = %q, want npm command", result.UpgradeHint)
	}
}

func TestCheckSkipsDevVersion(t *testing.T) {
	result, err := Check(context.Background(), CheckOptions{
		CurrentVersion:   "dev",
		LatestReleaseURL: "http://127.0.0.1:0/unused",
		Getenv:           noEnv,
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if result.UpdateAvailable || result.CurrentVersion != "" {
		t.Fatalf("result = %+v, want no check for dev builds", result)
	}
}

func TestCheckErrors(t *testing.T) {
	limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer limited.Close()
	prerelease := releaseServer(t, "v2.0.0-beta.1")

	for _, srv := range []*httptest.Server{limited, prerelease} {
		_, err := Check(context.Background(), CheckOptions{
			CurrentVersion:   "v1.0.0",
			LatestReleaseURL: srv.URL,
			HTTPClient:       srv.Client(),
			Getenv:           noEnv,
		})
		if err == nil {
			t.Fatalf("expected error from %s", srv.URL)
		}
	}
}

type captureTransport struct {
	lastReq *http.Request
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.lastReq = req
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(`{"tag_name":"v1.3.0"}`)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestCheckGitHubToken(t *testing.T) {
	getenv := func(k string) string {
		if k == tokenEnvVar {
			return "test-token-123"
		}
		return ""
	}

	tests := []struct {
		url      string
		wantAuth string
	}{
		{defaultLatestReleaseURL, "Bearer test-token-123"},
		{"https://example.com/releases/latest", ""},
		{"http://api.github.com/repos/x/y/releases/latest", ""},
	}
	for _, tt := range tests {
		transport := &captureTransport{}
		_, err := Check(context.Background(), CheckOptions{
			CurrentVersion:   "v1.2.0",
			ExecutablePath:   "/tmp/claude-powerline",
			LatestReleaseURL: tt.url,
			HTTPClient:       &http.Client{Transport: transport},
			Getenv:           getenv,
		})
		if err != nil {
			t.Fatalf("Check(%s) error = %v", tt.url, err)
		}
		req := transport.lastReq
		if got := req.Header.Get("Authorization"); got != tt.wantAuth {
			t.Errorf("%s: Authorization = %q, want %q", tt.url, got, tt.wantAuth)
		}
		if got := req.Header.Get("User-Agent"); got != "claude-powerline/v1.2.0" {
			t.Errorf("User-Agent = %q", got)
		}
		if got := req.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
	}
}
