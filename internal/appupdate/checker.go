// Package appupdate compares the running build against the latest GitHub
// release and suggests an upgrade command for the detected install method.
package appupdate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultLatestReleaseURL = "https://api.github.com/repos/janekbaraniewski/claude-powerline/releases/latest"
	defaultRequestTimeout   = 1500 * time.Millisecond

	binaryName  = "claude-powerline"
	npmPackage  = "@owloops/claude-powerline"
	tokenEnvVar = "CLAUDE_POWERLINE_GITHUB_TOKEN"
)

type InstallMethod string

const (
	InstallMethodUnknown   InstallMethod = "unknown"
	InstallMethodNPM       InstallMethod = "npm"
	InstallMethodHomebrew  InstallMethod = "homebrew"
	InstallMethodGoInstall InstallMethod = "go_install"
)

type CheckOptions struct {
	CurrentVersion   string
	ExecutablePath   string
	LatestReleaseURL string
	Timeout          time.Duration
	HTTPClient       *http.Client
	Getenv           func(string) string
}

type Result struct {
	UpdateAvailable bool
	CurrentVersion  string
	LatestVersion   string
	InstallMethod   InstallMethod
	UpgradeHint     string
}

// Check fetches the latest release. Builds that are not stable semver
// releases (such as "dev") are never reported as outdated.
func Check(ctx context.Context, opts CheckOptions) (Result, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	method := detectInstallMethod(resolveExecutablePath(opts.ExecutablePath), getenv)
	result := Result{
		CurrentVersion: normalizeReleaseVersion(opts.CurrentVersion),
		InstallMethod:  method,
		UpgradeHint:    upgradeHint(method),
	}
	if result.CurrentVersion == "" {
		return result, nil
	}

	latest, err := fetchLatestReleaseVersion(ctx, opts, result.CurrentVersion, getenv)
	if err != nil {
		return result, err
	}
	result.LatestVersion = latest
	result.UpdateAvailable = semver.Compare(latest, result.CurrentVersion) > 0
	return result, nil
}

func fetchLatestReleaseVersion(ctx context.Context, opts CheckOptions, current string, getenv func(string) string) (string, error) {
	latestURL := strings.TrimSpace(opts.LatestReleaseURL)
	if latestURL == "" {
		latestURL = defaultLatestReleaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, latestURL, nil)
	if err != nil {
		return "", fmt.Errorf("build latest release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", binaryName+"/"+current)
	if token := strings.TrimSpace(getenv(tokenEnvVar)); token != "" && isGitHubAPI(latestURL) {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode latest release payload: %w", err)
	}

	latest := normalizeReleaseVersion(payload.TagName)
	if latest == "" {
		return "", fmt.Errorf("latest release tag is not a stable semver: %q", payload.TagName)
	}
	return latest, nil
}

func resolveExecutablePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return normalizePath(p)
	}
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil && resolved != "" {
		exe = resolved
	}
	return normalizePath(exe)
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

func detectInstallMethod(path string, getenv func(string) string) InstallMethod {
	path = normalizePath(path)
	switch {
	case path == "":
		return InstallMethodUnknown
	case strings.Contains(path, "/node_modules/"+npmPackage+"/"):
		return InstallMethodNPM
	case strings.Contains(path, "/cellar/"+binaryName+"/"):
		return InstallMethodHomebrew
	case isGoBinPath(path, getenv):
		return InstallMethodGoInstall
	default:
		return InstallMethodUnknown
	}
}

func isGoBinPath(path string, getenv func(string) string) bool {
	name := strings.TrimSuffix(filepath.Base(path), ".exe")
	if name != binaryName {
		return false
	}
	dir := filepath.ToSlash(filepath.Dir(path))
	if strings.HasSuffix(dir, "/go/bin") {
		return true
	}
	if gobin := normalizePath(getenv("GOBIN")); gobin != "" && dir == gobin {
		return true
	}
	for _, gp := range filepath.SplitList(getenv("GOPATH")) {
		if gopath := normalizePath(gp); gopath != "" && dir == gopath+"/bin" {
			return true
		}
	}
	return false
}

func upgradeHint(method InstallMethod) string {
	switch method {
	case InstallMethodHomebrew:
		return "brew upgrade " + binaryName
	case InstallMethodGoInstall:
		return "go install github.com/janekbaraniewski/claude-powerline/cmd/claude-powerline@latest"
	default:
		return "npm install -g " + npmPackage + "@latest"
	}
}

func normalizeReleaseVersion(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) || semver.Prerelease(v) != "" || semver.Build(v) != "" {
		return ""
	}
	return semver.Canonical(v)
}

func isGitHubAPI(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https") && strings.EqualFold(u.Hostname(), "api.github.com")
}
