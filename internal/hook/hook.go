// Package hook decodes the JSON document Claude Code writes to a status line
// command's stdin.
package hook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

type Input struct {
	SessionID      string    `json:"session_id"`
	TranscriptPath string    `json:"transcript_path"`
	Model          Model     `json:"model"`
	Workspace      Workspace `json:"workspace"`
	CWD            string    `json:"cwd"`
	Version        string    `json:"version"`

	// Sent by Claude Code 2.1 and later.
	ContextWindow *ContextWindow `json:"context_window,omitempty"`
}

type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type Workspace struct {
	CurrentDir string `json:"current_dir"`
	ProjectDir string `json:"project_dir"`
}

type ContextWindow struct {
	Size         int          `json:"context_window_size"`
	CurrentUsage CurrentUsage `json:"current_usage"`
}

type CurrentUsage struct {
	InputTokens              int `json:"input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// Tokens is the current size of the conversation context.
func (u CurrentUsage) Tokens() int {
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// Read decodes the hook payload from r. Blank input yields a zero Input.
func Read(r io.Reader) (Input, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return Input{}, fmt.Errorf("read hook payload: %w", err)
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return Input{}, nil
	}

	var in Input
	if err := json.Unmarshal(payload, &in); err != nil {
		return Input{}, fmt.Errorf("decode hook payload: %w", err)
	}
	return in, nil
}

// Dir returns the directory the session is working in.
func (in Input) Dir() string {
	if in.Workspace.CurrentDir != "" {
		return in.Workspace.CurrentDir
	}
	return in.CWD
}

// ModelName prefers the human-readable model name over its id.
func (in Input) ModelName() string {
	if in.Model.DisplayName != "" {
		return in.Model.DisplayName
	}
	return in.Model.ID
}
