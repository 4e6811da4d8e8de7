package hook

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	in, err := Read(strings.NewReader(`{
		"session_id": "abc",
		"model": {"id": "claude-opus-4-1", "display_name": "Opus"},
		"workspace": {"current_dir": "/work/app/sub", "project_dir": "/work/app"},
		"cwd": "/work/app/sub",
		"version": "1.0.80",
		"transcript_path": "/tmp/t.jsonl"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "abc", in.SessionID)
	assert.Equal(t, "Opus", in.ModelName())
	assert.Equal(t, "/work/app/sub", in.Dir())
	assert.Equal(t, "/work/app", in.Workspace.ProjectDir)
	assert.Equal(t, "1.0.80", in.Version)
	assert.Equal(t, "/tmp/t.jsonl", in.TranscriptPath)
}

func TestRead_Empty(t *testing.T) {
	for _, payload := range []string{"", "  \n"} {
		in, err := Read(strings.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, Input{}, in)
	}
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader(`{"model":`))
	assert.ErrorContains(t, err, "decode hook payload")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestRead_ReaderError(t *testing.T) {
	_, err := Read(failingReader{})
	assert.ErrorContains(t, err, "boom")
}

func TestFallbacks(t *testing.T) {
	in := Input{CWD: "/a", Model: Model{ID: "claude-sonnet-4"}}
	assert.Equal(t, "/a", in.Dir())
	assert.Equal(t, "claude-sonnet-4", in.ModelName())
}

func TestRead_ContextWindow(t *testing.T) {
	in, err := Read(strings.NewReader(`{
		"context_window": {
			"context_window_size": 1000000,
			"current_usage": {"input_tokens": 5, "cache_creation_input_tokens": 100, "cache_read_input_tokens": 2000}
		}
	}`))
	require.NoError(t, err)
	require.NotNil(t, in.ContextWindow)
	assert.Equal(t, 1000000, in.ContextWindow.Size)
	assert.Equal(t, 2105, in.ContextWindow.CurrentUsage.Tokens())
}
