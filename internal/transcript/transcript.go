// Package transcript reads token usage from Claude Code session transcripts.
package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const maxLineSize = 16 << 20

// ErrNoUsage means the transcript holds no assistant message with usage data.
var ErrNoUsage = errors.New("no usage entries in transcript")

type entry struct {
	Type        string `json:"type"`
	IsSidechain bool   `json:"isSidechain"`
	Message     struct {
		Usage *Usage `json:"usage"`
	} `json:"message"`
}

// Usage is the token accounting attached to one assistant message.
type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
}

// ContextTokens is the size of the prompt the message was generated from.
func (u Usage) ContextTokens() int {
	return u.InputTokens + u.CacheCreationInputTokens + u.CacheReadInputTokens
}

// LastUsage returns the usage of the most recent main-thread assistant
// message in the JSONL transcript at path. Lines that fail to parse are
// skipped.
func LastUsage(path string) (Usage, error) {
	f, err := os.Open(path)
	if err != nil {
		return Usage{}, fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()

	var last *Usage
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() {
		var e entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		if e.Type != "assistant" || e.IsSidechain || e.Message.Usage == nil {
			continue
		}
		last = e.Message.Usage
	}
	if err := sc.Err(); err != nil {
		return Usage{}, fmt.Errorf("read transcript: %w", err)
	}
	if last == nil {
		return Usage{}, ErrNoUsage
	}
	return *last, nil
}
