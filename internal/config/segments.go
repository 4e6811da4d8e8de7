package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"
)

// Segment names as they appear under a line's "segments" object.
const (
	SegmentDirectory  = "directory"
	SegmentGit        = "git"
	SegmentModel      = "model"
	SegmentSession    = "session"
	SegmentBlock      = "block"
	SegmentToday      = "today"
	SegmentTmux       = "tmux"
	SegmentContext    = "context"
	SegmentMetrics    = "metrics"
	SegmentVersion    = "version"
	SegmentUsageLimit = "usageLimit"
)

var defaultSegmentOrder = []string{
	SegmentDirectory, SegmentGit, SegmentModel, SegmentSession, SegmentToday,
	SegmentBlock, SegmentVersion, SegmentTmux, SegmentContext, SegmentMetrics,
	SegmentUsageLimit,
}

type LineConfig struct {
	Segments SegmentsConfig `json:"segments"`
}

// SegmentsConfig holds the per-segment options of one line. A nil entry means
// the segment is not part of the line. Order records the key order of the
// source document, which is the order segments are drawn in.
type SegmentsConfig struct {
	Directory  *DirectorySegmentConfig  `json:"directory,omitempty"`
	Git        *GitSegmentConfig        `json:"git,omitempty"`
	Model      *SegmentConfig           `json:"model,omitempty"`
	Session    *UsageSegmentConfig      `json:"session,omitempty"`
	Block      *BlockSegmentConfig      `json:"block,omitempty"`
	Today      *TodaySegmentConfig      `json:"today,omitempty"`
	Tmux       *SegmentConfig           `json:"tmux,omitempty"`
	Context    *ContextSegmentConfig    `json:"context,omitempty"`
	Metrics    *MetricsSegmentConfig    `json:"metrics,omitempty"`
	Version    *SegmentConfig           `json:"version,omitempty"`
	UsageLimit *UsageLimitSegmentConfig `json:"usageLimit,omitempty"`

	Order []string `json:"-"`
}

type SegmentConfig struct {
	Enabled bool `json:"enabled"`
}

type DirectorySegmentConfig struct {
	Enabled bool   `json:"enabled"`
	Style   string `json:"style,omitempty"` // full, fish, basename
}

type GitSegmentConfig struct {
	Enabled             bool `json:"enabled"`
	ShowSha             bool `json:"showSha"`
	ShowWorkingTree     bool `json:"showWorkingTree"`
	ShowOperation       bool `json:"showOperation"`
	ShowTag             bool `json:"showTag"`
	ShowTimeSinceCommit bool `json:"showTimeSinceCommit"`
	ShowStashCount      bool `json:"showStashCount"`
	ShowUpstream        bool `json:"showUpstream"`
	ShowRepoName        bool `json:"showRepoName"`
}

type UsageSegmentConfig struct {
	Enabled    bool   `json:"enabled"`
	Type       string `json:"type,omitempty"`       // cost, tokens, both, breakdown
	CostSource string `json:"costSource,omitempty"` // calculated, official
}

type TodaySegmentConfig struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty"`
}

type BlockSegmentConfig struct {
	Enabled  bool   `json:"enabled"`
	Type     string `json:"type,omitempty"`
	BurnType string `json:"burnType,omitempty"`
}

type ContextSegmentConfig struct {
	Enabled            bool   `json:"enabled"`
	ShowPercentageOnly bool   `json:"showPercentageOnly"`
	DisplayStyle       string `json:"displayStyle,omitempty"`
}

type MetricsSegmentConfig struct {
	Enabled              bool `json:"enabled"`
	ShowResponseTime     bool `json:"showResponseTime"`
	ShowLastResponseTime bool `json:"showLastResponseTime"`
	ShowDuration         bool `json:"showDuration"`
	ShowMessageCount     bool `json:"showMessageCount"`
	ShowLinesAdded       bool `json:"showLinesAdded"`
	ShowLinesRemoved     bool `json:"showLinesRemoved"`
}

type UsageLimitSegmentConfig struct {
	Enabled       bool `json:"enabled"`
	ShowSevenDay  bool `json:"showSevenDay"`
	ShowResetTime bool `json:"showResetTime"`
}

type segmentsAlias SegmentsConfig

func (s *SegmentsConfig) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = SegmentsConfig{}
		return nil
	}
	var alias segmentsAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	order, err := objectKeys(data)
	if err != nil {
		return err
	}
	*s = SegmentsConfig(alias)
	s.Order = order
	return nil
}

// Names returns the configured segment names in draw order.
func (s SegmentsConfig) Names() []string {
	order := s.Order
	if len(order) == 0 {
		order = defaultSegmentOrder
	}
	names := make([]string, 0, len(order))
	for _, name := range order {
		if s.has(name) {
			names = append(names, name)
		}
	}
	return names
}

func (s SegmentsConfig) has(name string) bool {
	switch name {
	case SegmentDirectory:
		return s.Directory != nil
	case SegmentGit:
		return s.Git != nil
	case SegmentModel:
		return s.Model != nil
	case SegmentSession:
		return s.Session != nil
	case SegmentBlock:
		return s.Block != nil
	case SegmentToday:
		return s.Today != nil
	case SegmentTmux:
		return s.Tmux != nil
	case SegmentContext:
		return s.Context != nil
	case SegmentMetrics:
		return s.Metrics != nil
	case SegmentVersion:
		return s.Version != nil
	case SegmentUsageLimit:
		return s.UsageLimit != nil
	}
	return false
}

// objectKeys returns the top-level keys of a JSON object in document order.
func objectKeys(data []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
		if !lo.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func defaultLine() LineConfig {
	return LineConfig{
		Segments: SegmentsConfig{
			Directory: &DirectorySegmentConfig{Enabled: true, Style: "basename"},
			Git:       &GitSegmentConfig{Enabled: true},
			Model:     &SegmentConfig{Enabled: true},
			Session:   &UsageSegmentConfig{Enabled: true, Type: "tokens", CostSource: "calculated"},
			Today:     &TodaySegmentConfig{Enabled: true, Type: "cost"},
			Block:     &BlockSegmentConfig{Enabled: false, Type: "cost", BurnType: "cost"},
			Version:   &SegmentConfig{Enabled: false},
			Tmux:      &SegmentConfig{Enabled: false},
			Context:   &ContextSegmentConfig{Enabled: true, DisplayStyle: "text"},
			Metrics: &MetricsSegmentConfig{
				ShowResponseTime:     true,
				ShowLastResponseTime: true,
				ShowDuration:         true,
				ShowMessageCount:     true,
				ShowLinesAdded:       true,
				ShowLinesRemoved:     true,
			},
			UsageLimit: &UsageLimitSegmentConfig{Enabled: true, ShowSevenDay: true, ShowResetTime: true},
			Order:      append([]string(nil), defaultSegmentOrder...),
		},
	}
}
