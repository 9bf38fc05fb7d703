package search

import (
	"context"
	"errors"
	"strings"
)

// Mode selects the search strategy.
type Mode string

const (
	ModeOneShot Mode = "one-shot"
	ModeAgentic Mode = "agentic"
)

var ErrInvalidMode = errors.New("mode must be 'one-shot' or 'agentic'")

// ParseMode validates a mode name. Empty input selects one-shot.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.TrimSpace(s)) {
	case "", ModeOneShot:
		return ModeOneShot, nil
	case ModeAgentic:
		return ModeAgentic, nil
	}
	return "", ErrInvalidMode
}

// Request is a single search as submitted by a user.
type Request struct {
	Objective         string
	Queries           []string
	Mode              Mode
	MaxResults        int
	MaxCharsPerResult int
}

type Engine interface {
	Name() string
	Type() string
	Search(ctx context.Context, req Request) (*Response, error)
	IsEnabled() bool
	Priority() int
}

// ModeAware is implemented by engines that interpret Request.Mode themselves.
// Other engines get agentic requests expanded by the manager's planner.
type ModeAware interface {
	NativeModes() bool
}

type EngineFactory func(config SearchEngineConfig) (Engine, error)

type SearchEngineConfig struct {
	Name     string                 `yaml:"name"`
	Type     string                 `yaml:"type"`
	APIKey   string                 `yaml:"api_key,omitempty"`
	BaseURL  string                 `yaml:"base_url,omitempty"`
	Enabled  bool                   `yaml:"enabled"`
	Priority int                    `yaml:"priority"`
	Options  map[string]interface{} `yaml:"options,omitempty"`
}
