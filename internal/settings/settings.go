// Package settings holds the per-network options widgets read while
// rendering (language, application ids, event handler names).
//
// Overrides are merged into what is already there: setting
// facebook.appId leaves facebook.lang untouched.
package settings

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/v2"
)

const delim = "."

// Defaults are the built-in per-network settings.
func Defaults() map[string]any {
	return map[string]any{
		"facebook": map[string]any{
			"lang":  "en_GB",
			"appId": "",
		},
		"twitter": map[string]any{
			"lang": "en",
		},
		"googleplus": map[string]any{
			"lang": "en-GB",
		},
	}
}

// Settings is safe for concurrent reads and Setup calls.
type Settings struct {
	mu sync.RWMutex
	k  *koanf.Koanf
}

// New returns empty settings.
func New() *Settings {
	return &Settings{k: koanf.New(delim)}
}

// NewDefault returns settings preloaded with Defaults.
func NewDefault() *Settings {
	s := New()
	if err := s.Setup(Defaults()); err != nil {
		// Defaults are static maps; a failure here is a programming error.
		panic(fmt.Sprintf("settings: loading defaults: %v", err))
	}
	return s
}

// Setup merges params into the current settings. Keys may be nested
// maps or dotted paths ("twitter.lang").
func (s *Settings) Setup(params map[string]any) error {
	if len(params) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.k.Load(mapProvider(params), nil); err != nil {
		return fmt.Errorf("merging settings: %w", err)
	}
	return nil
}

// Get returns a raw setting value, or nil.
func (s *Settings) Get(network, key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k.Get(network + delim + key)
}

// String returns a setting as a string; missing keys yield "".
func (s *Settings) String(network, key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k.String(network + delim + key)
}

// Network returns a copy of one network's settings.
func (s *Settings) Network(name string) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.k.Exists(name) {
		return map[string]any{}
	}
	return s.k.Cut(name).Raw()
}

// mapProvider feeds an in-memory map to koanf.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("settings: map provider does not support ReadBytes")
}

// Read splits dotted paths from nested maps and unflattens them on their
// own, so a dotted key and a nested map for the same network both survive.
// Dotted paths win on conflict.
func (m mapProvider) Read() (map[string]any, error) {
	nested := make(map[string]any, len(m))
	dotted := make(map[string]any)
	for k, v := range normalize(m) {
		if strings.Contains(k, delim) {
			dotted[k] = v
			continue
		}
		nested[k] = v
	}
	maps.Merge(maps.Unflatten(dotted, delim), nested)
	return nested, nil
}

// normalize copies m, turning nested map[string]string values into
// map[string]any so koanf merges them instead of replacing them.
func normalize(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case map[string]any:
			out[k] = normalize(tv)
		case map[string]string:
			nested := make(map[string]any, len(tv))
			for nk, nv := range tv {
				nested[nk] = nv
			}
			out[k] = nested
		default:
			out[k] = v
		}
	}
	return out
}
