package ux

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"nexus/internal/storage"
)

// StorageKey is the record preferences are persisted under.
const StorageKey = "nexusAIState"

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight     Theme = "light"
	ThemeDark      Theme = "dark"
	ThemeCyberpunk Theme = "cyberpunk"
)

// Themes lists the themes in selector order.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeCyberpunk}

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Context is the workspace mode.
type Context string

const (
	ContextWriting       Context = "writing"
	ContextCoding        Context = "coding"
	ContextBrainstorming Context = "brainstorming"
	ContextResearching   Context = "researching"
	ContextDefault       Context = "default"
)

// Contexts lists every workspace mode.
var Contexts = []Context{ContextWriting, ContextCoding, ContextBrainstorming, ContextResearching, ContextDefault}

// Valid reports whether c is a known context.
func (c Context) Valid() bool {
	for _, known := range Contexts {
		if c == known {
			return true
		}
	}
	return false
}

var (
	ErrStorageParse   = errors.New("stored preferences are not readable")
	ErrInvalidTheme   = errors.New("unknown theme")
	ErrInvalidContext = errors.New("unknown context")
)

// Preferences is the persisted preference record.
type Preferences struct {
	Theme            Theme   `json:"theme"`
	Context          Context `json:"context"`
	SidebarCollapsed bool    `json:"sidebarCollapsed"`
	APIKey           string  `json:"apiKey"`
}

// DefaultPreferences returns the preferences of a fresh workspace.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:   ThemeLight,
		Context: ContextDefault,
	}
}

// Validate checks the enumerated fields.
func (p Preferences) Validate() error {
	if !p.Theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, p.Theme)
	}
	if !p.Context.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidContext, p.Context)
	}
	return nil
}

// ParsePreferences decodes a stored record over the defaults. Data that is
// not a JSON object fails with ErrStorageParse. Otherwise each known field is
// decoded independently; a field with the wrong type or an unknown value
// keeps its default, and unknown fields are ignored.
func ParsePreferences(data []byte) (Preferences, error) {
	prefs := DefaultPreferences()

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		if err == nil {
			err = errors.New("record is null")
		}
		return prefs, fmt.Errorf("%w: %w", ErrStorageParse, err)
	}

	if raw, ok := fields["theme"]; ok {
		var theme Theme
		if json.Unmarshal(raw, &theme) == nil && theme.Valid() {
			prefs.Theme = theme
		}
	}
	if raw, ok := fields["context"]; ok {
		var ctx Context
		if json.Unmarshal(raw, &ctx) == nil && ctx.Valid() {
			prefs.Context = ctx
		}
	}
	if raw, ok := fields["sidebarCollapsed"]; ok {
		var collapsed bool
		if json.Unmarshal(raw, &collapsed) == nil {
			prefs.SidebarCollapsed = collapsed
		}
	}
	if raw, ok := fields["apiKey"]; ok {
		var key string
		if json.Unmarshal(raw, &key) == nil {
			prefs.APIKey = key
		}
	}
	return prefs, nil
}

// MarshalPreferences encodes the full record.
func MarshalPreferences(p Preferences) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preferences: %w", err)
	}
	return data, nil
}

// PreferencesStore holds the current preferences and persists them.
type PreferencesStore struct {
	mu      sync.RWMutex
	store   storage.Storage
	current Preferences
	logger  *zap.Logger
}

// NewPreferencesStore creates a store with default preferences in memory.
// Call Load to read the persisted record.
func NewPreferencesStore(store storage.Storage, logger *zap.Logger) *PreferencesStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesStore{
		store:   store,
		current: DefaultPreferences(),
		logger:  logger,
	}
}

// Load reads the persisted record, makes it current and returns it. It never
// fails: a missing, unreadable or malformed record yields the defaults.
func (ps *PreferencesStore) Load() Preferences {
	prefs := DefaultPreferences()

	data, err := ps.store.Get(StorageKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		ps.logger.Warn("Failed to read preferences, using defaults", zap.Error(err))
	default:
		parsed, perr := ParsePreferences(data)
		if perr != nil {
			ps.logger.Warn("Discarding stored preferences", zap.Error(perr))
		}
		prefs = parsed
	}

	ps.mu.Lock()
	ps.current = prefs
	ps.mu.Unlock()
	return prefs
}

// Save overwrites the persisted record with p. It does not change the
// in-memory preferences.
func (ps *PreferencesStore) Save(p Preferences) error {
	data, err := MarshalPreferences(p)
	if err != nil {
		return err
	}
	if err := ps.store.Set(StorageKey, data); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

// Get returns the current preferences.
func (ps *PreferencesStore) Get() Preferences {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.current
}

// Set replaces the in-memory preferences without persisting them.
func (ps *PreferencesStore) Set(p Preferences) {
	ps.mu.Lock()
	ps.current = p
	ps.mu.Unlock()
}

// Update applies fn to a copy of the current preferences, saves the result
// and only then makes it current. On error nothing changes.
func (ps *PreferencesStore) Update(fn func(*Preferences) error) (Preferences, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	next := ps.current
	if err := fn(&next); err != nil {
		return ps.current, err
	}
	if err := next.Validate(); err != nil {
		return ps.current, err
	}
	if err := ps.Save(next); err != nil {
		return ps.current, err
	}
	ps.current = next
	return next, nil
}
