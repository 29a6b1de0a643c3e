// Package prefs stores UI preferences (color theme and language) for
// this device.
package prefs

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/policyvote/internal/kv"
)

// Theme is a color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch t := Theme(s); t {
	case ThemeLight, ThemeDark:
		return t, nil
	default:
		return "", fmt.Errorf("unknown theme %q: must be light or dark", s)
	}
}

// Themes persists the theme preference.
type Themes struct {
	kv       *kv.Store
	fallback Theme
}

// NewThemes creates a theme store. fallback is used until the user
// picks a theme; an empty fallback means light.
func NewThemes(store *kv.Store, fallback Theme) *Themes {
	if fallback == "" {
		fallback = ThemeLight
	}
	return &Themes{kv: store, fallback: fallback}
}

// Current returns the saved theme, or the fallback.
func (t *Themes) Current(ctx context.Context) (Theme, error) {
	v, ok, err := t.kv.Get(ctx, kv.KeyTheme)
	if err != nil {
		return t.fallback, err
	}
	if !ok {
		return t.fallback, nil
	}
	theme, err := ParseTheme(v)
	if err != nil {
		return t.fallback, nil
	}
	return theme, nil
}

// Set saves theme.
func (t *Themes) Set(ctx context.Context, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	return t.kv.Set(ctx, kv.KeyTheme, string(theme))
}

// Toggle switches between dark and light and returns the new theme.
func (t *Themes) Toggle(ctx context.Context) (Theme, error) {
	cur, err := t.Current(ctx)
	if err != nil {
		return cur, err
	}
	next := ThemeDark
	if cur == ThemeDark {
		next = ThemeLight
	}
	return next, t.Set(ctx, next)
}
