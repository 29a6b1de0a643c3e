package prefs

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/policyvote/internal/kv"
)

// Lang is a supported UI language.
type Lang string

const (
	LangEnglish  Lang = "en"
	LangRomanian Lang = "ro"
)

// ParseLang validates a language code.
func ParseLang(s string) (Lang, error) {
	if _, ok := translations[Lang(s)]; ok {
		return Lang(s), nil
	}
	return "", fmt.Errorf("unsupported language %q: must be en or ro", s)
}

// Locales persists the language preference.
type Locales struct {
	kv       *kv.Store
	fallback Lang
}

// NewLocales creates a language store with the given default.
func NewLocales(store *kv.Store, fallback Lang) *Locales {
	if fallback == "" {
		fallback = LangEnglish
	}
	return &Locales{kv: store, fallback: fallback}
}

// Current returns the saved language, or the fallback.
func (l *Locales) Current(ctx context.Context) (Lang, error) {
	v, ok, err := l.kv.Get(ctx, kv.KeyLanguage)
	if err != nil {
		return l.fallback, err
	}
	if !ok {
		return l.fallback, nil
	}
	lang, err := ParseLang(v)
	if err != nil {
		return l.fallback, nil
	}
	return lang, nil
}

// Set saves lang.
func (l *Locales) Set(ctx context.Context, lang Lang) error {
	if _, err := ParseLang(string(lang)); err != nil {
		return err
	}
	return l.kv.Set(ctx, kv.KeyLanguage, string(lang))
}

// Translator returns a lookup bound to the current language.
func (l *Locales) Translator(ctx context.Context) (Translator, error) {
	lang, err := l.Current(ctx)
	return Translator{Lang: lang}, err
}
