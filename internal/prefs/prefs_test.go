package prefs

import (
	"context"
	"testing"

	"github.com/ziadkadry99/policyvote/internal/db"
	"github.com/ziadkadry99/policyvote/internal/kv"
)

func setupKV(t *testing.T) *kv.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return kv.NewStore(database)
}

func TestThemeFallbackAndToggle(t *testing.T) {
	ctx := context.Background()
	themes := NewThemes(setupKV(t), ThemeDark)

	cur, err := themes.Current(ctx)
	if err != nil || cur != ThemeDark {
		t.Fatalf("Current = %q, %v; want fallback dark", cur, err)
	}

	next, err := themes.Toggle(ctx)
	if err != nil || next != ThemeLight {
		t.Fatalf("Toggle = %q, %v; want light", next, err)
	}
	if cur, _ := themes.Current(ctx); cur != ThemeLight {
		t.Errorf("Current after toggle = %q", cur)
	}
	if next, _ := themes.Toggle(ctx); next != ThemeDark {
		t.Errorf("second Toggle = %q", next)
	}
}

func TestThemeRejectsUnknown(t *testing.T) {
	themes := NewThemes(setupKV(t), "")
	if err := themes.Set(context.Background(), "sepia"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestThemeIgnoresCorruptValue(t *testing.T) {
	ctx := context.Background()
	store := setupKV(t)
	_ = store.Set(ctx, kv.KeyTheme, "neon")
	themes := NewThemes(store, "")
	if cur, _ := themes.Current(ctx); cur != ThemeLight {
		t.Errorf("Current = %q, want light fallback", cur)
	}
}

func TestLocales(t *testing.T) {
	ctx := context.Background()
	locales := NewLocales(setupKV(t), "")

	if lang, _ := locales.Current(ctx); lang != LangEnglish {
		t.Errorf("default lang = %q", lang)
	}
	if err := locales.Set(ctx, LangRomanian); err != nil {
		t.Fatalf("Set: %v", err)
	}
	tr, err := locales.Translator(ctx)
	if err != nil {
		t.Fatalf("Translator: %v", err)
	}
	if tr.T("vote") != "Votează" {
		t.Errorf("T(vote) = %q", tr.T("vote"))
	}
	if err := locales.Set(ctx, "fr"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestTranslatorFallbacks(t *testing.T) {
	tr := Translator{Lang: "de"}
	if tr.T("support") != "Support" {
		t.Errorf("unknown lang should fall back to English, got %q", tr.T("support"))
	}
	if tr.T("no_such_key") != "no_such_key" {
		t.Errorf("unknown key should return itself, got %q", tr.T("no_such_key"))
	}
}
