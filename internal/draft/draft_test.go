package draft

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/policyvote/internal/db"
	"github.com/ziadkadry99/policyvote/internal/kv"
)

func setupStore(t *testing.T) (*Store, *kv.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	store := kv.NewStore(database)
	return NewStore(store, 0), store
}

func TestSaveAndLoad(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if err := s.Save(ctx, "Longer lunch", "Thirty more minutes", "cat-1"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	d, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load = %v, %v", ok, err)
	}
	if d.Title != "Longer lunch" || d.Description != "Thirty more minutes" || d.CategoryID != "cat-1" {
		t.Errorf("draft = %+v", d)
	}
	if !d.SavedAt.Equal(now) {
		t.Errorf("SavedAt = %v, want %v", d.SavedAt, now)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	_ = s.Save(ctx, "first", "", "")
	_ = s.Save(ctx, "second", "", "")

	d, ok, _ := s.Load(ctx)
	if !ok || d.Title != "second" {
		t.Errorf("draft = %+v, want title second", d)
	}
}

func TestLoadMissing(t *testing.T) {
	s, _ := setupStore(t)
	d, ok, err := s.Load(context.Background())
	if err != nil || ok || d != nil {
		t.Errorf("Load on empty store = %v, %v, %v", d, ok, err)
	}
}

func TestStaleDraftDeleted(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	saved := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return saved }
	_ = s.Save(ctx, "old idea", "desc", "")

	// Just inside the window it is still offered.
	s.now = func() time.Time { return saved.Add(24 * time.Hour) }
	if _, ok, _ := s.Load(ctx); !ok {
		t.Fatal("draft exactly 24h old should still load")
	}

	s.now = func() time.Time { return saved.Add(24*time.Hour + time.Second) }
	d, ok, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok || d != nil {
		t.Errorf("stale draft offered: %+v", d)
	}
	if has, _ := s.Has(ctx); has {
		t.Error("stale draft should be deleted by the load that found it")
	}
}

func TestCorruptDraftDeleted(t *testing.T) {
	s, store := setupStore(t)
	ctx := context.Background()
	_ = store.Set(ctx, kv.KeyDraft, "{broken")

	_, ok, err := s.Load(ctx)
	if err != nil || ok {
		t.Fatalf("Load(corrupt) = %v, %v", ok, err)
	}
	if has, _ := s.Has(ctx); has {
		t.Error("corrupt draft should be removed")
	}
}

func TestClear(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	_ = s.Save(ctx, "t", "d", "")
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if has, _ := s.Has(ctx); has {
		t.Error("draft present after Clear")
	}
}

type fakeForm struct {
	mu                 sync.Mutex
	title, description string
}

func (f *fakeForm) Fields() (string, string, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.description, ""
}

func (f *fakeForm) set(title, description string) {
	f.mu.Lock()
	f.title, f.description = title, description
	f.mu.Unlock()
}

func TestSaveNowSkipsEmptyForm(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	form := &fakeForm{title: "  ", description: "\n"}
	a := NewAutosaver(s, form, time.Hour)

	saved, err := a.SaveNow(ctx)
	if err != nil || saved {
		t.Fatalf("SaveNow(empty) = %v, %v", saved, err)
	}
	if has, _ := s.Has(ctx); has {
		t.Error("empty form should not create a draft")
	}

	form.set("", "only a description")
	saved, _ = a.SaveNow(ctx)
	if !saved {
		t.Error("description alone should be saved")
	}
}

func TestAutosaverTicksAndFinalSave(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	form := &fakeForm{title: "tick"}
	a := NewAutosaver(s, form, 10*time.Millisecond)

	a.Start(ctx)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if d, ok, _ := s.Load(ctx); ok && d.Title == "tick" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("autosave never wrote the draft")
		}
		time.Sleep(5 * time.Millisecond)
	}

	form.set("final", "words")
	if err := a.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	d, ok, _ := s.Load(ctx)
	if !ok || d.Title != "final" {
		t.Errorf("final snapshot = %+v", d)
	}
}

func TestHaltSkipsFinalSave(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()
	form := &fakeForm{title: "submitted"}
	a := NewAutosaver(s, form, time.Hour)

	a.Start(ctx)
	a.Halt()
	if has, _ := s.Has(ctx); has {
		t.Error("Halt should not write a draft")
	}
}
