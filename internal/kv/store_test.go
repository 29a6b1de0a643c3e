package kv

import (
	"context"
	"testing"

	"github.com/ziadkadry99/policyvote/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestGetMissing(t *testing.T) {
	s := setupStore(t)
	v, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok || v != "" {
		t.Errorf("Get(missing) = %q, %v; want empty, false", v, ok)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, KeyTheme, "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, KeyTheme, "light"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	v, ok, err := s.Get(ctx, KeyTheme)
	if err != nil || !ok {
		t.Fatalf("Get: %v, %v", ok, err)
	}
	if v != "light" {
		t.Errorf("value = %q, want light", v)
	}
}

func TestSetManyAndDelete(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.SetMany(ctx, map[string]string{
		KeyAuthToken: "tok",
		KeyUserRole:  "student",
		KeyUserID:    "u1",
	})
	if err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	for _, k := range []string{KeyAuthToken, KeyUserRole, KeyUserID} {
		if _, ok, _ := s.Get(ctx, k); !ok {
			t.Errorf("%s missing after SetMany", k)
		}
	}

	if err := s.Delete(ctx, KeyAuthToken, KeyUserRole, "unknown"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, KeyAuthToken); ok {
		t.Error("auth token still present after Delete")
	}
	if _, ok, _ := s.Get(ctx, KeyUserID); !ok {
		t.Error("user id should survive a Delete of other keys")
	}
}
