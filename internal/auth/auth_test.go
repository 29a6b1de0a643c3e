package auth

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"

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
	return NewStore(store), store
}

func TestSaveLoadClear(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	ok, err := s.IsAuthenticated(ctx)
	if err != nil || ok {
		t.Fatalf("fresh store IsAuthenticated = %v, %v; want false", ok, err)
	}

	if err := s.Save(ctx, "tok-1", RoleAdmin, "user-9"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	sess, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Token != "tok-1" || sess.Role != RoleAdmin || sess.UserID != "user-9" {
		t.Errorf("Load = %+v", sess)
	}
	if ok, _ := s.IsAuthenticated(ctx); !ok {
		t.Error("expected authenticated after Save")
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	sess, _ = s.Load(ctx)
	if sess.Authenticated() || sess.Role != "" || sess.UserID != "" {
		t.Errorf("session after Clear = %+v, want zero", sess)
	}
}

func TestSaveRequiresToken(t *testing.T) {
	s, _ := setupStore(t)
	if err := s.Save(context.Background(), "", RoleStudent, "u"); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range []string{"student", "admin", "superuser"} {
		if _, err := ParseRole(r); err != nil {
			t.Errorf("ParseRole(%q): %v", r, err)
		}
	}
	if _, err := ParseRole("teacher"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestGuards(t *testing.T) {
	anon := Session{}
	student := Session{Token: "t", Role: RoleStudent}
	admin := Session{Token: "t", Role: RoleAdmin}
	super := Session{Token: "t", Role: RoleSuperuser}

	tests := []struct {
		name  string
		check func(Session) Decision
		sess  Session
		want  Decision
	}{
		{"auth anon", RequireAuth, anon, RedirectTo(PageLogin)},
		{"auth student", RequireAuth, student, Allowed()},
		{"admin anon", RequireAdmin, anon, RedirectTo(PageLogin)},
		{"admin student", RequireAdmin, student, RedirectTo(PageDashboard)},
		{"admin admin", RequireAdmin, admin, Allowed()},
		{"admin superuser", RequireAdmin, super, Allowed()},
		{"super anon", RequireSuperuser, anon, RedirectTo(PageLogin)},
		{"super student", RequireSuperuser, student, RedirectTo(PageDashboard)},
		{"super admin", RequireSuperuser, admin, RedirectTo(PageAdmin)},
		{"super super", RequireSuperuser, super, Allowed()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.sess); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	d, _, err := s.Authorize(ctx, RequireAuth)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if d.Allow || d.Redirect != PageLogin {
		t.Errorf("anonymous decision = %+v", d)
	}

	_ = s.Save(ctx, "tok", RoleStudent, "u1")
	d, sess, err := s.Authorize(ctx, RequireAuth)
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if !d.Allow || sess.UserID != "u1" {
		t.Errorf("decision = %+v, session = %+v", d, sess)
	}
}

func TestLandingPage(t *testing.T) {
	if LandingPage(RoleSuperuser) != PageSuperuser {
		t.Error("superuser landing")
	}
	if LandingPage(RoleAdmin) != PageAdmin {
		t.Error("admin landing")
	}
	if LandingPage(RoleStudent) != PageDashboard {
		t.Error("student landing")
	}
}

var fingerprintPattern = regexp.MustCompile(`^dev_1700000000000_[0-9a-z]{9}_[0-9a-f]{16}$`)

func TestDeviceFingerprintStable(t *testing.T) {
	s, store := setupStore(t)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	s.env = func() string { return "host|linux|amd64" }
	ctx := context.Background()

	first, err := s.DeviceFingerprint(ctx)
	if err != nil {
		t.Fatalf("DeviceFingerprint: %v", err)
	}
	if !fingerprintPattern.MatchString(first) {
		t.Errorf("fingerprint %q does not match expected shape", first)
	}

	second, _ := s.DeviceFingerprint(ctx)
	if second != first {
		t.Errorf("second call = %q, want %q", second, first)
	}

	// A new Store over the same storage (a reload) sees the same value.
	reloaded := NewStore(store)
	third, err := reloaded.DeviceFingerprint(ctx)
	if err != nil {
		t.Fatalf("DeviceFingerprint after reload: %v", err)
	}
	if third != first {
		t.Errorf("after reload = %q, want %q", third, first)
	}
}

func TestRandomBase36(t *testing.T) {
	tests := []struct {
		tail []byte
		want string
	}{
		{[]byte{0, 0, 0, 0, 0, 0, 0, 0}, "000000000"},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 35}, "00000000z"},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 36}, "000000010"},
	}
	for _, tt := range tests {
		var u uuid.UUID
		copy(u[8:], tt.tail)
		if got := randomBase36(u); got != tt.want {
			t.Errorf("randomBase36(% x) = %q, want %q", tt.tail, got, tt.want)
		}
	}
	for i := 0; i < 100; i++ {
		if got := randomBase36(uuid.New()); len(got) != base36Width {
			t.Fatalf("randomBase36 = %q, want %d chars", got, base36Width)
		}
	}
}

func TestFingerprintSurvivesLogout(t *testing.T) {
	s, _ := setupStore(t)
	ctx := context.Background()

	fp, _ := s.DeviceFingerprint(ctx)
	_ = s.Save(ctx, "tok", RoleStudent, "u")
	_ = s.Clear(ctx)

	fresh := NewStore(s.kv)
	got, _ := fresh.DeviceFingerprint(ctx)
	if got != fp {
		t.Errorf("fingerprint changed across logout: %q -> %q", fp, got)
	}
}
