package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "repmeup", "session.json"))
}

func testUser() *model.User {
	return &model.User{
		Id:        "u-1",
		Email:     "agent@example.com",
		FirstName: "Ada",
		LastName:  "Agent",
		Role:      model.UserRoleAgent,
	}
}

func TestSaveSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveSession("tok", "refresh", testUser()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	if got := store.Token(); got != "tok" {
		t.Errorf("Token = %q, want tok", got)
	}
	if got := store.RefreshToken(); got != "refresh" {
		t.Errorf("RefreshToken = %q, want refresh", got)
	}
	user := store.User()
	if user == nil {
		t.Fatal("User = nil")
	}
	if user.Email != "agent@example.com" {
		t.Errorf("User.Email = %q", user.Email)
	}
}

func TestEmptyStore(t *testing.T) {
	store := newTestStore(t)

	if got := store.Token(); got != "" {
		t.Errorf("Token on empty store = %q, want empty", got)
	}
	if store.User() != nil {
		t.Error("User on empty store != nil")
	}
}

func TestSaveUserRequiresSession(t *testing.T) {
	store := newTestStore(t)

	err := store.SaveUser(testUser())
	if !errors.Is(err, ErrNoSession) {
		t.Fatalf("SaveUser without session = %v, want ErrNoSession", err)
	}

	if err := store.SaveSession("tok", "refresh", testUser()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	updated := testUser()
	updated.FirstName = "Grace"
	if err := store.SaveUser(updated); err != nil {
		t.Fatalf("SaveUser: %v", err)
	}

	if got := store.User().FirstName; got != "Grace" {
		t.Errorf("FirstName = %q, want Grace", got)
	}
	if got := store.Token(); got != "tok" {
		t.Errorf("Token changed by SaveUser: %q", got)
	}
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveSession("tok", "refresh", testUser()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	if got := store.Token(); got != "" {
		t.Errorf("Token after ClearAll = %q", got)
	}
	if store.User() != nil {
		t.Error("User after ClearAll != nil")
	}

	// Idempotent.
	if err := store.ClearAll(); err != nil {
		t.Errorf("second ClearAll: %v", err)
	}
}

func TestWriteIsAtomic(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveSession("tok", "refresh", testUser()); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	// No temp file may survive a completed write.
	if _, err := os.Stat(store.path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatalf("stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}
}
