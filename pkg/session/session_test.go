package session

import (
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	sess := New("0x027a", "zen77.json", DefaultTTL)
	if sess.ID == "" {
		t.Error("New did not assign an ID")
	}
	if sess.ManufacturerID != "0x027a" || sess.DeviceFile != "zen77.json" {
		t.Errorf("selection = %q %q", sess.ManufacturerID, sess.DeviceFile)
	}
	if sess.IsExpired() {
		t.Error("fresh session reports expired")
	}
	if !sess.ExpiresAt.After(sess.CreatedAt) {
		t.Error("ExpiresAt not after CreatedAt")
	}

	other := New("0x027a", "zen77.json", DefaultTTL)
	if other.ID == sess.ID {
		t.Error("two sessions share an ID")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}

	sess := New("0x0063", "old.json", DefaultTTL)
	if err := store.Set(sess); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for stored session")
	}
	if got.ManufacturerID != "0x0063" || got.DeviceFile != "old.json" {
		t.Errorf("round trip = %+v", got)
	}

	if err := store.Delete(sess.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if got, _ := store.Get(sess.ID); got != nil {
		t.Error("session survived Delete")
	}
}

func TestFileStoreMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	got, err := store.Get("absent")
	if err != nil {
		t.Errorf("Get(absent) error: %v", err)
	}
	if got != nil {
		t.Errorf("Get(absent) = %+v", got)
	}
	if err := store.Delete("absent"); err != nil {
		t.Errorf("Delete(absent) error: %v", err)
	}
}

func TestFileStoreExpiration(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	sess := New("0x027a", "zen32.json", -time.Second)
	if err := store.Set(sess); err != nil {
		t.Fatal(err)
	}
	if got, _ := store.Get(sess.ID); got != nil {
		t.Error("expired session returned")
	}

	// Cleanup sweeps expired files.
	if err := store.Set(sess); err != nil {
		t.Fatal(err)
	}
	live := New("0x027a", "zen77.json", DefaultTTL)
	if err := store.Set(live); err != nil {
		t.Fatal(err)
	}
	if err := store.Cleanup(); err != nil {
		t.Fatalf("Cleanup error: %v", err)
	}
	if got, _ := store.Get(live.ID); got == nil {
		t.Error("Cleanup removed a live session")
	}
}

func TestLastSelection(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if got, err := store.Last(); err != nil || got != nil {
		t.Fatalf("Last on empty store = %+v, %v", got, err)
	}

	if err := store.SaveLast(New("0x027a", "zen77.json", DefaultTTL)); err != nil {
		t.Fatalf("SaveLast error: %v", err)
	}
	if err := store.SaveLast(New("0x0063", "old.json", DefaultTTL)); err != nil {
		t.Fatalf("SaveLast error: %v", err)
	}

	got, err := store.Last()
	if err != nil {
		t.Fatalf("Last error: %v", err)
	}
	if got == nil || got.ManufacturerID != "0x0063" {
		t.Errorf("Last = %+v, want the newer selection", got)
	}
}

func TestSaveLastKeepsSessionID(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	sess := New("0x027a", "zen77.json", DefaultTTL)
	if err := store.SaveLast(sess); err != nil {
		t.Fatalf("SaveLast error: %v", err)
	}

	got, err := store.Last()
	if err != nil {
		t.Fatalf("Last error: %v", err)
	}
	if got == nil {
		t.Fatal("Last returned nil")
	}
	if got.ID != sess.ID {
		t.Errorf("stored ID = %q, want the session's own %q", got.ID, sess.ID)
	}
	if got.ID == lastSessionID {
		t.Error("slot name leaked into the session ID")
	}
}
