package matrix

import (
	"context"
	"path/filepath"
	"testing"

	"maunium.net/go/mautrix/id"

	"github.com/peginatta/inventory-bot/internal/invbot/store"
)

func newSyncStore(t *testing.T) *DBSyncStore {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "invbot.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return newDBSyncStore(s.DB())
}

func TestSyncStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSyncStore(t)
	user := id.UserID("@invbot:example.com")

	// Missing rows read back as empty strings, not errors.
	if got, err := s.LoadNextBatch(ctx, user); err != nil || got != "" {
		t.Fatalf("LoadNextBatch on empty store = (%q, %v)", got, err)
	}

	if err := s.SaveNextBatch(ctx, user, "s_123"); err != nil {
		t.Fatalf("SaveNextBatch: %v", err)
	}
	if err := s.SaveFilterID(ctx, user, "f_1"); err != nil {
		t.Fatalf("SaveFilterID: %v", err)
	}

	if got, _ := s.LoadNextBatch(ctx, user); got != "s_123" {
		t.Errorf("LoadNextBatch = %q, want s_123", got)
	}
	if got, _ := s.LoadFilterID(ctx, user); got != "f_1" {
		t.Errorf("LoadFilterID = %q, want f_1", got)
	}

	// Upsert overwrites.
	if err := s.SaveNextBatch(ctx, user, "s_456"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.LoadNextBatch(ctx, user); got != "s_456" {
		t.Errorf("LoadNextBatch after upsert = %q, want s_456", got)
	}

	// Keys are scoped per user.
	if got, _ := s.LoadNextBatch(ctx, id.UserID("@other:example.com")); got != "" {
		t.Errorf("LoadNextBatch for other user = %q, want empty", got)
	}
}
