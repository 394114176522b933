package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Mirror replicates the full ledger to a remote tabular store. Pull returns
// a nil map together with an error on failure so callers can distinguish
// "remote unreachable" from "remote empty".
type Mirror interface {
	Pull(ctx context.Context) (map[string]int, error)
	Push(ctx context.Context, items map[string]int) error
}

// Store persists the ledger to a local JSON file and mirrors every mutation
// to the remote store. The remote is treated as authoritative: callers are
// expected to Pull and Save before reading, and every Update/Set pushes the
// whole ledger back.
type Store struct {
	path    string
	aliases Aliases
	mirror  Mirror
}

// NewStore creates a ledger store backed by the JSON file at path.
// mirror may be nil in tests; mirror failures are logged, never returned.
func NewStore(path string, aliases Aliases, mirror Mirror) *Store {
	return &Store{path: path, aliases: aliases, mirror: mirror}
}

// Normalize resolves raw user text to the canonical item key.
func (s *Store) Normalize(raw string) string {
	return s.aliases.Normalize(raw)
}

// Load reads the persisted ledger. A missing or unparsable file yields an
// empty ledger; corruption is logged and the bot starts fresh.
func (s *Store) Load() map[string]int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("ledger: could not read inventory file", "path", s.path, "err", err)
		}
		return map[string]int{}
	}

	var items map[string]int
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("ledger: inventory file is corrupt, starting fresh", "path", s.path, "err", err)
		return map[string]int{}
	}
	if items == nil {
		return map[string]int{}
	}
	return items
}

// Save rewrites the inventory file wholesale. The write goes through a
// temporary file in the same directory followed by a rename, so a concurrent
// reader never observes a partial document.
func (s *Store) Save(items map[string]int) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding inventory: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".inventory-*.json")
	if err != nil {
		return fmt.Errorf("creating temp inventory file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing inventory: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp inventory file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing inventory file: %w", err)
	}
	return nil
}

// Update adds delta (which may be negative) to the item's quantity, creating
// the item at zero if absent, and returns the canonical name and new total.
// Totals are allowed to go negative; nothing is clamped. The mutation is
// persisted locally and pushed to the mirror.
func (s *Store) Update(ctx context.Context, rawName string, delta int) (string, int, error) {
	key := s.aliases.Normalize(rawName)
	items := s.Load()
	total := items[key] + delta
	items[key] = total
	if err := s.Save(items); err != nil {
		return "", 0, err
	}
	s.push(ctx, items)
	return key, total, nil
}

// Set assigns an absolute quantity to the item and returns the canonical
// name and the stored amount. Persisted and mirrored like Update.
func (s *Store) Set(ctx context.Context, rawName string, amount int) (string, int, error) {
	key := s.aliases.Normalize(rawName)
	items := s.Load()
	items[key] = amount
	if err := s.Save(items); err != nil {
		return "", 0, err
	}
	s.push(ctx, items)
	return key, amount, nil
}

// push mirrors the full ledger to the remote store. Remote health never
// blocks local persistence: failures are logged and the flow degrades to
// local-only.
func (s *Store) push(ctx context.Context, items map[string]int) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Push(ctx, items); err != nil {
		slog.Warn("ledger: could not sync inventory to remote store", "err", err)
	}
}
