package persist

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/symbiote/engine/internal/config"
	"go.uber.org/zap"
)

func TestDigest(t *testing.T) {
	a := Digest([]byte("{world}0"))
	if len(a) != 64 {
		t.Fatalf("digest length = %d, want 64 hex chars", len(a))
	}
	if a != Digest([]byte("{world}0")) {
		t.Fatal("digest not deterministic")
	}
	if a == Digest([]byte("{world}1")) {
		t.Fatal("different data, same digest")
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snaps")
	s, err := NewFileStore(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := s.LoadSnapshot(ctx, "world"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("load before save: got %v", err)
	}

	first := []byte("first")
	if err := s.SaveSnapshot(ctx, "world", first, 1); err != nil {
		t.Fatal(err)
	}
	second := []byte("second save")
	if err := s.SaveSnapshot(ctx, "world", second, 2); err != nil {
		t.Fatal(err)
	}
	got, err := s.LoadSnapshot(ctx, "world")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, second) {
		t.Fatalf("loaded %q, want %q", got, second)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "world.snap" {
		t.Fatalf("stray files in store: %v", entries)
	}
}

func TestFileStoreBadName(t *testing.T) {
	root := t.TempDir()
	s, err := NewFileStore(filepath.Join(root, "snaps"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	// a snapshot sitting next to the store must stay out of reach
	if err := os.WriteFile(filepath.Join(root, "outside.snap"), []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for _, name := range []string{"", ".", "..", "../outside", "a/b", "../snaps/world"} {
		if err := s.SaveSnapshot(ctx, name, []byte("x"), 0); err == nil {
			t.Errorf("save %q accepted", name)
		}
		data, err := s.LoadSnapshot(ctx, name)
		if err == nil || errors.Is(err, ErrSnapshotNotFound) {
			t.Errorf("load %q: got %q, %v; want a bad name error", name, data, err)
		}
	}
}

func testDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SYMBIOTE_TEST_DSN")
	if dsn == "" {
		t.Skip("SYMBIOTE_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := OpenSnapshotDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 4}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(db.Close)
	return db
}

func TestSnapshotRepo(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := db.Snapshots()
	name := "test-" + t.Name()
	t.Cleanup(func() {
		db.Pool.Exec(context.Background(), `DELETE FROM world_snapshots WHERE name = $1`, name)
	})

	if v, err := SchemaVersion(ctx, db.Pool); err != nil || v < 1 || v != db.SchemaVersion() {
		t.Fatalf("schema version = %d, %v; opened at %d", v, err, db.SchemaVersion())
	}
	if _, err := repo.LoadSnapshot(ctx, name); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("load before save: got %v", err)
	}

	for i, data := range [][]byte{[]byte("one"), []byte("two"), []byte("three")} {
		if err := repo.SaveSnapshot(ctx, name, data, i+1); err != nil {
			t.Fatal(err)
		}
	}
	got, err := repo.LoadSnapshot(ctx, name)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "three" {
		t.Fatalf("latest = %q", got)
	}

	rows, err := repo.List(ctx, name)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[0].Entities != 3 || rows[0].Digest != Digest([]byte("three")) {
		t.Fatalf("List = %+v", rows)
	}

	n, err := repo.Prune(ctx, name, 1)
	if err != nil || n != 2 {
		t.Fatalf("Prune = %d, %v", n, err)
	}

	if _, err := db.Pool.Exec(ctx, `UPDATE world_snapshots SET digest = 'bad' WHERE name = $1`, name); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.LoadSnapshot(ctx, name); !errors.Is(err, ErrDigestMismatch) {
		t.Fatalf("tampered row: got %v", err)
	}
}
