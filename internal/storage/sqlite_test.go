package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-wal")
		_ = os.Remove(path + "-shm")
		_ = os.Remove(path + "-journal")
	})
	return store
}

func TestSQLiteSetGetDelete(t *testing.T) {
	store := newTestSQLite(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "questionBank"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound before first write, got %v", err)
	}

	if err := store.Set(ctx, "questionBank", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "questionBank")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[]` {
		t.Fatalf("Get = %q, want %q", got, `[]`)
	}

	if err := store.Set(ctx, "questionBank", []byte(`[{"id":"q1"}]`)); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	got, err = store.Get(ctx, "questionBank")
	if err != nil {
		t.Fatalf("Get after overwrite failed: %v", err)
	}
	if string(got) != `[{"id":"q1"}]` {
		t.Fatalf("overwrite not applied, got %q", got)
	}

	if err := store.Delete(ctx, "questionBank"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "questionBank"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := store.Set(ctx, "currentStudentId", []byte(`"abc"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "currentStudentId")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if string(got) != `"abc"` {
		t.Fatalf("Get after reopen = %q, want %q", got, `"abc"`)
	}
}

func TestDisabledReadsMissAndWritesNoOp(t *testing.T) {
	store := NewDisabled()
	ctx := context.Background()

	if err := store.Set(ctx, "allStudents", []byte(`[]`)); err != nil {
		t.Fatalf("Set on disabled store errored: %v", err)
	}
	if _, err := store.Get(ctx, "allStudents"); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound from disabled store, got %v", err)
	}
	if err := store.Delete(ctx, "allStudents"); err != nil {
		t.Fatalf("Delete on disabled store errored: %v", err)
	}
}
