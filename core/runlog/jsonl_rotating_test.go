package runlog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotatingJSONLStore_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/runs.jsonl"
	store, err := NewRotatingJSONLStore(path, 1, 2, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	// ~5 KiB lines cross the 1 MB limit within 300 appends.
	rec := sampleRecord(strings.Repeat("x", 5000), time.Now(), 60)
	for i := 0; i < 300; i++ {
		if err := store.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	files, _ := filepath.Glob(filepath.Join(dir, "runs*.jsonl"))
	if len(files) < 2 {
		t.Fatalf("expected rotated files, got %v", files)
	}
	out, err := store.Query(context.Background(), RunQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected records across backups")
	}
}

func TestRotatingJSONLStore_Query(t *testing.T) {
	store, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 2, 1)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()
	exerciseStore(t, store)
}
