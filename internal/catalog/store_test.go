package catalog_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kaiku/internal/catalog"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	store := catalog.NewStore(filepath.Join(t.TempDir(), "videos.json"), nil)
	cat := store.Load()
	if len(cat.Items) != 0 || cat.LastUpdated != nil {
		t.Fatalf("expected empty catalog, got %+v", cat)
	}
}

func TestLoadCorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cat := catalog.NewStore(path, nil).Load()
	if len(cat.Items) != 0 {
		t.Fatalf("expected empty catalog for corrupt state, got %+v", cat)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	fixed := time.Date(2023, 5, 6, 7, 8, 9, 123456, time.UTC)
	store := catalog.NewStore(path, nil).WithClock(func() time.Time { return fixed })

	cat := &catalog.Catalog{}
	cat.Merge([]catalog.Item{
		{ID: "a", Name: "First", PublishedAt: "2020-01-01T00:00:00Z", Downloaded: true},
	})
	if err := store.Save(cat); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded := store.Load()
	if len(reloaded.Items) != 1 || reloaded.Items[0] != cat.Items[0] {
		t.Fatalf("reloaded catalog differs: %+v", reloaded.Items)
	}
	if reloaded.LastUpdated == nil || !reloaded.LastUpdated.Equal(fixed.Truncate(time.Second)) {
		t.Fatalf("lastUpdated not stamped: %v", reloaded.LastUpdated)
	}
}

func TestSaveWireFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	store := catalog.NewStore(path, nil)

	cat := &catalog.Catalog{Items: []catalog.Item{
		{ID: "x", Name: "N", PublishedAt: "2020-01-01T00:00:00Z"},
	}}
	if err := store.Save(cat); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("saved file is not valid JSON: %v", err)
	}
	for _, key := range []string{"lastUpdated", "videos"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("saved file missing %q key: %s", key, data)
		}
	}
	entry := decoded["videos"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "name", "publishedAt", "downloaded"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("item missing %q field: %s", key, data)
		}
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.json")
	fixed := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store := catalog.NewStore(path, nil).WithClock(func() time.Time { return fixed })

	cat := &catalog.Catalog{Items: []catalog.Item{
		{ID: "a", PublishedAt: "2020-01-01T00:00:00Z"},
	}}
	if err := store.Save(cat); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	if err := store.Save(cat); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)
	if string(first) != string(second) {
		t.Fatalf("saving identical state twice produced different bytes:\n%s\n---\n%s", first, second)
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := catalog.NewStore(filepath.Join(dir, "videos.json"), nil)
	if err := store.Save(&catalog.Catalog{}); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", e.Name())
		}
	}
}
