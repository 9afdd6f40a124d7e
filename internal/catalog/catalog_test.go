package catalog_test

import (
	"reflect"
	"testing"

	"kaiku/internal/catalog"
)

func item(id, published string) catalog.Item {
	return catalog.Item{ID: id, Name: "n-" + id, PublishedAt: published}
}

func TestMergeDeduplicatesAndSorts(t *testing.T) {
	cat := &catalog.Catalog{}
	added := cat.Merge([]catalog.Item{
		item("b", "2020-02-01T00:00:00Z"),
		item("a", "2020-01-01T00:00:00Z"),
	})
	if added != 2 {
		t.Fatalf("expected 2 added, got %d", added)
	}
	if cat.Items[0].ID != "a" || cat.Items[1].ID != "b" {
		t.Fatalf("items not sorted oldest first: %+v", cat.Items)
	}

	added = cat.Merge([]catalog.Item{
		item("a", "2020-01-01T00:00:00Z"),
		item("c", "2019-12-01T00:00:00Z"),
	})
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}
	if cat.Items[0].ID != "c" {
		t.Fatalf("new oldest item not sorted to front: %+v", cat.Items)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	cat := &catalog.Catalog{}
	items := []catalog.Item{
		item("a", "2020-01-01T00:00:00Z"),
		item("b", "2020-02-01T00:00:00Z"),
	}
	cat.Merge(items)
	cat.Items[0].Downloaded = true
	before := append([]catalog.Item(nil), cat.Items...)

	// Re-merging a subset with different non-key fields must change nothing.
	if added := cat.Merge([]catalog.Item{
		{ID: "a", Name: "renamed", PublishedAt: "2021-01-01T00:00:00Z"},
	}); added != 0 {
		t.Fatalf("expected 0 added, got %d", added)
	}
	if !reflect.DeepEqual(before, cat.Items) {
		t.Fatalf("merge regressed fields: %+v", cat.Items)
	}
	if !cat.Items[0].Downloaded {
		t.Fatal("downloaded flag lost on merge")
	}
}

func TestMergeSkipsEmptyIDs(t *testing.T) {
	cat := &catalog.Catalog{}
	if added := cat.Merge([]catalog.Item{{ID: "", Name: "ghost"}}); added != 0 {
		t.Fatalf("expected empty-id item to be skipped, added=%d", added)
	}
}

func TestPendingReturnsOldestFirst(t *testing.T) {
	cat := &catalog.Catalog{}
	cat.Merge([]catalog.Item{
		item("new", "2021-01-01T00:00:00Z"),
		item("old", "2019-01-01T00:00:00Z"),
		item("done", "2020-01-01T00:00:00Z"),
	})
	cat.Find("done").Downloaded = true

	pending := cat.Pending()
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].ID != "old" || pending[1].ID != "new" {
		t.Fatalf("pending not oldest first: %s, %s", pending[0].ID, pending[1].ID)
	}

	// Mutations through Pending pointers must reach the catalog.
	pending[0].Downloaded = true
	if !cat.Find("old").Downloaded {
		t.Fatal("pending pointer does not alias catalog item")
	}
}

func TestPublishedTime(t *testing.T) {
	it := item("a", "2020-03-04T05:06:07Z")
	ts, err := it.PublishedTime()
	if err != nil {
		t.Fatalf("PublishedTime returned error: %v", err)
	}
	if ts.Unix() != 1583298367 {
		t.Fatalf("unexpected unix timestamp %d", ts.Unix())
	}

	bad := item("b", "yesterday")
	if _, err := bad.PublishedTime(); err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}
