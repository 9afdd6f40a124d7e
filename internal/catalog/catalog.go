package catalog

import (
	"fmt"
	"sort"
	"time"
)

// Item is one catalog entry representing a single media source.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PublishedAt string `json:"publishedAt"`
	Downloaded  bool   `json:"downloaded"`
}

// PublishedTime parses the item's publication timestamp.
func (i Item) PublishedTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, i.PublishedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("item %s: parse publishedAt %q: %w", i.ID, i.PublishedAt, err)
	}
	return t.UTC(), nil
}

// Catalog is the durable collection of known items, kept sorted by ascending
// publication time. Items are never deleted, only appended or flag-updated.
type Catalog struct {
	LastUpdated *time.Time `json:"lastUpdated"`
	Items       []Item     `json:"videos"`
}

// Find returns a pointer to the item with the given ID, or nil.
func (c *Catalog) Find(id string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// Has reports whether an item with the given ID exists.
func (c *Catalog) Has(id string) bool {
	return c.Find(id) != nil
}

// Pending returns pointers to items not yet downloaded, oldest first.
func (c *Catalog) Pending() []*Item {
	c.sortItems()
	pending := make([]*Item, 0, len(c.Items))
	for i := range c.Items {
		if !c.Items[i].Downloaded {
			pending = append(pending, &c.Items[i])
		}
	}
	return pending
}

// DownloadedCount returns the number of items already acquired.
func (c *Catalog) DownloadedCount() int {
	n := 0
	for i := range c.Items {
		if c.Items[i].Downloaded {
			n++
		}
	}
	return n
}

// Merge folds incoming items into the catalog. An incoming item whose ID is
// already present is ignored entirely, so first-seen metadata and any flags
// set by earlier stage runs are preserved. The result is re-sorted by
// ascending publishedAt. Returns the number of items actually added.
func (c *Catalog) Merge(incoming []Item) int {
	known := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		known[item.ID] = struct{}{}
	}

	added := 0
	for _, item := range incoming {
		if item.ID == "" {
			continue
		}
		if _, exists := known[item.ID]; exists {
			continue
		}
		known[item.ID] = struct{}{}
		c.Items = append(c.Items, item)
		added++
	}

	c.sortItems()
	return added
}

// sortItems orders items by ascending publishedAt. The timestamps are ISO
// 8601 UTC strings, so lexicographic order is chronological order; ties break
// on ID so the order is total and deterministic.
func (c *Catalog) sortItems() {
	sort.SliceStable(c.Items, func(a, b int) bool {
		if c.Items[a].PublishedAt != c.Items[b].PublishedAt {
			return c.Items[a].PublishedAt < c.Items[b].PublishedAt
		}
		return c.Items[a].ID < c.Items[b].ID
	})
}
