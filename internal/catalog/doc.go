// Package catalog maintains the durable, deduplicated record of known media
// items and their per-stage completion flags. It is the single source of
// truth for what exists and how far each item has progressed.
package catalog
