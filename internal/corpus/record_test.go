package corpus_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"kaiku/internal/corpus"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	rec := corpus.Record{
		FileName: "1000_20200101_abc123_Title.mp3",
		ItemID:   "abc123",
		Words: []corpus.Word{
			{Word: "kissa", Start: 1.0, End: 1.5},
			{Word: "koira", Start: 2.0, End: 2.25},
		},
	}

	path, err := corpus.Write(dir, rec)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if filepath.Base(path) != "1000_20200101_abc123_Title.json" {
		t.Fatalf("record named after media file expected, got %s", path)
	}

	got, err := corpus.Read(path)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.ItemID != rec.ItemID || len(got.Words) != 2 || got.Words[0] != rec.Words[0] {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestWireFormatFieldNames(t *testing.T) {
	dir := t.TempDir()
	rec := corpus.Record{FileName: "f.mp3", ItemID: "id", Words: []corpus.Word{{Word: "x", Start: 0, End: 1}}}
	path, err := corpus.Write(dir, rec)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"file_name", "youtube_id", "words"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %q in %s", key, data)
		}
	}
	word := decoded["words"].([]any)[0].(map[string]any)
	for _, key := range []string{"word", "start", "end"} {
		if _, ok := word[key]; !ok {
			t.Fatalf("missing word field %q in %s", key, data)
		}
	}
}

func TestNormalize(t *testing.T) {
	rec := corpus.Record{Words: []corpus.Word{
		{Word: "  hei  ", Start: 1, End: 0.5},
		{Word: "   ", Start: 2, End: 3},
		{Word: "moi", Start: -1, End: 0.5},
	}}
	rec.Normalize()
	if len(rec.Words) != 2 {
		t.Fatalf("expected empty word dropped, got %+v", rec.Words)
	}
	if rec.Words[0].Word != "hei" || rec.Words[0].End != rec.Words[0].Start {
		t.Fatalf("inverted span not clamped: %+v", rec.Words[0])
	}
	if rec.Words[1].Start != 0 {
		t.Fatalf("negative start not clamped: %+v", rec.Words[1])
	}
}

func TestListSortedJSONOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.json", "a.json", "ignore.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	paths, err := corpus.List(dir)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.json" || filepath.Base(paths[1]) != "b.json" {
		t.Fatalf("unexpected listing %v", paths)
	}
}

func TestFlatten(t *testing.T) {
	dir := t.TempDir()
	records := []corpus.Record{
		{FileName: "1_a.mp3", ItemID: "a", Words: []corpus.Word{{Word: "yksi"}, {Word: "kaksi"}}},
		{FileName: "2_b.mp3", ItemID: "b", Words: []corpus.Word{{Word: "kolme"}}},
		{FileName: "3_c.mp3", ItemID: "c"},
	}
	for _, rec := range records {
		if _, err := corpus.Write(dir, rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "0_bad.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out strings.Builder
	lines, err := corpus.Flatten(dir, &out)
	if err != nil {
		t.Fatalf("Flatten returned error: %v", err)
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
	if out.String() != "yksi kaksi\nkolme\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}
