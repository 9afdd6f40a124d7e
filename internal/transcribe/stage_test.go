package transcribe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kaiku/internal/corpus"
	"kaiku/internal/ledger"
	"kaiku/internal/transcribe"
)

type fakeTranscriber struct {
	calls  []string
	failOn map[string]error
	words  []corpus.Word
}

func (f *fakeTranscriber) Transcribe(_ context.Context, mediaPath, _ string) ([]corpus.Word, error) {
	name := filepath.Base(mediaPath)
	f.calls = append(f.calls, name)
	if err, ok := f.failOn[name]; ok {
		return nil, err
	}
	return f.words, nil
}

func newFixture(t *testing.T, mediaNames ...string) (*ledger.Ledger, string, string) {
	t.Helper()
	dir := t.TempDir()
	mediaDir := filepath.Join(dir, "media")
	transcriptDir := filepath.Join(dir, "transcripts")
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range mediaNames {
		if err := os.WriteFile(filepath.Join(mediaDir, name), []byte("media"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return ledger.New(filepath.Join(dir, "progress.txt")), mediaDir, transcriptDir
}

func TestRunTranscribesAndRecordsCompletion(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t,
		"1000_20200101_abc_First.mp3",
		"2000_20200201_def_Second.mp3",
	)
	tr := &fakeTranscriber{words: []corpus.Word{{Word: "kissa", Start: 1.0, End: 1.5}}}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if report.Completed != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	// Lexicographic processing order.
	if tr.calls[0] != "1000_20200101_abc_First.mp3" || tr.calls[1] != "2000_20200201_def_Second.mp3" {
		t.Fatalf("unexpected call order %v", tr.calls)
	}

	rec, err := corpus.Read(corpus.RecordPath(transcriptDir, "1000_20200101_abc_First.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.ItemID != "abc" || rec.FileName != "1000_20200101_abc_First.mp3" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if len(rec.Words) != 1 || rec.Words[0].Word != "kissa" {
		t.Fatalf("unexpected words %+v", rec.Words)
	}

	done := led.Load()
	if len(done) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(done))
	}
}

func TestRunSkipsLedgeredFiles(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t,
		"1000_20200101_abc_First.mp3",
		"2000_20200201_def_Second.mp3",
	)
	if err := led.Append("1000_20200101_abc_First.mp3"); err != nil {
		t.Fatal(err)
	}

	tr := &fakeTranscriber{}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.AlreadyDone != 1 || report.Completed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(tr.calls) != 1 || tr.calls[0] != "2000_20200201_def_Second.mp3" {
		t.Fatalf("unexpected calls %v", tr.calls)
	}
}

func TestSecondRunIsNoop(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t, "1000_20200101_abc_First.mp3")
	tr := &fakeTranscriber{}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.AlreadyDone != 1 || len(tr.calls) != 1 {
		t.Fatalf("second run re-transcribed: report=%+v calls=%v", report, tr.calls)
	}
}

func TestRunContinuesPastFailure(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t,
		"1000_20200101_abc_First.mp3",
		"2000_20200201_def_Second.mp3",
	)
	tr := &fakeTranscriber{
		failOn: map[string]error{"1000_20200101_abc_First.mp3": errors.New("gpu fell over")},
	}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Completed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if led.Exists() {
		done := led.Load()
		if _, ok := done["1000_20200101_abc_First.mp3"]; ok {
			t.Fatal("failed file must not enter the ledger")
		}
	}
}

func TestUnparseableNameFailsItemOnly(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t,
		"notes.mp3",
		"1000_20200101_abc_First.mp3",
	)
	tr := &fakeTranscriber{}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Failed != 1 || report.Completed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(tr.calls) != 1 {
		t.Fatalf("unparseable file reached the transcriber: %v", tr.calls)
	}
}

func TestExistingTranscriptSkipsTranscriberButLedgers(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t, "1000_20200101_abc_First.mp3")

	// Transcript from a run that crashed before the ledger append.
	_, err := corpus.Write(transcriptDir, corpus.Record{
		FileName: "1000_20200101_abc_First.mp3",
		ItemID:   "abc",
		Words:    []corpus.Word{{Word: "kissa", Start: 0, End: 0.4}},
	})
	if err != nil {
		t.Fatal(err)
	}

	tr := &fakeTranscriber{}
	s := transcribe.New(led, tr, mediaDir, transcriptDir, "fi", nil)

	report, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Completed != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("transcriber invoked despite existing transcript: %v", tr.calls)
	}
	if _, ok := led.Load()["1000_20200101_abc_First.mp3"]; !ok {
		t.Fatal("completion not recorded in ledger")
	}
}

func TestPendingListsUnledgeredMediaInOrder(t *testing.T) {
	led, mediaDir, transcriptDir := newFixture(t,
		"2000_20200201_def_Second.mp3",
		"1000_20200101_abc_First.mp3",
		"readme.txt",
	)
	if err := led.Append("2000_20200201_def_Second.mp3"); err != nil {
		t.Fatal(err)
	}

	s := transcribe.New(led, &fakeTranscriber{}, mediaDir, transcriptDir, "fi", nil)
	pending := s.Pending()
	if len(pending) != 1 || pending[0] != "1000_20200101_abc_First.mp3" {
		t.Fatalf("unexpected pending %v", pending)
	}
}
