package services_test

import (
	"errors"
	"testing"

	"kaiku/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrExternalTool, "ytdlp", "fetch", "exit status 1", errors.New("boom"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	want := "external tool error: ytdlp: fetch: exit status 1: boom"
	if err.Error() != want {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestIsFatal(t *testing.T) {
	cfg := services.Wrap(services.ErrConfiguration, "youtube", "list", "api key missing", nil)
	if !services.IsFatal(cfg) {
		t.Fatal("configuration errors are fatal")
	}
	tool := services.Wrap(services.ErrExternalTool, "ytdlp", "fetch", "", nil)
	if services.IsFatal(tool) {
		t.Fatal("tool errors stay item-local")
	}
}
