package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "results.json")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestFileProvider_ArrayKeepsOrder(t *testing.T) {
	p := writeFile(t, `[{"url":"https://b.example"},{"url":""},{"url":"https://a.example"}]`)
	got, err := (&FileProvider{Path: p}).Search(context.Background(), "anything", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].URL != "https://b.example" || got[1].URL != "https://a.example" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if got[0].Source != "file" {
		t.Fatalf("expected source file, got %q", got[0].Source)
	}
}

func TestFileProvider_ObjectByQuery(t *testing.T) {
	p := writeFile(t, `{"Yesterday Lyrics": [{"url":"https://x.example"}], "other": [{"url":"https://y.example"}]}`)
	got, err := (&FileProvider{Path: p}).Search(context.Background(), " yesterday lyrics ", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://x.example" {
		t.Fatalf("unexpected results: %+v", got)
	}
	none, err := (&FileProvider{Path: p}).Search(context.Background(), "missing", 10)
	if err != nil || len(none) != 0 {
		t.Fatalf("expected no results for unknown query, got %v %v", none, err)
	}
}

func TestFileProvider_Limit(t *testing.T) {
	p := writeFile(t, `[{"url":"https://1.example"},{"url":"https://2.example"},{"url":"https://3.example"}]`)
	got, _ := (&FileProvider{Path: p}).Search(context.Background(), "", 2)
	if len(got) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(got))
	}
}

func TestFileProvider_EmptyPath(t *testing.T) {
	if _, err := (&FileProvider{}).Search(context.Background(), "q", 1); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
