package floorplan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/cache"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
)

const planSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 500 500">
  <g transform="translate(100,0)">
    <g transform="scale(2)">
      <text x="5" y="5">1203</text>
      <text x="5.1" y="4.9">1203</text>
    </g>
  </g>
  <text x="10" y="20">Lobby</text>
  <text x="30" y="40">1201A</text>
</svg>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtract(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan.svg", planSVG)

	labels, err := Extract(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	expected := []models.Label{
		{Text: "1203", X: 110, Y: 10},
		{Text: "1201A", X: 30, Y: 40},
	}
	if diff := cmp.Diff(expected, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractNoDedup(t *testing.T) {
	off := false
	opts := DefaultOptions()
	opts.Dedup = &off

	labels, err := ExtractReader(strings.NewReader(planSVG), "plan.svg", opts)
	if err != nil {
		t.Fatalf("ExtractReader failed: %v", err)
	}
	if len(labels) != 3 {
		t.Errorf("expected 3 labels without dedup, got %d", len(labels))
	}
}

func TestExtractCustomPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.LabelPattern = `^Lobby$`

	labels, err := ExtractReader(strings.NewReader(planSVG), "plan.svg", opts)
	if err != nil {
		t.Fatalf("ExtractReader failed: %v", err)
	}
	expected := []models.Label{{Text: "Lobby", X: 10, Y: 20}}
	if diff := cmp.Diff(expected, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractInvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.LabelPattern = `([`

	_, err := ExtractReader(strings.NewReader(planSVG), "plan.svg", opts)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestExtractEmptyResult(t *testing.T) {
	labels, err := ExtractReader(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"/>`), "empty.svg", DefaultOptions())
	if err != nil {
		t.Fatalf("ExtractReader failed: %v", err)
	}
	if labels == nil || len(labels) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", labels)
	}
}

func TestExtractErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Extract(filepath.Join(dir, "missing.svg"), DefaultOptions())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}

	path := writeFile(t, dir, "broken.svg", `<svg><g></svg>`)
	_, err = Extract(path, DefaultOptions())
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if ee.Document != "broken.svg" || ee.Component != "svg" {
		t.Errorf("unexpected ExtractionError: %+v", ee)
	}
}

func TestExtractDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "UNH-3.svg", planSVG)
	writeFile(t, dir, "UNH-4.SVG", `<svg xmlns="http://www.w3.org/2000/svg"><text x="1" y="2">4401</text></svg>`)
	writeFile(t, dir, "broken.svg", `<svg><text>`)
	writeFile(t, dir, "notes.txt", "1203")
	if err := os.Mkdir(filepath.Join(dir, "sub.svg"), 0755); err != nil {
		t.Fatal(err)
	}

	batch, err := ExtractDir(context.Background(), dir, DefaultOptions())
	if err != nil {
		t.Fatalf("ExtractDir failed: %v", err)
	}

	expected := models.Batch{
		"UNH-3.svg": {
			{Text: "1203", X: 110, Y: 10},
			{Text: "1201A", X: 30, Y: 40},
		},
		"UNH-4.SVG":  {{Text: "4401", X: 1, Y: 2}},
		"broken.svg": {},
	}
	if diff := cmp.Diff(expected, batch); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDirMissing(t *testing.T) {
	_, err := ExtractDir(context.Background(), filepath.Join(t.TempDir(), "nope"), DefaultOptions())
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("expected ErrFileNotFound, got %v", err)
	}
}

func TestExtractDirCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", planSVG)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractDir(ctx, dir, DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExtractDirCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", planSVG)

	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	opts := DefaultOptions()
	opts.Cache = c

	first, err := ExtractDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("ExtractDir failed: %v", err)
	}

	ctx := context.Background()
	key := cache.LabelsKey([]byte(planSVG), opts.cacheKey())
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Fatal("expected result to be cached")
	}

	// Poison the cache entry to prove the second run reads it.
	if err := c.Set(ctx, key, []byte(`[{"text":"9999","x":1,"y":1}]`), 0); err != nil {
		t.Fatal(err)
	}
	second, err := ExtractDir(ctx, dir, opts)
	if err != nil {
		t.Fatalf("ExtractDir failed: %v", err)
	}
	if diff := cmp.Diff(models.Batch{"a.svg": {{Text: "9999", X: 1, Y: 1}}}, second); diff != "" {
		t.Errorf("cached batch mismatch (-want +got):\n%s", diff)
	}
	if cmp.Equal(first, second) {
		t.Error("second run should come from the poisoned cache")
	}
}

// recordingCache wraps a Cache and counts deletions.
type recordingCache struct {
	cache.Cache
	deleted []string
}

func (r *recordingCache) Delete(ctx context.Context, key string) error {
	r.deleted = append(r.deleted, key)
	return r.Cache.Delete(ctx, key)
}

func TestExtractDirEvictsUnreadableCacheEntry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", planSVG)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache failed: %v", err)
	}
	c := &recordingCache{Cache: fc}
	opts := DefaultOptions()
	opts.Cache = c

	ctx := context.Background()
	key := cache.LabelsKey([]byte(planSVG), opts.cacheKey())
	if err := c.Set(ctx, key, []byte(`{"not":"labels"}`), 0); err != nil {
		t.Fatal(err)
	}

	batch, err := ExtractDir(ctx, dir, opts)
	if err != nil {
		t.Fatalf("ExtractDir failed: %v", err)
	}
	fresh, err := ExtractDir(ctx, dir, DefaultOptions())
	if err != nil {
		t.Fatalf("ExtractDir failed: %v", err)
	}
	if diff := cmp.Diff(fresh, batch); diff != "" {
		t.Errorf("batch mismatch (-want +got):\n%s", diff)
	}
	if len(c.deleted) != 1 || c.deleted[0] != key {
		t.Errorf("deleted = %v, expected [%s]", c.deleted, key)
	}
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Error("expected the fresh result to be cached again")
	}
}
