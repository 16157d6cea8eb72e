package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/floorplan-go/pkg/floorplan"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/cache"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
)

const planSVG = `<svg xmlns="http://www.w3.org/2000/svg">
  <g transform="translate(100,0)">
    <text x="5" y="5">1203</text>
  </g>
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

// run executes the CLI with args and returns the log output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&logs)
	cmd.SetErr(&logs)
	err := cmd.ExecuteContext(context.Background())
	return logs.String(), err
}

func readOutput(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return data
}

func TestExtractSingleFileWritesArray(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "plan.svg", planSVG)
	out := filepath.Join(dir, "labels.json")

	if _, err := run(t, "extract", input, "-o", out); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var labels []models.Label
	if err := json.Unmarshal(readOutput(t, out), &labels); err != nil {
		t.Fatalf("output is not a label array: %v", err)
	}
	expected := []models.Label{
		{Text: "1203", X: 105, Y: 5},
		{Text: "1201A", X: 30, Y: 40},
	}
	if diff := cmp.Diff(expected, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractFolderWritesObject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.svg", planSVG)
	writeFile(t, dir, "b.svg", "<svg><text") // not well-formed
	out := filepath.Join(t.TempDir(), "batch.json")

	if _, err := run(t, "extract", dir, "-o", out); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	var batch models.Batch
	if err := json.Unmarshal(readOutput(t, out), &batch); err != nil {
		t.Fatalf("output is not a batch object: %v", err)
	}
	if len(batch["a.svg"]) != 2 {
		t.Errorf("a.svg labels = %v, expected 2", batch["a.svg"])
	}
	if labels, ok := batch["b.svg"]; !ok || len(labels) != 0 {
		t.Errorf("b.svg labels = %v (present %v), expected empty array", labels, ok)
	}
}

func TestExtractMalformedFileWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "broken.svg", "<svg><g></svg>")
	out := filepath.Join(dir, "labels.json")

	logs, err := run(t, "extract", input, "-o", out)
	if err != nil {
		t.Fatalf("extract should not fail on malformed input: %v", err)
	}
	if got := strings.TrimSpace(string(readOutput(t, out))); got != "[]" {
		t.Errorf("output = %q, expected []", got)
	}
	if !strings.Contains(logs, "failed to parse") {
		t.Errorf("expected parse failure to be logged, got %q", logs)
	}
}

func TestExtractMissingFile(t *testing.T) {
	if _, err := run(t, "extract", filepath.Join(t.TempDir(), "missing.svg")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestOpenCacheDefaultsToNullCache(t *testing.T) {
	c, err := openCache(context.Background(), floorplan.CacheConfig{})
	if err != nil {
		t.Fatalf("openCache failed: %v", err)
	}
	defer c.Close()
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("openCache() = %T, expected *cache.NullCache", c)
	}

	fc, err := openCache(context.Background(), floorplan.CacheConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("openCache failed: %v", err)
	}
	defer fc.Close()
	if _, ok := fc.(*cache.FileCache); !ok {
		t.Errorf("openCache(dir) = %T, expected *cache.FileCache", fc)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		wantLog bool
	}{
		{"debug at info level", log.InfoLevel, false},
		{"debug at debug level", log.DebugLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			newLogger(&buf, tt.level).Debug("resolving")
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("expected the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("expected log.Default() without an attached logger")
	}
}
