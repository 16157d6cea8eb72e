package floorplan

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/cache"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/parser"
)

// Extract extracts room labels from a single SVG file.
func Extract(path string, opts Options) ([]models.Label, error) {
	ex, err := newExtractor(opts)
	if err != nil {
		return nil, err
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ex.extract(bytes.NewReader(data), filepath.Base(path))
}

// ExtractReader extracts room labels from an SVG document read from r.
// name identifies the document in errors and log output.
func ExtractReader(r io.Reader, name string, opts Options) ([]models.Label, error) {
	ex, err := newExtractor(opts)
	if err != nil {
		return nil, err
	}
	return ex.extract(r, name)
}

// ExtractDir extracts room labels from every .svg file in dir, in file name
// order. A document that is not well-formed is logged and yields an empty
// label list; an unreadable directory or file aborts the batch.
func ExtractDir(ctx context.Context, dir string, opts Options) (models.Batch, error) {
	ex, err := newExtractor(opts)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, dir)
		}
		return nil, err
	}

	batch := make(models.Batch)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".svg") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		data, err := readFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}

		ex.logger.Debug("processing", "file", name)
		labels, err := ex.extractCached(ctx, data, name)
		if err != nil {
			if !errors.Is(err, ErrInvalidFormat) {
				return nil, err
			}
			ex.logger.Error("failed to parse", "file", name, "err", err)
			labels = []models.Label{}
		}
		ex.logger.Info("extracted", "file", name, "labels", len(labels))
		batch[name] = labels
	}

	return batch, nil
}

// extractor holds the per-run state derived from Options.
type extractor struct {
	opts   Options
	filter parser.LabelFilter
	logger *log.Logger
}

func newExtractor(opts Options) (*extractor, error) {
	filter, err := parser.NewLabelFilter(opts.Pattern())
	if err != nil {
		return nil, NewExtractionError(opts.Pattern(), "pattern", fmt.Errorf("%w: %w", ErrInvalidPattern, err))
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	return &extractor{opts: opts, filter: filter, logger: opts.logger()}, nil
}

func (ex *extractor) extract(r io.Reader, name string) ([]models.Label, error) {
	root, err := parser.ParseSVG(r)
	if err != nil {
		return nil, NewExtractionError(name, "svg", fmt.Errorf("%w: %w", ErrInvalidFormat, err))
	}

	c := parser.Collector{
		Filter: ex.filter,
		OnTransformError: func(transform string, err error) {
			ex.logger.Debug("skipped transform primitives", "file", name, "transform", transform, "err", err)
		},
	}
	labels := c.Collect(root)

	if !ex.opts.ShouldDedup() {
		if labels == nil {
			labels = []models.Label{}
		}
		return labels, nil
	}

	unique, discarded := parser.Dedup(labels, ex.opts.Grid())
	texts := make([]string, 0, len(discarded))
	for text := range discarded {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	for _, text := range texts {
		ex.logger.Info("discarded duplicates", "file", name, "label", text, "count", discarded[text])
	}
	return unique, nil
}

// extractCached serves results from opts.Cache when possible. Cache failures
// are logged and fall back to a fresh extraction; undecodable entries are
// evicted.
func (ex *extractor) extractCached(ctx context.Context, data []byte, name string) ([]models.Label, error) {
	c := ex.opts.Cache

	key := cache.LabelsKey(data, ex.opts.cacheKey())
	if cached, ok, err := c.Get(ctx, key); err != nil {
		ex.logger.Warn("cache read failed", "file", name, "err", err)
	} else if ok {
		var labels []models.Label
		if err := json.Unmarshal(cached, &labels); err == nil && labels != nil {
			ex.logger.Debug("cache hit", "file", name)
			return labels, nil
		}
		ex.logger.Warn("evicting unreadable cache entry", "file", name)
		if err := c.Delete(ctx, key); err != nil {
			ex.logger.Warn("cache delete failed", "file", name, "err", err)
		}
	}

	labels, err := ex.extract(bytes.NewReader(data), name)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(labels); err == nil {
		if err := c.Set(ctx, key, encoded, ex.opts.CacheTTL); err != nil {
			ex.logger.Warn("cache write failed", "file", name, "err", err)
		}
	}
	return labels, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return data, err
}
