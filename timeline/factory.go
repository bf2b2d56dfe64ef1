package timeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sagalu/talon/errs"
	"github.com/sagalu/talon/internal/options"
	"github.com/sagalu/talon/section"
)

// FromDirectory opens the timeline rooted at path, creating the directory
// and its two backing files if they do not already exist.
//
// resolution must be greater than zero; it is only honored on creation —
// reopening an existing timeline ignores resolution in favor of the value
// already stored in the Index header.
func FromDirectory(path string, resolution uint64, opts ...Option) (*Timeline, error) {
	if path == "" {
		return nil, fmt.Errorf("timeline: %w", errs.ErrNotDirectory)
	}
	if resolution == 0 {
		return nil, fmt.Errorf("timeline: %w", errs.ErrInvalidResolution)
	}

	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("timeline: applying options: %w", err)
	}

	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("timeline: %s: %w", path, errs.ErrNotDirectory)
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("timeline: creating directory %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("timeline: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("timeline: %s: %w", path, errs.ErrNotDirectory)
	}

	idx, err := openIndex(filepath.Join(path, section.IndexFileSuffix), resolution)
	if err != nil {
		return nil, fmt.Errorf("timeline: opening index: %w", err)
	}

	dat, err := openData(filepath.Join(path, section.DataFileSuffix))
	if err != nil {
		idx.close()
		return nil, fmt.Errorf("timeline: opening data: %w", err)
	}

	if cfg.metrics != nil {
		idx.arr.SetGrowthHook(func() { cfg.metrics.MappedFileGrowths.WithLabelValues(section.IndexFileSuffix).Inc() })
		dat.arr.SetGrowthHook(func() { cfg.metrics.MappedFileGrowths.WithLabelValues(section.DataFileSuffix).Inc() })
	}

	return &Timeline{
		dir:     path,
		index:   idx,
		data:    dat,
		log:     cfg.log.WithField("timeline", path),
		metrics: cfg.metrics,
	}, nil
}
