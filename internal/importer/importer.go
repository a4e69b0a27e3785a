package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

const (
	// OutputFileName is the name of the JSON file written into the data directory.
	OutputFileName = "equipment.json"
	// ImagesDirName is the data subdirectory receiving copied sprite images.
	ImagesDirName = "images"

	lockFileName = ".dwdata.lock"
)

// ErrLocked is returned by Run when another run holds the data directory lock.
var ErrLocked = errors.New("data directory is locked by another run")

// ImageCopier copies the named image files, found somewhere below searchRoot,
// into destDir.
type ImageCopier interface {
	Copy(ctx context.Context, searchRoot string, fileNames []string, destDir string) error
}

// Summary describes a completed run.
type Summary struct {
	Counts     map[Category]int
	Records    int
	Images     int
	OutputPath string
	ImagesDir  string
	Elapsed    time.Duration
}

// Importer orchestrates extraction from a Source into a data directory.
type Importer struct {
	source Source
	images ImageCopier
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source. images may be nil,
// in which case Run writes the JSON file only.
//
// Precondition: source and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, images ImageCopier, logger *zap.Logger) *Importer {
	return &Importer{source: source, images: images, logger: logger}
}

// Run loads every record below extractedRoot, writes them sorted to
// <dataDir>/equipment.json and copies the referenced images to
// <dataDir>/images.
//
// Precondition: extractedRoot must satisfy the source's layout requirements;
// dataDir must exist or be creatable.
// Postcondition: returns a Summary after the JSON file and images are written,
// or a non-nil error. No output file is written when loading fails.
func (imp *Importer) Run(ctx context.Context, extractedRoot, dataDir string) (*Summary, error) {
	overall := time.Now()

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	lock := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock on %s: %w", dataDir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", dataDir, ErrLocked)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			imp.logger.Warn("releasing data directory lock", zap.Error(err))
		}
	}()

	t0 := time.Now()
	records, err := imp.source.Load(ctx, extractedRoot)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("loaded records",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(t0)),
	)

	SortRecords(records)

	outPath := filepath.Join(dataDir, OutputFileName)
	if err := WriteJSON(outPath, records); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	imp.logger.Info("wrote file", zap.String("path", outPath))

	summary := &Summary{
		Counts:     make(map[Category]int, len(Categories)),
		Records:    len(records),
		OutputPath: outPath,
	}
	for _, r := range records {
		summary.Counts[r.Type]++
	}

	if imp.images != nil {
		t1 := time.Now()
		imagesDir := filepath.Join(dataDir, ImagesDirName)
		if err := os.MkdirAll(imagesDir, 0755); err != nil {
			return nil, fmt.Errorf("creating images directory %s: %w", imagesDir, err)
		}
		names := ImageFileNames(records)
		if err := imp.images.Copy(ctx, extractedRoot, names, imagesDir); err != nil {
			return nil, fmt.Errorf("copying images: %w", err)
		}
		summary.Images = len(names)
		summary.ImagesDir = imagesDir
		imp.logger.Info("copied images",
			zap.String("path", imagesDir),
			zap.Int("images", len(names)),
			zap.Duration("elapsed", time.Since(t1)),
		)
	}

	summary.Elapsed = time.Since(overall)
	return summary, nil
}
