// Package unity reads equipment records from a Unity project exported by
// AssetRipper.
package unity

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dogwitch-wiki/data/internal/importer"
)

var _ importer.Source = (*Source)(nil)

// AssetExt is the extension of Unity asset files.
const AssetExt = ".asset"

// Source implements importer.Source for a tree exported by AssetRipper:
//
//	extractedRoot/
//	  ExportedProject/Assets/Resources/equipment/
//	    bones/             <- *.asset + *.asset.meta, one per item
//	      _bonesprites/    <- *.asset + *.asset.meta, one per sprite
//	    jewelry-rings/
//	      _ringsprites/
//	    ...
type Source struct {
	extractor *Extractor
	workers   int
	logger    *zap.Logger
}

// NewSource constructs a Source extracting up to workers files at a time.
//
// Precondition: logger must be non-nil.
// Postcondition: returns a non-nil Source; workers below 1 are treated as 1.
func NewSource(workers int, logger *zap.Logger) *Source {
	if workers < 1 {
		workers = 1
	}
	return &Source{
		extractor: NewExtractor(NewSpriteLocator()),
		workers:   workers,
		logger:    logger,
	}
}

type assetJob struct {
	path     string
	category importer.Category
	dir      string
}

// Load extracts every equipment asset below extractedRoot.
//
// Records come back in category table order and, within a category, in the
// order os.ReadDir lists the files (by file name). Callers needing a stable
// order independent of the file system should sort with importer.SortRecords.
//
// Every file is attempted even when others fail; the returned error combines
// all failures, including GUIDs shared by more than one asset.
//
// Precondition: extractedRoot must be readable.
// Postcondition: returns all records, or nil and a non-nil error.
func (s *Source) Load(ctx context.Context, extractedRoot string) ([]importer.Record, error) {
	equipmentDir := filepath.Join(extractedRoot, EquipmentDir)
	if err := requireDir(equipmentDir); err != nil {
		return nil, err
	}

	var jobs []assetJob
	var errs error
	for _, cd := range categoryDirs {
		dir := filepath.Join(equipmentDir, cd.Dir)
		if err := requireDir(dir); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		paths, err := assetFiles(dir)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		s.logger.Debug("found assets",
			zap.String("category", string(cd.Category)),
			zap.Int("files", len(paths)),
		)
		for _, p := range paths {
			jobs = append(jobs, assetJob{path: p, category: cd.Category, dir: dir})
		}
	}
	if errs != nil {
		return nil, errs
	}

	records := make([]importer.Record, len(jobs))
	failures := make([]error, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, job := range jobs {
		i, job := i, job
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.extractor.Extract(job.path, job.category, job.dir)
			if err != nil {
				s.logger.Warn("extraction failed", zap.String("path", job.path), zap.Error(err))
				failures[i] = err
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	errs = multierr.Combine(failures...)
	if errs == nil {
		errs = checkUniqueGUIDs(records)
	}
	if errs != nil {
		s.logger.Error("extraction finished with failures",
			zap.Int("files", len(jobs)),
			zap.Int("failures", len(multierr.Errors(errs))),
		)
		return nil, errs
	}
	return records, nil
}

// checkUniqueGUIDs reports every record whose GUID was already used by an
// earlier record.
func checkUniqueGUIDs(records []importer.Record) error {
	seen := make(map[string]string, len(records))
	var errs error
	for _, r := range records {
		if first, dup := seen[r.GUID]; dup {
			errs = multierr.Append(errs, fieldErr(r.SourcePath, "guid", "guid %q is also used by %s", r.GUID, first))
			continue
		}
		seen[r.GUID] = r.SourcePath
	}
	return errs
}

func requireDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return structuralErr(dir, "directory is missing")
		}
		return &Error{Kind: KindStructural, Path: dir, Message: "reading directory", Cause: err}
	}
	if !info.IsDir() {
		return structuralErr(dir, "not a directory")
	}
	return nil
}

func assetFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &Error{Kind: KindStructural, Path: dir, Message: "listing directory", Cause: err}
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), AssetExt) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
