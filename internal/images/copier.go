// Package images copies sprite images referenced by extracted records out of
// the extracted-files tree.
package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotFound is returned for a file name with no match below the search root.
	ErrNotFound = errors.New("image not found")
	// ErrAmbiguous is returned for a file name matching more than one file.
	ErrAmbiguous = errors.New("image name is ambiguous")
)

// Copier finds image files by name below a search root and copies them into a
// destination directory, a bounded number at a time.
type Copier struct {
	workers int
	logger  *zap.Logger
}

// NewCopier returns a Copier running up to workers copies concurrently.
//
// Precondition: logger must be non-nil.
// Postcondition: workers below 1 are treated as 1.
func NewCopier(workers int, logger *zap.Logger) *Copier {
	if workers < 1 {
		workers = 1
	}
	return &Copier{workers: workers, logger: logger}
}

// Copy copies each of fileNames into destDir. A name must match exactly one
// file anywhere below searchRoot; a name with zero or several matches fails
// without stopping the others. destDir itself is not searched.
//
// Precondition: destDir must exist.
// Postcondition: every resolvable file is copied; the returned error combines
// one failure per unresolved or uncopyable name, and is nil if there were none.
func (c *Copier) Copy(ctx context.Context, searchRoot string, fileNames []string, destDir string) error {
	index, err := buildIndex(ctx, searchRoot, destDir, fileNames)
	if err != nil {
		return err
	}

	failures := make([]error, len(fileNames))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, name := range fileNames {
		i, name := i, name
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := c.copyOne(index[name], name, destDir); err != nil {
				c.logger.Warn("copying image", zap.String("name", name), zap.Error(err))
				failures[i] = err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return multierr.Combine(failures...)
}

func (c *Copier) copyOne(matches []string, name, destDir string) error {
	switch len(matches) {
	case 0:
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	case 1:
	default:
		return fmt.Errorf("%q: %w: %s", name, ErrAmbiguous, strings.Join(matches, ", "))
	}
	dst := filepath.Join(destDir, name)
	if err := copyFileVerified(matches[0], dst); err != nil {
		return fmt.Errorf("copying %s to %s: %w", matches[0], dst, err)
	}
	c.logger.Debug("copied image", zap.String("src", matches[0]), zap.String("dst", dst))
	return nil
}

// buildIndex walks root once and maps every wanted base name to the regular
// files carrying it.
func buildIndex(ctx context.Context, root, skipDir string, names []string) (map[string][]string, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	skip := filepath.Clean(skipDir)

	index := make(map[string][]string, len(names))
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if filepath.Clean(path) == skip {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && wanted[d.Name()] {
			index[d.Name()] = append(index[d.Name()], path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("searching %s for images: %w", root, err)
	}
	return index, nil
}
