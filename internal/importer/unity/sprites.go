package unity

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// assetMetaSuffix identifies the sidecar of a sprite asset.
const assetMetaSuffix = ".asset" + MetaSuffix

// SpriteLocator resolves sprite GUIDs to sprite file stems. Each sprites
// directory is scanned once; later lookups use the cached index. A
// SpriteLocator is safe for concurrent use.
type SpriteLocator struct {
	mu      sync.Mutex
	indexes map[string]*spriteIndex
}

type spriteIndex struct {
	once   sync.Once
	byGUID map[string][]string
	err    error
}

// NewSpriteLocator returns a SpriteLocator with an empty cache.
func NewSpriteLocator() *SpriteLocator {
	return &SpriteLocator{indexes: make(map[string]*spriteIndex)}
}

// Locate returns the stem (file name without ".asset.meta") of the one sprite
// metadata file whose guid equals guid, searching the sprites subdirectory of
// categoryDirPath.
//
// Precondition: filepath.Base(categoryDirPath) is a directory of the category table.
// Postcondition: returns a non-empty stem, or a field validation error (bad
// directory name), structural error (sprites directory missing), format or
// field validation error (unreadable metadata) or reference resolution error
// (zero or several matches).
func (l *SpriteLocator) Locate(categoryDirPath, guid string) (string, error) {
	name, err := SpritesDirName(filepath.Base(categoryDirPath))
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.Path = categoryDirPath
		}
		return "", err
	}
	spritesDir := filepath.Join(categoryDirPath, name)

	idx := l.index(spritesDir)
	idx.once.Do(func() {
		idx.byGUID, idx.err = scanSprites(spritesDir)
	})
	if idx.err != nil {
		return "", idx.err
	}

	stems := idx.byGUID[guid]
	switch len(stems) {
	case 0:
		return "", referenceErr(spritesDir, "guid", "no sprite metadata file has guid %q", guid)
	case 1:
		return stems[0], nil
	default:
		return "", referenceErr(spritesDir, "guid", "guid %q is ambiguous, matched %s", guid, strings.Join(stems, ", "))
	}
}

func (l *SpriteLocator) index(spritesDir string) *spriteIndex {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.indexes[spritesDir]
	if !ok {
		idx = &spriteIndex{}
		l.indexes[spritesDir] = idx
	}
	return idx
}

func scanSprites(spritesDir string) (map[string][]string, error) {
	info, err := os.Stat(spritesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, structuralErr(spritesDir, "sprites directory is missing")
		}
		return nil, &Error{Kind: KindStructural, Path: spritesDir, Message: "reading sprites directory", Cause: err}
	}
	if !info.IsDir() {
		return nil, structuralErr(spritesDir, "sprites path is not a directory")
	}

	entries, err := os.ReadDir(spritesDir)
	if err != nil {
		return nil, &Error{Kind: KindStructural, Path: spritesDir, Message: "listing sprites directory", Cause: err}
	}

	byGUID := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), assetMetaSuffix) {
			continue
		}
		guid, err := readMetaGUID(filepath.Join(spritesDir, e.Name()))
		if err != nil {
			return nil, err
		}
		byGUID[guid] = append(byGUID[guid], strings.TrimSuffix(e.Name(), assetMetaSuffix))
	}
	for _, stems := range byGUID {
		sort.Strings(stems)
	}
	return byGUID, nil
}
