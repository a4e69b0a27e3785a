package unity_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/importer/unity"
)

const unityHeader = "%YAML 1.1\n%TAG !u! tag:unity3d.com,2011:\n--- !u!114 &11400000\n"

// absent removes a field from the generated asset.
const absent = "<absent>"

// gameTree is an AssetRipper export with every category directory and its
// sprites directory present, initially empty.
type gameTree struct {
	t    *testing.T
	root string
}

func newGameTree(t *testing.T) *gameTree {
	t.Helper()
	g := &gameTree{t: t, root: t.TempDir()}
	for _, cd := range unity.CategoryDirs() {
		sprites, err := unity.SpritesDirName(cd.Dir)
		require.NoError(t, err)
		require.NoError(t, os.MkdirAll(filepath.Join(g.categoryDir(cd.Category), sprites), 0755))
	}
	return g
}

func (g *gameTree) categoryDir(c importer.Category) string {
	g.t.Helper()
	return filepath.Join(g.root, unity.EquipmentDir, dirOf(g.t, c))
}

// dirOf returns the table directory of category c.
func dirOf(t *testing.T, c importer.Category) string {
	t.Helper()
	for _, cd := range unity.CategoryDirs() {
		if cd.Category == c {
			return cd.Dir
		}
	}
	t.Fatalf("no directory for category %q", c)
	return ""
}

func (g *gameTree) spritesDir(c importer.Category) string {
	g.t.Helper()
	name, err := unity.SpritesDirName(filepath.Base(g.categoryDir(c)))
	require.NoError(g.t, err)
	return filepath.Join(g.categoryDir(c), name)
}

// addSprite writes a sprite asset and its sidecar carrying guid.
func (g *gameTree) addSprite(c importer.Category, stem, guid string) {
	g.t.Helper()
	path := filepath.Join(g.spritesDir(c), stem+unity.AssetExt)
	writeFile(g.t, path, unityHeader+"Sprite:\n  m_Name: "+stem+"\n")
	writeFile(g.t, path+unity.MetaSuffix, metaFile(guid))
}

// addItem writes an equipment asset named file with the given sidecar guid
// and returns its path.
func (g *gameTree) addItem(c importer.Category, file, guid, body string) string {
	g.t.Helper()
	path := filepath.Join(g.categoryDir(c), file+unity.AssetExt)
	writeFile(g.t, path, body)
	writeFile(g.t, path+unity.MetaSuffix, metaFile(guid))
	return path
}

func metaFile(guid string) string {
	return "fileFormatVersion: 2\nguid: " + guid + "\nNativeFormatImporter:\n  externalObjects: {}\n  mainObjectFileID: 11400000\n"
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// itemAsset renders an equipment asset. overrides replace the value of a
// MonoBehaviour field or add one after the defaults; the value absent leaves
// the field out entirely.
func itemAsset(overrides map[string]string) string {
	fields := [][2]string{
		{"m_ObjectHideFlags", "0"},
		{"m_Name", "TestItem"},
		{"equipmentName", "Test Item"},
		{"iconSprite", "{fileID: 21300000, guid: " + iconGUID + ", type: 2}"},
		{"description", "A plain test item."},
		{"linkedCorruptionCounterpart", "{fileID: 0}"},
		{"IsCorrupted", "0"},
	}
	used := make(map[string]bool, len(overrides))
	var b strings.Builder
	b.WriteString(unityHeader)
	b.WriteString("MonoBehaviour:\n")
	for _, f := range fields {
		v := f[1]
		if o, ok := overrides[f[0]]; ok {
			used[f[0]] = true
			v = o
		}
		if v == absent {
			continue
		}
		b.WriteString("  " + f[0] + ": " + v + "\n")
	}
	var extra []string
	for k, v := range overrides {
		if !used[k] && v != absent {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		b.WriteString("  " + k + ": " + overrides[k] + "\n")
	}
	return b.String()
}

const (
	iconGUID   = "aa11bb22cc33dd44ee55ff6600778899"
	itemGUID   = "0123456789abcdef0123456789abcdef"
	otherGUID  = "fedcba9876543210fedcba9876543210"
	numberGUID = "00000000000000001000000000000000"

	// damageHex is a placeholder word followed by 10, 20 and 30.
	damageHex = "00000000" + "0a000000" + "14000000" + "1e000000"
)
