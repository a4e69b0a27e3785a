package unity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogwitch-wiki/data/internal/importer"
	"github.com/dogwitch-wiki/data/internal/importer/unity"
)

func TestCategoryDirs_CoverEveryCategoryOnce(t *testing.T) {
	dirs := unity.CategoryDirs()
	require.Len(t, dirs, len(importer.Categories))
	seen := make(map[string]bool)
	for i, cd := range dirs {
		assert.Equal(t, importer.Categories[i], cd.Category)
		assert.False(t, seen[cd.Dir], "directory %q listed twice", cd.Dir)
		seen[cd.Dir] = true
	}
}

func TestCategoryDirs_ReturnsCopy(t *testing.T) {
	dirs := unity.CategoryDirs()
	dirs[0].Dir = "changed"
	assert.Equal(t, "bones", unity.CategoryDirs()[0].Dir)
}

func TestSpritesDirName(t *testing.T) {
	want := map[string]string{
		"bones":             "_bonesprites",
		"books":             "_booksprites",
		"curses":            "_cursesprites",
		"hats":              "_hatsprites",
		"jewelry-bracelets": "_braceletsprites",
		"jewelry-necklaces": "_necklacesprites",
		"jewelry-rings":     "_ringsprites",
		"spells":            "_spellsprites",
		"summons":           "_summonsprites",
		"wands":             "_wandsprites",
	}
	for _, cd := range unity.CategoryDirs() {
		got, err := unity.SpritesDirName(cd.Dir)
		require.NoError(t, err, cd.Dir)
		assert.Equal(t, want[cd.Dir], got, cd.Dir)
		assert.Equal(t, cd.Sprites, got, cd.Dir)
	}
}

func TestSpritesDirName_RejectsUnknownDir(t *testing.T) {
	for _, dir := range []string{"wand", "", "rings", "jewelry-anklets"} {
		_, err := unity.SpritesDirName(dir)
		require.Error(t, err, "dir %q", dir)
		assert.True(t, errors.Is(err, unity.ErrFieldValidation), "dir %q: %v", dir, err)
	}
}
