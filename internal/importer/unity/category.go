package unity

import (
	"path/filepath"

	"github.com/dogwitch-wiki/data/internal/importer"
)

// EquipmentDir is the equipment tree, relative to the extracted-files root.
var EquipmentDir = filepath.Join("ExportedProject", "Assets", "Resources", "equipment")

// CategoryDir pairs a category with the subdirectory of EquipmentDir holding
// its assets and the subdirectory of that holding its sprites.
type CategoryDir struct {
	Category importer.Category
	Dir      string
	Sprites  string
}

// categoryDirs is a closed bijection between importer.Categories and
// directory names, listed in importer.Categories order.
var categoryDirs = []CategoryDir{
	{importer.CategoryBone, "bones", "_bonesprites"},
	{importer.CategoryBook, "books", "_booksprites"},
	{importer.CategoryCurse, "curses", "_cursesprites"},
	{importer.CategoryHat, "hats", "_hatsprites"},
	{importer.CategoryBracelet, "jewelry-bracelets", "_braceletsprites"},
	{importer.CategoryNecklace, "jewelry-necklaces", "_necklacesprites"},
	{importer.CategoryRing, "jewelry-rings", "_ringsprites"},
	{importer.CategorySpell, "spells", "_spellsprites"},
	{importer.CategorySummon, "summons", "_summonsprites"},
	{importer.CategoryWand, "wands", "_wandsprites"},
}

// CategoryDirs returns the category table in canonical order.
func CategoryDirs() []CategoryDir {
	out := make([]CategoryDir, len(categoryDirs))
	copy(out, categoryDirs)
	return out
}

// SpritesDirName returns the name of the sprites subdirectory that sits inside
// the category directory named categoryDir: "jewelry-rings" has
// "_ringsprites", "wands" has "_wandsprites".
//
// Postcondition: returns a non-empty name, or a field validation error when
// categoryDir is not in the category table.
func SpritesDirName(categoryDir string) (string, error) {
	for _, cd := range categoryDirs {
		if cd.Dir == categoryDir {
			return cd.Sprites, nil
		}
	}
	return "", fieldErr(categoryDir, "directory", "%q is not a known category directory", categoryDir)
}
