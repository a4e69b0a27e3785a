package importer

import "fmt"

// Category is the closed set of equipment classification tags.
type Category string

// Category values, in the order they appear in the output.
const (
	CategoryBone     Category = "bone"
	CategoryBook     Category = "book"
	CategoryCurse    Category = "curse"
	CategoryHat      Category = "hat"
	CategoryBracelet Category = "bracelet"
	CategoryNecklace Category = "necklace"
	CategoryRing     Category = "ring"
	CategorySpell    Category = "spell"
	CategorySummon   Category = "summon"
	CategoryWand     Category = "wand"
)

// Categories lists every Category in canonical order.
var Categories = []Category{
	CategoryBone,
	CategoryBook,
	CategoryCurse,
	CategoryHat,
	CategoryBracelet,
	CategoryNecklace,
	CategoryRing,
	CategorySpell,
	CategorySummon,
	CategoryWand,
}

// ParseCategory returns the Category named by s.
//
// Postcondition: returns a member of Categories or a non-nil error.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Rank returns the position of c in Categories, or len(Categories) for an
// unknown value.
func (c Category) Rank() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return len(Categories)
}
