package importer

import (
	"context"
	"sort"
)

// Record is one extracted equipment item. Its JSON tags are the schema of
// equipment.json, which is a flat array of Records.
type Record struct {
	Type          Category `json:"type"`
	GUID          string   `json:"guid"`
	Name          string   `json:"name"`
	Corrupted     bool     `json:"corrupted"`
	Description   string   `json:"description"`
	ImageFileName string   `json:"imageFileName"`
	// CounterpartGUID is nil when the item has no linked corruption counterpart.
	CounterpartGUID *string `json:"counterpartGUID,omitempty"`
	// Damage holds the three per-level damage values and is set only for wands.
	Damage *[3]uint32 `json:"damage,omitempty"`
	// SourcePath is the asset file the record was read from. It is not serialised.
	SourcePath string `json:"-"`
}

// Source loads equipment records from a format-specific extracted-files tree.
//
// Precondition: extractedRoot must exist and contain the layout the source expects.
// Postcondition: returns every record of the corpus, or a non-nil error
// describing every file that failed.
type Source interface {
	Load(ctx context.Context, extractedRoot string) ([]Record, error)
}

// SortRecords orders records by category rank, then name, then GUID.
//
// Postcondition: the order depends only on record contents, never on the
// directory traversal order that produced them.
func SortRecords(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ra, rb := a.Type.Rank(), b.Type.Rank(); ra != rb {
			return ra < rb
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.GUID < b.GUID
	})
}

// ImageFileNames returns the distinct image file names referenced by records,
// in first-seen order.
func ImageFileNames(records []Record) []string {
	seen := make(map[string]bool, len(records))
	var names []string
	for _, r := range records {
		if r.ImageFileName == "" || seen[r.ImageFileName] {
			continue
		}
		seen[r.ImageFileName] = true
		names = append(names, r.ImageFileName)
	}
	return names
}
