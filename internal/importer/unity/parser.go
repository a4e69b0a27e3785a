package unity

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dogwitch-wiki/data/internal/importer"
)

// ImageExt is appended to a sprite stem to name the exported image file.
const ImageExt = ".png"

// DamageLevels is the number of values a wand's damage ramp must decode to.
const DamageLevels = 3

// Field names read from the MonoBehaviour mapping of an equipment asset.
const (
	fieldBehaviour   = "MonoBehaviour"
	fieldName        = "equipmentName"
	fieldIcon        = "iconSprite"
	fieldIconGUID    = "iconSprite.guid"
	fieldDescription = "description"
	fieldCounterpart = "linkedCorruptionCounterpart"
	fieldCounterGUID = "linkedCorruptionCounterpart.guid"
	fieldCorrupted   = "IsCorrupted"
	fieldDamageRamp  = "damageRamp"
)

// Extractor turns one equipment asset file into one validated Record.
type Extractor struct {
	sprites *SpriteLocator
}

// NewExtractor returns an Extractor resolving icons through sprites.
//
// Precondition: sprites must be non-nil.
func NewExtractor(sprites *SpriteLocator) *Extractor {
	return &Extractor{sprites: sprites}
}

// Extract reads the asset at assetPath, which belongs to category and lives
// in the category directory categoryDir, and returns its Record.
//
// Validation runs in order: sidecar GUID, header removal, YAML parse,
// top-level mapping, MonoBehaviour mapping, fields, icon resolution and, for
// wands, damage decoding. The first failure is returned.
//
// Postcondition: returns a Record whose Type is category, or an *Error naming
// assetPath and the offending field.
func (x *Extractor) Extract(assetPath string, category importer.Category, categoryDir string) (importer.Record, error) {
	guid, err := ReadGUID(assetPath)
	if err != nil {
		return importer.Record{}, err
	}

	data, err := os.ReadFile(assetPath)
	if err != nil {
		return importer.Record{}, &Error{Kind: KindStructural, Path: assetPath, Message: "reading asset file", Cause: err}
	}
	body, err := StripHeader(string(data))
	if err != nil {
		return importer.Record{}, withLocation(err, assetPath, "")
	}
	root, err := parseMapping([]byte(body))
	if err != nil {
		return importer.Record{}, &Error{Kind: KindFormat, Path: assetPath, Message: "parsing asset body", Cause: err}
	}
	mb := lookup(root, fieldBehaviour)
	if mb == nil || mb.Kind != yaml.MappingNode {
		return importer.Record{}, formatErr(assetPath, fieldBehaviour, "expected a mapping, got %s", describe(mb))
	}

	rec := importer.Record{Type: category, GUID: guid, SourcePath: assetPath}

	nameNode := lookup(mb, fieldName)
	name, ok := scalarText(nameNode)
	if !ok || name == "" {
		return importer.Record{}, fieldErr(assetPath, fieldName, "expected a non-empty string, got %s", describe(nameNode))
	}
	rec.Name = name

	icon := lookup(mb, fieldIcon)
	if icon == nil || icon.Kind != yaml.MappingNode {
		return importer.Record{}, fieldErr(assetPath, fieldIcon, "expected a mapping, got %s", describe(icon))
	}
	iconGUIDNode := lookup(icon, "guid")
	iconGUID, ok := scalarText(iconGUIDNode)
	if !ok || iconGUID == "" {
		return importer.Record{}, fieldErr(assetPath, fieldIconGUID, "expected a non-empty string, got %s", describe(iconGUIDNode))
	}

	// Some items, such as the default empty bracelet, carry no description.
	descNode := lookup(mb, fieldDescription)
	if !isNull(descNode) {
		desc, ok := scalarText(descNode)
		if !ok {
			return importer.Record{}, fieldErr(assetPath, fieldDescription, "expected a string or null, got %s", describe(descNode))
		}
		rec.Description = desc
	}

	counterpart, err := readCounterpart(mb)
	if err != nil {
		return importer.Record{}, withLocation(err, assetPath, "")
	}
	rec.CounterpartGUID = counterpart

	corruptedNode := lookup(mb, fieldCorrupted)
	switch text, ok := scalarText(corruptedNode); {
	case ok && corruptedNode.ShortTag() == tagInt && text == "0":
		rec.Corrupted = false
	case ok && corruptedNode.ShortTag() == tagInt && text == "1":
		rec.Corrupted = true
	default:
		return importer.Record{}, fieldErr(assetPath, fieldCorrupted, "expected integer 0 or 1, got %s", describe(corruptedNode))
	}

	stem, err := x.sprites.Locate(categoryDir, iconGUID)
	if err != nil {
		return importer.Record{}, &Error{Kind: kindOf(err), Path: assetPath, Field: fieldIconGUID, Message: "resolving icon sprite", Cause: err}
	}
	rec.ImageFileName = stem + ImageExt

	if category == importer.CategoryWand {
		damage, err := readDamage(mb)
		if err != nil {
			return importer.Record{}, withLocation(err, assetPath, fieldDamageRamp)
		}
		rec.Damage = damage
	}

	return rec, nil
}

// readCounterpart returns the counterpart GUID, or nil when the reference is
// absent, null or carries no guid (Unity writes "{fileID: 0}" for none).
func readCounterpart(mb *yaml.Node) (*string, error) {
	node := lookup(mb, fieldCounterpart)
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fieldErr("", fieldCounterpart, "expected a mapping, got %s", describe(node))
	}
	guidNode := lookup(node, "guid")
	if guidNode == nil {
		return nil, nil
	}
	guid, ok := scalarText(guidNode)
	if !ok {
		return nil, fieldErr("", fieldCounterGUID, "expected a string, got %s", describe(guidNode))
	}
	return &guid, nil
}

func readDamage(mb *yaml.Node) (*[DamageLevels]uint32, error) {
	node := lookup(mb, fieldDamageRamp)
	text, ok := scalarText(node)
	if !ok {
		return nil, fieldErr("", fieldDamageRamp, "expected a hex string, got %s", describe(node))
	}
	values, err := DecodePackedUint32s(text)
	if err != nil {
		return nil, err
	}
	if len(values) != DamageLevels {
		return nil, &Error{Kind: KindDecode, Field: fieldDamageRamp, Message: fmt.Sprintf("expected %d damage levels, decoded %d", DamageLevels, len(values))}
	}
	var damage [DamageLevels]uint32
	copy(damage[:], values)
	return &damage, nil
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStructural
}
