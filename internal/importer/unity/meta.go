package unity

import (
	"errors"
	"io/fs"
	"os"
)

// MetaSuffix is appended to an asset path to name its sidecar metadata file.
const MetaSuffix = ".meta"

// ReadGUID returns the guid recorded in the sidecar metadata file of the asset
// at assetPath (that is, assetPath + ".meta").
//
// Postcondition: returns a non-empty GUID, or a structural error (sidecar
// missing), format error (not a mapping) or field validation error (guid
// missing or not a string).
func ReadGUID(assetPath string) (string, error) {
	return readMetaGUID(assetPath + MetaSuffix)
}

func readMetaGUID(metaPath string) (string, error) {
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", structuralErr(metaPath, "sidecar metadata file is missing")
		}
		return "", &Error{Kind: KindStructural, Path: metaPath, Message: "reading sidecar metadata file", Cause: err}
	}
	root, err := parseMapping(data)
	if err != nil {
		return "", &Error{Kind: KindFormat, Path: metaPath, Message: "parsing sidecar metadata file", Cause: err}
	}
	node := lookup(root, "guid")
	guid, ok := scalarText(node)
	if !ok || guid == "" {
		return "", fieldErr(metaPath, "guid", "expected a non-empty string, got %s", describe(node))
	}
	return guid, nil
}
