package unity_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dogwitch-wiki/data/internal/importer/unity"
)

func TestReadGUID(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "Club.asset")
	writeFile(t, asset+unity.MetaSuffix, metaFile(itemGUID))

	guid, err := unity.ReadGUID(asset)
	require.NoError(t, err)
	assert.Equal(t, itemGUID, guid)
}

func TestReadGUID_KeepsDigitsVerbatim(t *testing.T) {
	dir := t.TempDir()
	asset := filepath.Join(dir, "Club.asset")
	writeFile(t, asset+unity.MetaSuffix, metaFile(numberGUID))

	guid, err := unity.ReadGUID(asset)
	require.NoError(t, err)
	assert.Equal(t, numberGUID, guid)
}

func TestReadGUID_Failures(t *testing.T) {
	cases := []struct {
		name string
		meta string // empty: no sidecar written
		want error
	}{
		{"missing sidecar", "", unity.ErrStructural},
		{"not yaml", "guid: [unclosed\n", unity.ErrFormat},
		{"not a mapping", "- a\n- b\n", unity.ErrFormat},
		{"guid missing", "fileFormatVersion: 2\n", unity.ErrFieldValidation},
		{"guid null", "guid:\n", unity.ErrFieldValidation},
		{"guid not scalar", "guid: {a: b}\n", unity.ErrFieldValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			asset := filepath.Join(t.TempDir(), "Item.asset")
			if tc.meta != "" {
				writeFile(t, asset+unity.MetaSuffix, tc.meta)
			}
			_, err := unity.ReadGUID(asset)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.Contains(t, err.Error(), asset+unity.MetaSuffix)
		})
	}
}
