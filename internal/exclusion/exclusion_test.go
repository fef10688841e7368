package exclusion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet_SubstringMatching(t *testing.T) {
	s := NewSet([]string{"brand"})

	assert.True(t, s.Excludes("brand"))
	assert.True(t, s.Excludes("brand xyz login"))
	assert.True(t, s.Excludes("my brandname store")) // substring, not word match
	assert.False(t, s.Excludes("generic keyword"))
	assert.False(t, s.Excludes(""))
}

func TestSet_CaseFolded(t *testing.T) {
	s := NewSet([]string{"ACME"})
	assert.True(t, s.Excludes("acme login"))
	assert.True(t, s.Excludes("Acme Support"))
}

func TestSet_AddRemove(t *testing.T) {
	s := NewSet(nil)

	assert.True(t, s.Add("Term"))
	assert.False(t, s.Add("term")) // duplicate after folding
	assert.False(t, s.Add("  "))   // blank ignored
	assert.Equal(t, 1, s.Len())

	assert.True(t, s.Remove("TERM"))
	assert.False(t, s.Remove("term"))
	assert.Equal(t, 0, s.Len())
}

func TestSet_TermsSorted(t *testing.T) {
	s := NewSet([]string{"zebra", "apple", "mango"})
	assert.Equal(t, []string{"apple", "mango", "zebra"}, s.Terms())
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded.txt")
	fs := NewFileStore(path)

	set := NewSet([]string{"Brand", "competitor", "brand"})
	require.NoError(t, fs.Save(set))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "competitor"}, loaded.Terms())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "brand\ncompetitor\n", string(data))
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "nope.txt"))
	set, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestFileStore_SaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "excluded.txt")
	fs := NewFileStore(path)
	require.NoError(t, fs.Save(NewSet([]string{"term"})))

	loaded, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Len())
}
