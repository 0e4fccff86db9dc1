package font

import "os"
import "errors"
import "testing"
import "testing/fstest"
import "path/filepath"

import "golang.org/x/image/font/sfnt"
import "golang.org/x/image/font/gofont/gobold"
import "golang.org/x/image/font/gofont/goregular"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestRegistryRegister(t *testing.T) {
	fonts := NewRegistry()
	assert.Equal(t, 0, fonts.Size())
	_, err := fonts.Default()
	assert.ErrorIs(t, err, ErrNoDefault)

	regular, err := fonts.ParseFromBytes(goregular.TTF)
	require.NoError(t, err)
	bold, err := fonts.ParseFromBytes(gobold.TTF)
	require.NoError(t, err)

	assert.Equal(t, 2, fonts.Size())
	assert.NotEqual(t, regular.ID, bold.ID)
	assert.NotEqual(t, ID(0), regular.ID)
	assert.Equal(t, regular.ID, regular.Material.Font)
	assert.NotEmpty(t, regular.Material.Name)
	assert.True(t, fonts.HasFont(regular.Name))
	assert.Same(t, bold, fonts.Get(bold.Name))
	assert.Nil(t, fonts.Get("SurelyYouDontNameYourFontsLikeThis_"))

	again, err := fonts.ParseFromBytes(goregular.TTF)
	assert.ErrorIs(t, err, ErrAlreadyPresent)
	assert.Same(t, regular, again)

	_, err = fonts.ParseFromBytes([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Error(t, err)
	assert.Panics(t, func() { fonts.Register(nil) })
}

func TestRegistryDefault(t *testing.T) {
	fonts := NewRegistry()
	added, err := fonts.RegisterGoFonts()
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	added, err = fonts.RegisterGoFonts()
	require.NoError(t, err)
	assert.Equal(t, 0, added)

	var order []*Handle
	require.NoError(t, fonts.Each(func(handle *Handle) error {
		order = append(order, handle)
		return nil
	}))
	require.Len(t, order, 4)

	first, err := fonts.Default()
	require.NoError(t, err)
	assert.Same(t, order[0], first)

	assert.ErrorIs(t, fonts.SetDefault("missing"), ErrUnknownFont)
	require.NoError(t, fonts.SetDefault(order[2].Name))
	current, err := fonts.Default()
	require.NoError(t, err)
	assert.Same(t, order[2], current)

	// removing the default falls back to the oldest font
	assert.True(t, fonts.Remove(order[2].Name))
	assert.False(t, fonts.Remove(order[2].Name))
	current, err = fonts.Default()
	require.NoError(t, err)
	assert.Same(t, order[0], current)

	// identities are never reused
	reAdded, err := fonts.Register(order[2].Font)
	require.NoError(t, err)
	assert.Greater(t, reAdded.ID, order[3].ID)
}

func TestRegistryEachBreak(t *testing.T) {
	fonts := NewRegistry()
	_, err := fonts.RegisterGoFonts()
	require.NoError(t, err)

	visited := 0
	err = fonts.Each(func(*Handle) error {
		visited += 1
		return ErrBreakEach
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, visited)

	custom := errors.New("custom")
	err = fonts.Each(func(*Handle) error { return custom })
	assert.ErrorIs(t, err, custom)
}

func TestRegistryParseAll(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regular.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bold.otf"), gobold.TTF, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "dup.ttf"), goregular.TTF, 0o644))

	fonts := NewRegistry()
	added, skipped, err := fonts.ParseAllFromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, skipped)

	filesys := fstest.MapFS{
		"fonts/a.ttf": &fstest.MapFile{ Data: goregular.TTF },
		"fonts/b.ttf": &fstest.MapFile{ Data: gobold.TTF },
		"fonts/c.png": &fstest.MapFile{ Data: []byte{0} },
	}
	added, skipped, err = fonts.ParseAllFromFS(filesys, "fonts")
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 2, skipped)

	other := NewRegistry()
	added, skipped, err = other.ParseAllFromFS(filesys, "fonts/")
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, skipped)

	_, err = other.ParseFromFS(filesys, "fonts/c.png")
	assert.ErrorIs(t, err, ErrInvalidPath)
	_, err = other.ParseFromPath(filepath.Join(dir, "missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFontProperties(t *testing.T) {
	regular, err := sfnt.Parse(goregular.TTF)
	require.NoError(t, err)

	name, err := GetName(regular)
	require.NoError(t, err)
	assert.NotEmpty(t, name)
	family, err := GetFamily(regular)
	require.NoError(t, err)
	assert.Contains(t, name, family)

	_, err = GetProperty(regular, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	missing, err := GetMissingRunes(regular, "Hello\nworld")
	require.NoError(t, err)
	assert.Empty(t, missing)
	missing, err = GetMissingRunes(regular, "a\U0001F600b")
	require.NoError(t, err)
	assert.Equal(t, []rune{'\U0001F600'}, missing)
}

func TestHasValidFontExtension(t *testing.T) {
	for path, expected := range map[string]bool{
		"a.ttf": true, "dir/b.otf": true, ".ttf": true,
		"ttf": false, "a.tff": false, "a.ttc": false, "a.png": false, "": false,
	} {
		assert.Equal(t, expected, hasValidFontExtension(path), path)
	}
}
