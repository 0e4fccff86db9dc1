package font

import "errors"

import "golang.org/x/image/font/sfnt"

// Returned when a font property is missing.
var ErrNotFound = errors.New("font property not found or empty")

// Returns the requested font property for the given font. If the
// property is missing, [ErrNotFound] will be returned.
func GetProperty(font *sfnt.Font, property sfnt.NameID) (string, error) {
	var buffer sfnt.Buffer
	str, err := font.Name(&buffer, property)
	if errors.Is(err, sfnt.ErrNotFound) { return "", ErrNotFound }
	return str, err
}

// Returns the full name of the given font (e.g. "Go Bold").
func GetName(font *sfnt.Font) (string, error) {
	return GetProperty(font, sfnt.NameIDFull)
}

// Returns the family name of the given font (e.g. "Go").
func GetFamily(font *sfnt.Font) (string, error) {
	return GetProperty(font, sfnt.NameIDFamily)
}

// Returns the runes in the given text that can't be represented by the
// font. If runes are repeated in the input text, the returned slice may
// contain them multiple times too. Line breaks are never reported.
//
// Meshes generated for text with missing runes show the font's notdef
// glyph instead, so it's good practice to check dynamically loaded
// fonts with this function.
func GetMissingRunes(font *sfnt.Font, text string) ([]rune, error) {
	var buffer sfnt.Buffer
	missing := make([]rune, 0)
	for _, codePoint := range text {
		if codePoint == '\n' { continue }
		index, err := font.GlyphIndex(&buffer, codePoint)
		if err != nil { return missing, err }
		if index == 0 { missing = append(missing, codePoint) }
	}
	return missing, nil
}
