package font

import "os"
import "io"
import "io/fs"
import "errors"
import "fmt"

import "golang.org/x/image/font/sfnt"

// Returned when trying to parse a font from a path that doesn't end
// in .ttf or .otf.
var ErrInvalidPath = errors.New("font path must end in .ttf or .otf")

// Similar to [sfnt.Parse](), but also including the font name in the
// returned values. The bytes must not be modified while the font is
// in use.
//
// [sfnt.Parse]: https://pkg.go.dev/golang.org/x/image/font/sfnt#Parse
func ParseFromBytes(fontBytes []byte) (*sfnt.Font, string, error) {
	newFont, err := sfnt.Parse(fontBytes)
	if err != nil { return nil, "", err }
	fontName, err := GetName(newFont)
	if err != nil { return nil, "", err }
	return newFont, fontName, nil
}

// Parses the font at the given filepath and returns it along its name.
// Supported formats are .ttf and .otf.
func ParseFromPath(path string) (*sfnt.Font, string, error) {
	if !hasValidFontExtension(path) {
		return nil, "", fmt.Errorf("%w: '%s'", ErrInvalidPath, path)
	}
	file, err := os.Open(path)
	if err != nil { return nil, "", err }
	return parseFontFileAndClose(file)
}

// Same as [ParseFromPath](), but for embedded filesystems.
func ParseFromFS(filesys fs.FS, path string) (*sfnt.Font, string, error) {
	if !hasValidFontExtension(path) {
		return nil, "", fmt.Errorf("%w: '%s'", ErrInvalidPath, path)
	}
	file, err := filesys.Open(path)
	if err != nil { return nil, "", err }
	return parseFontFileAndClose(file)
}

// ---- helpers ----

func parseFontFileAndClose(file io.ReadCloser) (*sfnt.Font, string, error) {
	fontBytes, err := io.ReadAll(file)
	if err != nil {
		_ = file.Close()
		return nil, "", err
	}
	err = file.Close()
	if err != nil { return nil, "", err }
	return ParseFromBytes(fontBytes)
}

// Whether the font path ends in .ttf or .otf.
func hasValidFontExtension(path string) bool {
	if len(path) < 4 { return false }
	if path[len(path) - 4] != '.' { return false }
	if path[len(path) - 2] != 't' || path[len(path) - 1] != 'f' { return false }
	third := path[len(path) - 3]
	return third == 't' || third == 'o'
}
