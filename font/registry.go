package font

import "io/fs"
import "sort"
import "errors"
import "path/filepath"

import "golang.org/x/image/font/sfnt"
import "golang.org/x/image/font/gofont/gobold"
import "golang.org/x/image/font/gofont/goitalic"
import "golang.org/x/image/font/gofont/gomono"
import "golang.org/x/image/font/gofont/goregular"

// Font identity assigned by a [Registry]. Zero is never assigned,
// so it can be used as "no font".
type ID uint32

// The rendering material associated to a registered font. Renderer
// sinks can use materials to group draws and pick their textures and
// blending settings.
type Material struct {
	Font ID
	Name string
}

// A font registered in a [Registry]. Handles are immutable once
// created and can be passed around freely.
type Handle struct {
	ID       ID
	Name     string
	Font     *sfnt.Font
	Material Material
}

// An error returned by the registry methods when a font is not added
// because its name is already present.
var ErrAlreadyPresent = errors.New("font already present in the registry")

// Returned by [Registry.Default]() when the registry is empty.
var ErrNoDefault = errors.New("no default font available")

// Returned by [Registry.SetDefault]() when the font name is unknown.
var ErrUnknownFont = errors.New("font not found in the registry")

// Special error that can be used with [Registry.Each]() to break
// early. When used, the function will return early but still return
// a nil error.
var ErrBreakEach = errors.New("Each() early break")

// A collection of fonts accessible by name, each with its own
// identity and material.
//
// A registry doesn't know about system fonts, but it can load the
// bundled Go fonts with [Registry.RegisterGoFonts]().
type Registry struct {
	handles map[string]*Handle
	lastID ID
	defaultName string
}

// Creates a new, empty font [Registry].
func NewRegistry() *Registry {
	return &Registry {
		handles: make(map[string]*Handle),
	}
}

// Returns the current number of fonts in the registry.
func (self *Registry) Size() int { return len(self.handles) }

// Finds out whether a font with the given name exists in the registry.
func (self *Registry) HasFont(name string) bool {
	_, found := self.handles[name]
	return found
}

// Returns the handle for the font with the given name, or nil if
// not found.
func (self *Registry) Get(name string) *Handle {
	handle, found := self.handles[name]
	if found { return handle }
	return nil
}

// Adds the given font into the registry and returns its handle. If
// the given font is nil, the method will panic. If another font with
// the same name was already present, the existing handle is returned
// along [ErrAlreadyPresent].
func (self *Registry) Register(font *sfnt.Font) (*Handle, error) {
	if font == nil { panic("nil font") }
	name, err := GetName(font)
	if err != nil { return nil, err }
	return self.addNewFont(font, name)
}

// Parses the given font bytes and registers the font. The bytes must
// not be modified while the font is in use.
func (self *Registry) ParseFromBytes(fontBytes []byte) (*Handle, error) {
	font, name, err := ParseFromBytes(fontBytes)
	if err != nil { return nil, err }
	return self.addNewFont(font, name)
}

// Parses the .ttf or .otf font at the given path and registers it.
func (self *Registry) ParseFromPath(path string) (*Handle, error) {
	font, name, err := ParseFromPath(path)
	if err != nil { return nil, err }
	return self.addNewFont(font, name)
}

// The equivalent of [Registry.ParseFromPath]() for filesystems.
// This is mainly provided to support [embed.FS] and embedded fonts.
func (self *Registry) ParseFromFS(filesys fs.FS, path string) (*Handle, error) {
	font, name, err := ParseFromFS(filesys, path)
	if err != nil { return nil, err }
	return self.addNewFont(font, name)
}

// Walks the given directory non-recursively and registers all the .ttf
// and .otf fonts in it. Returns the number of fonts added, the number of
// fonts skipped (when a font with the same name already exists) and any
// error that might happen during the process.
func (self *Registry) ParseAllFromPath(dirName string) (added, skipped int, err error) {
	absDirPath, err := filepath.Abs(dirName)
	if err != nil { return 0, 0, err }

	err = filepath.WalkDir(absDirPath,
		func(path string, info fs.DirEntry, err error) error {
			if err != nil { return err }
			if info.IsDir() {
				if path == absDirPath { return nil }
				return fs.SkipDir
			}
			if !hasValidFontExtension(path) { return nil }
			_, err = self.ParseFromPath(path)
			if errors.Is(err, ErrAlreadyPresent) {
				skipped += 1
				return nil
			}
			if err == nil { added += 1 }
			return err
		})
	return added, skipped, err
}

// The equivalent of [Registry.ParseAllFromPath]() for filesystems.
func (self *Registry) ParseAllFromFS(filesys fs.FS, dirName string) (added, skipped int, err error) {
	entries, err := fs.ReadDir(filesys, dirName)
	if err != nil { return 0, 0, err }

	if dirName == "." {
		dirName = ""
	} else if len(dirName) == 0 || dirName[len(dirName) - 1] != '/' {
		dirName += "/"
	}

	for _, entry := range entries {
		if entry.IsDir() { continue }
		if !hasValidFontExtension(entry.Name()) { continue }
		_, err = self.ParseFromFS(filesys, dirName + entry.Name())
		if errors.Is(err, ErrAlreadyPresent) {
			skipped += 1
			continue
		}
		if err != nil { return added, skipped, err }
		added += 1
	}
	return added, skipped, nil
}

// Registers the Go fonts bundled with golang.org/x/image (regular,
// bold, italic and mono, in that order). Fonts already present are
// skipped. Returns the number of fonts added.
func (self *Registry) RegisterGoFonts() (int, error) {
	added := 0
	for _, fontBytes := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gomono.TTF} {
		_, err := self.ParseFromBytes(fontBytes)
		if errors.Is(err, ErrAlreadyPresent) { continue }
		if err != nil { return added, err }
		added += 1
	}
	return added, nil
}

// Returns false if the font can't be removed due to not being found.
// Handles already given out remain valid, and the removed font's ID
// is never assigned again.
func (self *Registry) Remove(name string) bool {
	_, found := self.handles[name]
	if !found { return false }
	delete(self.handles, name)
	if self.defaultName == name { self.defaultName = "" }
	return true
}

// Calls the given function for each font in the registry, in
// registration order.
//
// If the given function returns a non-nil error, the method will
// immediately stop and return that error, with the only exception
// of [ErrBreakEach].
func (self *Registry) Each(handleFunc func(*Handle) error) error {
	for _, handle := range self.sortedHandles() {
		err := handleFunc(handle)
		if err != nil {
			if errors.Is(err, ErrBreakEach) { return nil }
			return err
		}
	}
	return nil
}

// Sets the font to be returned by [Registry.Default]().
func (self *Registry) SetDefault(name string) error {
	if !self.HasFont(name) { return ErrUnknownFont }
	self.defaultName = name
	return nil
}

// Returns the font set with [Registry.SetDefault]() or, if none was
// set, the earliest registered font still present.
func (self *Registry) Default() (*Handle, error) {
	if self.defaultName != "" {
		return self.handles[self.defaultName], nil
	}
	var oldest *Handle
	for _, handle := range self.handles {
		if oldest == nil || handle.ID < oldest.ID { oldest = handle }
	}
	if oldest == nil { return nil, ErrNoDefault }
	return oldest, nil
}

func (self *Registry) addNewFont(font *sfnt.Font, name string) (*Handle, error) {
	if handle, found := self.handles[name]; found {
		return handle, ErrAlreadyPresent
	}
	self.lastID += 1
	handle := &Handle{
		ID: self.lastID,
		Name: name,
		Font: font,
		Material: Material{ Font: self.lastID, Name: name + " Material" },
	}
	self.handles[name] = handle
	return handle, nil
}

func (self *Registry) sortedHandles() []*Handle {
	handles := make([]*Handle, 0, len(self.handles))
	for _, handle := range self.handles {
		handles = append(handles, handle)
	}
	sort.Slice(handles, func(i, j int) bool { return handles[i].ID < handles[j].ID })
	return handles
}
