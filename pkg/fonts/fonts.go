// Package fonts locates and loads TrueType fonts for raster rendering.
//
// Outline text is frequently multilingual, so the package first searches the
// system for a font with wide glyph coverage (CJK-capable families are tried
// before plain Latin ones). When no system font can be found, the Go Regular
// font bundled with golang.org/x/image is used, making rendering work without
// any external font files at the cost of reduced glyph coverage.
//
// Parsed fonts and derived faces are cached after first load.
package fonts

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	mterrors "github.com/matzehuels/mindtower/pkg/errors"
)

// candidates are searched in order. Families with CJK coverage come first so
// that mixed-script outlines render without tofu boxes.
var candidates = []string{
	"NotoSansCJK-Regular.ttc",
	"NotoSansCJKsc-Regular.otf",
	"SourceHanSansSC-Regular.otf",
	"wqy-zenhei.ttc",
	"wqy-microhei.ttc",
	"DroidSansFallbackFull.ttf",
	"PingFang.ttc",
	"Hiragino Sans GB.ttc",
	"msyh.ttc",
	"simhei.ttf",
	"DejaVuSans.ttf",
	"Arial.ttf",
	"arial.ttf",
}

var (
	loadOnce   sync.Once
	loadedFont *truetype.Font
	loadedName string
	loadErr    error

	facesMu sync.Mutex
	faces   map[float64]font.Face
)

// Load returns the parsed default font, searching the system candidate list
// first and falling back to the embedded Go Regular font. The result is
// cached for the lifetime of the process.
func Load() (*truetype.Font, error) {
	loadOnce.Do(func() {
		loadedFont, loadedName, loadErr = locate()
	})
	return loadedFont, loadErr
}

// Name returns the resolved font name, or "Go Regular" when the embedded
// fallback is in use. It forces a load if one has not happened yet.
func Name() string {
	if _, err := Load(); err != nil {
		return ""
	}
	return loadedName
}

// Face returns a font.Face for the default font at the given point size.
// Faces are cached per size; callers must not close them.
func Face(size float64) (font.Face, error) {
	f, err := Load()
	if err != nil {
		return nil, err
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if faces == nil {
		faces = make(map[float64]font.Face)
	}
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	faces[size] = face
	return face, nil
}

func locate() (*truetype.Font, string, error) {
	for _, name := range candidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			// TTC collections and OTF/CFF outlines are not parseable by
			// freetype; skip to the next candidate.
			continue
		}
		return f, name, nil
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, "", mterrors.Wrap(mterrors.ErrCodeFont, err, "embedded fallback font is corrupt")
	}
	return f, "Go Regular", nil
}
