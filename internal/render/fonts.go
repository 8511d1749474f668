package render

import (
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// FontResolver probes a configured list of font files and yields the first
// one that parses. Which candidates to probe is a configuration concern;
// a missing or unreadable font is never an error, the built-in Go Regular
// face covers the gap. Glyphs the fallback cannot render come out garbled,
// which is acceptable; failing the render is not.
type FontResolver struct {
	candidates []string
}

func NewFontResolver(candidates []string) *FontResolver {
	return &FontResolver{candidates: candidates}
}

// Resolve returns the first usable candidate font, or the built-in
// fallback. It never fails.
func (r *FontResolver) Resolve() *truetype.Font {
	for _, path := range r.candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			continue
		}
		return f
	}
	return FallbackFont()
}

// FallbackFont parses the embedded Go Regular face. goregular.TTF is a
// known-good blob, so the parse cannot fail at runtime.
func FallbackFont() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil
	}
	return f
}
