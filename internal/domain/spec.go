package domain

import (
	"math"
	"path/filepath"
	"strings"
)

const (
	MinOpacityPercent = 0
	MaxOpacityPercent = 100
	MinScalePercent   = 50
	MaxScalePercent   = 300

	DefaultOpacityPercent = 30
	DefaultScalePercent   = 100

	DefaultJPEGQuality = 85
)

// Anchor is the normalized position of the watermark text's top-left
// corner, relative to the image dimensions. Both components live in [0,1].
type Anchor struct {
	X float64
	Y float64
}

func (a Anchor) Clamped() Anchor {
	return Anchor{
		X: clampFloat(a.X, 0, 1),
		Y: clampFloat(a.Y, 0, 1),
	}
}

// WatermarkSpec is the single shared parameter set driving both the
// interactive preview and the batch export. It is passed around by value;
// the rendering side never mutates it.
type WatermarkSpec struct {
	Text           string
	OpacityPercent int
	ScalePercent   int
	Anchor         Anchor
}

func DefaultSpec() WatermarkSpec {
	return WatermarkSpec{
		Text:           "",
		OpacityPercent: DefaultOpacityPercent,
		ScalePercent:   DefaultScalePercent,
		Anchor:         Anchor{X: 0.98, Y: 0.98},
	}
}

// Clamped returns a copy with every field forced into its valid range.
// All setters go through this, so no consumer ever observes an
// out-of-range value.
func (s WatermarkSpec) Clamped() WatermarkSpec {
	s.OpacityPercent = clampInt(s.OpacityPercent, MinOpacityPercent, MaxOpacityPercent)
	s.ScalePercent = clampInt(s.ScalePercent, MinScalePercent, MaxScalePercent)
	s.Anchor = s.Anchor.Clamped()
	return s
}

// Alpha derives the 8-bit alpha channel value from the opacity percentage.
func (s WatermarkSpec) Alpha() uint8 {
	return uint8(math.Round(255 * float64(s.OpacityPercent) / 100))
}

type OutputFormat string

const (
	FormatPNG  OutputFormat = "PNG"
	FormatJPEG OutputFormat = "JPEG"
)

// Ext returns the file extension forced onto exported files.
func (f OutputFormat) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

func (f OutputFormat) Valid() bool {
	return f == FormatPNG || f == FormatJPEG
}

type NamingRule string

const (
	NamingKeep   NamingRule = "keep"
	NamingPrefix NamingRule = "prefix"
	NamingSuffix NamingRule = "suffix"
)

func (r NamingRule) Valid() bool {
	return r == NamingKeep || r == NamingPrefix || r == NamingSuffix
}

// ExportJobConfig describes one export run: where files go, which format
// they are encoded in and how output names are derived.
type ExportJobConfig struct {
	OutputDir  string
	Format     OutputFormat
	NamingRule NamingRule
	Prefix     string
	Suffix     string
}

func DefaultJobConfig() ExportJobConfig {
	return ExportJobConfig{
		Format:     FormatPNG,
		NamingRule: NamingKeep,
	}
}

// OutputName derives the output filename for a source path: the source
// stem with the naming rule applied and the extension forced to match the
// output format.
func (c ExportJobConfig) OutputName(sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	switch c.NamingRule {
	case NamingPrefix:
		if c.Prefix != "" {
			base = c.Prefix + base
		}
	case NamingSuffix:
		if c.Suffix != "" {
			base = base + c.Suffix
		}
	}

	return base + c.Format.Ext()
}

var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether the path carries a supported image
// extension, case-insensitive. The external collaborator feeding the
// image list is expected to pre-filter, but the session filters again.
func IsImageFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}
