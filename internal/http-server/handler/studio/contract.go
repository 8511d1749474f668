package studio

import (
	"context"
	"image"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/placement"
)

type studioSession interface {
	SetImages(paths []string) ([]string, error)
	Images() []string
	SelectPreview(path string) error
	SetSurface(w, h int)

	Spec() domain.WatermarkSpec
	SetText(text string) error
	SetOpacity(percent int) error
	SetScale(percent int) error
	SetAnchor(normX, normY float64) error
	ApplyPreset(pos placement.Position) error

	JobConfig() domain.ExportJobConfig
	SetJobConfig(cfg domain.ExportJobConfig) error

	Press(x, y float64) error
	Move(x, y float64) error
	Release() error

	RenderPreview() (image.Image, error)
	ThumbnailFor(path string) (image.Image, error)

	Export(ctx context.Context) (*domain.ExportReport, error)

	SaveSnapshot(name string) error
	LoadSnapshot(name string) error
	DeleteSnapshot(name string) error
	ListSnapshots() ([]string, error)
}
