package studio

import (
	"context"

	"watermark-studio/internal/domain"
)

type snapshotStore interface {
	Save(name string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error
	Load(name string) (domain.WatermarkSpec, domain.ExportJobConfig, error)
	Delete(name string) error
	ListNames() ([]string, error)
	SaveLastUsed(spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error
	LoadLastUsed() (domain.WatermarkSpec, domain.ExportJobConfig, error)
}

type exportDriver interface {
	ExportAll(ctx context.Context, sourcePaths []string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) (*domain.ExportReport, error)
}
