// Package export applies one frozen watermark parameter set across a
// batch of source images and writes the results under configurable names
// and formats. One item's failure never aborts the run.
package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/render"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

// Mirror receives a copy of every successfully written output file.
// Mirror failures are logged and never surface in the run's report.
type Mirror interface {
	Upload(ctx context.Context, localPath, objectName string) error
}

type Driver struct {
	engine      *render.Engine
	mirror      Mirror
	logger      *zlog.Zerolog
	jpegQuality int
}

func NewDriver(engine *render.Engine, mirror Mirror, logger *zlog.Zerolog) *Driver {
	return &Driver{
		engine:      engine,
		mirror:      mirror,
		logger:      logger,
		jpegQuality: domain.DefaultJPEGQuality,
	}
}

// ExportAll runs the batch: it freezes the spec, verifies the output
// directory, then processes every source path independently and in order.
// Directory problems are fatal and reported before any file is touched;
// decode and write problems are per-item and collected into the report.
func (d *Driver) ExportAll(ctx context.Context, sourcePaths []string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) (*domain.ExportReport, error) {
	spec = spec.Clamped()

	report := &domain.ExportReport{RunID: uuid.New().String()}

	outDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrDirectory, cfg.OutputDir, err)
	}

	// Writing into any source's own directory would silently overwrite
	// originals, so the whole run is rejected up front.
	for _, src := range sourcePaths {
		srcDir, err := filepath.Abs(filepath.Dir(src))
		if err != nil {
			continue
		}
		if srcDir == outDir {
			return nil, fmt.Errorf("%w: output directory equals source directory of %s", domain.ErrDirectory, src)
		}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create %s: %v", domain.ErrDirectory, outDir, err)
	}

	d.logger.Info().
		Str("run_id", report.RunID).
		Str("output_dir", outDir).
		Int("sources", len(sourcePaths)).
		Msg("Export run started")

	for _, src := range sourcePaths {
		if err := d.exportOne(ctx, src, outDir, spec, cfg); err != nil {
			failure := domain.ExportFailure{
				Path:  src,
				Kind:  failureKind(err),
				Cause: err.Error(),
			}
			report.Failures = append(report.Failures, failure)
			d.logger.Warn().
				Str("run_id", report.RunID).
				Str("path", src).
				Str("kind", string(failure.Kind)).
				Err(err).
				Msg("Export item failed")
			continue
		}
		report.SuccessCount++
	}

	d.logger.Info().
		Str("run_id", report.RunID).
		Int("succeeded", report.SuccessCount).
		Int("failed", len(report.Failures)).
		Msg("Export run finished")

	return report, nil
}

func (d *Driver) exportOne(ctx context.Context, src, outDir string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	out := d.engine.Render(img, spec)

	format := cfg.Format
	explicit := format.Valid()
	if !explicit {
		format = formatForSource(src)
	}

	outPath := filepath.Join(outDir, outputName(src, cfg, format))
	if err := d.writeFile(outPath, out, format); err != nil {
		if explicit || format == domain.FormatPNG {
			return err
		}
		// No format was forced for this run, so retry once as PNG with
		// the same basename.
		outPath = filepath.Join(outDir, outputName(src, cfg, domain.FormatPNG))
		if err := d.writeFile(outPath, out, domain.FormatPNG); err != nil {
			return err
		}
	}

	if d.mirror != nil {
		if err := d.mirror.Upload(ctx, outPath, filepath.Base(outPath)); err != nil {
			d.logger.Warn().Err(err).Str("path", outPath).Msg("Mirror upload failed")
		}
	}

	return nil
}

func (d *Driver) writeFile(path string, img *image.NRGBA, format domain.OutputFormat) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}

	switch format {
	case domain.FormatJPEG:
		err = jpeg.Encode(f, render.Flatten(img), &jpeg.Options{Quality: d.jpegQuality})
	default:
		err = png.Encode(f, img)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("%w: %v", domain.ErrWrite, err)
	}
	return nil
}

func outputName(src string, cfg domain.ExportJobConfig, format domain.OutputFormat) string {
	cfg.Format = format
	return cfg.OutputName(src)
}

func formatForSource(src string) domain.OutputFormat {
	switch strings.ToLower(filepath.Ext(src)) {
	case ".jpg", ".jpeg":
		return domain.FormatJPEG
	default:
		return domain.FormatPNG
	}
}

func failureKind(err error) domain.ErrorKind {
	if errors.Is(err, domain.ErrWrite) {
		return domain.KindWrite
	}
	return domain.KindDecode
}
