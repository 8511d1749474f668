// Package studio owns the interactive session state: the live watermark
// spec, the imported image list and the preview selection. Every entry
// point any event-loop binding needs goes through here; the session
// serializes them, so the core below stays single-threaded.
package studio

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/placement"
	"watermark-studio/internal/preview"
	"watermark-studio/internal/render"

	"github.com/wb-go/wbf/zlog"
)

type Session struct {
	mu      sync.Mutex
	machine placement.Machine
	engine  *render.Engine
	store   snapshotStore
	driver  exportDriver
	logger  *zlog.Zerolog

	spec   domain.WatermarkSpec
	jobCfg domain.ExportJobConfig

	images      []string
	previewPath string
	previewW    int
	previewH    int
	surfaceW    int
	surfaceH    int

	thumbSize int
	exporting bool
}

func NewSession(engine *render.Engine, store snapshotStore, driver exportDriver, thumbSize int, logger *zlog.Zerolog) *Session {
	return &Session{
		engine:    engine,
		store:     store,
		driver:    driver,
		logger:    logger,
		spec:      domain.DefaultSpec(),
		jobCfg:    domain.DefaultJobConfig(),
		thumbSize: thumbSize,
	}
}

// RestoreLastUsed loads the reserved last-used snapshot. A missing or
// corrupt record keeps the defaults; that is normal on first start.
func (s *Session) RestoreLastUsed() {
	spec, cfg, err := s.store.LoadLastUsed()
	if err != nil {
		s.logger.Info().Err(err).Msg("No last-used settings restored")
		return
	}

	s.mu.Lock()
	s.spec = spec
	s.jobCfg = cfg
	s.mu.Unlock()
	s.logger.Info().Msg("Last-used settings restored")
}

// PersistLastUsed writes the reserved last-used snapshot. Called once on
// normal shutdown, never mid-session.
func (s *Session) PersistLastUsed() {
	s.mu.Lock()
	spec, cfg := s.spec, s.jobCfg
	s.mu.Unlock()

	if err := s.store.SaveLastUsed(spec, cfg); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist last-used settings")
	}
}

// SetImages replaces the image list with the supplied sequence, filtered
// to supported extensions and deduplicated in order. The collaborator is
// expected to pre-filter; the session filters again anyway.
func (s *Session) SetImages(paths []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return nil, ErrExportInProgress
	}

	seen := make(map[string]bool, len(paths))
	accepted := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" || seen[p] || !domain.IsImageFile(p) {
			continue
		}
		seen[p] = true
		accepted = append(accepted, p)
	}

	s.images = accepted
	if s.previewPath != "" && !seen[s.previewPath] {
		s.previewPath = ""
		s.previewW, s.previewH = 0, 0
	}
	return accepted, nil
}

func (s *Session) Images() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.images))
	copy(out, s.images)
	return out
}

// SelectPreview reloads the preview surface around the given image: its
// dimensions feed the display geometry until the next selection.
func (s *Session) SelectPreview(path string) error {
	if !domain.IsImageFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrExportInProgress
	}
	s.previewPath = path
	s.previewW, s.previewH = cfg.Width, cfg.Height
	return nil
}

// SetSurface records the current preview widget size. The display rect is
// recomputed from it on every pointer event and render, never cached.
func (s *Session) SetSurface(w, h int) {
	s.mu.Lock()
	s.surfaceW, s.surfaceH = w, h
	s.mu.Unlock()
}

func (s *Session) Spec() domain.WatermarkSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

func (s *Session) JobConfig() domain.ExportJobConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobCfg
}

func (s *Session) SetText(text string) error {
	return s.mutate(func() { s.spec.Text = text })
}

func (s *Session) SetOpacity(percent int) error {
	return s.mutate(func() { s.spec.OpacityPercent = percent })
}

func (s *Session) SetScale(percent int) error {
	return s.mutate(func() { s.spec.ScalePercent = percent })
}

func (s *Session) SetAnchor(normX, normY float64) error {
	return s.mutate(func() { s.spec.Anchor = domain.Anchor{X: normX, Y: normY} })
}

// ApplyPreset sets one of the nine fixed anchors, subject to the same
// clamp-and-redraw contract as drag-derived anchors.
func (s *Session) ApplyPreset(pos placement.Position) error {
	anchor, ok := placement.PresetAnchor(pos)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, pos)
	}
	return s.mutate(func() { s.spec.Anchor = anchor })
}

func (s *Session) SetJobConfig(cfg domain.ExportJobConfig) error {
	if !cfg.Format.Valid() {
		cfg.Format = domain.FormatPNG
	}
	if !cfg.NamingRule.Valid() {
		cfg.NamingRule = domain.NamingKeep
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrExportInProgress
	}
	s.jobCfg = cfg
	return nil
}

// Press, Move and Release feed pointer events into the placement state
// machine. Coordinates are in preview-surface space.
func (s *Session) Press(x, y float64) error {
	return s.pointer(func(lay placement.Layout) {
		s.spec = s.machine.OnPress(x, y, s.spec, lay)
	})
}

func (s *Session) Move(x, y float64) error {
	return s.pointer(func(lay placement.Layout) {
		s.spec = s.machine.OnMove(x, y, s.spec, lay)
	})
}

func (s *Session) Release() error {
	return s.pointer(func(placement.Layout) {
		s.spec = s.machine.OnRelease(s.spec)
	})
}

// RenderPreview composites the current spec over the selected preview
// image at full resolution.
func (s *Session) RenderPreview() (image.Image, error) {
	s.mu.Lock()
	path := s.previewPath
	spec := s.spec
	s.mu.Unlock()

	if path == "" {
		return nil, ErrNoPreview
	}

	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	return s.engine.Render(img, spec), nil
}

// ThumbnailFor returns a list-icon sized copy of one imported image.
func (s *Session) ThumbnailFor(path string) (image.Image, error) {
	if !domain.IsImageFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}
	img, err := loadImage(path)
	if err != nil {
		return nil, err
	}
	return render.Thumbnail(img, s.thumbSize), nil
}

// Export runs the batch over the full image list. The spec and job config
// are snapshotted by value before the loop starts; mutating actions stay
// disabled until the run finishes and re-enable unconditionally. The full
// list is always exported, regardless of any selection the binding holds.
func (s *Session) Export(ctx context.Context) (*domain.ExportReport, error) {
	s.mu.Lock()
	if s.exporting {
		s.mu.Unlock()
		return nil, ErrExportInProgress
	}
	if len(s.images) == 0 {
		s.mu.Unlock()
		return nil, ErrNoImages
	}
	paths := make([]string, len(s.images))
	copy(paths, s.images)
	spec := s.spec
	cfg := s.jobCfg
	s.exporting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.exporting = false
		s.mu.Unlock()
	}()

	return s.driver.ExportAll(ctx, paths, spec, cfg)
}

func (s *Session) SaveSnapshot(name string) error {
	s.mu.Lock()
	spec, cfg := s.spec, s.jobCfg
	s.mu.Unlock()
	return s.store.Save(name, spec, cfg)
}

// LoadSnapshot replaces the live spec and job config with a named record.
// On read failure nothing is assigned: the prior state stays intact.
func (s *Session) LoadSnapshot(name string) error {
	spec, cfg, err := s.store.Load(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrExportInProgress
	}
	s.spec = spec
	s.jobCfg = cfg
	return nil
}

func (s *Session) DeleteSnapshot(name string) error {
	return s.store.Delete(name)
}

func (s *Session) ListSnapshots() ([]string, error) {
	return s.store.ListNames()
}

func (s *Session) mutate(apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrExportInProgress
	}
	apply()
	s.spec = s.spec.Clamped()
	return nil
}

func (s *Session) pointer(apply func(placement.Layout)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exporting {
		return ErrExportInProgress
	}
	if s.previewPath == "" {
		return ErrNoPreview
	}

	rect := preview.Letterbox(s.surfaceW, s.surfaceH, s.previewW, s.previewH)
	textW, textH, baseW := s.engine.TextLayout(int(rect.W), s.spec)
	apply(placement.Layout{
		Rect:      rect,
		TextW:     float64(textW),
		TextH:     float64(textH),
		BaseTextW: float64(baseW),
	})
	return nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return img, nil
}
