// Package snapshot persists the full watermark and export parameter set
// as named JSON records, plus one reserved "last used" record written at
// shutdown and read back at startup. Records never reference image paths.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"watermark-studio/internal/domain"
)

// The reserved record lives outside the user-visible namespace: names
// starting with a dot are rejected on save and skipped by ListNames.
const lastUsedFile = ".last-used.json"

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// record is the on-disk schema. Every field is optional on read; a field
// missing from the file falls back to its default, which tolerates both
// older and newer writers. size_percent and scale encode the same value
// redundantly; size_percent wins when both are present.
type record struct {
	Text        string   `json:"text"`
	Opacity     *int     `json:"opacity"`
	SizePercent *int     `json:"size_percent"`
	Format      string   `json:"format"`
	NameRule    string   `json:"name_rule"`
	Prefix      string   `json:"prefix"`
	Suffix      string   `json:"suffix"`
	NormX       *float64 `json:"norm_x"`
	NormY       *float64 `json:"norm_y"`
	Scale       *float64 `json:"scale"`
	ExportDir   string   `json:"export_dir"`
}

func (s *Store) Save(name string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}
	return s.write(name+".json", spec, cfg)
}

// Load reads a named record. On any failure the caller's in-memory state
// is untouched: values are only returned on success, never partially.
func (s *Store) Load(name string) (domain.WatermarkSpec, domain.ExportJobConfig, error) {
	if err := validName(name); err != nil {
		return domain.WatermarkSpec{}, domain.ExportJobConfig{}, fmt.Errorf("%w: %v", domain.ErrSnapshotRead, err)
	}
	return s.read(name + ".json")
}

func (s *Store) Delete(name string) error {
	if err := validName(name); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}
	if err := os.Remove(filepath.Join(s.dir, name+".json")); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}
	return nil
}

// ListNames returns the saved template names in lexicographic order,
// excluding the reserved last-used record.
func (s *Store) ListNames() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotRead, err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) SaveLastUsed(spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error {
	return s.write(lastUsedFile, spec, cfg)
}

func (s *Store) LoadLastUsed() (domain.WatermarkSpec, domain.ExportJobConfig, error) {
	return s.read(lastUsedFile)
}

func (s *Store) write(file string, spec domain.WatermarkSpec, cfg domain.ExportJobConfig) error {
	spec = spec.Clamped()

	opacity := spec.OpacityPercent
	size := spec.ScalePercent
	scale := float64(spec.ScalePercent) / 100
	normX, normY := spec.Anchor.X, spec.Anchor.Y

	rec := record{
		Text:        spec.Text,
		Opacity:     &opacity,
		SizePercent: &size,
		Format:      string(cfg.Format),
		NameRule:    string(cfg.NamingRule),
		Prefix:      cfg.Prefix,
		Suffix:      cfg.Suffix,
		NormX:       &normX,
		NormY:       &normY,
		Scale:       &scale,
		ExportDir:   cfg.OutputDir,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, file), data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSnapshotWrite, err)
	}
	return nil
}

func (s *Store) read(file string) (domain.WatermarkSpec, domain.ExportJobConfig, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, file))
	if err != nil {
		return domain.WatermarkSpec{}, domain.ExportJobConfig{}, fmt.Errorf("%w: %v", domain.ErrSnapshotRead, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.WatermarkSpec{}, domain.ExportJobConfig{}, fmt.Errorf("%w: %v", domain.ErrSnapshotRead, err)
	}

	spec := domain.DefaultSpec()
	cfg := domain.DefaultJobConfig()

	spec.Text = rec.Text
	if rec.Opacity != nil {
		spec.OpacityPercent = *rec.Opacity
	}
	switch {
	case rec.SizePercent != nil:
		spec.ScalePercent = *rec.SizePercent
	case rec.Scale != nil:
		spec.ScalePercent = int(math.Round(*rec.Scale * 100))
	}
	if rec.NormX != nil {
		spec.Anchor.X = *rec.NormX
	}
	if rec.NormY != nil {
		spec.Anchor.Y = *rec.NormY
	}

	if f := domain.OutputFormat(rec.Format); f.Valid() {
		cfg.Format = f
	}
	if r := domain.NamingRule(rec.NameRule); r.Valid() {
		cfg.NamingRule = r
	}
	cfg.Prefix = rec.Prefix
	cfg.Suffix = rec.Suffix
	if rec.ExportDir != "" {
		cfg.OutputDir = rec.ExportDir
	}

	return spec.Clamped(), cfg, nil
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("empty snapshot name")
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("snapshot name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("snapshot name %q contains path separators", name)
	}
	return nil
}
