package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"watermark-studio/internal/domain"
)

func sampleSpec() domain.WatermarkSpec {
	return domain.WatermarkSpec{
		Text:           "© studio",
		OpacityPercent: 45,
		ScalePercent:   180,
		Anchor:         domain.Anchor{X: 0.25, Y: 0.75},
	}
}

func sampleCfg() domain.ExportJobConfig {
	return domain.ExportJobConfig{
		OutputDir:  "/tmp/exports",
		Format:     domain.FormatJPEG,
		NamingRule: domain.NamingSuffix,
		Suffix:     "_wm",
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save("vacation", sampleSpec(), sampleCfg()); err != nil {
		t.Fatalf("Save: %v", err)
	}

	spec, cfg, err := store.Load("vacation")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec != sampleSpec() {
		t.Errorf("spec = %+v, want %+v", spec, sampleSpec())
	}
	if cfg != sampleCfg() {
		t.Errorf("cfg = %+v, want %+v", cfg, sampleCfg())
	}
}

func TestLoadMissingRecord(t *testing.T) {
	store := NewStore(t.TempDir())

	_, _, err := store.Load("nothing-here")
	if !errors.Is(err, domain.ErrSnapshotRead) {
		t.Fatalf("err = %v, want ErrSnapshotRead", err)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := NewStore(dir).Load("bad")
	if !errors.Is(err, domain.ErrSnapshotRead) {
		t.Fatalf("err = %v, want ErrSnapshotRead", err)
	}
}

func TestPartialRecordFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "minimal.json"), []byte(`{"text":"X"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, cfg, err := NewStore(dir).Load("minimal")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := domain.DefaultSpec()
	want.Text = "X"
	if spec != want {
		t.Errorf("spec = %+v, want %+v", spec, want)
	}
	if cfg != domain.DefaultJobConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestScaleFractionFallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "old.json"), []byte(`{"scale":1.5}`), 0o644); err != nil {
		t.Fatal(err)
	}

	spec, _, err := NewStore(dir).Load("old")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.ScalePercent != 150 {
		t.Errorf("ScalePercent = %d, want 150", spec.ScalePercent)
	}
}

func TestSizePercentWinsOverScale(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"size_percent":220,"scale":0.5}`)
	if err := os.WriteFile(filepath.Join(dir, "both.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	spec, _, err := NewStore(dir).Load("both")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if spec.ScalePercent != 220 {
		t.Errorf("ScalePercent = %d, want 220", spec.ScalePercent)
	}
}

func TestLoadClampsOutOfRangeValues(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"opacity":400,"size_percent":5,"norm_x":2.5,"norm_y":-1}`)
	if err := os.WriteFile(filepath.Join(dir, "wild.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	spec, _, err := NewStore(dir).Load("wild")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := domain.WatermarkSpec{OpacityPercent: 100, ScalePercent: 50, Anchor: domain.Anchor{X: 1, Y: 0}}
	if spec != want {
		t.Errorf("spec = %+v, want %+v", spec, want)
	}
}

func TestUnknownFormatAndRuleKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`{"format":"bmp","name_rule":"shuffle"}`)
	if err := os.WriteFile(filepath.Join(dir, "odd.json"), data, 0o644); err != nil {
		t.Fatal(err)
	}

	_, cfg, err := NewStore(dir).Load("odd")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Format != domain.FormatPNG || cfg.NamingRule != domain.NamingKeep {
		t.Errorf("cfg = %+v, want default format and rule", cfg)
	}
}

func TestListNamesSortedAndFiltered(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := store.Save(name, sampleSpec(), sampleCfg()); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.SaveLastUsed(sampleSpec(), sampleCfg()); err != nil {
		t.Fatal(err)
	}

	names, err := store.ListNames()
	if err != nil {
		t.Fatalf("ListNames: %v", err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestListNamesMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created"))

	names, err := store.ListNames()
	if err != nil || names != nil {
		t.Errorf("ListNames = (%v, %v), want (nil, nil)", names, err)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Save("gone", sampleSpec(), sampleCfg()); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Load("gone"); !errors.Is(err, domain.ErrSnapshotRead) {
		t.Error("deleted record must not load")
	}
	if err := store.Delete("gone"); !errors.Is(err, domain.ErrSnapshotWrite) {
		t.Errorf("deleting a missing record: err = %v, want ErrSnapshotWrite", err)
	}
}

func TestInvalidNames(t *testing.T) {
	store := NewStore(t.TempDir())

	for _, name := range []string{"", ".hidden", "a/b", `a\b`, "../escape"} {
		if err := store.Save(name, sampleSpec(), sampleCfg()); !errors.Is(err, domain.ErrSnapshotWrite) {
			t.Errorf("Save(%q): err = %v, want ErrSnapshotWrite", name, err)
		}
		if _, _, err := store.Load(name); !errors.Is(err, domain.ErrSnapshotRead) {
			t.Errorf("Load(%q): err = %v, want ErrSnapshotRead", name, err)
		}
	}
}

func TestLastUsedRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.SaveLastUsed(sampleSpec(), sampleCfg()); err != nil {
		t.Fatalf("SaveLastUsed: %v", err)
	}
	spec, cfg, err := store.LoadLastUsed()
	if err != nil {
		t.Fatalf("LoadLastUsed: %v", err)
	}
	if spec != sampleSpec() || cfg != sampleCfg() {
		t.Errorf("round trip mismatch: %+v / %+v", spec, cfg)
	}
}
