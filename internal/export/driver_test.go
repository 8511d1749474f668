package export

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"watermark-studio/internal/domain"
	"watermark-studio/internal/render"

	"github.com/wb-go/wbf/zlog"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func newTestDriver() *Driver {
	return NewDriver(render.NewEngine(render.FallbackFont()), nil, &zlog.Logger)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 30, B: 60, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func testSpec() domain.WatermarkSpec {
	return domain.WatermarkSpec{
		Text:           "wm",
		OpacityPercent: 80,
		ScalePercent:   100,
		Anchor:         domain.Anchor{X: 0.98, Y: 0.98},
	}
}

func TestExportAllIsolatesItemFailures(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()

	good1 := filepath.Join(srcDir, "one.png")
	good2 := filepath.Join(srcDir, "two.png")
	bad := filepath.Join(srcDir, "broken.jpg")
	writePNG(t, good1, 64, 48)
	writePNG(t, good2, 64, 48)
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := domain.ExportJobConfig{OutputDir: outDir, Format: domain.FormatPNG, NamingRule: domain.NamingKeep}
	report, err := newTestDriver().ExportAll(context.Background(), []string{good1, bad, good2}, testSpec(), cfg)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}

	if report.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", report.SuccessCount)
	}
	if len(report.Failures) != 1 {
		t.Fatalf("Failures = %d, want 1", len(report.Failures))
	}
	if f := report.Failures[0]; f.Path != bad || f.Kind != domain.KindDecode {
		t.Errorf("failure = %+v, want decode failure for %s", f, bad)
	}
	if report.RunID == "" {
		t.Error("report must carry a run id")
	}

	for _, name := range []string{"one.png", "two.png"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestExportAllRejectsOutputIntoSourceDir(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "photo.png")
	writePNG(t, src, 32, 32)

	cfg := domain.ExportJobConfig{OutputDir: srcDir, Format: domain.FormatPNG, NamingRule: domain.NamingKeep}
	report, err := newTestDriver().ExportAll(context.Background(), []string{src}, testSpec(), cfg)

	if !errors.Is(err, domain.ErrDirectory) {
		t.Fatalf("err = %v, want ErrDirectory", err)
	}
	if report != nil {
		t.Error("fatal directory error must not produce a report")
	}

	entries, err := os.ReadDir(srcDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("source directory gained files: %d entries", len(entries))
	}
}

func TestExportAllCreatesOutputDir(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "photo.png")
	writePNG(t, src, 32, 32)

	outDir := filepath.Join(t.TempDir(), "nested", "out")
	cfg := domain.ExportJobConfig{OutputDir: outDir, Format: domain.FormatPNG, NamingRule: domain.NamingKeep}

	report, err := newTestDriver().ExportAll(context.Background(), []string{src}, testSpec(), cfg)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1", report.SuccessCount)
	}
	if _, err := os.Stat(filepath.Join(outDir, "photo.png")); err != nil {
		t.Errorf("missing output: %v", err)
	}
}

func TestExportAllAppliesNamingAndFormat(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(srcDir, "holiday.png")
	writePNG(t, src, 40, 40)

	cfg := domain.ExportJobConfig{
		OutputDir:  outDir,
		Format:     domain.FormatJPEG,
		NamingRule: domain.NamingPrefix,
		Prefix:     "wm_",
	}
	report, err := newTestDriver().ExportAll(context.Background(), []string{src}, testSpec(), cfg)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1", report.SuccessCount)
	}

	outPath := filepath.Join(outDir, "wm_holiday.jpg")
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("expected %s: %v", outPath, err)
	}
	defer f.Close()
	if _, err := jpeg.Decode(f); err != nil {
		t.Errorf("output is not a valid JPEG: %v", err)
	}
}

func TestExportAllEmptyTextStillWrites(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := filepath.Join(srcDir, "plain.png")
	writePNG(t, src, 20, 20)

	spec := testSpec()
	spec.Text = ""
	cfg := domain.ExportJobConfig{OutputDir: outDir, Format: domain.FormatPNG, NamingRule: domain.NamingKeep}

	report, err := newTestDriver().ExportAll(context.Background(), []string{src}, spec, cfg)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if report.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1", report.SuccessCount)
	}
	if _, err := os.Stat(filepath.Join(outDir, "plain.png")); err != nil {
		t.Errorf("passthrough output missing: %v", err)
	}
}

func TestExportAllMissingSourceIsDecodeFailure(t *testing.T) {
	outDir := t.TempDir()
	cfg := domain.ExportJobConfig{OutputDir: outDir, Format: domain.FormatPNG, NamingRule: domain.NamingKeep}

	missing := filepath.Join(t.TempDir(), "gone.png")
	report, err := newTestDriver().ExportAll(context.Background(), []string{missing}, testSpec(), cfg)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if report.SuccessCount != 0 || len(report.Failures) != 1 {
		t.Fatalf("report = %+v, want single failure", report)
	}
	if report.Failures[0].Kind != domain.KindDecode {
		t.Errorf("kind = %s, want decode", report.Failures[0].Kind)
	}
}
