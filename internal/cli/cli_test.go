package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stormlabel/stormlabel/pkg/config"
	"github.com/stormlabel/stormlabel/pkg/plan"
)

const testArchive = `AL041992, ANDREW, 2,
19920823, 1200, , HU, 25.4N, 78.0W, 130, 930,
19920824, 0905, L, HU, 25.5N, 80.3W, 145, 922,
AL061999, IRENE, 1,
19991015, 1330, L, HU, 25.9N, 80.1W, 70, 980,
AL142018, MICHAEL, 1,
20181010, 1730, L, HU, 30.0N, 85.4W, 140, 919,
`

// run executes the CLI in-process with the given arguments.
func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func writeArchive(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storms.txt")
	if err := os.WriteFile(path, []byte(testArchive), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, ext, want string
	}{
		{"", "storms.txt", ".plan.json", "storms.plan.json"},
		{"", "data/storms.txt", ".svg", "data/storms.svg"},
		{"", "storms", ".html", "storms.html"},
		{"custom.json", "storms.txt", ".plan.json", "custom.json"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.ext); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.output, tt.input, tt.ext, got, tt.want)
		}
	}
}

func TestLooksLikePlan(t *testing.T) {
	if !looksLikePlan("storms.plan.json") {
		t.Error("json file should be detected as a plan")
	}
	if !looksLikePlan("STORMS.JSON") {
		t.Error("detection should be case-insensitive")
	}
	if looksLikePlan("hurdat2.txt") {
		t.Error("archive should not be detected as a plan")
	}
}

func TestPipelineOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Resolver.MaxRetries = 17
	cfg.Render.Title = "season map"

	opts := pipelineOptions(cfg, "storms.txt")
	if opts.Source != "storms.txt" {
		t.Errorf("source = %q", opts.Source)
	}
	if opts.Resolver.MaxRetries != 17 {
		t.Errorf("resolver max retries = %d, want 17", opts.Resolver.MaxRetries)
	}
	if opts.Render.Title != "season map" {
		t.Errorf("render title = %q", opts.Render.Title)
	}
	if opts.Render.Width != cfg.Render.WidthInches {
		t.Errorf("render width = %v, want %v", opts.Render.Width, cfg.Render.WidthInches)
	}
}

func TestPlaceCommandWritesPlan(t *testing.T) {
	archive := writeArchive(t)
	out := filepath.Join(t.TempDir(), "out.plan.json")

	if err := run(t, "place", archive, "--no-cache", "-o", out); err != nil {
		t.Fatalf("place: %v", err)
	}

	doc, err := plan.ReadFile(out)
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	if doc.Result.Stats.Placed != 2 {
		t.Errorf("placed = %d, want 2", doc.Result.Stats.Placed)
	}
}

func TestRenderCommandFromPlan(t *testing.T) {
	archive := writeArchive(t)
	dir := t.TempDir()
	planPath := filepath.Join(dir, "out.plan.json")
	mapPath := filepath.Join(dir, "out.svg")

	if err := run(t, "place", archive, "--no-cache", "-o", planPath); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := run(t, "render", planPath, "--no-cache", "-f", "svg", "-o", mapPath); err != nil {
		t.Fatalf("render: %v", err)
	}

	data, err := os.ReadFile(mapPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not an svg document")
	}
}

func TestRenderCommandFromArchive(t *testing.T) {
	archive := writeArchive(t)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	out := filepath.Join(t.TempDir(), "map.svg")

	if err := run(t, "render", archive, "-f", "svg", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("map not written: %v", err)
	}
}

func TestReportCommand(t *testing.T) {
	archive := writeArchive(t)
	dir := t.TempDir()
	planPath := filepath.Join(dir, "out.plan.json")
	htmlPath := filepath.Join(dir, "out.html")

	if err := run(t, "place", archive, "--no-cache", "-o", planPath); err != nil {
		t.Fatalf("place: %v", err)
	}
	if err := run(t, "report", planPath, "-o", htmlPath); err != nil {
		t.Fatalf("report: %v", err)
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ANDREW (1992)") {
		t.Error("report does not mention parsed storms")
	}
}

func TestParseCommandWritesCSV(t *testing.T) {
	archive := writeArchive(t)
	out := filepath.Join(t.TempDir(), "landfalls.csv")

	if err := run(t, "parse", archive, "--no-cache", "-o", out); err != nil {
		t.Fatalf("parse: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"ANDREW", "IRENE", "MICHAEL"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("csv missing %s", name)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	if err := run(t, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
}
