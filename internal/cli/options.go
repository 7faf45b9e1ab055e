package cli

import (
	"path/filepath"
	"strings"

	"github.com/stormlabel/stormlabel/pkg/config"
	"github.com/stormlabel/stormlabel/pkg/pipeline"
)

// pipelineOptions converts a loaded config into pipeline options for
// the given archive source. Per-command flags are layered on top by the
// caller.
func pipelineOptions(cfg config.Config, source string) pipeline.Options {
	return pipeline.Options{
		Source:    source,
		Cluster:   cfg.Cluster,
		Metrics:   cfg.Metrics,
		Heuristic: cfg.Heuristic,
		Resolver:  cfg.Resolver,
		Render: pipeline.RenderOptions{
			Format:  cfg.Render.Format,
			Width:   cfg.Render.WidthInches,
			Height:  cfg.Render.HeightInches,
			Title:   cfg.Render.Title,
			Leaders: cfg.Render.Leaders,
		},
	}
}

// outputPath derives the output file path for a command.
// If output is non-empty it wins; otherwise the input path gets its
// extension replaced by ext (e.g. "storms.txt" + ".plan.json" →
// "storms.plan.json").
func outputPath(output, input, ext string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// looksLikePlan reports whether path refers to a plan document rather
// than a HURDAT2 archive.
func looksLikePlan(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
