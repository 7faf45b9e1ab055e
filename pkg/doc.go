// Package pkg provides the core libraries for StormLabel map labeling.
//
// # Overview
//
// StormLabel turns HURDAT2 hurricane archives into labeled landfall maps
// with deterministic, collision-free label placement. The pkg directory
// is organized into four main areas:
//
//  1. Parsing - HURDAT2 archive and CSV handling ([hurdat])
//  2. Placement - geometry, clustering, and the placement engine
//     ([geo], [cluster], [label], [place])
//  3. Rendering - static maps and interactive reports ([render/mapplot],
//     [render/report])
//  4. Orchestration - configuration, caching, plans, and the pipeline
//     ([config], [cache], [plan], [pipeline])
//
// # Architecture
//
// The typical data flow through StormLabel:
//
//	HURDAT2 archive
//	         ↓
//	    [hurdat] package (parse landfalls)
//	         ↓
//	    [cluster] package (DBSCAN grouping + significance ordering)
//	         ↓
//	    [place] package (label sizing, anchoring, collision resolution)
//	         ↓
//	    [plan] package (JSON plan document)
//	         ↓
//	    PNG/SVG/PDF map or HTML report
//
// # Quick Start
//
// Run the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source: "hurdat2.txt",
//	    Render: pipeline.RenderOptions{Format: "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("map.png", result.Artifact, 0o644)
//
// Or drive the stages directly:
//
//	landfalls, _ := hurdat.ParseFile("hurdat2.txt")
//	clusters, noise := cluster.Run(landfalls, cluster.Options{})
//	res, _ := place.Run(toPlaceClusters(clusters), place.Options{})
//
// # Main Packages
//
// [hurdat] - HURDAT2 archive parsing. Extracts landfall records at
// hurricane strength, with CSV serialization for caching and export.
//
// [geo] - Planar geometry primitives: points, rectangles, convex hulls,
// and the separating-axis overlap tests the resolver relies on.
//
// [cluster] - DBSCAN clustering of landfall points into labeling units,
// plus significance ordering so dominant clusters place first.
//
// [label] - Text measurement: turns storm labels into box dimensions
// using configurable character metrics.
//
// [place] - The placement engine: candidate regions, anchor heuristics,
// and the deterministic collision resolver.
//
// [plan] - Placement plan documents. A run is placed once and rendered
// many times from its JSON plan.
//
// [render/mapplot] - Static PNG/SVG/PDF maps via gonum/plot.
//
// [render/report] - Interactive HTML reports via go-echarts.
//
// [pipeline] - Complete labeling pipeline (parse → cluster → place →
// render) used by every CLI entry point, with per-stage caching.
//
// [cache] - Content-addressed stage cache with file and null backends.
//
// [config] - stormlabel.toml loading with per-field defaults.
//
// [errors] - Coded errors with user-facing messages.
//
// [observability] - Optional instrumentation hooks for pipeline stages
// and cache operations.
//
// [buildinfo] - Build-time version information.
//
// [hurdat]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/hurdat
// [geo]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/geo
// [cluster]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/cluster
// [label]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/label
// [place]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/place
// [plan]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/plan
// [render/mapplot]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/render/mapplot
// [render/report]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/render/report
// [pipeline]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/cache
// [config]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/config
// [errors]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/errors
// [observability]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/buildinfo
package pkg
