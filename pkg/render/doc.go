// Package render groups the output backends for placed label maps.
//
// Two renderers share the same plan input:
//
//   - [mapplot] draws static PNG, SVG, or PDF maps with gonum/plot.
//     Points are colored by Saffir-Simpson category, label boxes are
//     outlined at their placed positions, and unresolved placements are
//     dashed so residual overlaps are visible.
//
//   - [report] produces an interactive HTML scatter chart with
//     go-echarts, meant for inspecting a run: hover tooltips per storm,
//     toggleable category series, and separate series for unresolved
//     placements.
//
// Both renderers are pure functions of a plan document, so the same run
// can be rendered repeatedly in any format without re-placing.
//
// [mapplot]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/render/mapplot
// [report]: https://pkg.go.dev/github.com/stormlabel/stormlabel/pkg/render/report
package render
