// Package pipeline provides the end-to-end labeling pipeline.
//
// This package implements the complete parse → cluster → place → render
// flow used by every CLI entry point. Centralizing it keeps behavior
// identical whether a stage is run on its own or as part of a full run.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: extract hurricane landfalls from a HURDAT2 archive
//  2. Cluster: group landfalls into labeling units with DBSCAN
//  3. Place: run the placement engine and produce a plan document
//  4. Render: draw the placed map to PNG, SVG, or PDF
//
// Each stage can be run independently or as part of the complete
// pipeline, and every stage's output is cached by a hash of its inputs.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source: "hurdat2.txt",
//	    Render: pipeline.RenderOptions{Format: "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifact := result.Artifact
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlabel/stormlabel/pkg/cache"
	"github.com/stormlabel/stormlabel/pkg/cluster"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/geo"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
	"github.com/stormlabel/stormlabel/pkg/label"
	"github.com/stormlabel/stormlabel/pkg/place"
	"github.com/stormlabel/stormlabel/pkg/plan"
	"github.com/stormlabel/stormlabel/pkg/render/mapplot"
)

// DefaultReference is the point clusters are ranked against when
// competing for label space: Miami, the densest corner of the basin.
var DefaultReference = geo.Point{X: -80.2, Y: 25.8}

// DefaultMinCategory keeps all hurricane-strength landfalls.
const DefaultMinCategory = 1

// RenderOptions configures the render stage.
type RenderOptions struct {
	Format  string  `json:"format,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Title   string  `json:"title,omitempty"`
	Leaders bool    `json:"leaders,omitempty"`
}

// Options contains all configuration for the labeling pipeline.
// The struct serializes to JSON so runs can be reproduced from a plan.
type Options struct {
	// Parse options. Exactly one of Source (a file path) or Data (raw
	// archive bytes) must be set.
	Source      string `json:"source,omitempty"`
	Data        []byte `json:"-"`
	MinCategory int    `json:"min_category,omitempty"`

	// Cluster options.
	Cluster cluster.Options `json:"cluster,omitempty"`

	// Reference ranks clusters for placement order. Zero means
	// DefaultReference.
	Reference geo.Point `json:"reference,omitempty"`

	// Placement options.
	Metrics   label.Metrics   `json:"metrics,omitempty"`
	Heuristic place.Heuristic `json:"heuristic,omitempty"`
	Resolver  place.Resolver  `json:"resolver,omitempty"`

	// Render options.
	Render RenderOptions `json:"render,omitempty"`

	// Refresh bypasses the cache for every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized).
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Landfalls is the parsed, filtered landfall set.
	Landfalls []hurdat.Landfall

	// LandfallHash is the content hash of the landfall set, used to key
	// downstream cache entries.
	LandfallHash string

	// Clusters are the labeling units in placement order.
	Clusters []place.Cluster

	// Plan is the placement plan document.
	Plan *plan.Document

	// Artifact is the rendered map in the requested format.
	Artifact []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Landfalls   int
	Clusters    int
	Placed      int
	Unresolved  int
	Skipped     int
	ParseTime   time.Duration
	ClusterTime time.Duration
	PlaceTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the landfall set came from cache
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether the artifact came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults
// for the full pipeline. Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetPlaceDefaults()
	if err := o.ValidateForPlace(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing and applies
// parse defaults.
func (o *Options) ValidateForParse() error {
	if o.Source == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "source path or raw data is required")
	}
	if o.MinCategory == 0 {
		o.MinCategory = DefaultMinCategory
	}
	if o.MinCategory < 1 || o.MinCategory > 5 {
		return errors.New(errors.ErrCodeInvalidConfig, "min category must be 1-5, got %d", o.MinCategory)
	}
	o.applyLoggerDefault()
	return nil
}

// SetPlaceDefaults fills zero-valued clustering and placement fields
// with package defaults.
func (o *Options) SetPlaceDefaults() {
	if o.Reference == (geo.Point{}) {
		o.Reference = DefaultReference
	}
	if o.Metrics == (label.Metrics{}) {
		o.Metrics = label.DefaultMetrics()
	}
	if o.Heuristic == (place.Heuristic{}) {
		o.Heuristic = place.DefaultHeuristic()
	}
	if o.Resolver == (place.Resolver{}) {
		o.Resolver = place.DefaultResolver()
	}
	o.applyLoggerDefault()
}

// ValidateForPlace validates clustering and placement configuration.
func (o *Options) ValidateForPlace() error {
	o.SetPlaceDefaults()
	if err := o.Metrics.Validate(); err != nil {
		return err
	}
	return o.Resolver.Validate()
}

// SetRenderDefaults fills zero-valued render fields.
func (o *Options) SetRenderDefaults() {
	if o.Render.Format == "" {
		o.Render.Format = mapplot.DefaultFormat
	}
	if o.Render.Width == 0 {
		o.Render.Width = mapplot.DefaultWidth
	}
	if o.Render.Height == 0 {
		o.Render.Height = mapplot.DefaultHeight
	}
	o.applyLoggerDefault()
}

// ValidateForRender validates render configuration.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return o.mapplotOptions().Validate()
}

// PlaceOptions builds engine options from the pipeline configuration.
func (o *Options) PlaceOptions() place.Options {
	return place.Options{
		Metrics:   o.Metrics,
		Heuristic: o.Heuristic,
		Resolver:  o.Resolver,
		Logger:    o.Logger,
	}
}

func (o *Options) mapplotOptions() mapplot.Options {
	return mapplot.Options{
		Format:  o.Render.Format,
		Width:   o.Render.Width,
		Height:  o.Render.Height,
		Title:   o.Render.Title,
		Leaders: o.Render.Leaders,
	}
}

// LandfallKeyOpts returns cache key options for the parse stage.
func (o *Options) LandfallKeyOpts() cache.LandfallKeyOpts {
	return cache.LandfallKeyOpts{MinCategory: o.MinCategory}
}

// ArtifactKeyOpts returns cache key options for the render stage.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: o.Render.Format,
		Width:  o.Render.Width,
		Height: o.Render.Height,
		Title:  o.Render.Title,
	}
}

func (o *Options) applyLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
