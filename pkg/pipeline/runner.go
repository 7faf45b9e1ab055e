package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stormlabel/stormlabel/pkg/cache"
	"github.com/stormlabel/stormlabel/pkg/errors"
	"github.com/stormlabel/stormlabel/pkg/hurdat"
	"github.com/stormlabel/stormlabel/pkg/observability"
	"github.com/stormlabel/stormlabel/pkg/place"
	"github.com/stormlabel/stormlabel/pkg/plan"
	"github.com/stormlabel/stormlabel/pkg/render/mapplot"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → cluster → place → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageParse)
	landfalls, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	observability.Pipeline().OnStageComplete(ctx, observability.StageParse, len(landfalls), time.Since(parseStart), err)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "parse")
	}
	result.Landfalls = landfalls
	result.LandfallHash = landfallHash(landfalls)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Landfalls = len(landfalls)
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("parsed landfalls",
		"count", len(landfalls),
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	// Stage 2: Cluster
	clusterStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageCluster)
	result.Clusters = BuildClusters(landfalls, opts)
	observability.Pipeline().OnStageComplete(ctx, observability.StageCluster, len(result.Clusters), time.Since(clusterStart), nil)
	result.Stats.ClusterTime = time.Since(clusterStart)
	result.Stats.Clusters = len(result.Clusters)

	r.Logger.Info("clustered landfalls",
		"clusters", len(result.Clusters),
		"duration", result.Stats.ClusterTime)

	// Stage 3: Place
	placeStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StagePlace)
	doc, planHit, err := r.PlanWithCacheInfo(ctx, result.LandfallHash, result.Clusters, opts)
	placed := 0
	if doc != nil {
		placed = doc.Result.Stats.Placed
	}
	observability.Pipeline().OnStageComplete(ctx, observability.StagePlace, placed, time.Since(placeStart), err)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "place")
	}
	result.Plan = doc
	result.Stats.PlaceTime = time.Since(placeStart)
	result.Stats.Placed = doc.Result.Stats.Placed
	result.Stats.Unresolved = doc.Result.Stats.Unresolved
	result.Stats.Skipped = doc.Result.Stats.Skipped
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("placed labels",
		"placed", result.Stats.Placed,
		"unresolved", result.Stats.Unresolved,
		"skipped", result.Stats.Skipped,
		"cached", planHit,
		"duration", result.Stats.PlaceTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnStageStart(ctx, observability.StageRender)
	artifact, renderHit, err := r.RenderWithCacheInfo(ctx, doc, opts)
	observability.Pipeline().OnStageComplete(ctx, observability.StageRender, len(artifact), time.Since(renderStart), err)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "render")
	}
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered map",
		"format", opts.Render.Format,
		"bytes", len(artifact),
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses landfalls with caching and reports whether
// the result came from cache. Parsed sets are stored as CSV keyed by
// the source content hash, so edits to the archive invalidate the
// entry automatically.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) ([]hurdat.Landfall, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	sourceHash, err := r.sourceHash(opts)
	if err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.LandfallKey(sourceHash, opts.LandfallKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			landfalls, err := hurdat.ReadCSV(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "landfalls")
				return landfalls, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "landfalls")

	landfalls, err := ParseLandfalls(opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := hurdat.WriteCSV(&buf, landfalls); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.LandfallTTL)
		observability.Cache().OnCacheSet(ctx, "landfalls", buf.Len())
	}

	return landfalls, false, nil
}

// Parse is a convenience wrapper that discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) ([]hurdat.Landfall, error) {
	landfalls, _, err := r.ParseWithCacheInfo(ctx, opts)
	return landfalls, err
}

// PlanWithCacheInfo runs placement with caching and reports whether
// the plan came from cache. A cached plan keeps its original run id.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, landfallHash string, clusters []place.Cluster, opts Options) (*plan.Document, bool, error) {
	if err := opts.ValidateForPlace(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.PlanKey(landfallHash, cache.PlanKeyOpts{ConfigHash: r.configHash(opts)})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := plan.Read(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				return doc, true, nil
			}
		}
	}
	observability.Cache().OnCacheMiss(ctx, "plan")

	placeOpts := opts.PlaceOptions()
	res, err := place.Run(clusters, placeOpts)
	if err != nil {
		return nil, false, err
	}
	doc := plan.New(plan.ConfigFrom(placeOpts), clusters, res)

	var buf bytes.Buffer
	if err := plan.Write(doc, &buf); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.PlanTTL)
		observability.Cache().OnCacheSet(ctx, "plan", buf.Len())
	}

	return doc, false, nil
}

// RenderWithCacheInfo renders the plan with caching and reports
// whether the artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *plan.Document, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	var planBuf bytes.Buffer
	if err := plan.Write(doc, &planBuf); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.ArtifactKey(cache.Hash(planBuf.Bytes()), opts.ArtifactKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	artifact, err := mapplot.Render(doc.Clusters, doc.Result, opts.mapplotOptions())
	if err != nil {
		return nil, false, err
	}
	_ = r.Cache.Set(ctx, cacheKey, artifact, cache.ArtifactTTL)
	observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))

	return artifact, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// sourceHash hashes the archive bytes that parsing will consume.
func (r *Runner) sourceHash(opts Options) (string, error) {
	data := opts.Data
	if len(data) == 0 {
		var err error
		data, err = readSource(opts.Source)
		if err != nil {
			return "", err
		}
	}
	return cache.Hash(data), nil
}

// landfallHash is the content hash of a landfall set, computed over its
// CSV serialization.
func landfallHash(landfalls []hurdat.Landfall) string {
	var buf bytes.Buffer
	if err := hurdat.WriteCSV(&buf, landfalls); err != nil {
		return ""
	}
	return cache.Hash(buf.Bytes())
}

// configHash hashes every option that changes the plan for a given
// landfall set.
func (r *Runner) configHash(opts Options) string {
	data, _ := json.Marshal(struct {
		Cluster   interface{} `json:"cluster"`
		Reference interface{} `json:"reference"`
		Metrics   interface{} `json:"metrics"`
		Heuristic interface{} `json:"heuristic"`
		Resolver  interface{} `json:"resolver"`
	}{opts.Cluster, opts.Reference, opts.Metrics, opts.Heuristic, opts.Resolver})
	return cache.Hash(data)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
