package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stormlabel/stormlabel/pkg/cache"
	"github.com/stormlabel/stormlabel/pkg/errors"
)

// archive holds three storms: two South Florida landfalls close enough
// to cluster, one panhandle landfall that stays alone, and one
// open-water track point that parsing must discard.
const archive = `AL041992, ANDREW, 2,
19920823, 1200, , HU, 25.4N, 78.0W, 130, 930,
19920824, 0905, L, HU, 25.5N, 80.3W, 145, 922,
AL061999, IRENE, 1,
19991015, 1330, L, HU, 25.9N, 80.1W, 70, 980,
AL142018, MICHAEL, 1,
20181010, 1730, L, HU, 30.0N, 85.4W, 140, 919,
`

func testOptions() Options {
	return Options{
		Data:   []byte(archive),
		Render: RenderOptions{Format: "svg", Title: "test map"},
	}
}

func TestParseLandfalls(t *testing.T) {
	landfalls, err := ParseLandfalls(testOptions())
	require.NoError(t, err)
	require.Len(t, landfalls, 3, "open-water track point must be discarded")

	names := []string{landfalls[0].Name, landfalls[1].Name, landfalls[2].Name}
	assert.Equal(t, []string{"ANDREW", "IRENE", "MICHAEL"}, names, "landfalls sorted by time")
}

func TestParseLandfallsMinCategory(t *testing.T) {
	opts := testOptions()
	opts.MinCategory = 4

	landfalls, err := ParseLandfalls(opts)
	require.NoError(t, err)
	require.Len(t, landfalls, 2)
	for _, l := range landfalls {
		assert.GreaterOrEqual(t, l.Category, 4)
	}
}

func TestParseLandfallsRequiresSource(t *testing.T) {
	_, err := ParseLandfalls(Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
}

func TestParseLandfallsMissingFile(t *testing.T) {
	_, err := ParseLandfalls(Options{Source: t.TempDir() + "/missing.txt"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFileNotFound, errors.GetCode(err))
}

func TestBuildClustersOrdersBySignificance(t *testing.T) {
	opts := testOptions()
	landfalls, err := ParseLandfalls(opts)
	require.NoError(t, err)

	clusters := BuildClusters(landfalls, opts)
	require.Len(t, clusters, 2, "two South Florida landfalls cluster, Michael stands alone")

	// Michael (cat 5 alone, mean 5.0) outranks the mixed South Florida
	// pair (mean 3.0) and is placed first.
	require.Len(t, clusters[0].Labels, 1)
	assert.Equal(t, "MICHAEL (2018)", clusters[0].Labels[0])
	assert.ElementsMatch(t, []string{"ANDREW (1992)", "IRENE (1999)"}, clusters[1].Labels)

	for _, c := range clusters {
		assert.Len(t, c.Categories, len(c.Points))
	}
}

func TestExecuteFullPipeline(t *testing.T) {
	runner := NewRunner(nil, nil, nil) // null cache
	defer runner.Close()

	result, err := runner.Execute(context.Background(), testOptions())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Stats.Landfalls)
	assert.Equal(t, 2, result.Stats.Clusters)
	assert.Equal(t, 2, result.Stats.Placed)
	assert.Zero(t, result.Stats.Skipped)
	assert.NotEmpty(t, result.LandfallHash)
	assert.NotEmpty(t, result.Artifact, "svg artifact should not be empty")
	require.NotNil(t, result.Plan)
	assert.Len(t, result.Plan.Result.Placements, 2)
	assert.False(t, result.CacheInfo.ParseHit)
	assert.False(t, result.CacheInfo.PlanHit)
	assert.False(t, result.CacheInfo.RenderHit)
}

func TestExecuteCachesEveryStage(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	first, err := runner.Execute(ctx, testOptions())
	require.NoError(t, err)

	second, err := runner.Execute(ctx, testOptions())
	require.NoError(t, err)

	assert.True(t, second.CacheInfo.ParseHit)
	assert.True(t, second.CacheInfo.PlanHit)
	assert.True(t, second.CacheInfo.RenderHit)

	// A cached plan keeps its original run id, so reruns are traceable
	// to the run that produced them.
	assert.Equal(t, first.Plan.RunID, second.Plan.RunID)
	assert.Equal(t, first.Artifact, second.Artifact)
	assert.Equal(t, first.Landfalls, second.Landfalls)
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	_, err = runner.Execute(ctx, testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	require.NoError(t, err)

	assert.False(t, result.CacheInfo.ParseHit)
	assert.False(t, result.CacheInfo.PlanHit)
	assert.False(t, result.CacheInfo.RenderHit)
}

func TestExecuteConfigChangeInvalidatesPlan(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	ctx := context.Background()
	_, err = runner.Execute(ctx, testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.Resolver.MaxRetries = 11
	opts.Resolver.Step = 1.5
	opts.Resolver.Mode = "rect"
	result, err := runner.Execute(ctx, opts)
	require.NoError(t, err)

	assert.True(t, result.CacheInfo.ParseHit, "parse is independent of placement config")
	assert.False(t, result.CacheInfo.PlanHit, "resolver change must invalidate the plan")
}

func TestExecuteInvalidRenderFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := testOptions()
	opts.Render.Format = "bmp"
	_, err := runner.Execute(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidConfig, errors.GetCode(err))
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := testOptions()
	require.NoError(t, opts.ValidateAndSetDefaults())

	before := opts.Resolver
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, before, opts.Resolver)
	assert.Equal(t, DefaultReference, opts.Reference)
	assert.Equal(t, DefaultMinCategory, opts.MinCategory)
}
