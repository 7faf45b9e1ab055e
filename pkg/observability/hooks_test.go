package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

// recordingPipelineHooks records stage events for assertions.
type recordingPipelineHooks struct {
	mu     sync.Mutex
	starts []string
	ends   []string
}

func (r *recordingPipelineHooks) OnStageStart(_ context.Context, stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, stage)
}

func (r *recordingPipelineHooks) OnStageComplete(_ context.Context, stage string, _ int, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends = append(r.ends, stage)
}

// recordingCacheHooks counts cache events.
type recordingCacheHooks struct {
	mu           sync.Mutex
	hits, misses int
	setBytes     int
}

func (r *recordingCacheHooks) OnCacheHit(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *recordingCacheHooks) OnCacheMiss(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *recordingCacheHooks) OnCacheSet(_ context.Context, _ string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setBytes += size
}

func TestPipelineHooksRegistration(t *testing.T) {
	defer Reset()

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	ctx := context.Background()
	Pipeline().OnStageStart(ctx, StageParse)
	Pipeline().OnStageComplete(ctx, StageParse, 3, time.Millisecond, nil)
	Pipeline().OnStageStart(ctx, StageRender)

	if len(rec.starts) != 2 || rec.starts[0] != StageParse || rec.starts[1] != StageRender {
		t.Errorf("starts = %v", rec.starts)
	}
	if len(rec.ends) != 1 || rec.ends[0] != StageParse {
		t.Errorf("ends = %v", rec.ends)
	}
}

func TestCacheHooksRegistration(t *testing.T) {
	defer Reset()

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "plan")
	Cache().OnCacheMiss(ctx, "artifact")
	Cache().OnCacheSet(ctx, "artifact", 128)

	if rec.hits != 1 || rec.misses != 1 || rec.setBytes != 128 {
		t.Errorf("hits=%d misses=%d setBytes=%d", rec.hits, rec.misses, rec.setBytes)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	defer Reset()

	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	// No-op defaults must survive a nil registration.
	Pipeline().OnStageStart(context.Background(), StageCluster)
	Cache().OnCacheMiss(context.Background(), "landfalls")
}

func TestResetRestoresNoops(t *testing.T) {
	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)
	Reset()

	Pipeline().OnStageStart(context.Background(), StagePlace)
	if len(rec.starts) != 0 {
		t.Errorf("hooks still registered after Reset: %v", rec.starts)
	}
}
