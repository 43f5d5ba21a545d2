package metrics

import (
	"context"
	"testing"
)

func TestCountersNeedContext(t *testing.T) {
	if AddRequests(context.Background()) != 0 {
		t.Error("Expected 0 without metrics in context")
	}

	ctx := Set(context.Background())
	before := AddRequests(ctx)
	after := AddRequests(ctx)
	if after != before+1 {
		t.Errorf("Expected %d, got %d", before+1, after)
	}
	if AddGoroutines(ctx) < 1 {
		t.Error("Expected at least one goroutine")
	}
	if AddErrors(ctx) < 1 || AddPanics(ctx) < 1 || AddUpstreamErrors(ctx) < 1 {
		t.Error("Expected error, panic and upstream counters to increment")
	}
}
