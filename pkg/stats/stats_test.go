package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_SnapshotIsSortedCopy(t *testing.T) {
	r := NewRecorder()
	r.Record("Backend", "/prices", Success)
	r.Record("Backend", "/prices", Failure)
	r.Record("AWS Pricing", "us-east-1", CacheHit)
	r.Record("Backend", "/compare", Success)

	rows := r.Snapshot()
	require.Len(t, rows, 3)

	assert.Equal(t, "AWS Pricing", rows[0].Service)
	assert.Equal(t, "/compare", rows[1].Target)
	assert.Equal(t, "/prices", rows[2].Target)
	assert.Equal(t, 2, rows[2].Total())
	assert.InDelta(t, 50.0, rows[2].SuccessRate(), 0.001)
	assert.Equal(t, 1, rows[0].Cache)
	assert.Zero(t, rows[0].SuccessRate())

	rows[2].Success = 100
	assert.Equal(t, 1, r.Snapshot()[2].Success, "snapshot must not alias recorder state")
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record("Backend", "/prices", Success)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.Snapshot()[0].Success)
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.Record("Backend", "/prices", Success)
	assert.Nil(t, r.Snapshot())
}
