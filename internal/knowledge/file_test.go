package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceReadsDataset(t *testing.T) {
	src, err := NewFileSource(filepath.Join("testdata", "dataset.yaml"))
	require.NoError(t, err)
	ctx := context.Background()

	services, err := src.FetchServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 20, services[1].DurationMinutes)

	barbers, err := src.FetchBarbers(ctx)
	require.NoError(t, err)
	assert.Len(t, barbers, 2, "inactive barbers are filtered")

	promos, err := src.FetchPromotions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2023-06-30", promos[1].ValidUntil)

	locs, err := src.FetchLocations(ctx)
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "EliteCuts Downtown", locs[0].Name)

	styles, err := src.FetchStyleCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"all hair types"}, styles[0].SuitableFor)

	hours, err := src.FetchWorkingHours(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, hours[0].DayOfWeek)
}

func TestFileSourceMissingAndInvalid(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - id: a\n    name: Fade\n"), 0o600))
	src, err := NewFileSource(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("services: [unterminated"), 0o600))
	require.Error(t, src.Refresh())

	services, err := src.FetchServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fade", services[0].Name, "a bad file keeps the previous dataset")
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - id: a\n    name: Fade\n"), 0o600))
	src, err := NewFileSource(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, src, nil, func(context.Context) { changes.Add(1) })
	}()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("services:\n  - id: b\n    name: Crop\n"), 0o600))

	require.Eventually(t, func() bool { return changes.Load() > 0 }, 3*time.Second, 20*time.Millisecond)
	services, err := src.FetchServices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Crop", services[0].Name)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}
