package citydir

import (
	"context"
	"sync"
	"testing"

	"github.com/alexivanou/calendar-core/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDirectory_EmptyBeforeRebuild(t *testing.T) {
	d := NewDirectory([]string{"fa"}, nil)
	assert.Equal(t, 0, d.Snapshot().Len())
	assert.Empty(t, d.Cities("fa"))
	_, ok := d.Lookup("tehran")
	assert.False(t, ok)
}

func TestDirectory_Rebuild(t *testing.T) {
	records := bundled(t)
	d := NewDirectory([]string{"FA", "fa", "en-us", "ar"}, nil)
	require.NoError(t, d.Rebuild(context.Background(), records))

	snap := d.Snapshot()
	assert.Equal(t, len(records), snap.Len())
	assert.Equal(t, []string{"ar", "en-US", "fa"}, snap.Languages())
	assert.False(t, snap.BuiltAt().IsZero())
	assert.Equal(t, keys(records), keys(snap.Records()), "dataset order kept")

	for _, lang := range []string{"fa", "ar", "en-US"} {
		if diff := cmp.Diff(Sort(records, lang), d.Cities(lang)); diff != "" {
			t.Errorf("%s ordering mismatch (-want +got):\n%s", lang, diff)
		}
	}
	// not prebuilt, sorted on demand
	if diff := cmp.Diff(Sort(records, "ckb"), d.Cities("ckb")); diff != "" {
		t.Errorf("ckb ordering mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, keys(d.Cities("fa")), keys(d.Cities("")), "empty language means default")

	city, ok := d.Lookup("erbil")
	require.True(t, ok)
	assert.Equal(t, "أربيل", city.Names.Ar)
}

func TestDirectory_RebuildSwapsSnapshot(t *testing.T) {
	d := NewDirectory([]string{"fa"}, nil)
	records := bundled(t)
	require.NoError(t, d.Rebuild(context.Background(), records))
	old := d.Snapshot()

	require.NoError(t, d.Rebuild(context.Background(), records[:2]))
	assert.Equal(t, len(records), old.Len(), "published snapshots are immutable")
	assert.Equal(t, 2, d.Snapshot().Len())
	_, ok := d.Lookup("kabul")
	assert.False(t, ok)

	// the caller's slice is not retained
	records[0].Key = "changed"
	_, ok = d.Lookup("tehran")
	assert.True(t, ok)
}

func TestDirectory_CancelledRebuildKeepsSnapshot(t *testing.T) {
	d := NewDirectory([]string{"fa", "ar"}, nil)
	records := bundled(t)
	require.NoError(t, d.Rebuild(context.Background(), records))
	before := d.Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Rebuild(ctx, records[:1])
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Same(t, before, d.Snapshot())
}

func TestDirectory_ConcurrentReaders(t *testing.T) {
	d := NewDirectory([]string{"fa", "ar"}, nil)
	full := bundled(t)
	small := full[:3]
	require.NoError(t, d.Rebuild(context.Background(), full))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				n := len(d.Cities("ar"))
				if n != len(full) && n != len(small) {
					t.Errorf("reader saw a partial directory of %d cities", n)
					return
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		next := full
		if i%2 == 0 {
			next = small
		}
		require.NoError(t, d.Rebuild(context.Background(), next))
	}
	close(stop)
	wg.Wait()
}

func TestDirectory_DuplicateKeysFirstWins(t *testing.T) {
	d := NewDirectory(nil, nil)
	records := []model.CityRecord{
		city("x", "ir", model.Names{En: "First"}),
		city("x", "af", model.Names{En: "Second"}),
	}
	require.NoError(t, d.Rebuild(context.Background(), records))
	got, ok := d.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "First", got.Names.En)
}
