package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider returns canned batches in order, then empty results.
type fakeProvider struct {
	batches [][]PairRecord
	calls   int
	err     error
}

func (f *fakeProvider) FetchNewest(ctx context.Context, maxAgeHours float64, limit int) ([]PairRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.batches) {
		return nil, nil
	}
	batch := f.batches[f.calls]
	f.calls++
	if len(batch) > limit {
		batch = batch[:limit]
	}
	return batch, nil
}

func TestPollNewestReturnsUnseenPair(t *testing.T) {
	provider := &fakeProvider{batches: [][]PairRecord{
		{{PairAddress: "PAIR1", BaseSymbol: "WIF", QuoteSymbol: "SOL"}},
	}}
	registry := NewRegistry()
	scout := NewScout(provider, registry, 1, zap.NewNop())

	rec, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "PAIR1", rec.PairAddress)
	assert.Equal(t, "WIF/SOL", rec.Name())

	// Seen at discovery time, not at trade-open time.
	assert.True(t, registry.Has("PAIR1"))
}

func TestPollNewestFiltersSeenPair(t *testing.T) {
	provider := &fakeProvider{batches: [][]PairRecord{
		{{PairAddress: "PAIR1"}},
	}}
	registry := NewRegistry()
	registry.Add("PAIR1")
	scout := NewScout(provider, registry, 1, zap.NewNop())

	rec, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPollNewestZeroRecords(t *testing.T) {
	provider := &fakeProvider{}
	scout := NewScout(provider, NewRegistry(), 1, zap.NewNop())

	rec, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPollNewestProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("actor run finished with status FAILED")}
	scout := NewScout(provider, NewRegistry(), 1, zap.NewNop())

	rec, err := scout.PollNewest(context.Background())
	assert.Error(t, err)
	assert.Nil(t, rec)
}

func TestPollNewestFireOnce(t *testing.T) {
	// The same pair offered twice is returned only the first time, even
	// though the caller never opened a trade on it.
	provider := &fakeProvider{batches: [][]PairRecord{
		{{PairAddress: "PAIR1"}},
		{{PairAddress: "PAIR1"}},
	}}
	scout := NewScout(provider, NewRegistry(), 1, zap.NewNop())

	first, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, second)
}

func TestPollManyReportsEachPairOnce(t *testing.T) {
	provider := &fakeProvider{batches: [][]PairRecord{
		{{PairAddress: "PAIR1"}, {PairAddress: "PAIR2"}, {PairAddress: ""}},
		{{PairAddress: "PAIR2"}, {PairAddress: "PAIR3"}},
	}}
	scout := NewScout(provider, NewRegistry(), 1, zap.NewNop())

	first, err := scout.PollMany(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "PAIR1", first[0].PairAddress)
	assert.Equal(t, "PAIR2", first[1].PairAddress)

	second, err := scout.PollMany(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "PAIR3", second[0].PairAddress)
}

func TestWarmupMarksWithoutTrading(t *testing.T) {
	provider := &fakeProvider{batches: [][]PairRecord{
		{{PairAddress: "PAIR1"}, {PairAddress: "PAIR2"}},
		{{PairAddress: "PAIR1"}},
	}}
	registry := NewRegistry()
	scout := NewScout(provider, registry, 1, zap.NewNop())

	marked, err := scout.Warmup(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	// A warm-up pair offered again is not treated as new.
	rec, err := scout.PollNewest(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}
