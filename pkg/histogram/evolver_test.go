package histogram_test

import (
	"context"
	"testing"

	"github.com/aretw0/blink/pkg/counter"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/aretw0/blink/pkg/histogram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolver_Examples(t *testing.T) {
	ctx := context.Background()

	for _, cached := range []bool{false, true} {
		ev := histogram.NewEvolver(histogram.WithOutcomeCache(cached))

		total, err := ev.Count(ctx, []uint64{0, 1, 10, 99, 999}, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), total)

		want := map[uint32]uint64{
			1:  3,
			2:  4,
			3:  5,
			6:  22,
			25: 55312,
			75: 65601038650482,
		}
		for blinks, expected := range want {
			total, err := ev.Count(ctx, []uint64{125, 17}, blinks)
			require.NoError(t, err)
			assert.Equal(t, expected, total, "after %d blinks (cache=%v)", blinks, cached)
		}

		total, err = ev.Count(ctx, []uint64{0}, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)

		total, err = ev.Count(ctx, []uint64{1000}, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), total)
	}
}

func TestEvolver_ZeroIterations(t *testing.T) {
	ev := histogram.NewEvolver()
	values := []uint64{3, 3, 1000, 0}

	total, err := ev.Count(context.Background(), values, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(values)), total)

	h := histogram.FromValues(values)
	out, err := ev.Evolve(context.Background(), h, 0)
	require.NoError(t, err)
	assert.Equal(t, h, out)
	out[3] = 99
	assert.Equal(t, uint64(2), h[3], "result must not alias the input")
}

func TestEvolver_Step(t *testing.T) {
	ev := histogram.NewEvolver()
	h := histogram.Histogram{99: 4, 0: 2, 1: 1}

	next, err := ev.Step(h)
	require.NoError(t, err)

	// 99 splits into 9 and 9: both halves inherit the full count.
	assert.Equal(t, histogram.Histogram{9: 8, 1: 2, 2024: 1}, next)
	assert.Equal(t, histogram.Histogram{99: 4, 0: 2, 1: 1}, h)
}

func TestEvolver_MonotonicTotals(t *testing.T) {
	var events []domain.IterationEvent
	ev := histogram.NewEvolver(
		histogram.WithKey("k"),
		histogram.WithObserver(func(_ context.Context, e *domain.IterationEvent) {
			events = append(events, *e)
		}),
	)

	_, err := ev.Count(context.Background(), []uint64{125, 17, 0, 9}, 30)
	require.NoError(t, err)
	require.Len(t, events, 30)

	prev := uint64(4)
	for i, e := range events {
		assert.Equal(t, uint32(i+1), e.Iteration)
		assert.Equal(t, domain.EventIteration, e.Type)
		assert.Equal(t, "k", e.Key)
		assert.GreaterOrEqual(t, e.Total, prev)
		assert.Equal(t, prev+e.Splits, e.Total, "growth equals weighted splits at blink %d", e.Iteration)
		assert.Positive(t, e.Distinct)
		prev = e.Total
	}
}

func TestEvolver_MatchesCounter(t *testing.T) {
	ctx := context.Background()
	ev := histogram.NewEvolver(histogram.WithOutcomeCache(true))
	c := counter.New()

	for v := uint64(0); v <= 120; v++ {
		for _, n := range []uint32{1, 2, 5, 10, 20} {
			want, err := c.Count(v, n)
			require.NoError(t, err)
			got, err := ev.Count(ctx, []uint64{v}, n)
			require.NoError(t, err)
			assert.Equal(t, want, got, "value %d after %d blinks", v, n)
		}
	}
}

func TestEvolver_OutcomeCache(t *testing.T) {
	ev := histogram.NewEvolver(histogram.WithOutcomeCache(true))
	_, err := ev.Count(context.Background(), []uint64{125, 17}, 10)
	require.NoError(t, err)
	assert.Positive(t, ev.CachedOutcomes())

	assert.Zero(t, histogram.NewEvolver().CachedOutcomes())
}

func TestEvolver_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	ev := histogram.NewEvolver(histogram.WithObserver(func(_ context.Context, e *domain.IterationEvent) {
		calls++
		if e.Iteration == 3 {
			cancel()
		}
	}))

	_, err := ev.Count(ctx, []uint64{125, 17}, 75)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestEvolver_Overflow(t *testing.T) {
	_, err := histogram.NewEvolver().Count(context.Background(), []uint64{10_000_000_000_000_000}, 2)
	assert.ErrorIs(t, err, domain.ErrOverflow)
}
