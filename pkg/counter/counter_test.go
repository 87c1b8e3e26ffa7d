package counter_test

import (
	"context"
	"testing"

	"github.com/aretw0/blink/pkg/counter"
	"github.com/aretw0/blink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCount_ZeroSteps(t *testing.T) {
	c := counter.New()
	for _, v := range []uint64{0, 1, 10, 999, 18446744073709551615} {
		n, err := c.Count(v, 0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n, "Count(%d, 0)", v)
	}
	assert.Zero(t, c.Stats().Entries, "base case must not populate the memo")
}

func TestCount_SingleBlink(t *testing.T) {
	c := counter.New()
	cases := map[uint64]uint64{
		0:    1,
		1:    1,
		10:   2,
		99:   2,
		999:  1,
		1000: 2,
	}
	for v, want := range cases {
		n, err := c.Count(v, 1)
		require.NoError(t, err)
		assert.Equal(t, want, n, "Count(%d, 1)", v)
	}
}

func TestTotal_Examples(t *testing.T) {
	ctx := context.Background()

	t.Run("Single blink example", func(t *testing.T) {
		total, err := counter.New().Total(ctx, []uint64{0, 1, 10, 99, 999}, 1)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), total)
	})

	t.Run("Longer example", func(t *testing.T) {
		want := map[uint32]uint64{1: 3, 2: 4, 3: 5, 6: 22, 25: 55312}
		for blinks, expected := range want {
			total, err := counter.New().Total(ctx, []uint64{125, 17}, blinks)
			require.NoError(t, err)
			assert.Equal(t, expected, total, "after %d blinks", blinks)
		}
	})

	t.Run("Duplicates count with multiplicity", func(t *testing.T) {
		c := counter.New()
		one, err := c.Total(ctx, []uint64{125}, 25)
		require.NoError(t, err)
		three, err := c.Total(ctx, []uint64{125, 125, 125}, 25)
		require.NoError(t, err)
		assert.Equal(t, 3*one, three)
	})

	t.Run("Empty input", func(t *testing.T) {
		total, err := counter.New().Total(ctx, nil, 25)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestTotal_ReusesMemo(t *testing.T) {
	c := counter.New()
	_, err := c.Total(context.Background(), []uint64{125, 17}, 25)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Positive(t, stats.Hits)
	assert.Positive(t, stats.Misses)
	assert.Equal(t, int(stats.Misses), stats.Entries)
}

func TestTotal_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := counter.New().Total(ctx, []uint64{125}, 25)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCount_Overflow(t *testing.T) {
	// 17 odd digits: the first multiply wraps.
	_, err := counter.New().Count(10_000_000_000_000_000, 3)
	assert.ErrorIs(t, err, domain.ErrOverflow)
}

func TestCount_DeepRunFailsWithoutRecursing(t *testing.T) {
	c := counter.New()

	_, err := c.Count(0, 20_000_000)
	assert.ErrorIs(t, err, domain.ErrOverflow)

	_, err = c.Total(context.Background(), []uint64{125, 17}, counter.MaxSteps+1)
	assert.ErrorIs(t, err, domain.ErrOverflow)
	assert.Zero(t, c.Stats().Entries, "nothing is memoized past the limit")
}

func TestCount_AtMaxStepsOverflowsCleanly(t *testing.T) {
	_, err := counter.New().Count(0, counter.MaxSteps)
	assert.ErrorIs(t, err, domain.ErrOverflow)
}
