/*
Package histogram counts stones by evolving a value -> count histogram.

Stone identity and order do not affect the final count, so every stone with
the same value can be blinked once on behalf of all of them. The work of one
blink is proportional to the number of distinct values, not to the number of
stones, which keeps 75 blinks cheap even though the stone count runs into the
hundreds of trillions.

# Usage

	ev := histogram.NewEvolver(histogram.WithOutcomeCache(true))
	total, err := ev.Count(ctx, []uint64{125, 17}, 75)
*/
package histogram
