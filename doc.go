/*
Package blink counts stones under the blink rule.

Every blink replaces each stone (a non-negative integer) by the first matching
rule: 0 becomes 1; a stone with an even number of digits splits into its left
and right halves; any other stone is multiplied by 2024. The number of stones
grows exponentially, so the engine never materializes them. It offers two
exact evaluators:

  - memo: recursion on (value, blinks remaining) with an explicit memo. Good
    for small blink counts such as 25.
  - histogram: blinks a value -> count histogram in lock-step, so the work
    per blink is proportional to the number of distinct values. Good for any
    blink count, including 75.

The default "auto" strategy picks memo up to the memo threshold and histogram
beyond it. Both return identical totals.

# Usage

For a one-off count, use Count:

	total, err := blink.Count([]uint64{125, 17}, 75)

For logging, metrics, result caching or a fixed strategy, build an Engine:

	eng, err := blink.New(
		blink.WithLogger(logger),
		blink.WithStore(memory.NewStore()),
	)
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.RunInput(ctx, "125 17", 25)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Total) // 55312
*/
package blink
