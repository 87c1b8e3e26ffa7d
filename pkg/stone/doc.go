/*
Package stone implements the blink rule and the helpers around it.

A stone is a non-negative integer. One blink replaces every stone according to
the first matching rule:

 1. 0 becomes 1.
 2. A stone with an even number of decimal digits splits into its left and
    right halves (1000 becomes 10 and 0).
 3. Any other stone is multiplied by 2024.

Apply is total and pure. ApplyChecked is the same rule with overflow
detection, used by the counters so that a wrapped uint64 is reported instead
of silently miscounted.
*/
package stone
