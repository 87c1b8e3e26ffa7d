/*
Package domain contains the core types shared by every blink component.

It defines the vocabulary of the engine: the counting Strategy, the Result of
a run, the events emitted while a run progresses, and the sentinel errors the
public API returns. Like the rest of the core, this package is pure: no I/O,
no persistence, no third-party imports.

# Key Entities

  - Strategy: which evaluator computes a count (memoized recursion or histogram).
  - Result: total stone count plus the metadata describing how it was produced.
  - IterationEvent / RunEvent: payloads handed to LifecycleHooks.
  - LifecycleHooks: optional callbacks for logging and metrics.
*/
package domain
