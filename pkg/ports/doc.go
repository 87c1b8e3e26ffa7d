/*
Package ports defines the driven ports (interfaces) of the blink engine.

These interfaces decouple the counting core from adapters, so the same engine
can run from the CLI, behind HTTP or over MCP, with or without a persistent
result store.

# Key Interfaces

  - Engine: what the transport adapters need from the engine.
  - ResultStore: persists finished results keyed by histogram key.
  - DistributedLocker: coordinates replicas so a key is computed once.
*/
package ports
