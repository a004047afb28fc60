// Package metadata describes the shape of a validated WebAssembly module:
// function signatures, imports, exports, memory and table limits, and segment
// descriptors. Metadata is produced by an external parser/validator and is
// read-only input to an engine during compilation; it travels inside every
// serialized artifact so shape-dependent callers work even when no compiled
// code is present.
//
// Encoding is deterministic (CBOR core-deterministic mode), so identical
// metadata always produces identical bytes.
package metadata
