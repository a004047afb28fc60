// Package errors provides structured error types for the wasm-engine library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Kind set mirrors the engine's failure taxonomy: compilation,
// deserialization, link, linkage-invariant, engine-mismatch and
// target-mismatch failures. Errors are reported to the immediate caller and
// never retried or downgraded by this library.
//
// Use the taxonomy constructors:
//
//	err := errors.Compilation("missing function bodies", nil)
//	err := errors.Deserialization("bad magic %x", magic)
//
// and the matching predicates for classification:
//
//	if errors.IsEngineMismatch(err) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
