// Package artifact defines the serializable, versioned result of compiling
// (or stubbing) a WebAssembly module, and the container format shared by all
// engines for persisting and restoring it.
//
// An Artifact is created once, by Engine.Compile or Engine.Deserialize, and
// is immutable afterwards except for one transition: materializing object
// code into a loaded image. That transition happens at most once per
// artifact, is guarded by an atomic state machine, and is owned exclusively
// by the object-file engine. Artifacts without compiled code never make the
// transition; callers must consult HasCode before asking for callables.
//
// Encoding is deterministic: identical artifact content always produces
// identical bytes, so callers can cache serialized artifacts by content hash.
package artifact
