// Package engine provides the execution strategies that turn validated
// module metadata and generated machine code into callable exports.
//
// # Architecture
//
// The package provides two Engine implementations behind one interface:
//
//	ObjectFileEngine - emits a relocatable object, links it with the native
//	                   platform linker, loads the shared image and resolves
//	                   exported symbols into trampolines
//	DummyEngine      - produces shape-only artifacts that carry metadata but
//	                   no code; useful for validation-only pipelines
//
// # Object-File Flow
//
//  1. Compile packages machine code, relocations and index-derived symbols
//     and hands them to the ObjectWriter collaborator
//  2. The resulting Artifact serializes via the artifact container codec
//  3. ResolveExports links the object with the NativeLinker, loads the image
//     through the Loader (at most once per artifact) and binds each exported
//     symbol to a Callable trampoline
//
// Which engine produced an artifact is recorded in the container's payload
// tag; deserializing an artifact with the wrong engine fails rather than
// degrading to the other strategy's behavior.
package engine
