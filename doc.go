// Package wasmengine is the execution-engine layer of a WebAssembly runtime:
// it turns a validated module into something callable through interchangeable
// compilation strategies, and packages the result so it can be persisted and
// re-loaded across process invocations.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	wasmengine/          Root package with collaborator interfaces (object
//	                     writer, native linker, dynamic loader, trap sink)
//	├── engine/          Engine strategies: object-file engine and dummy engine
//	├── artifact/        Serializable compilation artifacts and their codec
//	├── metadata/        Module shape metadata and its deterministic encoding
//	├── target/          Target triple parsing and host compatibility checks
//	└── errors/          Structured error types for debugging
//
// # Strategies
//
// Two Engine implementations share one contract. The object-file engine
// drives an object writer, links the emitted object into a shared image with
// the platform linker, loads it, and resolves exported symbols into callable
// trampolines. The dummy engine produces artifacts that carry only module
// shape metadata, so engine-level plumbing can be exercised without a working
// code generator or native toolchain.
//
// # Quick Start
//
// Compile and call an export:
//
//	eng, err := engine.NewObjectFileEngine(engine.Config{Writer: writer})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	art, err := eng.Compile(meta, code)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer art.Close()
//
//	exports, err := eng.ResolveExports(art)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := exports.Call("add", 1, 2)
//
// Artifacts serialize deterministically, so callers can cache them by content
// hash and restore them later with Engine.Deserialize.
//
// The WebAssembly parser/validator, the instruction-level code generator, and
// the virtual-machine structures backing execution are deliberately outside
// this module; they are consumed through the narrow interfaces in this root
// package.
package wasmengine
