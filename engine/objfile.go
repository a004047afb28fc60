package engine

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/artifact"
	"github.com/wasmfoundry/wasm-engine/errors"
	"github.com/wasmfoundry/wasm-engine/metadata"
	"github.com/wasmfoundry/wasm-engine/target"
)

// Config holds configuration for object-file engine creation. Writer is
// required; every other collaborator has a platform default.
type Config struct {
	// Writer emits relocatable objects from compiled code. Required.
	Writer wasmengine.ObjectWriter

	// Linker combines objects into a shared image. Defaults to an
	// ExecLinker driving the platform "cc".
	Linker wasmengine.NativeLinker

	// Loader maps shared images into the process. Defaults to DlLoader.
	Loader wasmengine.Loader

	// TrapSink is consulted by every trampoline after a native call.
	TrapSink wasmengine.TrapSink

	// IntrinsicsObject is an optional extra object linked into every image,
	// providing the runtime intrinsic symbols the generated code calls.
	IntrinsicsObject []byte

	// TempDir is where linked images are placed. Empty means a fresh
	// scratch directory per load, removed when the image closes.
	TempDir string

	// Persist keeps linked images on disk after the artifact closes.
	Persist bool

	// Logger replaces the package logger when set.
	Logger *zap.Logger
}

// ObjectFileEngine compiles to relocatable objects, links them with the
// native platform linker and loads the result as a shared image. Its
// artifacts are target-specific and loadable at most once.
type ObjectFileEngine struct {
	cfg    Config
	triple target.Triple
}

// NewObjectFileEngine creates an object-file engine for the host target.
func NewObjectFileEngine(cfg Config) (*ObjectFileEngine, error) {
	if cfg.Writer == nil {
		return nil, errors.Invariant(errors.PhaseCompile, "object writer is required")
	}
	if cfg.Linker == nil {
		cfg.Linker = &ExecLinker{}
	}
	if cfg.Loader == nil {
		cfg.Loader = DlLoader{}
	}
	if cfg.Logger != nil {
		SetLogger(cfg.Logger)
	}
	return &ObjectFileEngine{cfg: cfg, triple: target.Host()}, nil
}

// Name implements Engine.
func (*ObjectFileEngine) Name() string { return "objfile" }

// Triple returns the target this engine builds for.
func (e *ObjectFileEngine) Triple() target.Triple { return e.triple }

// IsCompatible implements Engine.
func (e *ObjectFileEngine) IsCompatible(t target.Triple) bool {
	return t.Compatible(e.triple)
}

// symbolName derives the object symbol for a function index. Symbols are
// index-derived so that compilation output is deterministic and link-time
// references between functions need no name section.
func symbolName(funcIndex uint32) string {
	return fmt.Sprintf("wasmfn_%d", funcIndex)
}

// Compile implements Engine. It validates metadata and relocations,
// derives per-function symbols, emits a relocatable object through the
// writer and wraps it in an artifact for the host target.
func (e *ObjectFileEngine) Compile(meta *metadata.Module, code []wasmengine.CompiledFunction) (*artifact.Artifact, error) {
	if meta == nil {
		return nil, errors.Compilationf("no module metadata")
	}
	if err := meta.Validate(); err != nil {
		return nil, errors.Compilation("invalid module metadata", err)
	}
	if len(code) == 0 {
		return nil, errors.Compilationf("no function bodies to compile")
	}
	defined := len(meta.Funcs)
	if len(code) != defined {
		return nil, errors.Compilationf("%d function bodies for %d defined functions", len(code), defined)
	}

	numImported := meta.NumImported(metadata.KindFunc)
	numFuncs := meta.NumFunctions()
	syms := make([]wasmengine.Symbol, defined)
	for i, fn := range code {
		funcIndex := numImported + uint32(i)
		if len(fn.Code) == 0 {
			return nil, errors.Compilationf("function %d has an empty body", funcIndex)
		}
		for _, r := range fn.Relocs {
			switch r.Kind {
			case wasmengine.RelocFunction:
				if r.FunctionIndex >= numFuncs {
					return nil, errors.Compilationf("function %d relocates against unknown function %d", funcIndex, r.FunctionIndex)
				}
			case wasmengine.RelocIntrinsic:
				if !IsIntrinsic(r.Intrinsic) {
					return nil, errors.Compilationf("function %d references undeclared intrinsic %q", funcIndex, r.Intrinsic)
				}
			default:
				return nil, errors.Compilationf("function %d has relocation of unknown kind %d", funcIndex, r.Kind)
			}
			if int(r.Offset) >= len(fn.Code) {
				return nil, errors.Compilationf("function %d relocation offset %d past body end", funcIndex, r.Offset)
			}
		}
		syms[i] = wasmengine.Symbol{Name: symbolName(funcIndex), FunctionIndex: funcIndex}
	}

	obj, err := e.cfg.Writer.Emit(code, syms)
	if err != nil {
		return nil, errors.Compilation("object emission failed", err)
	}

	var entries []artifact.SymbolEntry
	for pos, exp := range meta.Exports {
		if exp.Kind != metadata.KindFunc {
			continue
		}
		if exp.Index < numImported {
			// Re-exported imports have no body in this object.
			debugf("export %q re-exports imported function %d, skipping symbol", exp.Name, exp.Index)
			continue
		}
		entries = append(entries, artifact.SymbolEntry{
			ExportIndex: uint32(pos),
			Symbol:      symbolName(exp.Index),
		})
	}

	debugf("compiled %d functions into %d object bytes, %d exported symbols", defined, len(obj), len(entries))
	return artifact.New(e.triple, meta, obj, entries), nil
}

// Deserialize implements Engine. Magic and version are checked by the
// container codec; on top of that the payload must carry object code and
// the recorded target must be loadable here. A target mismatch is a hard
// failure before anything is linked or loaded.
func (e *ObjectFileEngine) Deserialize(data []byte) (*artifact.Artifact, error) {
	a, err := artifact.Decode(data)
	if err != nil {
		return nil, err
	}
	if !a.HasCode() {
		return nil, errors.EngineMismatch("container carries no object code, built by the dummy engine")
	}
	if !a.Triple().Compatible(e.triple) {
		return nil, errors.TargetMismatch(a.Triple().String(), e.triple.String())
	}
	return a, nil
}

// ResolveExports implements Engine. The first call links and loads the
// artifact's object code; the artifact guarantees that happens at most
// once, and a failed load stays failed. Every call builds its export set
// from the same resolved image.
func (e *ObjectFileEngine) ResolveExports(a *artifact.Artifact) (*ExportSet, error) {
	if a == nil {
		return nil, errors.Invariant(errors.PhaseResolve, "nil artifact")
	}
	if !a.HasCode() {
		return nil, errors.EngineMismatch("artifact carries no object code")
	}
	if !a.Triple().Compatible(e.triple) {
		return nil, errors.TargetMismatch(a.Triple().String(), e.triple.String())
	}

	// Decoded containers cross-check the symbol table already; artifacts
	// assembled by hand get the same check here, before anything loads.
	meta := a.Meta()
	for _, entry := range a.Symbols() {
		if int(entry.ExportIndex) >= len(meta.Exports) {
			return nil, errors.LinkageInvariant(entry.Symbol, "symbol references no declared export")
		}
	}

	img, err := a.Materialize(func() (*artifact.Image, error) {
		return e.load(a)
	})
	if err != nil {
		return nil, err
	}

	set := newExportSet(true)
	for _, entry := range a.Symbols() {
		exp := meta.Exports[entry.ExportIndex]
		sig, ok := meta.SignatureOf(exp.Index)
		if !ok {
			return nil, errors.LinkageInvariant(entry.Symbol, "exported function has no signature")
		}
		ptr, ok := img.Pointers[entry.Symbol]
		if !ok {
			return nil, errors.LinkageInvariant(entry.Symbol, "symbol missing from loaded image")
		}
		set.add(exp.Name, &trampoline{
			name:    exp.Name,
			ptr:     ptr,
			params:  len(sig.Params),
			results: len(sig.Results),
			sink:    e.cfg.TrapSink,
		})
	}
	return set, nil
}

// load links the artifact's object code and maps the image, resolving every
// exported symbol up front. Any unresolved symbol after a successful link
// tears the image down again; a half-resolved image is never kept.
func (e *ObjectFileEngine) load(a *artifact.Artifact) (*artifact.Image, error) {
	dir := e.cfg.TempDir
	scratch := ""
	if dir == "" {
		var err error
		dir, err = os.MkdirTemp("", "wasm-engine-")
		if err != nil {
			return nil, errors.Link("creating scratch directory", err)
		}
		scratch = dir
	}
	cleanupDir := func() {
		if scratch != "" {
			os.RemoveAll(scratch)
		}
	}

	objects := [][]byte{a.ObjectCode()}
	if len(e.cfg.IntrinsicsObject) > 0 {
		objects = append(objects, e.cfg.IntrinsicsObject)
	}

	path, err := e.cfg.Linker.Link(objects, dir)
	if err != nil {
		cleanupDir()
		return nil, err
	}

	handle, err := e.cfg.Loader.Load(path)
	if err != nil {
		os.Remove(path)
		cleanupDir()
		return nil, err
	}

	pointers := make(map[string]uintptr, len(a.Symbols()))
	for _, entry := range a.Symbols() {
		ptr, err := handle.Resolve(entry.Symbol)
		if err != nil || ptr == 0 {
			handle.Close()
			os.Remove(path)
			cleanupDir()
			return nil, errors.LinkageInvariant(entry.Symbol, "exported symbol unresolved after successful link")
		}
		pointers[entry.Symbol] = ptr
	}

	debugf("loaded image %s with %d symbols", path, len(pointers))
	return &artifact.Image{
		Path:     path,
		Dir:      scratch,
		Handle:   handle,
		Pointers: pointers,
		Persist:  e.cfg.Persist,
	}, nil
}
