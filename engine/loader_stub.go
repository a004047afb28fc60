//go:build !(darwin || linux || freebsd)

package engine

import (
	"fmt"
	"runtime"

	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/errors"
)

// DlLoader is unavailable on this platform; Load always fails. Use the
// dummy engine, or supply a custom Loader, on hosts without dlopen.
type DlLoader struct{}

// Load implements wasmengine.Loader.
func (DlLoader) Load(string) (wasmengine.Handle, error) {
	return nil, errors.Link(fmt.Sprintf("dynamic loading not supported on %s", runtime.GOOS), nil)
}
