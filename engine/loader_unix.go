//go:build darwin || linux || freebsd

package engine

import (
	"fmt"

	"github.com/ebitengine/purego"
	"golang.org/x/sys/unix"

	wasmengine "github.com/wasmfoundry/wasm-engine"
	"github.com/wasmfoundry/wasm-engine/errors"
)

// DlLoader loads shared images through the platform dynamic loader.
type DlLoader struct{}

// Load implements wasmengine.Loader.
func (DlLoader) Load(path string) (wasmengine.Handle, error) {
	if err := unix.Access(path, unix.R_OK); err != nil {
		return nil, errors.Link(fmt.Sprintf("image %s not readable", path), err)
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, errors.Link(fmt.Sprintf("loading image %s", path), err)
	}
	debugf("loaded image %s", path)
	return &dlHandle{h: h}, nil
}

type dlHandle struct {
	h uintptr
}

func (d *dlHandle) Resolve(name string) (uintptr, error) {
	ptr, err := purego.Dlsym(d.h, name)
	if err != nil {
		return 0, err
	}
	return ptr, nil
}

func (d *dlHandle) Close() error {
	return purego.Dlclose(d.h)
}
