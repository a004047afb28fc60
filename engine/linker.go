package engine

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/wasmfoundry/wasm-engine/errors"
)

// ExecLinker drives the platform C toolchain to combine relocatable objects
// into one shared image. Linking is synchronous and bounded; a missing
// toolchain or a failed link both surface as link errors and are never
// retried.
type ExecLinker struct {
	// CC is the compiler driver to invoke. Empty means "cc".
	CC string
	// ExtraFlags are appended after the default "-shared" flags.
	ExtraFlags []string
}

// sharedImageExt returns the platform's shared library suffix.
func sharedImageExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// Link implements wasmengine.NativeLinker. The objects are written into
// outDir, linked there, and the path of the resulting image is returned.
// The intermediate object files are removed; the image is the caller's to
// clean up.
func (l *ExecLinker) Link(objects [][]byte, outDir string) (string, error) {
	if len(objects) == 0 {
		return "", errors.Link("no objects to link", nil)
	}

	cc := l.CC
	if cc == "" {
		cc = "cc"
	}
	if _, err := exec.LookPath(cc); err != nil {
		return "", errors.Link(fmt.Sprintf("native toolchain %q not found", cc), err)
	}

	objPaths := make([]string, len(objects))
	for i, obj := range objects {
		p := filepath.Join(outDir, fmt.Sprintf("mod_%d.o", i))
		if err := os.WriteFile(p, obj, 0o644); err != nil {
			return "", errors.Link("writing object file", err)
		}
		objPaths[i] = p
	}
	defer func() {
		for _, p := range objPaths {
			os.Remove(p)
		}
	}()

	imagePath := filepath.Join(outDir, "module"+sharedImageExt())
	args := []string{"-shared", "-o", imagePath}
	args = append(args, objPaths...)
	args = append(args, l.ExtraFlags...)

	debugf("linking %d objects: %s %s", len(objects), cc, strings.Join(args, " "))

	out, err := exec.Command(cc, args...).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = "linker failed"
		}
		return "", errors.Link(detail, err)
	}
	return imagePath, nil
}
