package artifact

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	wasmengine "github.com/wasmfoundry/wasm-engine"
)

// Load states. The only legal transitions are
// unloaded -> loading -> {loaded, failed}; failed is sticky, so a link or
// load failure is never retried behind the caller's back.
const (
	stateUnloaded int32 = iota
	stateLoading
	stateLoaded
	stateFailed
)

// loadState guards the one-time ObjectCode -> LoadedImage transition.
// Concurrent first-time loads race on a compare-and-set; exactly one caller
// runs the load function, everyone else blocks until it finishes and then
// observes the identical image or error.
type loadState struct {
	phase atomic.Int32
	done  chan struct{}
	image *Image
	err   error
}

func (s *loadState) init() {
	s.done = make(chan struct{})
}

// Materialize performs the one-time load transition. It is idempotent:
// every call after the first returns the winner's result without invoking
// load again.
func (a *Artifact) Materialize(load func() (*Image, error)) (*Image, error) {
	s := &a.load
	for {
		switch s.phase.Load() {
		case stateLoaded:
			return s.image, nil
		case stateFailed:
			return nil, s.err
		case stateLoading:
			<-s.done
		case stateUnloaded:
			if !s.phase.CompareAndSwap(stateUnloaded, stateLoading) {
				continue
			}
			return s.run(load)
		}
	}
}

// run executes the load for the winning caller and publishes the outcome.
// A panicking load is recorded as a failure, so waiting callers observe a
// failed artifact instead of blocking forever on the done channel.
func (s *loadState) run(load func() (*Image, error)) (img *Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("load panicked: %v", r)
		}
		if err != nil {
			s.err = err
			s.phase.Store(stateFailed)
		} else {
			s.image = img
			s.phase.Store(stateLoaded)
		}
		close(s.done)
	}()
	return load()
}

// Image returns the loaded image when the transition has completed
// successfully.
func (a *Artifact) Image() (*Image, bool) {
	if a.load.phase.Load() != stateLoaded {
		return nil, false
	}
	return a.load.image, true
}

// Image is a linked, dynamically loaded unit resolved into process memory.
// Its OS resources (the mapped library and its backing file) are owned
// exclusively by the artifact that created it.
type Image struct {
	// Path of the shared image on disk.
	Path string
	// Dir is the scratch directory holding the image, removed on Close
	// when set (and Persist is off).
	Dir string
	// Handle into the dynamic loader.
	Handle wasmengine.Handle
	// Pointers maps symbol names to resolved function pointers.
	Pointers map[string]uintptr
	// Persist keeps the backing file on Close.
	Persist bool

	closeOnce sync.Once
	closeErr  error
}

// Close unloads the image and removes its backing file unless Persist is
// set. Safe to call more than once.
func (img *Image) Close() error {
	img.closeOnce.Do(func() {
		if img.Handle != nil {
			img.closeErr = img.Handle.Close()
		}
		if img.Path != "" && !img.Persist {
			if err := os.Remove(img.Path); err != nil && !os.IsNotExist(err) && img.closeErr == nil {
				img.closeErr = err
			}
		}
		if img.Dir != "" && !img.Persist {
			if err := os.RemoveAll(img.Dir); err != nil && img.closeErr == nil {
				img.closeErr = err
			}
		}
	})
	return img.closeErr
}
