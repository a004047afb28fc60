package metadata

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encoding uses CBOR core-deterministic mode so identical module metadata
// always produces identical bytes. Artifact containers depend on this for
// content-addressed caching.
var (
	encMode = func() cbor.EncMode {
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			panic(fmt.Sprintf("metadata: cbor encode mode: %v", err))
		}
		return em
	}()

	decMode = func() cbor.DecMode {
		dm, err := cbor.DecOptions{
			DupMapKey:         cbor.DupMapKeyEnforcedAPF,
			IndefLength:       cbor.IndefLengthForbidden,
			ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
		}.DecMode()
		if err != nil {
			panic(fmt.Sprintf("metadata: cbor decode mode: %v", err))
		}
		return dm
	}()
)

// Encode serializes the module deterministically.
func (m *Module) Encode() ([]byte, error) {
	return encMode.Marshal(m)
}

// Decode parses a module previously produced by Encode.
func Decode(data []byte) (*Module, error) {
	var m Module
	if err := decMode.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}
	return &m, nil
}
