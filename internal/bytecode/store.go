// Package bytecode implements the lazy per-method opcode cache (spec.md
// §4.1): given a method id, it returns the method's decoded opcode
// sequence, loading and decoding from the underlying JSON source at most
// once per method.
package bytecode

import (
	"fmt"
	"sync"

	"github.com/dolthub/swiss"

	"github.com/magladko/jpamb-sub000/internal/jvm"
	"github.com/magladko/jpamb-sub000/internal/opcode"
)

// Loader fetches the raw decompiled-opcode JSON for a method. The suite
// package supplies the disk-backed implementation; tests supply an
// in-memory one.
type Loader interface {
	LoadOpcodes(method jvm.AbsMethodID) ([]byte, error)
}

// Store is the append-only, read-mostly method-id -> opcode-sequence
// cache. It is safe for concurrent read access once populated (the
// debloater's per-method fan-out, spec.md §4.7, relies on this); writes are
// guarded by a mutex since first access may race across goroutines.
type Store struct {
	loader Loader
	mu     sync.Mutex
	cache  *swiss.Map[jvm.AbsMethodID, []opcode.Opcode]
}

func New(loader Loader) *Store {
	return &Store{
		loader: loader,
		cache:  swiss.NewMap[jvm.AbsMethodID, []opcode.Opcode](64),
	}
}

// Method returns the decoded opcode sequence for method, decoding and
// caching it on first access.
func (s *Store) Method(method jvm.AbsMethodID) ([]opcode.Opcode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ops, ok := s.cache.Get(method); ok {
		return ops, nil
	}
	raw, err := s.loader.LoadOpcodes(method)
	if err != nil {
		return nil, fmt.Errorf("invalid input: cannot load opcodes for %s: %w", method, err)
	}
	ops, err := opcode.DecodeMethod(raw)
	if err != nil {
		return nil, fmt.Errorf("%w (method %s)", err, method)
	}
	s.cache.Put(method, ops)
	return ops, nil
}

// At returns the single opcode at (method, offset). An out-of-range offset
// is a fatal programming error per spec.md §4.1, not a recoverable
// condition — the verified bytecode guarantees every PC the interpreter
// dereferences is in range.
func (s *Store) At(method jvm.AbsMethodID, offset int) opcode.Opcode {
	ops, err := s.Method(method)
	if err != nil {
		panic(fmt.Sprintf("bytecode: %v", err))
	}
	if offset < 0 || offset >= len(ops) {
		panic(fmt.Sprintf("bytecode: offset %d out of range for %s (len=%d)", offset, method, len(ops)))
	}
	return ops[offset]
}

// Len reports the number of opcodes in method, loading it if necessary.
func (s *Store) Len(method jvm.AbsMethodID) (int, error) {
	ops, err := s.Method(method)
	if err != nil {
		return 0, err
	}
	return len(ops), nil
}
