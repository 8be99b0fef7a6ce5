package mocks

import (
	"errors"
	"sync"
)

// Failures lets a test make a named mock method return an error.
type Failures struct {
	mu   sync.Mutex
	errs map[string]error
}

func (f *Failures) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	f.errs[method] = err
}

func (f *Failures) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = nil
}

func (f *Failures) failure(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}

var errDuplicateKey = errors.New("duplicate key value violates unique constraint")
