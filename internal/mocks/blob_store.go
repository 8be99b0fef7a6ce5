package mocks

import (
	"context"
	"io"
	"sort"
	"sync"
)

type MockBlobStore struct {
	Failures
	mu      sync.Mutex
	objects map[string][]byte
	// RemoveCalls records one entry per Remove call, keyed by bucket.
	RemoveCalls map[string][][]string
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		objects:     make(map[string][]byte),
		RemoveCalls: make(map[string][][]string),
	}
}

func (m *MockBlobStore) Upload(ctx context.Context, bucket, filePath string, r io.Reader, contentType string) (string, error) {
	if err := m.failure("Upload"); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+filePath] = data
	return filePath, nil
}

func (m *MockBlobStore) Remove(ctx context.Context, bucket string, paths []string) error {
	m.mu.Lock()
	m.RemoveCalls[bucket] = append(m.RemoveCalls[bucket], append([]string(nil), paths...))
	m.mu.Unlock()

	if err := m.failure("Remove"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		delete(m.objects, bucket+"/"+p)
	}
	return nil
}

func (m *MockBlobStore) PublicURL(bucket, filePath string) string {
	return "https://blobs.test/" + bucket + "/" + filePath
}

func (m *MockBlobStore) Has(bucket, filePath string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[bucket+"/"+filePath]
	return ok
}

func (m *MockBlobStore) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
