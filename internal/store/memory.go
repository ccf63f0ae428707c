package store

import "sync"

// MemoryProvider keeps blobs in a map. It backs tests and any run without a
// database configured.
type MemoryProvider struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{data: make(map[string][]byte)}
}

// Read implements Provider.
func (m *MemoryProvider) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payload, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true, nil
}

// Write implements Provider.
func (m *MemoryProvider) Write(key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.data[key] = stored
	return nil
}
