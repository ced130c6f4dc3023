package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"snapgram_server/pkg/apperrors"
)

// MockMediaService is an in-memory MediaService used by tests and local
// runs without S3 credentials.
type MockMediaService struct {
	mu       sync.Mutex
	counter  int
	assets   map[string]bool
	FailNext bool
}

func NewMockMediaService() *MockMediaService {
	return &MockMediaService{assets: make(map[string]bool)}
}

func (m *MockMediaService) Upload(_ context.Context, _ io.Reader, filename, _ string) (*MediaAsset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext {
		m.FailNext = false
		return nil, apperrors.ErrUploadFailed
	}
	m.counter++
	handle := fmt.Sprintf("mock/%d-%s", m.counter, filename)
	m.assets[handle] = true
	return &MediaAsset{URL: "https://media.test/" + handle, DeleteHandle: handle}, nil
}

func (m *MockMediaService) Delete(_ context.Context, deleteHandle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assets, deleteHandle)
	return nil
}

// Stored reports whether an uploaded asset is still present.
func (m *MockMediaService) Stored(deleteHandle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assets[deleteHandle]
}
