package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"sync"
)

// MockS3Service keeps objects in memory. Keys follow the same "<folder>/<name>"
// layout as the real bucket so document keys stored on orders look alike.
type MockS3Service struct {
	mu      sync.RWMutex
	objects map[string][]byte
	failOn  map[string]error
}

func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
		failOn:  make(map[string]error),
	}
}

// FailNext makes the next call of the named operation ("upload", "presign",
// "delete") return err.
func (m *MockS3Service) FailNext(op string, err error) {
	m.mu.Lock()
	m.failOn[op] = err
	m.mu.Unlock()
}

func (m *MockS3Service) takeFailure(op string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failOn[op]
	delete(m.failOn, op)
	return err
}

func (m *MockS3Service) UploadFile(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := m.takeFailure("upload"); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/mock_%s", folder, filepath.Base(fileHeader.Filename))

	m.mu.Lock()
	m.objects[key] = content
	m.mu.Unlock()
	return key, nil
}

func (m *MockS3Service) GetPresignedURL(ctx context.Context, s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}
	if err := m.takeFailure("presign"); err != nil {
		return "", err
	}
	if !m.FileExists(s3Key) {
		return "", errors.New("mock s3: no such key " + s3Key)
	}
	return "https://test-bucket.s3.us-east-1.amazonaws.com/" + s3Key + "?mock=true", nil
}

func (m *MockS3Service) DeleteFile(ctx context.Context, s3Key string) error {
	if s3Key == "" {
		return nil
	}
	if err := m.takeFailure("delete"); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, s3Key)
	m.mu.Unlock()
	return nil
}

// FileExists reports whether key is currently stored.
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Content returns a copy of the stored bytes for key.
func (m *MockS3Service) Content(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]byte(nil), m.objects[key]...)
}
