package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/vee4group/order-tracker-api/utils"
)

// MockDocumentService is a mock implementation of DocumentService for testing
type MockDocumentService struct {
	documents map[string][]byte // map of document key to file content
	mu        sync.RWMutex
}

// NewMockDocumentService creates a new mock document service
func NewMockDocumentService() *MockDocumentService {
	return &MockDocumentService{
		documents: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global document service instance for testing
func (m *MockDocumentService) SetAsMockForTesting() {
	SetDocumentService(m)
}

// UploadDocument simulates storing a document
func (m *MockDocumentService) UploadDocument(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidatePDFFile(fileHeader); err != nil {
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

	key := fmt.Sprintf("%s/mock_%s", folder, fileHeader.Filename)

	m.mu.Lock()
	m.documents[key] = content
	m.mu.Unlock()

	return key, nil
}

// GetDocumentURL simulates generating a download URL
func (m *MockDocumentService) GetDocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.documents[key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("document not found in mock storage: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteDocument simulates deleting a document
func (m *MockDocumentService) DeleteDocument(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.documents, key)
	m.mu.Unlock()
	return nil
}

// DocumentExists checks if a document exists in mock storage
func (m *MockDocumentService) DocumentExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.documents[key]
	return exists
}

// Count returns the number of stored documents
func (m *MockDocumentService) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}
