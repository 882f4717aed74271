package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/vee4group/order-tracker-api/utils"
)

// DocumentService stores order documents (design files, test reports, invoices)
type DocumentService interface {
	// UploadDocument validates and stores a PDF, returns the storage key
	UploadDocument(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error)

	// GetDocumentURL generates a URL for downloading a stored document
	GetDocumentURL(ctx context.Context, key string) (string, error)

	// DeleteDocument removes a document from storage
	DeleteDocument(ctx context.Context, key string) error
}

var documentServiceInstance DocumentService

// GetDocumentService returns the initialized document service instance
func GetDocumentService() DocumentService {
	return documentServiceInstance
}

// SetDocumentService sets the document service instance (primarily for testing)
func SetDocumentService(service DocumentService) {
	documentServiceInstance = service
}

// S3DocumentService implements DocumentService using AWS S3 for storage
type S3DocumentService struct {
	s3Service S3Interface
}

// InitDocumentService initializes the document service with S3 backend
func InitDocumentService(s3Service S3Interface) DocumentService {
	documentServiceInstance = &S3DocumentService{s3Service: s3Service}
	return documentServiceInstance
}

func (s *S3DocumentService) UploadDocument(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidatePDFFile(fileHeader); err != nil {
		return "", err
	}

	key, err := s.s3Service.UploadFile(ctx, fileHeader, folder)
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	return key, nil
}

func (s *S3DocumentService) GetDocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to generate document URL: %w", err)
	}
	return url, nil
}

func (s *S3DocumentService) DeleteDocument(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.s3Service.DeleteFile(ctx, key); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// LocalDocumentService stores documents on local disk; used when S3 is not configured
type LocalDocumentService struct {
	dir string
}

// InitLocalDocumentService initializes the document service with a local directory backend
func InitLocalDocumentService(dir string) DocumentService {
	documentServiceInstance = &LocalDocumentService{dir: dir}
	return documentServiceInstance
}

// UploadDocument saves the file flat in the upload directory; folder is not used
// because files are served back by name only.
func (s *LocalDocumentService) UploadDocument(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (string, error) {
	if err := utils.ValidatePDFFile(fileHeader); err != nil {
		return "", err
	}
	filename, err := utils.SaveUploadedFile(fileHeader, s.dir)
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return filename, nil
}

func (s *LocalDocumentService) GetDocumentURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if !utils.IsSafeFilename(key) {
		return "", fmt.Errorf("invalid document key: %s", key)
	}
	if _, err := os.Stat(filepath.Join(s.dir, key)); err != nil {
		return "", fmt.Errorf("document not found: %w", err)
	}
	return utils.GetDocumentURL(key), nil
}

func (s *LocalDocumentService) DeleteDocument(ctx context.Context, key string) error {
	if key == "" || !utils.IsSafeFilename(key) {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
