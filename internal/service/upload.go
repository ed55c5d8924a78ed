package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	domainerrors "github.com/kripanidhi/byajbook-server/internal/errors"
	"github.com/kripanidhi/byajbook-server/internal/upload"
)

// UploadService validates and stores KYC documents.
type UploadService struct {
	storage     *upload.Storage
	maxFileSize int64
	logger      *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(storage *upload.Storage, maxFileSize int64, logger *slog.Logger) *UploadService {
	return &UploadService{
		storage:     storage,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// MaxFileSize returns the configured upload size limit in bytes.
func (s *UploadService) MaxFileSize() int64 {
	return s.maxFileSize
}

// UploadedFile describes a stored document.
type UploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimetype"`
}

// SaveKYCDocument validates a document and writes it to the KYC directory.
//
// Both the extension and the sniffed content type must be acceptable; a .png
// holding PDF bytes is rejected. The stored name carries a timestamp and
// random suffix so concurrent uploads of the same file cannot collide.
func (s *UploadService) SaveKYCDocument(ctx context.Context, originalName string, data []byte) (*UploadedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, domainerrors.Validation("no file uploaded")
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, domainerrors.Validation("File size exceeds 5MB limit")
	}

	ext := strings.TrimPrefix(filepath.Ext(originalName), ".")
	if !upload.AllowedExtension(ext) {
		return nil, domainerrors.Validation("Only jpeg, jpg, png and pdf files are allowed")
	}

	mimeType := upload.DetectMimeType(data)
	if !upload.AllowedMimeType(mimeType) {
		return nil, domainerrors.Validation(fmt.Sprintf("Invalid file type: %s. Only jpeg, jpg, png and pdf files are allowed", mimeType))
	}

	if mimeType != upload.MimeTypeForExtension(ext) {
		return nil, domainerrors.Validation(fmt.Sprintf("Invalid file type: %s. File content does not match the .%s extension", mimeType, strings.ToLower(ext)))
	}

	filename := upload.GenerateFilename(originalName)
	if err := s.storage.Save(filename, data); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save uploaded file")
	}

	s.logger.Info("kyc document stored",
		"filename", filename,
		"original_name", originalName,
		"size", len(data),
		"mimetype", mimeType,
	)

	return &UploadedFile{
		Filename:     filename,
		OriginalName: originalName,
		URL:          "/uploads/kyc/" + filename,
		Size:         int64(len(data)),
		MimeType:     mimeType,
	}, nil
}
