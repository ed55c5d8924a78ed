package api

import (
	"io"
	"net/http"

	"github.com/kripanidhi/byajbook-server/internal/http/response"
)

// handleUploadKYC receives a borrower's KYC document as multipart form data.
// POST /api/v1/upload/kyc
func (s *Server) handleUploadKYC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := getUserID(ctx)

	if userID == "" {
		response.Unauthorized(w, "Authentication required", s.logger)
		return
	}

	// Cap the request body slightly above the document limit so multipart
	// framing overhead does not reject a document that is itself in bounds.
	maxSize := s.uploadService.MaxFileSize()
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))

	if err := r.ParseMultipartForm(maxSize); err != nil {
		response.BadRequest(w, "Failed to parse form data", s.logger)
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		response.ErrorWithHint(w, http.StatusBadRequest,
			"No file uploaded. Use 'document' field in multipart form",
			"no file supplied", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("Failed to read uploaded file", "error", err, "user_id", userID)
		response.InternalError(w, "Failed to read uploaded file", s.logger)
		return
	}

	uploaded, err := s.uploadService.SaveKYCDocument(ctx, header.Filename, data)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, map[string]any{"file": uploaded}, s.logger)
}
