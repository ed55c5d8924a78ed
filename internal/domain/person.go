package domain

// Person is a customer record scoped to a single book (branch).
// KYCDocumentURL points at a previously uploaded document under
// /uploads/kyc/; it is set after the upload endpoint returns a URL.
type Person struct {
	Entity
	BookID         string `json:"book_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	KYCDocumentURL string `json:"kyc_document_url,omitempty"`
}
