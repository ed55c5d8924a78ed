package domain

// Book is a tenant-scoped branch of the business. Every book has exactly
// one owner; staff see a book only through an explicit BranchAccess grant.
type Book struct {
	Entity
	Name        string `json:"name"`
	OwnerUserID string `json:"owner_user_id"`
}

// IsOwnedBy returns true if the given user owns this book.
func (b *Book) IsOwnedBy(userID string) bool {
	return b.OwnerUserID == userID
}

// BookRef is the minimal (id, name) projection of a book used in
// branch-access responses.
type BookRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Ref returns the (id, name) projection of the book.
func (b *Book) Ref() BookRef {
	return BookRef{ID: b.ID, Name: b.Name}
}
