package dto

// NameRequest is the body for creating or renaming a measure or recipe category.
type NameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// NamedResponse is the shape of a measure or recipe category.
type NamedResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
