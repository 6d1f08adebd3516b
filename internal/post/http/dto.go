package http

// CreateAttributes are the attributes of a post creation document.
type CreateAttributes struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

// UpdateAttributes are the attributes of a post update document. Absent
// members are left unchanged.
type UpdateAttributes struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content" binding:"omitempty,min=1"`
}
