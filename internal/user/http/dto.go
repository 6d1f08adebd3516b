package http

// RegisterAttributes are the attributes of a registration document.
type RegisterAttributes struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"omitempty,max=100"`
}

// LoginAttributes are the credentials posted to the login action.
type LoginAttributes struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
