package model

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type CreateTaskRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Status      string `json:"status"`
	// UserID is honored only on the admin create route.
	UserID string `json:"userId"`
}

type UpdateTaskRequest struct {
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Status      *string `json:"status"`
}

type AssignRoleRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type LoginResponse struct {
	User         Identity `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}
