// AngelaMos | 2026
// dto.go

package auth

type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanumunderscore"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=32"`
	Password string `json:"password" validate:"required,max=72"`
}

type UserResponse struct {
	Username string `json:"username"`
}
