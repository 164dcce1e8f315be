// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/orballo/words-backend/internal/user"
)

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=64"`
	Code     string `json:"code"     validate:"omitempty,len=10"`
}

type SigninRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"omitempty,len=10"`
}

type DeleteAccountRequest struct {
	Code string `json:"code" validate:"omitempty,len=10"`
}

// SessionResponse is the body sent alongside a fresh session cookie. It
// mirrors the token claims rather than the full user row.
type SessionResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func newSessionResponse(u *user.User) SessionResponse {
	return SessionResponse{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
