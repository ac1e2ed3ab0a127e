package auth

import (
	internal "github.com/rizkypratama/maintenance-portal/internal"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Email == "" || d.Password == "" {
		return internal.NewValidationError("Email dan password diperlukan", internal.ErrCodeValidationFailed)
	}
	return nil
}

// RegisterDTO carries a registration request. Role is optional and
// defaults to STAFF.
type RegisterDTO struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role,omitempty"`
	Position *string `json:"position,omitempty"`
}

func (d RegisterDTO) Validate() error {
	if d.Name == "" || d.Email == "" || d.Password == "" {
		return internal.NewValidationError("Nama, email, dan password diperlukan", internal.ErrCodeValidationFailed)
	}
	if d.Role != "" && !ValidRole(d.Role) {
		return internal.NewValidationError("Role tidak valid", internal.ErrCodeValidationFailed)
	}
	return nil
}
