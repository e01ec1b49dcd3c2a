package user

import "fmt"

type CreateUserDTO struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Password   string `json:"password"`
	RoleID     int64  `json:"role_id"`
	IsVerified bool   `json:"is_verified"`
}

func (d CreateUserDTO) Validate() error {
	if d.Email == "" {
		return fmt.Errorf("email is required")
	}
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Password == "" {
		return fmt.Errorf("password is required")
	}
	if d.RoleID == 0 {
		return fmt.Errorf("role_id is required")
	}
	return nil
}

// UpdateUserDTO carries optional fields; nil means leave unchanged.
type UpdateUserDTO struct {
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	Password   *string `json:"password"`
	RoleID     *int64  `json:"role_id"`
	IsVerified *bool   `json:"is_verified"`
}
