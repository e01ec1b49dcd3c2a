package role

import "fmt"

type CreateRoleDTO struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	IsAuthenticated *bool  `json:"is_authenticated"`
}

func (d CreateRoleDTO) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// UpdateRoleDTO carries optional fields; nil means leave unchanged.
type UpdateRoleDTO struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	IsAuthenticated *bool   `json:"is_authenticated"`
}
