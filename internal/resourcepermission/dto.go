package resourcepermission

import (
	"fmt"

	"github.com/publica-project/publica/internal/accesscontrol"
)

// MethodDTO is one {method name, allowed role ids} entry of a rule.
type MethodDTO struct {
	Name  string  `json:"name"`
	Roles []int64 `json:"roles"`
}

type CreatePermissionDTO struct {
	ResourceName string      `json:"resource_name"`
	Description  string      `json:"description"`
	Methods      []MethodDTO `json:"methods"`
}

func (d CreatePermissionDTO) Validate() error {
	if d.ResourceName == "" {
		return fmt.Errorf("resource_name is required")
	}
	return validateMethods(d.Methods)
}

// UpdatePermissionDTO carries optional fields; a non-nil Methods slice
// replaces the whole method set.
type UpdatePermissionDTO struct {
	Description *string      `json:"description"`
	Methods     *[]MethodDTO `json:"methods"`
}

func (d UpdatePermissionDTO) Validate() error {
	if d.Methods != nil {
		return validateMethods(*d.Methods)
	}
	return nil
}

func validateMethods(methods []MethodDTO) error {
	for _, m := range methods {
		if _, err := accesscontrol.ParseAction(m.Name); err != nil {
			return fmt.Errorf("unknown method name %q", m.Name)
		}
	}
	return nil
}
