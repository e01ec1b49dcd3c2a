package resourcepermission

import "time"

// ResourcePermission maps a routed resource to its per-method allowed roles.
type ResourcePermission struct {
	ID           int64              `gorm:"primaryKey"`
	ResourceName string             `gorm:"column:resource_name;uniqueIndex;not null"`
	Description  string             `gorm:"column:description"`
	Methods      []PermissionMethod `gorm:"foreignKey:ResourcePermissionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (ResourcePermission) TableName() string { return "resource_permissions" }

// PermissionMethod is one {method name -> role ids} entry. Method names are
// restricted to list|show|create|update|delete at the service layer.
type PermissionMethod struct {
	ID                   int64        `gorm:"primaryKey"`
	ResourcePermissionID int64        `gorm:"column:resource_permission_id;not null;index"`
	Name                 string       `gorm:"column:name;not null"`
	Roles                []MethodRole `gorm:"foreignKey:PermissionMethodID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time    `gorm:"column:created_at;autoCreateTime"`
}

func (PermissionMethod) TableName() string { return "permission_methods" }

// MethodRole links a permission method to one allowed role.
type MethodRole struct {
	ID                 int64 `gorm:"primaryKey"`
	PermissionMethodID int64 `gorm:"column:permission_method_id;not null;index"`
	RoleID             int64 `gorm:"column:role_id;not null"`
}

func (MethodRole) TableName() string { return "permission_method_roles" }
