package admin

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// LoginRequest for POST /admin/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse after successful login
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   string         `json:"expires_at"`
	Admin       *AdminResponse `json:"admin"`
}

// AdminResponse represents admin in API
type AdminResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	Permissions []string  `json:"permissions"`
	LastLoginAt *string   `json:"last_login_at,omitempty"`
	CreatedAt   string    `json:"created_at"`
}

// AdminResponseFromEntity converts entity to response
func AdminResponseFromEntity(a *AdminUser) *AdminResponse {
	resp := &AdminResponse{
		ID:          a.ID,
		Email:       a.Email,
		Role:        string(a.Role),
		Name:        a.Name,
		IsActive:    a.IsActive,
		Permissions: []string{},
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
	}

	if a.LastLoginAt.Valid {
		s := a.LastLoginAt.Time.Format(time.RFC3339)
		resp.LastLoginAt = &s
	}

	for _, p := range RolePermissions[a.Role] {
		resp.Permissions = append(resp.Permissions, string(p))
	}

	return resp
}

// CreateAdminRequest for POST /admin/admins
type CreateAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,admin_role"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
}

// UpdateAdminRequest for PATCH /admin/admins/{id}
type UpdateAdminRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role     *string `json:"role,omitempty" validate:"omitempty,admin_role"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AuditLogResponse represents audit log in API
type AuditLogResponse struct {
	ID         uuid.UUID       `json:"id"`
	AdminEmail string          `json:"admin_email"`
	Action     string          `json:"action"`
	EntityType string          `json:"entity_type"`
	EntityID   *uuid.UUID      `json:"entity_id,omitempty"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

// AuditLogResponseFromEntity converts entity to response
func AuditLogResponseFromEntity(l *AuditLog) *AuditLogResponse {
	resp := &AuditLogResponse{
		ID:         l.ID,
		AdminEmail: l.AdminEmail,
		Action:     l.Action,
		EntityType: l.EntityType,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.EntityID.Valid {
		id := l.EntityID.UUID
		resp.EntityID = &id
	}
	if isJSONValue(l.OldValue) {
		resp.OldValue = l.OldValue
	}
	if isJSONValue(l.NewValue) {
		resp.NewValue = l.NewValue
	}
	return resp
}

func isJSONValue(raw json.RawMessage) bool {
	return len(raw) > 0 && string(raw) != "null"
}
