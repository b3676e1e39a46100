package admin

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/pkg/logger"
	"github.com/edumap/edumap-api/internal/pkg/password"
)

// Service handles admin business logic
type Service struct {
	repo Repository
}

// NewService creates admin service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --- Authentication ---

// Login authenticates an admin by email and password
func (s *Service) Login(ctx context.Context, email, pwd, ip string) (*AdminUser, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, strings.TrimSpace(email))
	if err != nil || admin == nil {
		return nil, ErrInvalidCredentials
	}

	if !password.Verify(pwd, admin.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !admin.IsActive {
		return nil, ErrAdminInactive
	}

	if err := s.repo.UpdateLastLogin(ctx, admin.ID, ip); err != nil {
		logger.LogWarn(ctx, "Failed to update admin last login", "admin_id", admin.ID.String(), "error", err.Error())
	}

	return admin, nil
}

// GetAdminByID returns admin by ID
func (s *Service) GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	admin, err := s.repo.GetAdminByID(ctx, id)
	if err != nil || admin == nil {
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

// --- Admin Management ---

// CreateAdmin creates a new admin user with a role below the actor's
func (s *Service) CreateAdmin(ctx context.Context, actorID uuid.UUID, req *CreateAdminRequest) (*AdminUser, error) {
	actor, err := s.GetAdminByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor.Role, Role(req.Role)) {
		return nil, ErrCannotManageRole
	}

	admin, err := s.create(ctx, req.Email, req.Password, req.Name, Role(req.Role))
	if err != nil {
		return nil, err
	}

	s.LogAction(ctx, actorID, "admin.create", "admin", admin.ID, nil, AdminResponseFromEntity(admin))
	return admin, nil
}

// Bootstrap creates a super admin. Used by the maintenance CLI only.
func (s *Service) Bootstrap(ctx context.Context, email, pwd, name string) (*AdminUser, error) {
	return s.create(ctx, email, pwd, name, RoleSuperAdmin)
}

func (s *Service) create(ctx context.Context, email, pwd, name string, role Role) (*AdminUser, error) {
	existing, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(pwd)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin := &AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdateAdmin updates admin user
func (s *Service) UpdateAdmin(ctx context.Context, actorID, targetID uuid.UUID, req *UpdateAdminRequest) (*AdminUser, error) {
	admin, err := s.GetAdminByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	actor, err := s.GetAdminByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !CanManage(actor.Role, admin.Role) {
		return nil, ErrCannotManageRole
	}
	if req.Role != nil && !CanManage(actor.Role, Role(*req.Role)) {
		return nil, ErrCannotManageRole
	}

	oldValue := AdminResponseFromEntity(admin)

	if req.Name != nil {
		admin.Name = *req.Name
	}
	if req.Role != nil {
		admin.Role = Role(*req.Role)
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}

	if err := s.repo.UpdateAdmin(ctx, admin); err != nil {
		return nil, err
	}

	s.LogAction(ctx, actorID, "admin.update", "admin", admin.ID, oldValue, AdminResponseFromEntity(admin))
	return admin, nil
}

// ListAdmins returns all admins
func (s *Service) ListAdmins(ctx context.Context) ([]*AdminUser, error) {
	return s.repo.ListAdmins(ctx)
}

// --- Audit Logs ---

// ListAuditLogs returns audit logs
func (s *Service) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	return s.repo.ListAuditLogs(ctx, filter)
}

// LogAction records an audit entry. Failures are logged and never fail the caller.
func (s *Service) LogAction(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValue, newValue interface{}) {
	email := ""
	if admin, _ := s.repo.GetAdminByID(ctx, adminID); admin != nil {
		email = admin.Email
	}

	entry := &AuditLog{
		ID:         uuid.New(),
		AdminID:    uuid.NullUUID{UUID: adminID, Valid: adminID != uuid.Nil},
		AdminEmail: email,
		Action:     action,
		EntityType: entityType,
		EntityID:   uuid.NullUUID{UUID: entityID, Valid: entityID != uuid.Nil},
		OldValue:   marshalValue(oldValue),
		NewValue:   marshalValue(newValue),
		CreatedAt:  time.Now(),
	}

	if err := s.repo.CreateAuditLog(ctx, entry); err != nil {
		logger.LogError(ctx, err, "Failed to create audit log", "action", action)
	}
}

func marshalValue(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
