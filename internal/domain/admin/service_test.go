package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/pkg/password"
)

func mustHash(t *testing.T, pwd string) string {
	t.Helper()
	h, err := password.Hash(pwd)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

func TestService_Login(t *testing.T) {
	hash := mustHash(t, "correct-horse")
	active := &AdminUser{ID: uuid.New(), Email: "editor@edumap.uz", PasswordHash: hash, Role: RoleEditor, IsActive: true}
	inactive := &AdminUser{ID: uuid.New(), Email: "old@edumap.uz", PasswordHash: hash, Role: RoleEditor}
	svc := NewService(newFakeRepo(active, inactive))
	ctx := context.Background()

	got, err := svc.Login(ctx, " Editor@edumap.uz ", "correct-horse", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != active.ID {
		t.Fatalf("unexpected admin %s", got.ID)
	}

	if _, err := svc.Login(ctx, "editor@edumap.uz", "wrong", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@edumap.uz", "correct-horse", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "old@edumap.uz", "correct-horse", ""); !errors.Is(err, ErrAdminInactive) {
		t.Fatalf("expected ErrAdminInactive, got %v", err)
	}
}

func TestService_CreateAdminRespectsHierarchy(t *testing.T) {
	root := &AdminUser{ID: uuid.New(), Email: "root@edumap.uz", Role: RoleSuperAdmin, IsActive: true}
	editor := &AdminUser{ID: uuid.New(), Email: "ed@edumap.uz", Role: RoleEditor, IsActive: true}
	repo := newFakeRepo(root, editor)
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateAdmin(ctx, root.ID, &CreateAdminRequest{
		Email: "New@Edumap.uz", Password: "password123", Role: "viewer", Name: "New",
	})
	if err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	if created.Email != "new@edumap.uz" || created.Role != RoleViewer || !created.IsActive {
		t.Fatalf("unexpected admin: %+v", created)
	}
	if len(repo.audit) != 1 || repo.audit[0].Action != "admin.create" || repo.audit[0].AdminEmail != root.Email {
		t.Fatalf("expected audit entry, got %+v", repo.audit)
	}

	_, err = svc.CreateAdmin(ctx, editor.ID, &CreateAdminRequest{
		Email: "x@edumap.uz", Password: "password123", Role: "admin", Name: "X",
	})
	if !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}

	_, err = svc.CreateAdmin(ctx, root.ID, &CreateAdminRequest{
		Email: "ed@edumap.uz", Password: "password123", Role: "viewer", Name: "Dup",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestService_UpdateAdmin(t *testing.T) {
	root := &AdminUser{ID: uuid.New(), Role: RoleSuperAdmin, IsActive: true}
	peer := &AdminUser{ID: uuid.New(), Role: RoleAdmin, IsActive: true}
	target := &AdminUser{ID: uuid.New(), Role: RoleEditor, IsActive: true}
	svc := NewService(newFakeRepo(root, peer, target))
	ctx := context.Background()

	inactive := false
	updated, err := svc.UpdateAdmin(ctx, peer.ID, target.ID, &UpdateAdminRequest{IsActive: &inactive})
	if err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected admin to be deactivated")
	}

	promote := "admin"
	if _, err := svc.UpdateAdmin(ctx, peer.ID, target.ID, &UpdateAdminRequest{Role: &promote}); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	if _, err := svc.UpdateAdmin(ctx, peer.ID, root.ID, &UpdateAdminRequest{IsActive: &inactive}); !errors.Is(err, ErrCannotManageRole) {
		t.Fatalf("expected ErrCannotManageRole, got %v", err)
	}
	if _, err := svc.UpdateAdmin(ctx, root.ID, uuid.New(), &UpdateAdminRequest{}); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}

func TestLoginHandler(t *testing.T) {
	a := &AdminUser{ID: uuid.New(), Email: "root@edumap.uz", PasswordHash: mustHash(t, "password123"), Role: RoleSuperAdmin, IsActive: true}
	h := NewHandler(NewService(newFakeRepo(a)), NewJWTService("secret", 24*time.Hour))
	router := h.Routes()

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"root@edumap.uz","password":"password123"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success bool          `json:"success"`
		Data    LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Data.AccessToken == "" || body.Data.Admin.Role != "super_admin" {
		t.Fatalf("unexpected body: %+v", body)
	}

	// The token opens /auth/me
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Data.AccessToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"root@edumap.uz","password":"nope-nope"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"bad"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestAuditLogsRequirePermission(t *testing.T) {
	editor := &AdminUser{ID: uuid.New(), Role: RoleEditor, IsActive: true}
	jwtSvc := NewJWTService("secret", time.Hour)
	router := NewHandler(NewService(newFakeRepo(editor)), jwtSvc).Routes()

	tok, _ := jwtSvc.GenerateToken(editor)
	req := httptest.NewRequest(http.MethodGet, "/audit/logs", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}
