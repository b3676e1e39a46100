package admin

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu     sync.Mutex
	admins map[uuid.UUID]*AdminUser
	audit  []*AuditLog
}

func newFakeRepo(admins ...*AdminUser) *fakeRepo {
	f := &fakeRepo{admins: map[uuid.UUID]*AdminUser{}}
	for _, a := range admins {
		f.admins[a.ID] = a
	}
	return f
}

func (f *fakeRepo) CreateAdmin(ctx context.Context, admin *AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins[admin.ID] = admin
	return nil
}

func (f *fakeRepo) GetAdminByID(ctx context.Context, id uuid.UUID) (*AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetAdminByEmail(ctx context.Context, email string) (*AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListAdmins(ctx context.Context) ([]*AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*AdminUser, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeRepo) UpdateAdmin(ctx context.Context, admin *AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *admin
	f.admins[admin.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, ip string) error {
	return nil
}

func (f *fakeRepo) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audit = append(f.audit, log)
	return nil
}

func (f *fakeRepo) ListAuditLogs(ctx context.Context, filter AuditFilter) ([]*AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.audit, len(f.audit), nil
}
