package section

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edumap/edumap-api/internal/domain/admin"
)

type nopAuditor struct{ calls int }

func (a *nopAuditor) LogAction(ctx context.Context, adminID uuid.UUID, action, entityType string, entityID uuid.UUID, oldValue, newValue interface{}) {
	a.calls++
}

func newTestRouter(h *Handler, role admin.Role) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin/institutions/{id}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(admin.WithAdmin(req.Context(), uuid.New(), role)))
			})
		})
		h.AdminRoutes(r)
	})
	r.Route("/institutions/{slug}", h.PublicRoutes)
	return r
}

func TestHandlerPutThenProgress(t *testing.T) {
	svc, _, _, inst := newTestService()
	audit := &nopAuditor{}
	router := newTestRouter(NewHandler(svc, audit), admin.RoleEditor)
	base := "/admin/institutions/" + inst.ID.String()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut, base+"/sections/teachers",
		strings.NewReader(`{"total_teachers":45,"avg_experience_years":0,"phd_count":""}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var saved struct {
		Data SaveResponse `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&saved); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.Data.Record.Score != 74 || saved.Data.Overall != 74 {
		t.Fatalf("unexpected scores: %+v", saved.Data)
	}
	if audit.calls != 1 {
		t.Fatalf("expected one audit entry, got %d", audit.calls)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, base+"/progress", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/institutions/school-1/sections/teachers", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 from public route, got %d", rr.Code)
	}
}

func TestHandlerRejectsBadInput(t *testing.T) {
	svc, _, _, inst := newTestService()
	router := newTestRouter(NewHandler(svc, &nopAuditor{}), admin.RoleEditor)
	base := "/admin/institutions/" + inst.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"unknown section", http.MethodGet, base + "/sections/sports", "", http.StatusBadRequest},
		{"bad id", http.MethodGet, "/admin/institutions/xyz/sections/basic", "", http.StatusBadRequest},
		{"array body", http.MethodPut, base + "/sections/basic", `[1,2]`, http.StatusBadRequest},
		{"missing institution", http.MethodGet, "/admin/institutions/" + uuid.NewString() + "/sections/basic", "", http.StatusNotFound},
		{"mixed case section", http.MethodGet, base + "/sections/Basic", "", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rr.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rr.Code)
			}
		})
	}
}

func TestHandlerViewerCannotSave(t *testing.T) {
	svc, _, _, inst := newTestService()
	router := newTestRouter(NewHandler(svc, &nopAuditor{}), admin.RoleViewer)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut,
		"/admin/institutions/"+inst.ID.String()+"/sections/basic", strings.NewReader(`{}`)))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestHandlerPutRejectsBadShapes(t *testing.T) {
	svc, repo, _, inst := newTestService()
	router := newTestRouter(NewHandler(svc, &nopAuditor{}), admin.RoleEditor)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPut,
		"/admin/institutions/"+inst.ID.String()+"/sections/infrastructure",
		strings.NewReader(`{"has_gym":"maybe","classrooms_count":12}`)))
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "has_gym") {
		t.Fatalf("expected has_gym in details: %s", rr.Body.String())
	}
	if rec, _ := repo.Get(context.Background(), inst.ID, "infrastructure"); rec != nil {
		t.Fatal("invalid payload must not be stored")
	}
}
