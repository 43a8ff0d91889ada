package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rentnest/visits/internal/domain"
	"github.com/rentnest/visits/internal/handlers"
	"github.com/rentnest/visits/internal/quota"
	"github.com/rentnest/visits/internal/service"
	"github.com/rentnest/visits/pkg/auth"
)

const testSecret = "test-secret"

func strPtr(s string) *string { return &s }

// ---------- Mocks ----------

type mockVisitRepo struct {
	visits    map[int64]*domain.Visit
	order     []int64
	tenants   map[int64]*domain.User
	nextID    int64
	createErr error
}

func newMockVisitRepo(tenants map[int64]*domain.User) *mockVisitRepo {
	return &mockVisitRepo{visits: make(map[int64]*domain.Visit), tenants: tenants, nextID: 1}
}

func (m *mockVisitRepo) Create(_ context.Context, v *domain.Visit) (*domain.Visit, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	stored := *v
	stored.ID = m.nextID
	stored.Status = domain.VisitPending
	stored.CreatedAt = time.Now()
	m.visits[stored.ID] = &stored
	m.order = append(m.order, stored.ID)
	m.nextID++
	return &stored, nil
}

func (m *mockVisitRepo) GetByID(_ context.Context, id int64) (*domain.Visit, error) {
	return m.visits[id], nil
}

func (m *mockVisitRepo) ListForTenant(_ context.Context, tenantID int64) ([]domain.VisitDetail, error) {
	var out []domain.VisitDetail
	for _, id := range m.order {
		if v, ok := m.visits[id]; ok && v.TenantID == tenantID {
			out = append(out, domain.VisitDetail{Visit: *v})
		}
	}
	return out, nil
}

func (m *mockVisitRepo) ListForOwner(_ context.Context, ownerID int64) ([]domain.VisitDetail, error) {
	var out []domain.VisitDetail
	for _, id := range m.order {
		if v, ok := m.visits[id]; ok && v.OwnerID == ownerID {
			out = append(out, domain.VisitDetail{Visit: *v})
		}
	}
	return out, nil
}

func (m *mockVisitRepo) ListForProperty(_ context.Context, propertyID int64) ([]domain.VisitWithTenant, error) {
	var out []domain.VisitWithTenant
	for _, id := range m.order {
		v, ok := m.visits[id]
		if !ok || v.PropertyID != propertyID {
			continue
		}
		out = append(out, domain.VisitWithTenant{Visit: *v, Tenant: m.tenants[v.TenantID]})
	}
	return out, nil
}

func (m *mockVisitRepo) CountForTenantBetween(_ context.Context, tenantID int64, from, to time.Time) (int, error) {
	n := 0
	for _, v := range m.visits {
		if v.TenantID == tenantID && !v.VisitDate.Before(from) && !v.VisitDate.After(to) {
			n++
		}
	}
	return n, nil
}

func (m *mockVisitRepo) UpdateStatus(_ context.Context, id int64, status domain.VisitStatus) (*domain.Visit, error) {
	v, ok := m.visits[id]
	if !ok {
		return nil, nil
	}
	v.Status = status
	updated := *v
	return &updated, nil
}

func (m *mockVisitRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.visits[id]; !ok {
		return false, nil
	}
	delete(m.visits, id)
	return true, nil
}

type mockPropertyRepo struct {
	properties map[int64]*domain.Property
}

func (m *mockPropertyRepo) GetByID(_ context.Context, id int64) (*domain.Property, error) {
	return m.properties[id], nil
}

func (m *mockPropertyRepo) GetByPID(_ context.Context, pid string) (*domain.Property, error) {
	for _, p := range m.properties {
		if p.PID == pid {
			return p, nil
		}
	}
	return nil, nil
}

type mockUserRepo struct {
	users map[int64]*domain.User
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return m.users[id], nil
}

type mockPreferenceRepo struct {
	byProperty map[int64]*domain.TenantPreference
	nextID     int64
}

func (m *mockPreferenceRepo) Create(_ context.Context, p *domain.TenantPreference) (*domain.TenantPreference, error) {
	stored := *p
	stored.ID = m.nextID
	m.nextID++
	m.byProperty[stored.PropertyID] = &stored
	return &stored, nil
}

func (m *mockPreferenceRepo) GetByProperty(_ context.Context, propertyID int64) (*domain.TenantPreference, error) {
	return m.byProperty[propertyID], nil
}

func (m *mockPreferenceRepo) ListForOwner(_ context.Context, ownerID int64, propertyID *int64) ([]domain.TenantPreference, error) {
	var out []domain.TenantPreference
	for _, p := range m.byProperty {
		if p.OwnerID == ownerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *mockPreferenceRepo) Update(_ context.Context, id, ownerID int64, p *domain.TenantPreference) (*domain.TenantPreference, error) {
	for _, existing := range m.byProperty {
		if existing.ID == id && existing.OwnerID == ownerID {
			existing.TenantTypes = p.TenantTypes
			updated := *existing
			return &updated, nil
		}
	}
	return nil, nil
}

func (m *mockPreferenceRepo) Delete(_ context.Context, id, ownerID int64) (bool, error) {
	for propertyID, existing := range m.byProperty {
		if existing.ID == id && existing.OwnerID == ownerID {
			delete(m.byProperty, propertyID)
			return true, nil
		}
	}
	return false, nil
}

type mockSubscriptionRepo struct {
	plans  map[int64]*domain.Plan
	grants []domain.Grant
	nextID int64
}

func (m *mockSubscriptionRepo) GetPlan(_ context.Context, id int64) (*domain.Plan, error) {
	return m.plans[id], nil
}

func (m *mockSubscriptionRepo) ActiveGrantFor(_ context.Context, partyID int64, asOf time.Time) (*domain.GrantWithPlan, error) {
	for _, g := range m.grants {
		if !g.ActiveAt(asOf) {
			continue
		}
		if (g.TenantID != nil && *g.TenantID == partyID) || (g.OwnerID != nil && *g.OwnerID == partyID) {
			return &domain.GrantWithPlan{Grant: g, Plan: *m.plans[g.PlanID]}, nil
		}
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) CreateGrant(_ context.Context, g *domain.Grant) (*domain.Grant, error) {
	stored := *g
	stored.ID = m.nextID
	m.nextID++
	m.grants = append(m.grants, stored)
	return &stored, nil
}

func (m *mockSubscriptionRepo) HistoryFor(_ context.Context, partyID int64) ([]domain.GrantWithPlan, error) {
	var out []domain.GrantWithPlan
	for _, g := range m.grants {
		if (g.TenantID != nil && *g.TenantID == partyID) || (g.OwnerID != nil && *g.OwnerID == partyID) {
			out = append(out, domain.GrantWithPlan{Grant: g, Plan: *m.plans[g.PlanID]})
		}
	}
	return out, nil
}

// ---------- Fixture ----------

const (
	tenantID = int64(1)
	ownerID  = int64(2)
)

type fixture struct {
	visits      *mockVisitRepo
	preferences *mockPreferenceRepo
	router      chi.Router
}

func newFixture(t *testing.T, dailyLimit int) *fixture {
	t.Helper()

	users := map[int64]*domain.User{
		tenantID: {ID: tenantID, FullName: "Asha Rao", Email: "asha@example.com",
			Gender: strPtr("female"), Age: func() *int { a := 30; return &a }()},
		ownerID: {ID: ownerID, FullName: "Vikram Shetty", Email: "vikram@example.com"},
	}
	visitRepo := newMockVisitRepo(users)
	propertyRepo := &mockPropertyRepo{properties: map[int64]*domain.Property{
		10: {ID: 10, PID: "REN0010", Title: "2BHK in Indiranagar", OwnerID: ownerID},
	}}
	userRepo := &mockUserRepo{users: users}
	preferenceRepo := &mockPreferenceRepo{byProperty: make(map[int64]*domain.TenantPreference), nextID: 1}
	subscriptionRepo := &mockSubscriptionRepo{
		plans:  map[int64]*domain.Plan{1: {ID: 1, Name: "Gold", DurationDays: 90, DailyLimit: 25}},
		nextID: 1,
	}

	eval := quota.NewEvaluator(userRepo, subscriptionRepo, visitRepo, quota.NewMemoryCounter(), dailyLimit)

	h := handlers.New(
		service.NewVisitService(visitRepo, propertyRepo, userRepo, eval, nil),
		service.NewMatchService(propertyRepo, preferenceRepo, visitRepo),
		service.NewPreferenceService(preferenceRepo, propertyRepo),
		service.NewSubscriptionService(subscriptionRepo, nil),
		testSecret,
	)

	r := chi.NewRouter()
	r.Route("/schedules", func(r chi.Router) {
		r.With(h.RequireAuth(auth.RoleTenant)).Post("/", h.CreateVisit)
		r.With(h.RequireAuth(auth.RoleTenant)).Get("/tenant", h.ListTenantVisits)
		r.With(h.RequireAuth(auth.RoleOwner)).Get("/owner", h.ListOwnerVisits)
		r.With(h.RequireAuth("")).Patch("/{id}/status", h.UpdateVisitStatus)
		r.With(h.RequireAuth("")).Delete("/{id}", h.DeleteVisit)
	})
	r.Route("/properties/{pid}", func(r chi.Router) {
		r.Use(h.RequireAuth(auth.RoleOwner))
		r.Get("/tenants", h.PropertyTenants)
		r.Get("/tenantsSorted", h.PropertyTenantsSorted)
	})
	r.Route("/preferences", func(r chi.Router) {
		r.Use(h.RequireAuth(auth.RoleOwner))
		r.Post("/", h.CreatePreference)
		r.Get("/", h.ListPreferences)
		r.Patch("/{id}", h.UpdatePreference)
		r.Delete("/{id}", h.DeletePreference)
	})
	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(h.RequireAuth(""))
		r.Post("/purchase", h.PurchaseSubscription)
		r.Get("/history", h.SubscriptionHistory)
		r.Get("/active", h.ActiveSubscription)
	})

	return &fixture{visits: visitRepo, preferences: preferenceRepo, router: r}
}

func token(t *testing.T, sub int64, role string) string {
	t.Helper()
	tok, err := auth.NewAccessToken(sub, "user@example.com", role, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	return tok
}

func (f *fixture) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func createBody() map[string]interface{} {
	return map[string]interface{}{
		"property": 10,
		"date":     "2026-07-01",
		"time":     "10:30 AM",
		"notes":    "prefer morning",
	}
}

// ---------- Tests ----------

func TestCreateScheduleRequiresAuth(t *testing.T) {
	f := newFixture(t, 10)

	rec := f.do(t, http.MethodPost, "/schedules/", "", createBody())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/schedules/", "not-a-jwt", createBody())
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestCreateScheduleRequiresTenantRole(t *testing.T) {
	f := newFixture(t, 10)

	rec := f.do(t, http.MethodPost, "/schedules/", token(t, ownerID, auth.RoleOwner), createBody())
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for an owner token on a tenant route", rec.Code)
	}
}

func TestCreateSchedule(t *testing.T) {
	f := newFixture(t, 10)

	rec := f.do(t, http.MethodPost, "/schedules/", token(t, tenantID, auth.RoleTenant), createBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("success envelope expected")
	}
	data := body["data"].(map[string]interface{})
	if data["status"] != "pending" {
		t.Errorf("new schedule status = %v, want pending", data["status"])
	}
	if data["owner_id"].(float64) != float64(ownerID) {
		t.Errorf("owner_id = %v, want the property owner %d", data["owner_id"], ownerID)
	}
}

func TestListSchedulesRoundTrip(t *testing.T) {
	f := newFixture(t, 10)
	tenantToken := token(t, tenantID, auth.RoleTenant)

	if rec := f.do(t, http.MethodPost, "/schedules/", tenantToken, createBody()); rec.Code != http.StatusCreated {
		t.Fatalf("setup status = %d", rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/schedules/tenant", tenantToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	list := body["data"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("listed %d schedules, want 1", len(list))
	}
	got := list[0].(map[string]interface{})
	if got["property_id"].(float64) != 10 {
		t.Errorf("property_id = %v, want 10", got["property_id"])
	}
	if got["owner_id"].(float64) != float64(ownerID) {
		t.Errorf("owner_id = %v, want %d", got["owner_id"], ownerID)
	}
	if got["tenant_id"].(float64) != float64(tenantID) {
		t.Errorf("tenant_id = %v, want %d", got["tenant_id"], tenantID)
	}
	if got["visit_time"] != "10:30 AM" {
		t.Errorf("visit_time = %v, want 10:30 AM", got["visit_time"])
	}
	if got["status"] != "pending" {
		t.Errorf("status = %v, want pending", got["status"])
	}

	// The owner sees the same booking through their own listing.
	rec = f.do(t, http.MethodGet, "/schedules/owner", token(t, ownerID, auth.RoleOwner), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner list status = %d, want 200", rec.Code)
	}
	if ownerList := decodeBody(t, rec)["data"].([]interface{}); len(ownerList) != 1 {
		t.Errorf("owner listed %d schedules, want 1", len(ownerList))
	}
}

func TestCreateScheduleBadDate(t *testing.T) {
	f := newFixture(t, 10)

	body := createBody()
	body["date"] = "01-07-2026"
	rec := f.do(t, http.MethodPost, "/schedules/", token(t, tenantID, auth.RoleTenant), body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateScheduleQuotaExceeded(t *testing.T) {
	f := newFixture(t, 2)
	bearer := token(t, tenantID, auth.RoleTenant)

	for i := 0; i < 2; i++ {
		if rec := f.do(t, http.MethodPost, "/schedules/", bearer, createBody()); rec.Code != http.StatusCreated {
			t.Fatalf("setup booking #%d status = %d", i+1, rec.Code)
		}
	}

	rec := f.do(t, http.MethodPost, "/schedules/", bearer, createBody())
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429; body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if msg, _ := body["message"].(string); !strings.Contains(msg, "2") {
		t.Errorf("quota message %q should carry the numeric limit", msg)
	}
	if body["code"] != "QUOTA_EXCEEDED" {
		t.Errorf("code = %v, want QUOTA_EXCEEDED", body["code"])
	}
}

func TestCreateScheduleUnknownProperty(t *testing.T) {
	f := newFixture(t, 10)

	body := createBody()
	body["property"] = 999
	rec := f.do(t, http.MethodPost, "/schedules/", token(t, tenantID, auth.RoleTenant), body)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateScheduleStatus(t *testing.T) {
	f := newFixture(t, 10)
	tenantToken := token(t, tenantID, auth.RoleTenant)

	rec := f.do(t, http.MethodPost, "/schedules/", tenantToken, createBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup status = %d", rec.Code)
	}

	// Owner confirms.
	rec = f.do(t, http.MethodPatch, "/schedules/1/status", token(t, ownerID, auth.RoleOwner),
		map[string]string{"status": "confirmed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	// Unknown status value.
	rec = f.do(t, http.MethodPatch, "/schedules/1/status", tenantToken,
		map[string]string{"status": "archived"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("archived status = %d, want 400", rec.Code)
	}

	// A stranger, even with a valid token, may not touch it.
	rec = f.do(t, http.MethodPatch, "/schedules/1/status", token(t, 777, auth.RoleTenant),
		map[string]string{"status": "cancelled"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger status = %d, want 403", rec.Code)
	}

	// Missing schedule.
	rec = f.do(t, http.MethodPatch, "/schedules/999/status", tenantToken,
		map[string]string{"status": "cancelled"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing schedule status = %d, want 404", rec.Code)
	}
}

func TestDeleteSchedule(t *testing.T) {
	f := newFixture(t, 10)
	tenantToken := token(t, tenantID, auth.RoleTenant)

	rec := f.do(t, http.MethodPost, "/schedules/", tenantToken, createBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/schedules/1", token(t, 777, auth.RoleOwner), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger delete status = %d, want 403", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/schedules/1", tenantToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/schedules/1", tenantToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestPropertyTenantsSorted(t *testing.T) {
	f := newFixture(t, 10)
	ownerToken := token(t, ownerID, auth.RoleOwner)

	// No preference profile yet.
	rec := f.do(t, http.MethodGet, "/properties/REN0010/tenantsSorted", ownerToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 before preferences exist", rec.Code)
	}

	prefBody := map[string]interface{}{
		"propertyId":  10,
		"tenantTypes": []string{"Anyone"},
		"gender":      "female",
	}
	if rec := f.do(t, http.MethodPost, "/preferences/", ownerToken, prefBody); rec.Code != http.StatusCreated {
		t.Fatalf("create preference status = %d; body %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(t, http.MethodPost, "/schedules/", token(t, tenantID, auth.RoleTenant), createBody()); rec.Code != http.StatusCreated {
		t.Fatalf("setup booking status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/properties/REN0010/tenantsSorted", ownerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["totalTenants"].(float64) != 1 {
		t.Errorf("totalTenants = %v, want 1", body["totalTenants"])
	}
	entries := body["data"].([]interface{})
	first := entries[0].(map[string]interface{})
	if first["score"].(float64) != 2 {
		t.Errorf("score = %v, want 2 for the gender match", first["score"])
	}

	// Unknown property code.
	rec = f.do(t, http.MethodGet, "/properties/REN9999/tenantsSorted", ownerToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown pid status = %d, want 404", rec.Code)
	}
}

func TestCreatePreferenceConflictAndValidation(t *testing.T) {
	f := newFixture(t, 10)
	ownerToken := token(t, ownerID, auth.RoleOwner)

	prefBody := map[string]interface{}{
		"propertyId":  10,
		"tenantTypes": []string{"Family"},
	}
	if rec := f.do(t, http.MethodPost, "/preferences/", ownerToken, prefBody); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d; body %s", rec.Code, rec.Body.String())
	}

	if rec := f.do(t, http.MethodPost, "/preferences/", ownerToken, prefBody); rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}

	bad := map[string]interface{}{
		"propertyId":  10,
		"tenantTypes": []string{"Family"},
		"minAge":      50,
		"maxAge":      30,
	}
	if rec := f.do(t, http.MethodPost, "/preferences/", ownerToken, bad); rec.Code != http.StatusBadRequest {
		t.Errorf("inverted age range status = %d, want 400", rec.Code)
	}
}

func TestSubscriptionFlow(t *testing.T) {
	f := newFixture(t, 10)
	bearer := token(t, tenantID, auth.RoleTenant)

	rec := f.do(t, http.MethodGet, "/subscriptions/active", bearer, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("active with no grant status = %d, want 404", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/subscriptions/purchase", bearer,
		map[string]interface{}{"subscriptionId": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("purchase status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/subscriptions/active", bearer, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("active after purchase status = %d, want 200", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/subscriptions/history", bearer, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("history status = %d, want 200", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/subscriptions/purchase", bearer,
		map[string]interface{}{"subscriptionId": 404})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown plan status = %d, want 404", rec.Code)
	}
}
