package handler

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/manoj8056887579/Accounting1-sub001/internal/store"
	"github.com/manoj8056887579/Accounting1-sub001/pkg/models"
)

func testPlan() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:        uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc"),
		Name:      models.PlanStandard,
		Price:     149900,
		Currency:  "INR",
		UserLimit: 10,
		Modules:   []string{"invoicing"},
		IsActive:  true,
	}
}

func TestListPlans(t *testing.T) {
	h := NewListPlansHandler(&mockDirectory{plans: []*models.SubscriptionPlan{testPlan()}})

	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, "GET", "/api/superadmin/plans", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data []*models.SubscriptionPlan `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data) != 1 || env.Data[0].Name != models.PlanStandard {
		t.Errorf("plans = %+v", env.Data)
	}
}

func TestListPlans_EmptyIsArray(t *testing.T) {
	h := NewListPlansHandler(&mockDirectory{})

	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, "GET", "/api/superadmin/plans", nil))

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(env.Data) != "[]" {
		t.Errorf("empty listing should serialize as [], got %s", env.Data)
	}
}

func TestCreatePlan(t *testing.T) {
	dir := &mockDirectory{}
	h := NewCreatePlanHandler(dir)

	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, "POST", "/api/superadmin/plans", map[string]any{
		"name": "premium", "price": 299900, "user_limit": 50,
	}))

	data := parseOK(t, rec, 201)
	if data["currency"] != "INR" {
		t.Errorf("currency should default to INR, got %v", data["currency"])
	}
	if dir.createdPlan == nil {
		t.Fatalf("plan not created")
	}
	if dir.createdPlan.Modules == nil {
		t.Errorf("absent modules should default to an empty slice")
	}
	if !dir.createdPlan.IsActive {
		t.Errorf("new plans start active")
	}
}

func TestCreatePlan_Validation(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
	}{
		{"unknown name", map[string]any{"name": "enterprise", "price": 100, "user_limit": 5}},
		{"negative price", map[string]any{"name": "basic", "price": -1, "user_limit": 5}},
		{"zero user limit", map[string]any{"name": "basic", "price": 100, "user_limit": 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewCreatePlanHandler(&mockDirectory{})
			rec := httptest.NewRecorder()
			h(rec, jsonReq(t, "POST", "/api/superadmin/plans", tc.body))

			code, errCode := parseErr(t, rec)
			if code != 400 || errCode != "VALIDATION_ERROR" {
				t.Errorf("got %d %s, want 400 VALIDATION_ERROR", code, errCode)
			}
		})
	}
}

func TestCreatePlan_Duplicate(t *testing.T) {
	h := NewCreatePlanHandler(&mockDirectory{planErr: store.ErrDuplicate})

	rec := httptest.NewRecorder()
	h(rec, jsonReq(t, "POST", "/api/superadmin/plans", map[string]any{
		"name": "basic", "price": 49900, "user_limit": 5,
	}))

	code, errCode := parseErr(t, rec)
	if code != 409 || errCode != "DUPLICATE" {
		t.Errorf("got %d %s, want 409 DUPLICATE", code, errCode)
	}
}

func TestUpdatePlan(t *testing.T) {
	dir := &mockDirectory{plans: []*models.SubscriptionPlan{testPlan()}}
	h := NewUpdatePlanHandler(dir)

	rec := httptest.NewRecorder()
	req := jsonReq(t, "PUT", "/api/superadmin/plans/"+testPlan().ID.String(), map[string]any{
		"price": 199900,
	})
	h(rec, planRequest(req, testPlan().ID.String()))

	parseOK(t, rec, 200)
}

func TestUpdatePlan_BadID(t *testing.T) {
	h := NewUpdatePlanHandler(&mockDirectory{})

	rec := httptest.NewRecorder()
	req := jsonReq(t, "PUT", "/api/superadmin/plans/not-a-uuid", map[string]any{"price": 1})
	h(rec, planRequest(req, "not-a-uuid"))

	code, errCode := parseErr(t, rec)
	if code != 400 || errCode != "INVALID_REQUEST" {
		t.Errorf("got %d %s, want 400 INVALID_REQUEST", code, errCode)
	}
}

func TestUpdatePlan_NoFields(t *testing.T) {
	h := NewUpdatePlanHandler(&mockDirectory{})

	rec := httptest.NewRecorder()
	req := jsonReq(t, "PUT", "/api/superadmin/plans/"+testPlan().ID.String(), map[string]any{})
	h(rec, planRequest(req, testPlan().ID.String()))

	code, errCode := parseErr(t, rec)
	if code != 400 || errCode != "VALIDATION_ERROR" {
		t.Errorf("got %d %s, want 400 VALIDATION_ERROR", code, errCode)
	}
}

func TestDeletePlan(t *testing.T) {
	h := NewDeletePlanHandler(&mockDirectory{})

	rec := httptest.NewRecorder()
	req := jsonReq(t, "DELETE", "/api/superadmin/plans/"+testPlan().ID.String(), nil)
	h(rec, planRequest(req, testPlan().ID.String()))

	if rec.Code != 200 {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeletePlan_NotFound(t *testing.T) {
	h := NewDeletePlanHandler(&mockDirectory{planErr: store.ErrNotFound})

	rec := httptest.NewRecorder()
	req := jsonReq(t, "DELETE", "/api/superadmin/plans/"+testPlan().ID.String(), nil)
	h(rec, planRequest(req, testPlan().ID.String()))

	code, errCode := parseErr(t, rec)
	if code != 404 || errCode != "NOT_FOUND" {
		t.Errorf("got %d %s, want 404 NOT_FOUND", code, errCode)
	}
}
