package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"seva-donation-platform/pkg/middleware"
	"seva-donation-platform/pkg/response"
)

func authedRequest(method, target, body string, role middleware.Role) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	claims := &middleware.UserClaims{
		UserID: "donor-1",
		Email:  "donor@example.com",
		Name:   "Donor One",
		Role:   string(role),
	}
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	return resp
}

func TestStatusUpdateRejectsNonAdmin(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/donations/64f1c2ab99aa0b33de510f77/status",
		`{"status":"delivered"}`, middleware.RoleDonor)

	donationDetailHandler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestStatusUpdateRejectsUnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPatch, "/api/donations/64f1c2ab99aa0b33de510f77/status",
		`{"status":"teleported"}`, middleware.RoleAdmin)

	donationDetailHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Message != "Invalid status" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestStatusUpdateWrongMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/donations/64f1c2ab99aa0b33de510f77/status",
		`{"status":"accepted"}`, middleware.RoleAdmin)

	donationDetailHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestGetDonationInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/donations/not-an-object-id", "", middleware.RoleDonor)

	donationDetailHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCancelDonationInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodDelete, "/api/donations/not-an-object-id", "", middleware.RoleDonor)

	donationDetailHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad ngo id", `{"ngoId":"nope","foodType":"cooked","foodCategory":"veg","quantity":5,"deliveryMethod":"pickup","pickupDateTime":"2026-09-02T10:00:00Z"}`},
		{"bad food type", `{"ngoId":"64f1c2ab99aa0b33de510f77","foodType":"frozen","foodCategory":"veg","quantity":5,"deliveryMethod":"pickup","pickupDateTime":"2026-09-02T10:00:00Z"}`},
		{"bad food category", `{"ngoId":"64f1c2ab99aa0b33de510f77","foodType":"cooked","foodCategory":"vegan","quantity":5,"deliveryMethod":"pickup","pickupDateTime":"2026-09-02T10:00:00Z"}`},
		{"bad delivery method", `{"ngoId":"64f1c2ab99aa0b33de510f77","foodType":"cooked","foodCategory":"veg","quantity":5,"deliveryMethod":"drone","pickupDateTime":"2026-09-02T10:00:00Z"}`},
		{"zero quantity", `{"ngoId":"64f1c2ab99aa0b33de510f77","foodType":"cooked","foodCategory":"veg","quantity":0,"deliveryMethod":"pickup","pickupDateTime":"2026-09-02T10:00:00Z"}`},
		{"missing pickup time", `{"ngoId":"64f1c2ab99aa0b33de510f77","foodType":"cooked","foodCategory":"veg","quantity":5,"deliveryMethod":"pickup"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := authedRequest(http.MethodPost, "/api/donations", tc.body, middleware.RoleDonor)

			donationsHandler(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestNGOAdminVerbsRequireCredential(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/ngos", strings.NewReader(`{"name":"Hope"}`))

	ngosHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated create, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/ngos/64f1c2ab99aa0b33de510f77", nil)

	ngoDetailHandler(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated delete, got %d", rec.Code)
	}
}

func TestCreateNGOValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	req := authedRequest(http.MethodPost, "/api/ngos",
		`{"name":"Hope Orphanage","description":"Care for children","category":"school"}`, middleware.RoleAdmin)

	createNGO(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown category, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req = authedRequest(http.MethodPost, "/api/ngos", `{"name":"","description":"","category":""}`, middleware.RoleAdmin)

	createNGO(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing fields, got %d", rec.Code)
	}
}

func TestNGOCategoryListingRejectsUnknownCategory(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ngos/category/school", nil)

	ngoDetailHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown category, got %d", rec.Code)
	}
}

func TestNGODetailInvalidID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/ngos/not-an-object-id", nil)

	ngoDetailHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
