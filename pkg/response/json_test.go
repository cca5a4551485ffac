package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "Donation created successfully", map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "success" || resp.Message != "Donation created successfully" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Error != "" {
		t.Errorf("success response carries an error: %q", resp.Error)
	}
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusForbidden, "Access denied", "Insufficient role")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}

	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Status != "error" || resp.Message != "Access denied" || resp.Error != "Insufficient role" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Data != nil {
		t.Errorf("error response carries data: %v", resp.Data)
	}
}
