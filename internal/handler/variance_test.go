package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restman-ops/api/internal/handler"
	"github.com/restman-ops/api/internal/service"
	"github.com/shopspring/decimal"
)

// --- Mock engine ---

type mockVarianceEngine struct {
	records []service.VarianceRecord
	err     error
}

func (m *mockVarianceEngine) ComputeVariance(_ context.Context, _ uuid.UUID) ([]service.VarianceRecord, error) {
	return m.records, m.err
}

// --- Helpers ---

func setupVarianceRouter(engine *mockVarianceEngine) *chi.Mux {
	h := handler.NewVarianceHandler(engine)
	r := chi.NewRouter()
	r.Route("/restaurants/{rid}", h.RegisterRoutes)
	return r
}

func decodeVarianceResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestVarianceReport_Success(t *testing.T) {
	engine := &mockVarianceEngine{
		records: []service.VarianceRecord{
			{
				MenuItem:      "Dal Curry",
				Category:      "MAINS",
				Invested:      decimal.NewFromInt(24),
				ExpectedYield: decimal.NewFromInt(12),
				ActualSales:   20,
				Wastage:       decimal.NewFromInt(5),
				Discrepancy:   decimal.NewFromInt(-23),
				Alert:         service.AlertTextDiscrepancy,
			},
			{
				MenuItem: "Mystery Soup",
				Err:      service.NoRecipeLinked,
			},
		},
	}
	router := setupVarianceRouter(engine)

	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+uuid.NewString()+"/reports/inventory-variance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	resp := decodeVarianceResponse(t, rr)
	if resp["success"] != true {
		t.Error("expected success=true")
	}

	summary, ok := resp["summary"].([]interface{})
	if !ok || len(summary) != 2 {
		t.Fatalf("expected 2 summary entries, got %v", resp["summary"])
	}

	full := summary[0].(map[string]interface{})
	if full["menu_item"] != "Dal Curry" {
		t.Errorf("expected Dal Curry, got %v", full["menu_item"])
	}
	if full["invested"] != "24.00" {
		t.Errorf("expected invested 24.00, got %v", full["invested"])
	}
	if full["discrepancy"] != "-23.00" {
		t.Errorf("expected discrepancy -23.00, got %v", full["discrepancy"])
	}
	if full["alert"] != service.AlertTextDiscrepancy {
		t.Errorf("expected discrepancy alert, got %v", full["alert"])
	}

	// Error entries carry only the item name and the error text.
	degraded := summary[1].(map[string]interface{})
	if degraded["error"] != service.NoRecipeLinked {
		t.Errorf("expected error entry, got %v", degraded)
	}
	if _, hasInvested := degraded["invested"]; hasInvested {
		t.Error("error entry must not carry numeric fields")
	}
}

func TestVarianceReport_EngineFailure(t *testing.T) {
	engine := &mockVarianceEngine{err: errors.New("ledger unavailable")}
	router := setupVarianceRouter(engine)

	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+uuid.NewString()+"/reports/inventory-variance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decodeVarianceResponse(t, rr)
	if resp["error"] == "" {
		t.Error("expected error message in response")
	}
}

func TestVarianceReport_InvalidRestaurantID(t *testing.T) {
	router := setupVarianceRouter(&mockVarianceEngine{})

	req := httptest.NewRequest(http.MethodGet, "/restaurants/not-a-uuid/reports/inventory-variance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestVarianceReport_EmptySummary(t *testing.T) {
	router := setupVarianceRouter(&mockVarianceEngine{})

	req := httptest.NewRequest(http.MethodGet, "/restaurants/"+uuid.NewString()+"/reports/inventory-variance", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeVarianceResponse(t, rr)
	summary, ok := resp["summary"].([]interface{})
	if !ok {
		t.Fatalf("expected summary array, got %v", resp["summary"])
	}
	if len(summary) != 0 {
		t.Errorf("expected empty summary, got %d entries", len(summary))
	}
}
