package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/restman-ops/api/internal/service"
)

// VarianceEngine defines the analytics methods needed by report handlers.
// Satisfied by *service.VarianceService; narrow interface for testability.
type VarianceEngine interface {
	ComputeVariance(ctx context.Context, restaurantID uuid.UUID) ([]service.VarianceRecord, error)
}

// VarianceHandler serves the inventory variance report.
type VarianceHandler struct {
	engine VarianceEngine
}

// NewVarianceHandler creates a new VarianceHandler.
func NewVarianceHandler(engine VarianceEngine) *VarianceHandler {
	return &VarianceHandler{engine: engine}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter.
func (h *VarianceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/inventory-variance", h.Report)
}

// --- Response types ---

// varianceRecordResponse is the full per-item report entry. Items the
// engine could not analyze are rendered as varianceErrorResponse
// instead, with no numeric fields.
type varianceRecordResponse struct {
	MenuItem      string                       `json:"menu_item"`
	Category      string                       `json:"category"`
	Invested      string                       `json:"invested"`
	ExpectedYield string                       `json:"expected_yield"`
	ActualSales   int64                        `json:"actual_sales"`
	Wastage       string                       `json:"wastage"`
	Discrepancy   string                       `json:"discrepancy"`
	Alert         string                       `json:"alert,omitempty"`
	Ingredients   []ingredientRecordResponse   `json:"ingredients"`
}

type ingredientRecordResponse struct {
	Name          string `json:"name"`
	ExpectedUsage string `json:"expected_usage"`
	ActualUsed    string `json:"actual_used"`
	CostPerUnit   string `json:"cost_per_unit"`
	Invested      string `json:"invested"`
	Wastage       string `json:"wastage"`
	Discrepancy   string `json:"discrepancy"`
}

type varianceErrorResponse struct {
	MenuItem string `json:"menu_item"`
	Error    string `json:"error"`
}

func toVarianceResponse(rec service.VarianceRecord) interface{} {
	if rec.Err != "" {
		return varianceErrorResponse{MenuItem: rec.MenuItem, Error: rec.Err}
	}

	resp := varianceRecordResponse{
		MenuItem:      rec.MenuItem,
		Category:      rec.Category,
		Invested:      rec.Invested.StringFixed(2),
		ExpectedYield: rec.ExpectedYield.String(),
		ActualSales:   rec.ActualSales,
		Wastage:       rec.Wastage.String(),
		Discrepancy:   rec.Discrepancy.StringFixed(2),
		Alert:         rec.Alert,
		Ingredients:   make([]ingredientRecordResponse, len(rec.Ingredients)),
	}
	for i, ing := range rec.Ingredients {
		resp.Ingredients[i] = ingredientRecordResponse{
			Name:          ing.Name,
			ExpectedUsage: ing.ExpectedUsage.String(),
			ActualUsed:    ing.ActualUsed.String(),
			CostPerUnit:   ing.CostPerUnit.String(),
			Invested:      ing.Invested.String(),
			Wastage:       ing.Wastage.String(),
			Discrepancy:   ing.Discrepancy.String(),
		}
	}
	return resp
}

// --- Handlers ---

// Report returns the per-item inventory variance summary for the
// restaurant. Items without a linked recipe appear as error entries;
// any ledger read failure fails the whole report.
func (h *VarianceHandler) Report(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	records, err := h.engine.ComputeVariance(r.Context(), restaurantID)
	if err != nil {
		log.Printf("ERROR: inventory variance report: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	summary := make([]interface{}, len(records))
	for i, rec := range records {
		summary[i] = toVarianceResponse(rec)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"summary": summary,
	})
}
