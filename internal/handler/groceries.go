package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/restman-ops/api/internal/database"
)

// GroceryStore defines the database methods needed by grocery handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type GroceryStore interface {
	ListGroceries(ctx context.Context, restaurantID uuid.UUID) ([]database.Grocery, error)
	CreateGrocery(ctx context.Context, arg database.CreateGroceryParams) (database.Grocery, error)
	UpdateGrocery(ctx context.Context, arg database.UpdateGroceryParams) (database.Grocery, error)
	DeleteGrocery(ctx context.Context, arg database.DeleteGroceryParams) (uuid.UUID, error)
}

// GroceryHandler handles grocery stock CRUD endpoints.
type GroceryHandler struct {
	store GroceryStore
}

// NewGroceryHandler creates a new GroceryHandler.
func NewGroceryHandler(store GroceryStore) *GroceryHandler {
	return &GroceryHandler{store: store}
}

// RegisterRoutes registers grocery endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter: /restaurants/{rid}/groceries
func (h *GroceryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type groceryRequest struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	CostPerUnit string `json:"cost_per_unit"`
	InitialAmt  string `json:"initial_amt"`
	CurrentAmt  string `json:"current_amt"`
	WastageAmt  string `json:"wastage_amt"`
}

type groceryResponse struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurant_id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	CostPerUnit  string    `json:"cost_per_unit"`
	InitialAmt   string    `json:"initial_amt"`
	CurrentAmt   string    `json:"current_amt"`
	WastageAmt   string    `json:"wastage_amt"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toGroceryResponse(g database.Grocery) groceryResponse {
	return groceryResponse{
		ID:           g.ID,
		RestaurantID: g.RestaurantID,
		Name:         g.Name,
		Unit:         g.Unit,
		CostPerUnit:  numericString(g.CostPerUnit),
		InitialAmt:   numericString(g.InitialAmt),
		CurrentAmt:   numericString(g.CurrentAmt),
		WastageAmt:   numericString(g.WastageAmt),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

type groceryAmounts struct {
	costPerUnit pgtype.Numeric
	initialAmt  pgtype.Numeric
	currentAmt  pgtype.Numeric
	wastageAmt  pgtype.Numeric
}

func parseGroceryRequest(req groceryRequest) (groceryAmounts, string, bool) {
	var amounts groceryAmounts

	if req.Name == "" {
		return amounts, "name is required", false
	}
	if req.Unit == "" {
		return amounts, "unit is required", false
	}

	fields := []struct {
		name  string
		value string
		dst   *pgtype.Numeric
	}{
		{"cost_per_unit", req.CostPerUnit, &amounts.costPerUnit},
		{"initial_amt", req.InitialAmt, &amounts.initialAmt},
		{"current_amt", req.CurrentAmt, &amounts.currentAmt},
		{"wastage_amt", req.WastageAmt, &amounts.wastageAmt},
	}
	for _, f := range fields {
		if f.value == "" {
			return amounts, f.name + " is required", false
		}
		n, err := parseQuantity(f.value)
		if err != nil {
			if errors.Is(err, errNegativeQuantity) {
				return amounts, f.name + " must be >= 0", false
			}
			return amounts, "invalid " + f.name, false
		}
		*f.dst = n
	}
	return amounts, "", true
}

// --- Handlers ---

// List returns all groceries for the given restaurant.
func (h *GroceryHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	groceries, err := h.store.ListGroceries(r.Context(), restaurantID)
	if err != nil {
		log.Printf("ERROR: list groceries: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]groceryResponse, len(groceries))
	for i, g := range groceries {
		resp[i] = toGroceryResponse(g)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new grocery to the given restaurant.
func (h *GroceryHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	var req groceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	amounts, msg, ok := parseGroceryRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	grocery, err := h.store.CreateGrocery(r.Context(), database.CreateGroceryParams{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Unit:         req.Unit,
		CostPerUnit:  amounts.costPerUnit,
		InitialAmt:   amounts.initialAmt,
		CurrentAmt:   amounts.currentAmt,
		WastageAmt:   amounts.wastageAmt,
	})
	if err != nil {
		log.Printf("ERROR: create grocery: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toGroceryResponse(grocery))
}

// Update modifies an existing grocery in the given restaurant.
func (h *GroceryHandler) Update(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	groceryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid grocery ID"})
		return
	}

	var req groceryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	amounts, msg, ok := parseGroceryRequest(req)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	grocery, err := h.store.UpdateGrocery(r.Context(), database.UpdateGroceryParams{
		ID:           groceryID,
		RestaurantID: restaurantID,
		Name:         req.Name,
		Unit:         req.Unit,
		CostPerUnit:  amounts.costPerUnit,
		InitialAmt:   amounts.initialAmt,
		CurrentAmt:   amounts.currentAmt,
		WastageAmt:   amounts.wastageAmt,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "grocery not found"})
			return
		}
		log.Printf("ERROR: update grocery: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toGroceryResponse(grocery))
}

// Delete removes a grocery from the given restaurant.
func (h *GroceryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	groceryID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid grocery ID"})
		return
	}

	_, err = h.store.DeleteGrocery(r.Context(), database.DeleteGroceryParams{
		ID:           groceryID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "grocery not found"})
			return
		}
		if isForeignKeyViolation(err) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "grocery is referenced by a recipe"})
			return
		}
		log.Printf("ERROR: delete grocery: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
