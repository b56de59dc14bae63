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
	"github.com/restman-ops/api/internal/suggest"
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// NewRecipeStore creates a RecipeStore bound to a transaction.
// This allows the handler to run multi-statement writes atomically.
type NewRecipeStore func(tx pgx.Tx) RecipeStore

// RecipeStore defines the database methods needed by recipe handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type RecipeStore interface {
	ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]database.Recipe, error)
	GetRecipe(ctx context.Context, arg database.GetRecipeParams) (database.Recipe, error)
	CreateRecipe(ctx context.Context, arg database.CreateRecipeParams) (database.Recipe, error)
	DeleteRecipe(ctx context.Context, arg database.DeleteRecipeParams) (uuid.UUID, error)
	ListIngredientsForRecipe(ctx context.Context, recipeID uuid.UUID) ([]database.RecipeIngredient, error)
	DeleteIngredientsForRecipe(ctx context.Context, recipeID uuid.UUID) error
	CreateRecipeIngredient(ctx context.Context, arg database.CreateRecipeIngredientParams) (database.RecipeIngredient, error)
}

// Describer drafts recipe descriptions.
// Satisfied by *suggest.Suggester.
type Describer interface {
	Describe(ctx context.Context, recipeName string, ingredients []string) (string, error)
}

// RecipeHandler handles recipe and ingredient mapping endpoints.
// Multi-statement writes to a recipe's mapping rows run inside a
// transaction built from pool + newStore.
type RecipeHandler struct {
	store     RecipeStore
	pool      TxBeginner
	newStore  NewRecipeStore
	describer Describer
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(store RecipeStore, pool TxBeginner, newStore NewRecipeStore, describer Describer) *RecipeHandler {
	return &RecipeHandler{store: store, pool: pool, newStore: newStore, describer: describer}
}

// RegisterRoutes registers recipe endpoints on the given Chi router.
// Expected to be mounted inside a restaurant-scoped subrouter: /restaurants/{rid}/recipes
func (h *RecipeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}/ingredients", h.ReplaceIngredients)
	r.Delete("/{id}", h.Delete)
	r.Post("/suggest", h.Suggest)
}

// --- Request / Response types ---

type recipeIngredientRequest struct {
	GroceryID        string `json:"grocery_id"`
	QuantityPerOrder string `json:"quantity_per_order"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

type replaceIngredientsRequest struct {
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

type suggestRequest struct {
	Name        string   `json:"name"`
	Ingredients []string `json:"ingredients"`
}

type recipeIngredientResponse struct {
	ID               uuid.UUID `json:"id"`
	GroceryID        uuid.UUID `json:"grocery_id"`
	QuantityPerOrder string    `json:"quantity_per_order"`
}

type recipeResponse struct {
	ID           uuid.UUID                  `json:"id"`
	RestaurantID uuid.UUID                  `json:"restaurant_id"`
	Name         string                     `json:"name"`
	Description  *string                    `json:"description"`
	Ingredients  []recipeIngredientResponse `json:"ingredients,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func toRecipeResponse(rec database.Recipe, ingredients []database.RecipeIngredient) recipeResponse {
	resp := recipeResponse{
		ID:           rec.ID,
		RestaurantID: rec.RestaurantID,
		Name:         rec.Name,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	if rec.Description.Valid {
		resp.Description = &rec.Description.String
	}
	for _, ri := range ingredients {
		resp.Ingredients = append(resp.Ingredients, recipeIngredientResponse{
			ID:               ri.ID,
			GroceryID:        ri.GroceryID,
			QuantityPerOrder: numericString(ri.QuantityPerOrder),
		})
	}
	return resp
}

type parsedIngredient struct {
	groceryID uuid.UUID
	quantity  pgtype.Numeric
}

func parseIngredients(reqs []recipeIngredientRequest) ([]parsedIngredient, string, bool) {
	parsed := make([]parsedIngredient, 0, len(reqs))
	for _, req := range reqs {
		groceryID, err := uuid.Parse(req.GroceryID)
		if err != nil {
			return nil, "invalid grocery_id", false
		}
		qty, err := parseQuantity(req.QuantityPerOrder)
		if err != nil {
			if errors.Is(err, errNegativeQuantity) {
				return nil, "quantity_per_order must be >= 0", false
			}
			return nil, "invalid quantity_per_order", false
		}
		parsed = append(parsed, parsedIngredient{groceryID: groceryID, quantity: qty})
	}
	return parsed, "", true
}

// --- Handlers ---

// List returns all recipes for the given restaurant, without their
// ingredient mappings.
func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	recipes, err := h.store.ListRecipes(r.Context(), restaurantID)
	if err != nil {
		log.Printf("ERROR: list recipes: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]recipeResponse, len(recipes))
	for i, rec := range recipes {
		resp[i] = toRecipeResponse(rec, nil)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one recipe with its ingredient mappings.
func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recipe ID"})
		return
	}

	recipe, err := h.store.GetRecipe(r.Context(), database.GetRecipeParams{
		ID:           recipeID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
			return
		}
		log.Printf("ERROR: get recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ingredients, err := h.store.ListIngredientsForRecipe(r.Context(), recipe.ID)
	if err != nil {
		log.Printf("ERROR: list recipe ingredients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(recipe, ingredients))
}

// Create adds a new recipe, optionally with its ingredient mappings.
func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	var req createRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	parsed, msg, ok := parseIngredients(req.Ingredients)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)

	recipe, err := store.CreateRecipe(r.Context(), database.CreateRecipeParams{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Description:  desc,
	})
	if err != nil {
		log.Printf("ERROR: create recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ingredients, status, msg := insertIngredients(r.Context(), store, recipe.ID, parsed)
	if msg != "" {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeResponse(recipe, ingredients))
}

// ReplaceIngredients swaps a recipe's full ingredient mapping. The
// recipe owns its mappings, so the previous rows are always deleted
// before the new set is inserted.
func (h *RecipeHandler) ReplaceIngredients(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recipe ID"})
		return
	}

	var req replaceIngredientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	parsed, msg, ok := parseIngredients(req.Ingredients)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)

	// Scope check before touching mapping rows.
	recipe, err := store.GetRecipe(r.Context(), database.GetRecipeParams{
		ID:           recipeID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
			return
		}
		log.Printf("ERROR: get recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := store.DeleteIngredientsForRecipe(r.Context(), recipe.ID); err != nil {
		log.Printf("ERROR: clear recipe ingredients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	ingredients, status, msg := insertIngredients(r.Context(), store, recipe.ID, parsed)
	if msg != "" {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(recipe, ingredients))
}

// Delete removes a recipe and, through the mapping ownership, its
// ingredient rows.
func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := uuid.Parse(chi.URLParam(r, "rid"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid restaurant ID"})
		return
	}

	recipeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid recipe ID"})
		return
	}

	tx, err := h.pool.Begin(r.Context())
	if err != nil {
		log.Printf("ERROR: begin tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	defer tx.Rollback(r.Context()) //nolint:errcheck

	store := h.newStore(tx)

	// Scope check before touching mapping rows.
	recipe, err := store.GetRecipe(r.Context(), database.GetRecipeParams{
		ID:           recipeID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
			return
		}
		log.Printf("ERROR: get recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := store.DeleteIngredientsForRecipe(r.Context(), recipe.ID); err != nil {
		log.Printf("ERROR: clear recipe ingredients: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	_, err = store.DeleteRecipe(r.Context(), database.DeleteRecipeParams{
		ID:           recipeID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "recipe not found"})
			return
		}
		log.Printf("ERROR: delete recipe: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if err := tx.Commit(r.Context()); err != nil {
		log.Printf("ERROR: commit tx: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Suggest drafts a menu description for a recipe with the configured
// language model.
func (h *RecipeHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	description, err := h.describer.Describe(r.Context(), req.Name, req.Ingredients)
	if err != nil {
		if errors.Is(err, suggest.ErrNotConfigured) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "suggestions are not configured"})
			return
		}
		log.Printf("ERROR: suggest recipe description: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "suggestion service failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"description": description})
}

// --- Helpers ---

func insertIngredients(ctx context.Context, store RecipeStore, recipeID uuid.UUID, parsed []parsedIngredient) ([]database.RecipeIngredient, int, string) {
	ingredients := make([]database.RecipeIngredient, 0, len(parsed))
	for _, p := range parsed {
		ri, err := store.CreateRecipeIngredient(ctx, database.CreateRecipeIngredientParams{
			RecipeID:         recipeID,
			GroceryID:        p.groceryID,
			QuantityPerOrder: p.quantity,
		})
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, http.StatusBadRequest, "invalid grocery_id"
			}
			log.Printf("ERROR: create recipe ingredient: %v", err)
			return nil, http.StatusInternalServerError, "internal server error"
		}
		ingredients = append(ingredients, ri)
	}
	return ingredients, 0, ""
}
