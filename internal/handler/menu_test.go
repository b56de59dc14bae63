package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/restman-ops/api/internal/database"
	"github.com/restman-ops/api/internal/handler"
)

// --- Mock store ---

type mockMenuStore struct {
	items   map[uuid.UUID]database.MenuItem
	fkError bool // simulate FK violation
}

func newMockMenuStore() *mockMenuStore {
	return &mockMenuStore{items: make(map[uuid.UUID]database.MenuItem)}
}

func (m *mockMenuStore) ListMenuItems(_ context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error) {
	var result []database.MenuItem
	for _, item := range m.items {
		if item.RestaurantID == restaurantID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (m *mockMenuStore) CreateMenuItem(_ context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error) {
	if m.fkError {
		return database.MenuItem{}, &pgconn.PgError{Code: "23503"}
	}
	now := time.Now()
	item := database.MenuItem{
		ID:           uuid.New(),
		RestaurantID: arg.RestaurantID,
		Name:         arg.Name,
		Category:     arg.Category,
		RecipeID:     arg.RecipeID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *mockMenuStore) UpdateMenuItem(_ context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error) {
	item, ok := m.items[arg.ID]
	if !ok || item.RestaurantID != arg.RestaurantID {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	item.Name = arg.Name
	item.Category = arg.Category
	item.RecipeID = arg.RecipeID
	item.UpdatedAt = time.Now()
	m.items[item.ID] = item
	return item, nil
}

func (m *mockMenuStore) DeleteMenuItem(_ context.Context, arg database.DeleteMenuItemParams) (uuid.UUID, error) {
	item, ok := m.items[arg.ID]
	if !ok || item.RestaurantID != arg.RestaurantID {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.items, arg.ID)
	return item.ID, nil
}

// --- Helpers ---

func setupMenuRouter(store *mockMenuStore) *chi.Mux {
	h := handler.NewMenuHandler(store)
	r := chi.NewRouter()
	r.Route("/restaurants/{rid}/menu-items", h.RegisterRoutes)
	return r
}

func decodeMenuResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// --- Tests ---

func TestMenuItemCreate(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)
	restaurantID := uuid.New()

	body := `{"name":"Dal Curry","category":"MAINS"}`
	req := httptest.NewRequest(http.MethodPost, "/restaurants/"+restaurantID.String()+"/menu-items/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeMenuResponse(t, rr)
	if resp["name"] != "Dal Curry" {
		t.Errorf("expected name Dal Curry, got %v", resp["name"])
	}
	if resp["recipe_id"] != nil {
		t.Errorf("expected null recipe_id, got %v", resp["recipe_id"])
	}
}

func TestMenuItemCreate_WithRecipe(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)
	restaurantID := uuid.New()
	recipeID := uuid.New()

	body := `{"name":"Dal Curry","category":"MAINS","recipe_id":"` + recipeID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/restaurants/"+restaurantID.String()+"/menu-items/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rr.Code)
	}
	resp := decodeMenuResponse(t, rr)
	if resp["recipe_id"] != recipeID.String() {
		t.Errorf("expected recipe_id %s, got %v", recipeID, resp["recipe_id"])
	}
}

func TestMenuItemCreate_MissingName(t *testing.T) {
	router := setupMenuRouter(newMockMenuStore())

	body := `{"category":"MAINS"}`
	req := httptest.NewRequest(http.MethodPost, "/restaurants/"+uuid.NewString()+"/menu-items/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMenuItemCreate_UnknownRecipe(t *testing.T) {
	store := newMockMenuStore()
	store.fkError = true
	router := setupMenuRouter(store)

	body := `{"name":"Dal Curry","category":"MAINS","recipe_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/restaurants/"+uuid.NewString()+"/menu-items/", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestMenuItemUpdate_NotFound(t *testing.T) {
	router := setupMenuRouter(newMockMenuStore())

	body := `{"name":"Dal Curry","category":"MAINS"}`
	req := httptest.NewRequest(http.MethodPut, "/restaurants/"+uuid.NewString()+"/menu-items/"+uuid.NewString(), strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMenuItemDelete(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)
	restaurantID := uuid.New()

	item, err := store.CreateMenuItem(context.Background(), database.CreateMenuItemParams{
		RestaurantID: restaurantID,
		Name:         "Dal Curry",
		Category:     "MAINS",
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/restaurants/"+restaurantID.String()+"/menu-items/"+item.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if len(store.items) != 0 {
		t.Error("item should be deleted")
	}
}

func TestMenuItemDelete_WrongRestaurant(t *testing.T) {
	store := newMockMenuStore()
	router := setupMenuRouter(store)

	item, err := store.CreateMenuItem(context.Background(), database.CreateMenuItemParams{
		RestaurantID: uuid.New(),
		Name:         "Dal Curry",
		Category:     "MAINS",
	})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	// Different restaurant in the path must not reach the row.
	req := httptest.NewRequest(http.MethodDelete, "/restaurants/"+uuid.NewString()+"/menu-items/"+item.ID.String(), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if len(store.items) != 1 {
		t.Error("item should not be deleted")
	}
}
