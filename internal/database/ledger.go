package database

import (
	"context"

	"github.com/google/uuid"
)

// Ledger reads: the five source tables the variance engine reconciles.
// All reads are restaurant-scoped snapshots with no locking; concurrent
// inventory mutations during the read window are acceptable.

const listMenuItems = `
SELECT id, restaurant_id, name, category, recipe_id, created_at, updated_at
FROM menu_items
WHERE restaurant_id = $1
ORDER BY name
`

func (q *Queries) ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Category, &m.RecipeID, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const listRecipes = `
SELECT id, restaurant_id, name, description, created_at, updated_at
FROM recipes
WHERE restaurant_id = $1
ORDER BY name
`

func (q *Queries) ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]Recipe, error) {
	rows, err := q.db.Query(ctx, listRecipes, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.RestaurantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const listRecipeIngredients = `
SELECT ri.id, ri.recipe_id, ri.grocery_id, ri.quantity_per_order
FROM recipe_ingredients ri
JOIN recipes r ON r.id = ri.recipe_id
WHERE r.restaurant_id = $1
`

func (q *Queries) ListRecipeIngredients(ctx context.Context, restaurantID uuid.UUID) ([]RecipeIngredient, error) {
	rows, err := q.db.Query(ctx, listRecipeIngredients, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []RecipeIngredient
	for rows.Next() {
		var ri RecipeIngredient
		if err := rows.Scan(&ri.ID, &ri.RecipeID, &ri.GroceryID, &ri.QuantityPerOrder); err != nil {
			return nil, err
		}
		items = append(items, ri)
	}
	return items, rows.Err()
}

const listGroceries = `
SELECT id, restaurant_id, name, unit, cost_per_unit, initial_amt, current_amt, wastage_amt, created_at, updated_at
FROM groceries
WHERE restaurant_id = $1
ORDER BY name
`

func (q *Queries) ListGroceries(ctx context.Context, restaurantID uuid.UUID) ([]Grocery, error) {
	rows, err := q.db.Query(ctx, listGroceries, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Grocery
	for rows.Next() {
		var g Grocery
		if err := rows.Scan(&g.ID, &g.RestaurantID, &g.Name, &g.Unit, &g.CostPerUnit, &g.InitialAmt, &g.CurrentAmt, &g.WastageAmt, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const listOrderLines = `
SELECT id, restaurant_id, menu_item_id, quantity, created_at
FROM order_lines
WHERE restaurant_id = $1
`

func (q *Queries) ListOrderLines(ctx context.Context, restaurantID uuid.UUID) ([]OrderLine, error) {
	rows, err := q.db.Query(ctx, listOrderLines, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderLine
	for rows.Next() {
		var ol OrderLine
		if err := rows.Scan(&ol.ID, &ol.RestaurantID, &ol.MenuItemID, &ol.Quantity, &ol.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, ol)
	}
	return items, rows.Err()
}
