package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateRecipeParams struct {
	RestaurantID uuid.UUID
	Name         string
	Description  pgtype.Text
}

const createRecipe = `
INSERT INTO recipes (restaurant_id, name, description)
VALUES ($1, $2, $3)
RETURNING id, restaurant_id, name, description, created_at, updated_at
`

func (q *Queries) CreateRecipe(ctx context.Context, arg CreateRecipeParams) (Recipe, error) {
	var r Recipe
	err := q.db.QueryRow(ctx, createRecipe, arg.RestaurantID, arg.Name, arg.Description).
		Scan(&r.ID, &r.RestaurantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

type GetRecipeParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const getRecipe = `
SELECT id, restaurant_id, name, description, created_at, updated_at
FROM recipes
WHERE id = $1 AND restaurant_id = $2
`

func (q *Queries) GetRecipe(ctx context.Context, arg GetRecipeParams) (Recipe, error) {
	var r Recipe
	err := q.db.QueryRow(ctx, getRecipe, arg.ID, arg.RestaurantID).
		Scan(&r.ID, &r.RestaurantID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const listIngredientsForRecipe = `
SELECT id, recipe_id, grocery_id, quantity_per_order
FROM recipe_ingredients
WHERE recipe_id = $1
`

func (q *Queries) ListIngredientsForRecipe(ctx context.Context, recipeID uuid.UUID) ([]RecipeIngredient, error) {
	rows, err := q.db.Query(ctx, listIngredientsForRecipe, recipeID)
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

const deleteIngredientsForRecipe = `
DELETE FROM recipe_ingredients
WHERE recipe_id = $1
`

// DeleteIngredientsForRecipe clears a recipe's mapping rows. The recipe
// owns its mappings: replacing the ingredient list always deletes the
// old rows first.
func (q *Queries) DeleteIngredientsForRecipe(ctx context.Context, recipeID uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteIngredientsForRecipe, recipeID)
	return err
}

type CreateRecipeIngredientParams struct {
	RecipeID         uuid.UUID
	GroceryID        uuid.UUID
	QuantityPerOrder pgtype.Numeric
}

const createRecipeIngredient = `
INSERT INTO recipe_ingredients (recipe_id, grocery_id, quantity_per_order)
VALUES ($1, $2, $3)
RETURNING id, recipe_id, grocery_id, quantity_per_order
`

func (q *Queries) CreateRecipeIngredient(ctx context.Context, arg CreateRecipeIngredientParams) (RecipeIngredient, error) {
	var ri RecipeIngredient
	err := q.db.QueryRow(ctx, createRecipeIngredient, arg.RecipeID, arg.GroceryID, arg.QuantityPerOrder).
		Scan(&ri.ID, &ri.RecipeID, &ri.GroceryID, &ri.QuantityPerOrder)
	return ri, err
}

type DeleteRecipeParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const deleteRecipe = `
DELETE FROM recipes
WHERE id = $1 AND restaurant_id = $2
RETURNING id
`

func (q *Queries) DeleteRecipe(ctx context.Context, arg DeleteRecipeParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, deleteRecipe, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
