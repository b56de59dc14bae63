package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type CreateMenuItemParams struct {
	RestaurantID uuid.UUID
	Name         string
	Category     string
	RecipeID     pgtype.UUID
}

const createMenuItem = `
INSERT INTO menu_items (restaurant_id, name, category, recipe_id)
VALUES ($1, $2, $3, $4)
RETURNING id, restaurant_id, name, category, recipe_id, created_at, updated_at
`

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, createMenuItem, arg.RestaurantID, arg.Name, arg.Category, arg.RecipeID).
		Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Category, &m.RecipeID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

type UpdateMenuItemParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Category     string
	RecipeID     pgtype.UUID
}

const updateMenuItem = `
UPDATE menu_items
SET name = $3, category = $4, recipe_id = $5, updated_at = now()
WHERE id = $1 AND restaurant_id = $2
RETURNING id, restaurant_id, name, category, recipe_id, created_at, updated_at
`

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	var m MenuItem
	err := q.db.QueryRow(ctx, updateMenuItem, arg.ID, arg.RestaurantID, arg.Name, arg.Category, arg.RecipeID).
		Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Category, &m.RecipeID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

type DeleteMenuItemParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const deleteMenuItem = `
DELETE FROM menu_items
WHERE id = $1 AND restaurant_id = $2
RETURNING id
`

func (q *Queries) DeleteMenuItem(ctx context.Context, arg DeleteMenuItemParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, deleteMenuItem, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
