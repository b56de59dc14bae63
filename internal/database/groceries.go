package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const groceryColumns = `id, restaurant_id, name, unit, cost_per_unit, initial_amt, current_amt, wastage_amt, created_at, updated_at`

func scanGrocery(row interface{ Scan(dest ...any) error }) (Grocery, error) {
	var g Grocery
	err := row.Scan(&g.ID, &g.RestaurantID, &g.Name, &g.Unit, &g.CostPerUnit,
		&g.InitialAmt, &g.CurrentAmt, &g.WastageAmt, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

type CreateGroceryParams struct {
	RestaurantID uuid.UUID
	Name         string
	Unit         string
	CostPerUnit  pgtype.Numeric
	InitialAmt   pgtype.Numeric
	CurrentAmt   pgtype.Numeric
	WastageAmt   pgtype.Numeric
}

const createGrocery = `
INSERT INTO groceries (restaurant_id, name, unit, cost_per_unit, initial_amt, current_amt, wastage_amt)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + groceryColumns

func (q *Queries) CreateGrocery(ctx context.Context, arg CreateGroceryParams) (Grocery, error) {
	return scanGrocery(q.db.QueryRow(ctx, createGrocery,
		arg.RestaurantID, arg.Name, arg.Unit, arg.CostPerUnit,
		arg.InitialAmt, arg.CurrentAmt, arg.WastageAmt))
}

type UpdateGroceryParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Unit         string
	CostPerUnit  pgtype.Numeric
	InitialAmt   pgtype.Numeric
	CurrentAmt   pgtype.Numeric
	WastageAmt   pgtype.Numeric
}

const updateGrocery = `
UPDATE groceries
SET name = $3, unit = $4, cost_per_unit = $5, initial_amt = $6, current_amt = $7, wastage_amt = $8, updated_at = now()
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + groceryColumns

func (q *Queries) UpdateGrocery(ctx context.Context, arg UpdateGroceryParams) (Grocery, error) {
	return scanGrocery(q.db.QueryRow(ctx, updateGrocery,
		arg.ID, arg.RestaurantID, arg.Name, arg.Unit, arg.CostPerUnit,
		arg.InitialAmt, arg.CurrentAmt, arg.WastageAmt))
}

type DeleteGroceryParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const deleteGrocery = `
DELETE FROM groceries
WHERE id = $1 AND restaurant_id = $2
RETURNING id
`

func (q *Queries) DeleteGrocery(ctx context.Context, arg DeleteGroceryParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, deleteGrocery, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
