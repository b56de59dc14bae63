package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// MenuItem is a sellable dish. RecipeID is null for items that have not
// been linked to a recipe yet.
type MenuItem struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Category     string
	RecipeID     pgtype.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Recipe names a preparation; its ingredient list lives in
// recipe_ingredients and is replaced wholesale on edit.
type Recipe struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Description  pgtype.Text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeIngredient maps a recipe to a grocery with the quantity consumed
// per single sold unit of the linked menu item.
type RecipeIngredient struct {
	ID               uuid.UUID
	RecipeID         uuid.UUID
	GroceryID        uuid.UUID
	QuantityPerOrder pgtype.Numeric
}

// Grocery is an inventory record. Quantities share one unit per
// ingredient; cost_per_unit is per that unit.
type Grocery struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Unit         string
	CostPerUnit  pgtype.Numeric
	InitialAmt   pgtype.Numeric
	CurrentAmt   pgtype.Numeric
	WastageAmt   pgtype.Numeric
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderLine is one sold line item, produced by the order-taking flow.
type OrderLine struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	MenuItemID   uuid.UUID
	Quantity     int32
	CreatedAt    time.Time
}

// StaffUser is an employee account. Null notification preference columns
// mean the channel is enabled (opt-out model).
type StaffUser struct {
	ID             uuid.UUID
	RestaurantID   uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	Phone          pgtype.Text
	SMSEnabled     pgtype.Bool
	EmailEnabled   pgtype.Bool
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
