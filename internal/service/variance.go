package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/restman-ops/api/internal/database"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Alert texts emitted by the variance engine.
const (
	AlertTextDiscrepancy = "Significant discrepancy in ingredient usage!"
	AlertTextWastage     = "High wastage detected!"

	// NoRecipeLinked marks a degraded record, not a failure.
	NoRecipeLinked = "No recipe linked"
)

var (
	discrepancyThreshold = decimal.NewFromFloat(0.2)
	wastageThreshold     = decimal.NewFromFloat(0.1)
)

// LedgerStore defines the five ledger reads variance reconciliation
// needs. Satisfied by *database.Queries; narrow interface for testability.
type LedgerStore interface {
	ListMenuItems(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error)
	ListRecipes(ctx context.Context, restaurantID uuid.UUID) ([]database.Recipe, error)
	ListRecipeIngredients(ctx context.Context, restaurantID uuid.UUID) ([]database.RecipeIngredient, error)
	ListGroceries(ctx context.Context, restaurantID uuid.UUID) ([]database.Grocery, error)
	ListOrderLines(ctx context.Context, restaurantID uuid.UUID) ([]database.OrderLine, error)
}

// IngredientVariance is one per-ingredient detail row.
type IngredientVariance struct {
	Name          string
	ExpectedUsage decimal.Decimal
	ActualUsed    decimal.Decimal
	CostPerUnit   decimal.Decimal
	Invested      decimal.Decimal
	Wastage       decimal.Decimal
	Discrepancy   decimal.Decimal
}

// VarianceRecord is the per-menu-item reconciliation result. Records are
// computed fresh per request and never persisted.
type VarianceRecord struct {
	MenuItem      string
	Category      string
	Err           string // NoRecipeLinked when the item has no recipe; numeric fields are then meaningless
	Invested      decimal.Decimal
	ExpectedYield decimal.Decimal
	ActualSales   int64
	Wastage       decimal.Decimal
	Discrepancy   decimal.Decimal
	Alert         string
	Ingredients   []IngredientVariance
}

// VarianceService reconciles expected ingredient consumption (recipes ×
// sales) against inventory drawdown.
type VarianceService struct {
	store LedgerStore
}

// NewVarianceService creates a new VarianceService.
func NewVarianceService(store LedgerStore) *VarianceService {
	return &VarianceService{store: store}
}

// ledgerSnapshot is one unsynchronized read of the five source tables,
// indexed for the per-item pass.
type ledgerSnapshot struct {
	menuItems           []database.MenuItem
	recipes             map[uuid.UUID]database.Recipe
	ingredientsByRecipe map[uuid.UUID][]database.RecipeIngredient
	groceries           map[uuid.UUID]database.Grocery
	salesByItem         map[uuid.UUID]int64
}

// ComputeVariance returns one VarianceRecord per menu item of the
// restaurant. Per-item conditions (missing recipe, unmatched grocery)
// degrade to placeholder values; only a ledger read failure aborts the
// batch, with no partial results.
func (s *VarianceService) ComputeVariance(ctx context.Context, restaurantID uuid.UUID) ([]VarianceRecord, error) {
	snap, err := s.readLedger(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("read inventory ledger: %w", err)
	}

	records := make([]VarianceRecord, 0, len(snap.menuItems))
	for _, item := range snap.menuItems {
		records = append(records, computeItemVariance(item, snap))
	}
	return records, nil
}

// readLedger issues the five reads concurrently; the reads have no
// ordering dependency and the first failure cancels the rest.
func (s *VarianceService) readLedger(ctx context.Context, restaurantID uuid.UUID) (*ledgerSnapshot, error) {
	var (
		menuItems   []database.MenuItem
		recipes     []database.Recipe
		ingredients []database.RecipeIngredient
		groceries   []database.Grocery
		orderLines  []database.OrderLine
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		menuItems, err = s.store.ListMenuItems(ctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		recipes, err = s.store.ListRecipes(ctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = s.store.ListRecipeIngredients(ctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		groceries, err = s.store.ListGroceries(ctx, restaurantID)
		return err
	})
	g.Go(func() error {
		var err error
		orderLines, err = s.store.ListOrderLines(ctx, restaurantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &ledgerSnapshot{
		menuItems:           menuItems,
		recipes:             make(map[uuid.UUID]database.Recipe, len(recipes)),
		ingredientsByRecipe: make(map[uuid.UUID][]database.RecipeIngredient),
		groceries:           make(map[uuid.UUID]database.Grocery, len(groceries)),
		salesByItem:         make(map[uuid.UUID]int64),
	}
	for _, r := range recipes {
		snap.recipes[r.ID] = r
	}
	for _, ri := range ingredients {
		snap.ingredientsByRecipe[ri.RecipeID] = append(snap.ingredientsByRecipe[ri.RecipeID], ri)
	}
	for _, gr := range groceries {
		snap.groceries[gr.ID] = gr
	}
	for _, ol := range orderLines {
		snap.salesByItem[ol.MenuItemID] += int64(ol.Quantity)
	}
	return snap, nil
}

func computeItemVariance(item database.MenuItem, snap *ledgerSnapshot) VarianceRecord {
	rec := VarianceRecord{
		MenuItem: item.Name,
		Category: item.Category,
	}

	if !item.RecipeID.Valid {
		rec.Err = NoRecipeLinked
		return rec
	}
	recipeID := uuid.UUID(item.RecipeID.Bytes)

	// A dangling recipe reference degrades the same way as no link.
	if _, ok := snap.recipes[recipeID]; !ok {
		rec.Err = NoRecipeLinked
		return rec
	}

	sales := snap.salesByItem[item.ID]
	rec.ActualSales = sales
	salesDec := decimal.NewFromInt(sales)

	invested := decimal.Zero
	expectedYield := decimal.Zero
	wastage := decimal.Zero
	discrepancy := decimal.Zero

	for _, ri := range snap.ingredientsByRecipe[recipeID] {
		expectedUsage := salesDec.Mul(numericToDecimal(ri.QuantityPerOrder))

		iv := IngredientVariance{
			ExpectedUsage: expectedUsage,
			ActualUsed:    decimal.Zero,
			CostPerUnit:   decimal.Zero,
			Wastage:       decimal.Zero,
		}
		// Unmatched grocery references contribute zero cost and zero
		// usage instead of failing the item.
		if g, ok := snap.groceries[ri.GroceryID]; ok {
			iv.Name = g.Name
			iv.CostPerUnit = numericToDecimal(g.CostPerUnit)
			iv.Wastage = numericToDecimal(g.WastageAmt)
			iv.ActualUsed = numericToDecimal(g.InitialAmt).
				Sub(numericToDecimal(g.CurrentAmt)).
				Sub(iv.Wastage)
		}
		iv.Invested = expectedUsage.Mul(iv.CostPerUnit)
		iv.Discrepancy = expectedUsage.Sub(iv.ActualUsed)

		invested = invested.Add(iv.Invested)
		expectedYield = expectedYield.Add(expectedUsage)
		wastage = wastage.Add(iv.Wastage)
		discrepancy = discrepancy.Add(iv.Discrepancy)

		rec.Ingredients = append(rec.Ingredients, iv)
	}

	rec.Invested = invested.Round(2)
	rec.ExpectedYield = expectedYield
	rec.Wastage = wastage
	rec.Discrepancy = discrepancy.Round(2)
	rec.Alert = varianceAlertText(expectedYield, discrepancy, wastage)
	return rec
}

// varianceAlertText applies the threshold rules in order, first match
// wins. A zero expected yield never alerts: both rules compare against
// a fraction of it, which is meaningless at zero.
func varianceAlertText(expectedYield, discrepancy, wastage decimal.Decimal) string {
	if expectedYield.IsZero() {
		return ""
	}
	if discrepancy.Abs().GreaterThan(expectedYield.Mul(discrepancyThreshold)) {
		return AlertTextDiscrepancy
	}
	if wastage.GreaterThan(expectedYield.Mul(wastageThreshold)) {
		return AlertTextWastage
	}
	return ""
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
