package trip

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/cache"
	"github.com/MrJamesThe3rd/globetrotter/internal/store"
)

type ExpenseRepository struct {
	base
}

func NewExpenseRepository(client store.Client, c *cache.Cache, opts ...Option) *ExpenseRepository {
	return &ExpenseRepository{base: newBase(client, c, opts)}
}

type CreateExpenseParams struct {
	TripID      string
	TripStopID  *string
	Category    ExpenseCategory
	Description *string
	Amount      decimal.Decimal
	Currency    string
	ExpenseDate *Date
}

type UpdateExpenseParams struct {
	TripStopID  *string
	Category    *ExpenseCategory
	Description *string
	Amount      *decimal.Decimal
	Currency    *string
	ExpenseDate *Date
}

// List returns a trip's expenses, latest expense date first and undated last.
func (r *ExpenseRepository) List(ctx context.Context, tripID string) ([]Expense, error) {
	expenses := []Expense{}

	err := r.client.Select(ctx, store.Query{
		Table: store.TableExpenses,
		Where: []store.Filter{store.Eq("trip_id", tripID)},
		Order: []store.Order{store.Desc("expense_date"), store.Desc("created_at")},
	}, &expenses)
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

func (r *ExpenseRepository) Get(ctx context.Context, id string) (*Expense, error) {
	var expenses []Expense
	if err := r.client.Select(ctx, byID(store.TableExpenses, id), &expenses); err != nil {
		return nil, err
	}

	return first(expenses)
}

func (r *ExpenseRepository) Create(ctx context.Context, p CreateExpenseParams) (*Expense, error) {
	e, err := r.insert(ctx, p)
	if err != nil {
		return nil, err
	}

	r.publish(EntityExpenses, e.TripID)

	return e, nil
}

// CreateBatch inserts expenses one by one and stops at the first failure,
// returning the ones already stored.
func (r *ExpenseRepository) CreateBatch(ctx context.Context, params []CreateExpenseParams) ([]Expense, error) {
	created := make([]Expense, 0, len(params))
	trips := make(map[string]struct{})

	defer func() {
		for id := range trips {
			r.publish(EntityExpenses, id)
		}
	}()

	for _, p := range params {
		e, err := r.insert(ctx, p)
		if err != nil {
			return created, err
		}

		created = append(created, *e)
		trips[e.TripID] = struct{}{}
	}

	return created, nil
}

func (r *ExpenseRepository) insert(ctx context.Context, p CreateExpenseParams) (*Expense, error) {
	category := p.Category
	if category == "" {
		category = CategoryOther
	}

	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	var e Expense

	err := r.client.Insert(ctx, store.TableExpenses, store.Values{
		"trip_id":      p.TripID,
		"trip_stop_id": optText(p.TripStopID),
		"category":     string(category),
		"description":  optText(p.Description),
		"amount":       p.Amount,
		"currency":     currency,
		"expense_date": optDate(p.ExpenseDate),
		"created_at":   r.stamp(),
	}, &e)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, id string, p UpdateExpenseParams) (*Expense, error) {
	v := store.Values{}

	setText(v, "trip_stop_id", p.TripStopID)
	setText(v, "description", p.Description)
	setDate(v, "expense_date", p.ExpenseDate)

	if p.Category != nil {
		v["category"] = string(*p.Category)
	}

	if p.Amount != nil {
		v["amount"] = *p.Amount
	}

	if p.Currency != nil {
		v["currency"] = strings.ToUpper(*p.Currency)
	}

	if len(v) == 0 {
		return r.Get(ctx, id)
	}

	var e Expense
	if err := r.client.Update(ctx, store.TableExpenses, id, v, &e); err != nil {
		return nil, notFound(err)
	}

	r.publish(EntityExpenses, e.TripID)

	return &e, nil
}

// Delete removes an expense. Deleting a missing expense succeeds.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	var e Expense
	if err := r.client.Delete(ctx, store.TableExpenses, id, &e); err != nil {
		return err
	}

	if e.ID != "" {
		r.publish(EntityExpenses, e.TripID)
	}

	return nil
}

func (r *ExpenseRepository) ListQuery(tripID string) *cache.Query[[]Expense] {
	return cache.For(r.cache, cache.Key{Entity: EntityExpenses, Scope: tripID}, func(ctx context.Context) ([]Expense, error) {
		return r.List(ctx, tripID)
	})
}
