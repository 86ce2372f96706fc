package planner

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/globetrotter/internal/http/respond"
	"github.com/MrJamesThe3rd/globetrotter/internal/importer"
	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.repos.Expenses.List(r.Context(), tripFrom(r.Context()).ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, expenses)
}

type createExpenseRequest struct {
	TripStopID  *string              `json:"trip_stop_id"`
	Category    trip.ExpenseCategory `json:"category"`
	Description *string              `json:"description"`
	Amount      decimal.Decimal      `json:"amount"`
	Currency    string               `json:"currency"`
	ExpenseDate *trip.Date           `json:"expense_date"`
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	t := tripFrom(r.Context())

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := trip.ExpenseDraft{Category: string(req.Category), Amount: req.Amount}
	if req.Description != nil {
		draft.Description = *req.Description
	}

	if fe := trip.ValidateExpenseDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	e, err := h.repos.Expenses.Create(r.Context(), trip.CreateExpenseParams{
		TripID:      t.ID,
		TripStopID:  req.TripStopID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, e)
}

type updateExpenseRequest struct {
	TripStopID  *string               `json:"trip_stop_id"`
	Category    *trip.ExpenseCategory `json:"category"`
	Description *string               `json:"description"`
	Amount      *decimal.Decimal      `json:"amount"`
	Currency    *string               `json:"currency"`
	ExpenseDate *trip.Date            `json:"expense_date"`
}

func (h *Handler) updateExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := h.expenseOfTrip(w, r)
	if !ok {
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := trip.ExpenseDraft{Category: string(e.Category), Amount: e.Amount}
	if e.Description != nil {
		draft.Description = *e.Description
	}

	if req.Category != nil {
		draft.Category = string(*req.Category)
	}

	if req.Amount != nil {
		draft.Amount = *req.Amount
	}

	if req.Description != nil {
		draft.Description = *req.Description
	}

	if fe := trip.ValidateExpenseDraft(draft); fe != nil {
		respond.Error(w, r, fe)
		return
	}

	updated, err := h.repos.Expenses.Update(r.Context(), e.ID, trip.UpdateExpenseParams{
		TripStopID:  req.TripStopID,
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		ExpenseDate: req.ExpenseDate,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	e, ok := h.expenseOfTrip(w, r)
	if !ok {
		return
	}

	if err := h.repos.Expenses.Delete(r.Context(), e.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type importResponse struct {
	Imported int            `json:"imported"`
	Expenses []trip.Expense `json:"expenses"`
}

// importExpenses stores every row of an uploaded CSV file. The file is sent
// as the "file" field of a multipart form.
func (h *Handler) importExpenses(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	created, err := h.importSvc.Import(r.Context(), tripFrom(r.Context()).ID, file)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidFile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, importResponse{
		Imported: len(created),
		Expenses: created,
	})
}

// expenseOfTrip loads {expenseID} and checks it belongs to the trip in the
// path.
func (h *Handler) expenseOfTrip(w http.ResponseWriter, r *http.Request) (*trip.Expense, bool) {
	id, ok := urlID(w, r, "expenseID")
	if !ok {
		return nil, false
	}

	e, err := h.repos.Expenses.Get(r.Context(), id)
	if err == nil && e.TripID != tripFrom(r.Context()).ID {
		err = trip.ErrNotFound
	}

	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return e, true
}
