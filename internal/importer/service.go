package importer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/globetrotter/internal/trip"
)

// ErrInvalidFile wraps every reason an uploaded file could not be read.
var ErrInvalidFile = errors.New("invalid expense file")

type Service struct {
	expenses *trip.ExpenseRepository
}

func NewService(expenses *trip.ExpenseRepository) *Service {
	return &Service{expenses: expenses}
}

// Import parses r and stores every row as an expense of tripID. Nothing is
// stored when the file does not parse. A storage failure returns the
// expenses created before it.
func (s *Service) Import(ctx context.Context, tripID string, r io.Reader) ([]trip.Expense, error) {
	params, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	for i := range params {
		params[i].TripID = tripID
	}

	created, err := s.expenses.CreateBatch(ctx, params)
	if err != nil {
		return created, fmt.Errorf("storing expenses: %w", err)
	}

	return created, nil
}
