package reports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"gims/internal/core/apperror"
)

// Repository defines the report queries.
type Repository interface {
	// StockBalance returns the balance report, optionally narrowed to
	// one location.
	StockBalance(ctx context.Context, location string) ([]BalanceRow, error)

	// Movements returns approved receives and issues in the range,
	// ordered by date.
	Movements(ctx context.Context, from, to time.Time) ([]MovementRow, error)
}

// Service builds reports and their CSV renderings.
type Service struct {
	repo Repository
}

// NewService creates a new report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// StockBalance returns the current balance per stock item.
func (s *Service) StockBalance(ctx context.Context, location string) ([]BalanceRow, error) {
	return s.repo.StockBalance(ctx, location)
}

// Movements returns the movement journal over a date range.
func (s *Service) Movements(ctx context.Context, from, to time.Time) ([]MovementRow, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperror.NewValidation("date range is required").
			WithDetail("field", "from/to")
	}
	if to.Before(from) {
		return nil, apperror.NewValidation("to date must not precede from date").
			WithDetail("from", from.Format(time.DateOnly)).
			WithDetail("to", to.Format(time.DateOnly))
	}
	return s.repo.Movements(ctx, from, to)
}

// WriteBalanceCSV streams the balance report as CSV.
func (s *Service) WriteBalanceCSV(w io.Writer, rows []BalanceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"nac_code", "item_name", "unit", "location", "current_balance"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.NacCode, r.ItemName, r.Unit, r.Location, r.CurrentBalance.String()}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMovementsCSV streams the movement journal as CSV.
func (s *Service) WriteMovementsCSV(w io.Writer, rows []MovementRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "movement", "nac_code", "item_name", "quantity", "equipment_number", "reference"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date.Format(time.DateOnly),
			r.Movement,
			r.NacCode,
			r.ItemName,
			r.Quantity.String(),
			r.EquipmentNumber,
			r.Reference,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
