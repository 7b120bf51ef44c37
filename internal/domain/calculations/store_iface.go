package calculations

import (
	"context"
	"time"
)

type Store interface {
	CreateCalculation(ctx context.Context, calc Calculation) error
	GetCalculation(ctx context.Context, id string) (Calculation, error)
	ListCalculations(ctx context.Context, userID string, limit, offset int) ([]Calculation, error)
	CountCalculations(ctx context.Context, userID string) (int, error)
	DeleteCalculationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
