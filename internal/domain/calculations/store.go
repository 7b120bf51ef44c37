package calculations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"taxease/internal/domain/tax"
	"taxease/internal/platform/querier"
)

type PostgresStore struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (s *PostgresStore) CreateCalculation(ctx context.Context, calc Calculation) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO incomes (id, user_id, salary, other_income, employment_type, tax_calculated, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
  `, calc.ID, calc.UserID, calc.Salary, calc.OtherIncome, calc.EmploymentType.Code(), calc.TaxCalculated, calc.CreatedAt)
	return err
}

func (s *PostgresStore) GetCalculation(ctx context.Context, id string) (Calculation, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT id, user_id, salary, other_income, COALESCE(employment_type, 'salaried'), tax_calculated, created_at
    FROM incomes
    WHERE id = $1
  `, id)
	calc, err := scanCalculation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Calculation{}, ErrNotFound
	}
	return calc, err
}

func (s *PostgresStore) ListCalculations(ctx context.Context, userID string, limit, offset int) ([]Calculation, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, salary, other_income, COALESCE(employment_type, 'salaried'), tax_calculated, created_at
    FROM incomes
    WHERE user_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2 OFFSET $3
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, calc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountCalculations(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM incomes WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *PostgresStore) DeleteCalculationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `DELETE FROM incomes WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanCalculation(row interface{ Scan(dest ...any) error }) (Calculation, error) {
	var calc Calculation
	var code string
	if err := row.Scan(&calc.ID, &calc.UserID, &calc.Salary, &calc.OtherIncome, &code, &calc.TaxCalculated, &calc.CreatedAt); err != nil {
		return Calculation{}, err
	}
	employmentType, err := tax.ParseEmploymentType(code)
	if err != nil {
		return Calculation{}, fmt.Errorf("calculation %s: %w", calc.ID, err)
	}
	calc.EmploymentType = employmentType
	return calc, nil
}
