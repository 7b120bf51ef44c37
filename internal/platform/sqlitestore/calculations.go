package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"taxease/internal/domain/calculations"
	"taxease/internal/domain/tax"
)

func (s *Store) CreateCalculation(ctx context.Context, calc calculations.Calculation) error {
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO incomes (id, user_id, salary, other_income, employment_type, tax_calculated, created_at)
    VALUES (?,?,?,?,?,?,?)
  `, calc.ID, calc.UserID, calc.Salary.String(), calc.OtherIncome.String(), calc.EmploymentType.Code(),
		calc.TaxCalculated.String(), calc.CreatedAt.UnixNano())
	return err
}

func (s *Store) GetCalculation(ctx context.Context, id string) (calculations.Calculation, error) {
	row := s.db.QueryRowContext(ctx, `
    SELECT id, user_id, salary, other_income, employment_type, tax_calculated, created_at
    FROM incomes
    WHERE id = ?
  `, id)
	calc, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return calculations.Calculation{}, calculations.ErrNotFound
	}
	return calc, err
}

func (s *Store) ListCalculations(ctx context.Context, userID string, limit, offset int) ([]calculations.Calculation, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT id, user_id, salary, other_income, employment_type, tax_calculated, created_at
    FROM incomes
    WHERE user_id = ?
    ORDER BY created_at DESC, id DESC
    LIMIT ? OFFSET ?
  `, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []calculations.Calculation
	for rows.Next() {
		calc, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, calc)
	}
	return out, rows.Err()
}

func (s *Store) CountCalculations(ctx context.Context, userID string) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM incomes WHERE user_id = ?`, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) DeleteCalculationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM incomes WHERE created_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanCalculation(row interface{ Scan(dest ...any) error }) (calculations.Calculation, error) {
	var calc calculations.Calculation
	var code string
	var created int64
	if err := row.Scan(&calc.ID, &calc.UserID, &calc.Salary, &calc.OtherIncome, &code, &calc.TaxCalculated, &created); err != nil {
		return calculations.Calculation{}, err
	}
	employmentType, err := tax.ParseEmploymentType(code)
	if err != nil {
		return calculations.Calculation{}, fmt.Errorf("calculation %s: %w", calc.ID, err)
	}
	calc.EmploymentType = employmentType
	calc.CreatedAt = time.Unix(0, created).UTC()
	return calc, nil
}
