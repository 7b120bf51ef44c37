package calculations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taxease/internal/domain/auth"
	"taxease/internal/domain/reports"
	"taxease/internal/domain/tax"
)

// UserDirectory is the slice of auth.UserStore the service needs.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (auth.User, error)
}

// Observer receives one event per engine run.
type Observer interface {
	ObserveCalculation(employmentType, outcome string)
}

type Service struct {
	Store    Store
	Users    UserDirectory
	Engine   *tax.Engine
	Observer Observer
	now      func() time.Time
}

func NewService(store Store, users UserDirectory, engine *tax.Engine) *Service {
	if engine == nil {
		engine = tax.Default()
	}
	return &Service{Store: store, Users: users, Engine: engine, now: time.Now}
}

// Preview runs the engine without persisting anything.
func (s *Service) Preview(in tax.Input) (tax.Result, error) {
	res, err := s.Engine.Compute(in)
	if err != nil {
		return tax.Result{}, err
	}
	s.observe(res)
	return res, nil
}

// Calculate runs the engine and stores the inputs with the final liability.
func (s *Service) Calculate(ctx context.Context, userID string, in tax.Input) (Calculation, tax.Result, error) {
	res, err := s.Preview(in)
	if err != nil {
		return Calculation{}, tax.Result{}, err
	}

	calc := Calculation{
		ID:             uuid.NewString(),
		UserID:         userID,
		Salary:         nonNegative(in.GrossSalary),
		OtherIncome:    nonNegative(in.OtherIncome),
		EmploymentType: in.EmploymentType,
		TaxCalculated:  res.TotalTax,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.Store.CreateCalculation(ctx, calc); err != nil {
		slog.Warn("calculation persist failed", "user_id", userID, "err", err)
		return Calculation{}, tax.Result{}, fmt.Errorf("save calculation: %w", err)
	}
	return calc, res, nil
}

// History lists userID's calculations, newest first.
func (s *Service) History(ctx context.Context, userID string, page Page) (History, error) {
	page = page.normalized()
	items, err := s.Store.ListCalculations(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return History{}, err
	}
	total, err := s.Store.CountCalculations(ctx, userID)
	if err != nil {
		return History{}, err
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.Record())
	}
	return History{Items: records, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (Calculation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Calculation{}, ErrNotFound
	}
	calc, err := s.Store.GetCalculation(ctx, id)
	if err != nil {
		return Calculation{}, err
	}
	if calc.UserID != userID {
		return Calculation{}, ErrForbidden
	}
	return calc, nil
}

// Report gathers what the PDF needs for one of userID's calculations.
func (s *Service) Report(ctx context.Context, userID, id string) (reports.Data, error) {
	calc, err := s.Get(ctx, userID, id)
	if err != nil {
		return reports.Data{}, err
	}
	res, err := s.Engine.Compute(calc.Input())
	if err != nil {
		return reports.Data{}, err
	}

	data := reports.Data{
		CalculationID: calc.ID,
		GrossSalary:   calc.Salary,
		OtherIncome:   calc.OtherIncome,
		Result:        res,
		CalculatedAt:  calc.CreatedAt,
		GeneratedAt:   s.now(),
	}

	user, err := s.Users.GetUser(ctx, userID)
	switch {
	case err == nil:
		data.UserName = user.Name
		data.UserEmail = user.Email
		data.AccountType = user.AccountType
		data.MemberSince = user.CreatedAt
	case errors.Is(err, auth.ErrUserNotFound):
		slog.Warn("report owner missing", "user_id", userID, "calculation_id", id)
	default:
		return reports.Data{}, err
	}
	return data, nil
}

// PruneBefore deletes every calculation created before cutoff.
func (s *Service) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return s.Store.DeleteCalculationsBefore(ctx, cutoff)
}

func (s *Service) observe(res tax.Result) {
	if s.Observer == nil {
		return
	}
	s.Observer.ObserveCalculation(res.EmploymentType.Code(), res.Outcome())
}
