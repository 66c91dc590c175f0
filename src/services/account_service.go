package services

import (
	"context"
	"errors"
	"fmt"

	"fundserver/src/models"
	"fundserver/src/repositories"
	"fundserver/src/schemas"
)

type AccountServiceI interface {
	Create(ctx context.Context, id string) (*models.UserAccount, error)
	Get(ctx context.Context, id string) (*schemas.AccountSnapshot, error)
	Invest(ctx context.Context, userID string, amount float64, processedBy string) (*schemas.AccountSnapshot, error)
	Withdraw(ctx context.Context, userID string, req *schemas.WithdrawRequest) (*schemas.AccountSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// AccountService converts cash to units and back at the current NAV.
// InvestedAmount is treated as cumulative contributions: withdrawals reduce
// units only. That policy is part of the service contract, not a side
// effect.
type AccountService struct {
	accountRepo repositories.AccountRepository
	navService  NAVServiceI
}

func NewAccountService(accountRepo repositories.AccountRepository, navService NAVServiceI) *AccountService {
	return &AccountService{accountRepo: accountRepo, navService: navService}
}

func (s *AccountService) Create(ctx context.Context, id string) (*models.UserAccount, error) {
	if id == "" {
		return nil, &models.ValidationError{Field: "id", Message: "account id is required"}
	}
	account := &models.UserAccount{ID: id}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*schemas.AccountSnapshot, error) {
	account, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	nav, err := s.readNAV(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotOf(account, nav), nil
}

func (s *AccountService) Invest(ctx context.Context, userID string, amount float64, processedBy string) (*schemas.AccountSnapshot, error) {
	if userID == "" {
		return nil, &models.ValidationError{Field: "userId", Message: "user id is required"}
	}
	if amount <= 0 {
		return nil, &models.ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("amount must be positive, got %g", amount),
		}
	}

	nav, err := s.navService.Current(ctx)
	if err != nil {
		return nil, err
	}
	if processedBy == "" {
		processedBy = userID
	}

	t := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionInvest,
		Amount:      amount,
		Units:       amount / nav,
		NAVValue:    nav,
		Status:      models.StatusCompleted,
		ProcessedBy: processedBy,
	}
	account, err := s.accountRepo.ApplyInvestment(ctx, t)
	if err != nil {
		return nil, err
	}
	return snapshotOf(account, nav), nil
}

func (s *AccountService) Withdraw(ctx context.Context, userID string, req *schemas.WithdrawRequest) (*schemas.AccountSnapshot, error) {
	if userID == "" {
		return nil, &models.ValidationError{Field: "userId", Message: "user id is required"}
	}
	if (req.Amount == nil) == (req.Units == nil) {
		return nil, &models.ValidationError{
			Field:   "request",
			Message: "exactly one of amount or units must be provided",
		}
	}

	nav, err := s.navService.Current(ctx)
	if err != nil {
		return nil, err
	}

	var amount, units float64
	if req.Units != nil {
		units = *req.Units
		amount = units * nav
	} else {
		amount = *req.Amount
		units = amount / nav
	}
	if units <= 0 {
		field, value := "units", units
		if req.Amount != nil {
			field, value = "amount", amount
		}
		return nil, &models.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be positive, got %g", field, value),
		}
	}

	processedBy := req.ProcessedBy
	if processedBy == "" {
		processedBy = userID
	}

	t := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionWithdraw,
		Amount:      amount,
		Units:       units,
		NAVValue:    nav,
		Status:      models.StatusCompleted,
		ProcessedBy: processedBy,
	}
	account, err := s.accountRepo.ApplyWithdrawal(ctx, t)
	if err != nil {
		return nil, err
	}
	return snapshotOf(account, nav), nil
}

func (s *AccountService) Delete(ctx context.Context, id string) error {
	return s.accountRepo.Delete(ctx, id)
}

// readNAV is the read-path variant: an empty ledger values holdings at zero
// instead of failing the whole snapshot.
func (s *AccountService) readNAV(ctx context.Context) (float64, error) {
	nav, err := s.navService.Current(ctx)
	var unavailable *models.DependencyUnavailableError
	if errors.As(err, &unavailable) {
		return 0, nil
	}
	return nav, err
}

func snapshotOf(account *models.UserAccount, nav float64) *schemas.AccountSnapshot {
	return &schemas.AccountSnapshot{
		UserID:         account.ID,
		Units:          account.Units,
		InvestedAmount: account.InvestedAmount,
		CurrentValue:   account.CurrentValue(nav),
		NAVValue:       nav,
	}
}
