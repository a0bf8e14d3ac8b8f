package credits

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidAmount = errors.New("amount must be positive")

type Service interface {
	Purchase(ctx context.Context, userID, amount int) (*Transaction, error)
	ConfirmPurchase(ctx context.Context, transactionID int, status string) (*Transaction, error)
	Use(ctx context.Context, userID, amount, bookingID int, description string) error
	Grant(ctx context.Context, userID, amount int, description string) (*Transaction, error)
	Balance(ctx context.Context, userID int) (*Balance, error)
	History(ctx context.Context, userID, limit, offset int) ([]Transaction, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Purchase(ctx context.Context, userID, amount int) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.CreatePurchase(ctx, userID, amount)
}

func (s *service) ConfirmPurchase(ctx context.Context, transactionID int, status string) (*Transaction, error) {
	switch status {
	case StatusCompleted:
		return s.repo.CompletePurchase(ctx, transactionID)
	case StatusFailed:
		if err := s.repo.FailPurchase(ctx, transactionID); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported purchase status %q", status)
	}
}

func (s *service) Use(ctx context.Context, userID, amount, bookingID int, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return s.repo.UseCredits(ctx, userID, amount, bookingID, description)
}

func (s *service) Grant(ctx context.Context, userID, amount int, description string) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.AddCredits(ctx, userID, amount, TxAdjustment, description, nil)
}

func (s *service) Balance(ctx context.Context, userID int) (*Balance, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Balance{UserID: userID, Credits: balance}, nil
}

func (s *service) History(ctx context.Context, userID, limit, offset int) ([]Transaction, error) {
	return s.repo.GetTransactions(ctx, userID, limit, offset)
}
