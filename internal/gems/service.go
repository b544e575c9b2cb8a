// AngelaMos | 2026
// service.go

package gems

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gemfluence/backend/internal/core"
)

// ChargeGateway is the slice of the payment gateway the purchase flows
// need. Amounts are in the currency's minor unit.
type ChargeGateway interface {
	Charge(
		ctx context.Context,
		amountMinor int,
		paymentMethodID string,
		metadata map[string]string,
	) (string, error)
	CreateIntent(ctx context.Context, amountMinor int) (string, error)
}

type Service struct {
	repo           Repository
	gateway        ChargeGateway
	unitPriceCents int
	logger         *slog.Logger
}

func NewService(
	repo Repository,
	gateway ChargeGateway,
	unitPriceCents int,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:           repo,
		gateway:        gateway,
		unitPriceCents: unitPriceCents,
		logger:         logger,
	}
}

// Balance implements the read side consumed by the auth package for the
// current-user endpoint.
func (s *Service) Balance(ctx context.Context, userID string) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Purchase charges the gateway first and credits gems only on success.
// A gateway failure leaves the ledger untouched.
func (s *Service) Purchase(
	ctx context.Context,
	userID string,
	req PurchaseRequest,
) (*PurchaseResponse, error) {
	chargeID, err := s.gateway.Charge(
		ctx,
		req.Amount*s.unitPriceCents,
		req.PaymentMethodID,
		map[string]string{"gem_amount": strconv.Itoa(req.Amount)},
	)
	if err != nil {
		core.SetSpanError(ctx, err)
		s.logger.Error("gateway charge failed",
			"user_id", userID,
			"gem_amount", req.Amount,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", core.ErrGateway, err)
	}

	txn, err := s.repo.CreditPurchase(ctx, userID, req.Amount, chargeID)
	if err != nil {
		s.logger.Error("credit after successful charge failed",
			"user_id", userID,
			"charge_id", chargeID,
			"error", err,
		)
		return nil, fmt.Errorf("credit purchase: %w", err)
	}

	return &PurchaseResponse{
		Message:     "Payment successful",
		Transaction: txn,
	}, nil
}

func (s *Service) CreateIntent(
	ctx context.Context,
	req CreateIntentRequest,
) (*CreateIntentResponse, error) {
	secret, err := s.gateway.CreateIntent(ctx, req.Amount*s.unitPriceCents)
	if err != nil {
		core.SetSpanError(ctx, err)
		s.logger.Error("gateway create intent failed",
			"gem_amount", req.Amount,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", core.ErrGateway, err)
	}

	return &CreateIntentResponse{ClientSecret: secret}, nil
}

// Transactions returns the caller's most recent ledger entries.
func (s *Service) Transactions(
	ctx context.Context,
	userID string,
	limit int,
) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, limit)
}

// Finalize credits gems for a client-confirmed payment. The payment id is
// taken from the caller without gateway-side verification.
func (s *Service) Finalize(
	ctx context.Context,
	userID string,
	req FinalizeRequest,
) (*FinalizeResponse, error) {
	if _, err := s.repo.CreditPurchase(
		ctx,
		userID,
		req.Amount,
		req.PaymentID,
	); err != nil {
		return nil, fmt.Errorf("finalize purchase: %w", err)
	}

	return &FinalizeResponse{Message: "Payment finalized"}, nil
}
