package service

import (
	"context"
	"errors"
	"fmt"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/pkg/tron"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WithdrawalService debits for external payouts. The chain transfer is an
// asynchronous collaborator; the pending record it leaves behind is later
// resolved through Resolve, which reverses the debit on failure.
type WithdrawalService struct {
	mutator   *ledger.Mutator
	addresses tron.AddressService
}

func NewWithdrawalService(mutator *ledger.Mutator, addresses tron.AddressService) *WithdrawalService {
	return &WithdrawalService{mutator: mutator, addresses: addresses}
}

type WithdrawResult struct {
	OrderID    string
	GrossMicro int64
	FeeMicro   int64
	NetMicro   int64
}

// Withdraw debits the full gross amount; the fee is absorbed from it, not
// added on top. The record stays pending until the payout worker reports
// back.
func (s *WithdrawalService) Withdraw(ctx context.Context, userID uint, amountMicro int64, payPassword, destination string) (*WithdrawResult, error) {
	if !s.addresses.Validate(destination) {
		return nil, fmt.Errorf("%w: invalid TRON wallet address", ledger.ErrValidation)
	}
	var res WithdrawResult
	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		var user models.User
		if err := tx.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", ledger.ErrNotFound)
			}
			return err
		}
		if err := VerifyPayPassword(&user, payPassword); err != nil {
			return err
		}

		var tier models.VIPTier
		err := tx.DB.Where("level = ?", user.VIPLevel).First(&tier).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: VIP tier", ledger.ErrNotFound)
			}
			return err
		}
		if amountMicro < tier.MinWithdrawalMicro {
			return fmt.Errorf("%w: minimum withdrawal amount is %s TRX",
				ledger.ErrPreconditionFailed, ledger.FormatTRX(tier.MinWithdrawalMicro))
		}

		if err := tx.Debit(amountMicro); err != nil {
			return err
		}
		fee := amountMicro * tier.WithdrawalFeeBP / 10_000
		orderID := "wd-" + uuid.NewString()

		tx.Append(&models.TransactionRecord{
			SenderID:    &userID,
			AmountMicro: -amountMicro,
			FeeMicro:    fee,
			Type:        domain.TxTypeWithdrawal,
			Status:      domain.TxStatusPending,
			Reference:   orderID,
		})
		res = WithdrawResult{
			OrderID:    orderID,
			GrossMicro: amountMicro,
			FeeMicro:   fee,
			NetMicro:   amountMicro - fee,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Resolve transitions a pending withdrawal. completed bumps the
// cumulative withdrawn counter; failed refunds the gross debit. Either
// way the transitioned record is the audit evidence, inside the same
// atomic unit as the ledger change.
func (s *WithdrawalService) Resolve(ctx context.Context, recordID uint, status string) error {
	if status != domain.TxStatusCompleted && status != domain.TxStatusFailed {
		return fmt.Errorf("%w: status must be completed or failed", ledger.ErrValidation)
	}

	var probe models.TransactionRecord
	if err := probeRecord(s.mutator, &probe, recordID); err != nil {
		return err
	}
	if probe.SenderID == nil {
		return fmt.Errorf("%w: withdrawal record has no sender", ledger.ErrValidation)
	}

	return s.mutator.Mutate(ctx, *probe.SenderID, func(tx *ledger.Tx) error {
		var rec models.TransactionRecord
		if err := tx.DB.First(&rec, recordID).Error; err != nil {
			return err
		}
		if rec.Type != domain.TxTypeWithdrawal || rec.Status != domain.TxStatusPending {
			return fmt.Errorf("%w: not a pending withdrawal", ledger.ErrPreconditionFailed)
		}

		gross := -rec.AmountMicro
		switch status {
		case domain.TxStatusCompleted:
			tx.AddWithdrawn(gross)
		case domain.TxStatusFailed:
			if err := tx.Credit(gross); err != nil {
				return err
			}
		}
		rec.Status = status
		tx.Touch(&rec)
		return nil
	})
}

// probeRecord reads the record outside the mutation to learn which
// account to serialize on.
func probeRecord(m *ledger.Mutator, rec *models.TransactionRecord, id uint) error {
	if err := m.DB().First(rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: transaction record", ledger.ErrNotFound)
		}
		return err
	}
	return nil
}
