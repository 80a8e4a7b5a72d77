package service

import (
	"context"
	"fmt"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
)

const (
	AdjustAdd    = "add"
	AdjustDeduct = "deduct"
)

// AdminService applies manual balance adjustments. There is no business
// precondition beyond the boundary's authorization check, but atomicity
// and the audit trail are identical to user-facing operations.
type AdminService struct {
	mutator  *ledger.Mutator
	referral *ReferralService
}

func NewAdminService(mutator *ledger.Mutator, referral *ReferralService) *AdminService {
	return &AdminService{mutator: mutator, referral: referral}
}

// AdjustBalance credits or debits available+total and writes one
// admin_deposit/admin_withdrawal record. A deposit additionally triggers
// the referral bonus for the depositor's referrer (separate mutation on
// the referrer's ledger, failure logged, never blocking the adjustment).
func (s *AdminService) AdjustBalance(ctx context.Context, userID uint, amountMicro int64, direction, reason string) error {
	if amountMicro <= 0 {
		return fmt.Errorf("%w: amount must be positive", ledger.ErrValidation)
	}
	if direction != AdjustAdd && direction != AdjustDeduct {
		return fmt.Errorf("%w: direction must be add or deduct", ledger.ErrValidation)
	}

	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		switch direction {
		case AdjustAdd:
			if err := tx.Credit(amountMicro); err != nil {
				return err
			}
			tx.Append(&models.TransactionRecord{
				ReceiverID:  &userID,
				AmountMicro: amountMicro,
				Type:        domain.TxTypeAdminDeposit,
				Reference:   reason,
			})
		case AdjustDeduct:
			if err := tx.Debit(amountMicro); err != nil {
				return err
			}
			tx.Append(&models.TransactionRecord{
				SenderID:    &userID,
				AmountMicro: -amountMicro,
				Type:        domain.TxTypeAdminWithdrawal,
				Reference:   reason,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}

	if direction == AdjustAdd && s.referral != nil {
		s.referral.AwardDepositBonus(ctx, userID, amountMicro)
	}
	return nil
}
