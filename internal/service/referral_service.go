package service

import (
	"context"
	"fmt"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/internal/repository"

	"github.com/sirupsen/logrus"
)

// ReferralService credits the referrer when a referred user's deposit
// completes, at the referrer's tier bonus percentage.
type ReferralService struct {
	mutator  *ledger.Mutator
	userRepo *repository.UserRepository
	vipRepo  *repository.VIPRepository
}

func NewReferralService(mutator *ledger.Mutator, userRepo *repository.UserRepository, vipRepo *repository.VIPRepository) *ReferralService {
	return &ReferralService{mutator: mutator, userRepo: userRepo, vipRepo: vipRepo}
}

// AwardDepositBonus is fire-and-forget from the caller's perspective:
// the deposit has already committed, and a bonus failure must not undo it.
func (s *ReferralService) AwardDepositBonus(ctx context.Context, depositorID uint, depositMicro int64) {
	depositor, err := s.userRepo.GetByID(depositorID)
	if err != nil || depositor.RefBy == nil {
		return
	}
	referrer, err := s.userRepo.GetByID(*depositor.RefBy)
	if err != nil {
		logrus.Warnf("referral: referrer lookup for user %d: %v", depositorID, err)
		return
	}
	tier, err := s.vipRepo.GetByLevel(referrer.VIPLevel)
	if err != nil {
		logrus.Warnf("referral: tier lookup for referrer %d: %v", referrer.ID, err)
		return
	}
	bonus := depositMicro * tier.ReferralBonusBP / 10_000
	if bonus <= 0 {
		return
	}

	refID := referrer.ID
	err = s.mutator.Mutate(ctx, refID, func(tx *ledger.Tx) error {
		if err := tx.CreditEarned(bonus); err != nil {
			return err
		}
		tx.Append(&models.TransactionRecord{
			ReceiverID:  &refID,
			AmountMicro: bonus,
			Type:        domain.TxTypeReferralBonus,
			Reference:   fmt.Sprintf("deposit_user_%d", depositorID),
		})
		return nil
	})
	if err != nil {
		logrus.Warnf("referral: bonus credit for referrer %d: %v", refID, err)
		return
	}
	logrus.Infof("referral: credited %s TRX to referrer %d for user %d's deposit",
		ledger.FormatTRX(bonus), refID, depositorID)
}
