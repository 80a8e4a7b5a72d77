package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"

	"gorm.io/gorm"
)

// VIPService handles tier upgrades. Tiers are strictly sequential: the
// only legal target is currentTier + 1, and the level change commits in
// the same atomic unit as the debit.
type VIPService struct {
	mutator *ledger.Mutator
}

func NewVIPService(mutator *ledger.Mutator) *VIPService {
	return &VIPService{mutator: mutator}
}

type UpgradeResult struct {
	NewTier         int
	TierName        string
	AmountPaidMicro int64
}

func (s *VIPService) Upgrade(ctx context.Context, userID uint, targetTier int) (*UpgradeResult, error) {
	var res UpgradeResult
	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		var user models.User
		if err := tx.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", ledger.ErrNotFound)
			}
			return err
		}
		if targetTier <= user.VIPLevel {
			return fmt.Errorf("%w: already at VIP level %d or higher",
				ledger.ErrPreconditionFailed, targetTier)
		}
		if targetTier != user.VIPLevel+1 {
			return fmt.Errorf("%w: VIP levels must be upgraded in sequence",
				ledger.ErrPreconditionFailed)
		}

		var tier models.VIPTier
		err := tx.DB.Where("level = ?", targetTier).First(&tier).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: VIP tier", ledger.ErrNotFound)
			}
			return err
		}

		if err := tx.Debit(tier.PriceMicro); err != nil {
			return err
		}
		err = tx.DB.Model(&models.User{}).Where("id = ?", userID).
			Update("vip_level", targetTier).Error
		if err != nil {
			return err
		}

		tx.Append(&models.TransactionRecord{
			ReceiverID:  &userID,
			AmountMicro: -tier.PriceMicro,
			Type:        domain.TxTypeVIPUpgradePrefix + strings.ToLower(tier.Name),
		})
		res = UpgradeResult{NewTier: targetTier, TierName: tier.Name, AmountPaidMicro: tier.PriceMicro}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
