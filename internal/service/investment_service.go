package service

import (
	"context"
	"errors"
	"fmt"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// InvestmentService opens fixed-term contracts (locking principal) and
// settles matured ones. Settlement is driven by an admin/job endpoint;
// both directions use the ledger mutator.
type InvestmentService struct {
	mutator        *ledger.Mutator
	investmentRepo *repository.InvestmentRepository
}

func NewInvestmentService(mutator *ledger.Mutator, investmentRepo *repository.InvestmentRepository) *InvestmentService {
	return &InvestmentService{mutator: mutator, investmentRepo: investmentRepo}
}

// ExpectedTotalMicro is principal + principal * dailyReturnBP * days / 10000.
func ExpectedTotalMicro(amountMicro, dailyReturnBP int64, days int) int64 {
	return amountMicro + amountMicro*dailyReturnBP*int64(days)/10_000
}

// Invest moves amount from available to locked (total unchanged) and
// opens the contract. The audit record books the debit from available.
func (s *InvestmentService) Invest(ctx context.Context, userID uint, planID string, amountMicro int64, payPassword string) (*models.InvestmentContract, error) {
	plan, ok := domain.InvestmentPlans[planID]
	if !ok {
		return nil, fmt.Errorf("%w: invalid investment plan", ledger.ErrValidation)
	}
	if amountMicro < plan.MinAmountMicro {
		return nil, fmt.Errorf("%w: minimum investment for %s plan is %s TRX",
			ledger.ErrPreconditionFailed, plan.Name, ledger.FormatTRX(plan.MinAmountMicro))
	}

	var contract models.InvestmentContract
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
		if err := tx.LockFunds(amountMicro); err != nil {
			return err
		}

		start := tx.Now()
		contract = models.InvestmentContract{
			UserID:             userID,
			PlanName:           plan.Name,
			AmountMicro:        amountMicro,
			DailyReturnBP:      plan.DailyReturnBP,
			ContractDays:       plan.PeriodDays,
			ExpectedTotalMicro: ExpectedTotalMicro(amountMicro, plan.DailyReturnBP, plan.PeriodDays),
			Status:             domain.InvestmentStatusActive,
			StartDate:          start,
			EndDate:            start.AddDate(0, 0, plan.PeriodDays),
		}
		if err := tx.DB.Create(&contract).Error; err != nil {
			return err
		}

		tx.Append(&models.TransactionRecord{
			SenderID:    &userID,
			AmountMicro: -amountMicro,
			Type:        domain.TxTypeInvestment,
			Reference:   fmt.Sprintf("contract_%d", contract.ID),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// Settle pays out one matured contract: unlocks the principal and credits
// the full-term interest to available, total and earned. One
// investment_payout record covers principal + interest returning to the
// spendable balance.
func (s *InvestmentService) Settle(ctx context.Context, contractID uint) error {
	contract, err := s.investmentRepo.GetByID(contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: investment contract", ledger.ErrNotFound)
		}
		return err
	}

	return s.mutator.Mutate(ctx, contract.UserID, func(tx *ledger.Tx) error {
		var c models.InvestmentContract
		if err := tx.DB.First(&c, contractID).Error; err != nil {
			return err
		}
		if c.Status != domain.InvestmentStatusActive {
			return fmt.Errorf("%w: contract already settled", ledger.ErrPreconditionFailed)
		}
		if tx.Now().Before(c.EndDate) {
			return fmt.Errorf("%w: contract not matured", ledger.ErrPreconditionFailed)
		}

		interest := c.AmountMicro * c.DailyReturnBP * int64(c.ContractDays) / 10_000
		if err := tx.UnlockFunds(c.AmountMicro); err != nil {
			return err
		}
		if interest > 0 {
			if err := tx.CreditEarned(interest); err != nil {
				return err
			}
		}

		err := tx.DB.Model(&models.InvestmentContract{}).Where("id = ?", c.ID).
			Updates(map[string]interface{}{
				"status":       domain.InvestmentStatusCompleted,
				"earned_micro": interest,
			}).Error
		if err != nil {
			return err
		}

		tx.Append(&models.TransactionRecord{
			ReceiverID:  &c.UserID,
			AmountMicro: c.AmountMicro + interest,
			Type:        domain.TxTypeInvestmentPayout,
			Reference:   fmt.Sprintf("contract_%d", c.ID),
		})
		return nil
	})
}

// SettleMatured walks contracts past their end date and settles each,
// continuing past individual failures. Returns the number settled.
func (s *InvestmentService) SettleMatured(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 100
	}
	matured, err := s.investmentRepo.ListMaturedActive(timeNow(), limit)
	if err != nil {
		return 0, err
	}
	settled := 0
	for _, c := range matured {
		if err := s.Settle(ctx, c.ID); err != nil {
			logrus.Warnf("investment: settle contract %d: %v", c.ID, err)
			continue
		}
		settled++
	}
	return settled, nil
}
