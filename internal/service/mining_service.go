package service

import (
	"context"
	"errors"
	"fmt"

	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/pkg/mining"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MiningService owns the mining position lifecycle: purchase opens
// positions, stop settles linear accrual and closes them. All balance
// movement goes through the ledger mutator.
type MiningService struct {
	mutator *ledger.Mutator
}

func NewMiningService(mutator *ledger.Mutator) *MiningService {
	return &MiningService{mutator: mutator}
}

type PurchaseResult struct {
	DailyEarningMicro int64
	TotalPaidMicro    int64
	NewBalanceMicro   int64
	MachineName       string
	Quantity          int
}

// Purchase debits the aggregate price, decrements finite stock and opens
// quantity positions, each snapshotting the machine's hashrate, price and
// computed daily rate. One machine_purchase record covers the aggregate.
func (s *MiningService) Purchase(ctx context.Context, userID, machineID uint, quantity int) (*PurchaseResult, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ledger.ErrValidation)
	}
	var res PurchaseResult
	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		var machine models.Machine
		err := tx.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND status = ?", machineID, domain.MachineStatusActive).
			First(&machine).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: machine", ledger.ErrNotFound)
			}
			return err
		}
		if machine.Stock != domain.UnlimitedStock && machine.Stock < int64(quantity) {
			return fmt.Errorf("%w: insufficient stock", ledger.ErrPreconditionFailed)
		}

		var user models.User
		if err := tx.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user", ledger.ErrNotFound)
			}
			return err
		}
		if user.VIPLevel < machine.VIPRequirement {
			return fmt.Errorf("%w: VIP level %d required for this machine",
				ledger.ErrPreconditionFailed, machine.VIPRequirement)
		}

		totalPrice := machine.PriceMicro * int64(quantity)
		if err := tx.Debit(totalPrice); err != nil {
			return err
		}
		if machine.Stock != domain.UnlimitedStock {
			err := tx.DB.Model(&models.Machine{}).Where("id = ?", machine.ID).
				Update("stock", gorm.Expr("stock - ?", quantity)).Error
			if err != nil {
				return err
			}
		}

		daily := mining.DailyEarningMicro(machine.Hashrate)
		for i := 0; i < quantity; i++ {
			pos := models.MiningPosition{
				UserID:            userID,
				MachineID:         machine.ID,
				Hashrate:          machine.Hashrate,
				AmountMicro:       machine.PriceMicro,
				DailyEarningMicro: daily,
				Status:            domain.MiningStatusActive,
				StartTime:         tx.Now(),
			}
			if err := tx.DB.Create(&pos).Error; err != nil {
				return err
			}
		}

		tx.Append(&models.TransactionRecord{
			ReceiverID:  &userID,
			AmountMicro: -totalPrice,
			Type:        domain.TxTypeMachinePurchase,
		})
		res = PurchaseResult{
			DailyEarningMicro: daily * int64(quantity),
			TotalPaidMicro:    totalPrice,
			NewBalanceMicro:   tx.Ledger.AvailableMicro,
			MachineName:       machine.Name,
			Quantity:          quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type StopResult struct {
	EarnedMicro   int64
	DurationHours float64
}

// Stop settles one active position owned by the caller: linear accrual
// from start to a single read of now, credited to available, total and
// earned, then the position is closed.
func (s *MiningService) Stop(ctx context.Context, userID, positionID uint) (*StopResult, error) {
	var res StopResult
	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		var pos models.MiningPosition
		err := tx.DB.Where("id = ? AND user_id = ? AND status = ?",
			positionID, userID, domain.MiningStatusActive).First(&pos).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: mining position not found or already stopped", ledger.ErrNotFound)
			}
			return err
		}

		now := tx.Now()
		elapsed := now.Sub(pos.StartTime)
		earned := mining.SettlementMicro(pos.DailyEarningMicro, elapsed)
		if earned > 0 {
			if err := tx.CreditEarned(earned); err != nil {
				return err
			}
		}

		err = tx.DB.Model(&models.MiningPosition{}).Where("id = ?", pos.ID).
			Updates(map[string]interface{}{
				"status":              domain.MiningStatusStopped,
				"end_time":            now,
				"total_earning_micro": earned,
			}).Error
		if err != nil {
			return err
		}

		tx.Append(&models.TransactionRecord{
			ReceiverID:  &userID,
			AmountMicro: earned,
			Type:        domain.TxTypeMiningEarnings,
			Reference:   fmt.Sprintf("position_%d", pos.ID),
		})
		res = StopResult{EarnedMicro: earned, DurationHours: elapsed.Hours()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type StopAllResult struct {
	TotalEarnedMicro int64
	PositionsStopped int
}

// StopAll settles every active position in one mutation with a single
// aggregate mining_earnings_all record. One record for the batch is a
// deliberate choice, not a per-position shortcut.
func (s *MiningService) StopAll(ctx context.Context, userID uint) (*StopAllResult, error) {
	var res StopAllResult
	err := s.mutator.Mutate(ctx, userID, func(tx *ledger.Tx) error {
		var positions []models.MiningPosition
		err := tx.DB.Where("user_id = ? AND status = ?", userID, domain.MiningStatusActive).
			Find(&positions).Error
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			return fmt.Errorf("%w: no active mining", ledger.ErrNotFound)
		}

		now := tx.Now()
		var totalEarned int64
		for _, pos := range positions {
			earned := mining.SettlementMicro(pos.DailyEarningMicro, now.Sub(pos.StartTime))
			totalEarned += earned
			err := tx.DB.Model(&models.MiningPosition{}).Where("id = ?", pos.ID).
				Updates(map[string]interface{}{
					"status":              domain.MiningStatusStopped,
					"end_time":            now,
					"total_earning_micro": earned,
				}).Error
			if err != nil {
				return err
			}
		}
		if totalEarned > 0 {
			if err := tx.CreditEarned(totalEarned); err != nil {
				return err
			}
		}

		tx.Append(&models.TransactionRecord{
			ReceiverID:  &userID,
			AmountMicro: totalEarned,
			Type:        domain.TxTypeMiningEarnAll,
		})
		res = StopAllResult{TotalEarnedMicro: totalEarned, PositionsStopped: len(positions)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}
