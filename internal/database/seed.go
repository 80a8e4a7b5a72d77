package database

import (
	"errors"

	"trxmine/config"
	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed inserts the admin account, VIP tiers and the machine catalog on a
// fresh database. Existing rows are left alone so catalog edits survive
// restarts.
func Seed(db *gorm.DB, cfg *config.AdminConfig) {
	seedAdmin(db, cfg)
	seedVIPTiers(db)
	seedMachines(db)
}

func seedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var existing models.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.Errorf("seed: admin lookup: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorf("seed: admin password: %v", err)
		return
	}
	admin := models.User{
		Username:        cfg.Username,
		Email:           cfg.Email,
		PasswordHash:    string(hash),
		PayPasswordHash: string(hash),
		Role:            domain.RoleAdmin,
		RefCode:         "REF" + uuid.NewString()[:6],
		Status:          domain.UserStatusActive,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.Ledger{UserID: admin.ID}).Error
	})
	if err != nil {
		logrus.Errorf("seed: admin create: %v", err)
		return
	}
	logrus.Infof("seed: admin account %q created", cfg.Username)
}

func seedVIPTiers(db *gorm.DB) {
	var count int64
	db.Model(&models.VIPTier{}).Count(&count)
	if count > 0 {
		return
	}
	tiers := []models.VIPTier{
		{
			Level: 0, Name: "Bronze", PriceMicro: 0,
			Features:        "Basic Mining, 5% Withdrawal Fee, 10 TRX Min Withdrawal, 5% Referral Bonus",
			WithdrawalFeeBP: 500, MinWithdrawalMicro: 10 * ledger.MicroPerTRX, ReferralBonusBP: 500,
		},
		{
			Level: 1, Name: "Silver", PriceMicro: 100 * ledger.MicroPerTRX,
			Features:        "All Bronze Features, 3% Withdrawal Fee, 5 TRX Min Withdrawal, 8% Referral Bonus, Priority Support",
			WithdrawalFeeBP: 300, MinWithdrawalMicro: 5 * ledger.MicroPerTRX, ReferralBonusBP: 800,
		},
		{
			Level: 2, Name: "Gold", PriceMicro: 500 * ledger.MicroPerTRX,
			Features:        "All Silver Features, 1% Withdrawal Fee, 1 TRX Min Withdrawal, 12% Referral Bonus, VIP Support, Early Access",
			WithdrawalFeeBP: 100, MinWithdrawalMicro: 1 * ledger.MicroPerTRX, ReferralBonusBP: 1200,
		},
	}
	if err := db.Create(&tiers).Error; err != nil {
		logrus.Errorf("seed: vip tiers: %v", err)
	}
}

func seedMachines(db *gorm.DB) {
	var count int64
	db.Model(&models.Machine{}).Count(&count)
	if count > 0 {
		return
	}
	machines := []models.Machine{
		{
			Name: "Basic Miner", Hashrate: 100, PriceMicro: 50 * ledger.MicroPerTRX,
			PowerWatts: 10, MaintenanceMicro: 5 * ledger.MicroPerTRX,
			VIPRequirement: 0, Stock: domain.UnlimitedStock,
			Description: "Perfect for beginners", Status: domain.MachineStatusActive,
		},
		{
			Name: "Advanced Miner", Hashrate: 500, PriceMicro: 200 * ledger.MicroPerTRX,
			PowerWatts: 45, MaintenanceMicro: 20 * ledger.MicroPerTRX,
			VIPRequirement: 1, Stock: domain.UnlimitedStock,
			Description: "For serious miners", Status: domain.MachineStatusActive,
		},
		{
			Name: "Pro Miner", Hashrate: 2000, PriceMicro: 800 * ledger.MicroPerTRX,
			PowerWatts: 180, MaintenanceMicro: 50 * ledger.MicroPerTRX,
			VIPRequirement: 2, Stock: domain.UnlimitedStock,
			Description: "Maximum earning potential", Status: domain.MachineStatusActive,
		},
	}
	if err := db.Create(&machines).Error; err != nil {
		logrus.Errorf("seed: machines: %v", err)
	}
}
