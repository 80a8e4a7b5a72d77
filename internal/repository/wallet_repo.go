package repository

import (
	"errors"

	"trxmine/internal/models"

	"trxmine/pkg/tron"

	"gorm.io/gorm"
)

// WalletRepository hands out per-user deposit addresses, generating one on
// first access via the wallet collaborator.
type WalletRepository struct {
	db        *gorm.DB
	addresses tron.AddressService
	network   string
}

func NewWalletRepository(db *gorm.DB, addresses tron.AddressService, network string) *WalletRepository {
	return &WalletRepository{db: db, addresses: addresses, network: network}
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.WalletAddress, error) {
	var w models.WalletAddress
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	addr, err := r.addresses.Generate()
	if err != nil {
		return nil, err
	}
	w = models.WalletAddress{UserID: userID, Address: addr, Network: r.network}
	if err := r.db.Create(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}
