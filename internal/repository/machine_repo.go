package repository

import (
	"trxmine/internal/domain"
	"trxmine/internal/models"

	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) GetByID(id uint) (*models.Machine, error) {
	var m models.Machine
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListActive returns purchasable machines, cheapest first.
func (r *MachineRepository) ListActive() ([]models.Machine, error) {
	var machines []models.Machine
	err := r.db.Where("status = ?", domain.MachineStatusActive).
		Order("price_micro ASC").
		Find(&machines).Error
	return machines, err
}

func (r *MachineRepository) ListAll() ([]models.Machine, error) {
	var machines []models.Machine
	err := r.db.Order("price_micro ASC").Find(&machines).Error
	return machines, err
}

func (r *MachineRepository) Create(m *models.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) Update(m *models.Machine) error {
	return r.db.Save(m).Error
}

func (r *MachineRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Machine{}).Where("id = ?", id).Updates(fields).Error
}
