package repository

import (
	"trxmine/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLogin matches username or email, the way the login form accepts both.
func (r *UserRepository) GetByLogin(login string) (*models.User, error) {
	var u models.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByRefCode(code string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("ref_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(u *models.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error
}

// ListReferred returns accounts referred by userID, newest first.
func (r *UserRepository) ListReferred(userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("ref_by = ?", userID).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *UserRepository) CountReferred(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.User{}).Where("ref_by = ?", userID).Count(&n).Error
	return n, err
}
