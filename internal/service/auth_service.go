package service

import (
	"errors"
	"fmt"
	"regexp"

	"trxmine/config"
	"trxmine/internal/auth"
	"trxmine/internal/domain"
	"trxmine/internal/ledger"
	"trxmine/internal/models"
	"trxmine/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists     = errors.New("username or email already exists")
	ErrInvalidCreds   = errors.New("invalid credentials")
	ErrAccountBlocked = errors.New("account is not active")
)

var payPasswordPattern = regexp.MustCompile(`^\d{4,6}$`)

type AuthService struct {
	cfg      *config.Config
	db       *gorm.DB
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, db *gorm.DB, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, db: db, userRepo: userRepo}
}

// Register creates the account and its ledger in one transaction. The
// payment password is a separate 4-6 digit credential; both credentials
// are stored as one-way bcrypt hashes.
func (s *AuthService) Register(username, email, password, payPassword, refCode string) (*models.User, string, string, error) {
	if !payPasswordPattern.MatchString(payPassword) {
		return nil, "", "", fmt.Errorf("%w: payment password must be 4-6 digits", ledger.ErrValidation)
	}
	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return nil, "", "", ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, "", "", ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}

	var refBy *uint
	if refCode != "" {
		if referrer, err := s.userRepo.GetByRefCode(refCode); err == nil {
			refBy = &referrer.ID
		}
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	payHash, err := bcrypt.GenerateFromPassword([]byte(payPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}

	u := &models.User{
		Username:        username,
		Email:           email,
		PasswordHash:    string(passHash),
		PayPasswordHash: string(payHash),
		Role:            domain.RoleUser,
		RefCode:         "REF" + uuid.NewString()[:6],
		RefBy:           refBy,
		Status:          domain.UserStatusActive,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&models.Ledger{UserID: u.ID}).Error
	})
	if err != nil {
		return nil, "", "", err
	}

	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Username, u.Role)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

// Login accepts username or email. Suspended and banned accounts are
// rejected after the credential check so the error does not leak account
// state to guessers.
func (s *AuthService) Login(login, password string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByLogin(login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	if !u.IsActive() {
		return nil, "", "", ErrAccountBlocked
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Username, u.Role)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

// VerifyPayPassword is the one-way comparison used by every money-moving
// request. bcrypt's compare is constant time over the hash.
func VerifyPayPassword(u *models.User, payPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(u.PayPasswordHash), []byte(payPassword)); err != nil {
		return ledger.ErrInvalidCredential
	}
	return nil
}

func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(userID, map[string]interface{}{"password_hash": string(hash)})
}

// ChangePayPassword verifies the current credential against its hash and
// re-hashes the new one. The hash is never decrypted; there is nothing to
// decrypt.
func (s *AuthService) ChangePayPassword(userID uint, current, next string) error {
	if !payPasswordPattern.MatchString(next) {
		return fmt.Errorf("%w: payment password must be 4-6 digits", ledger.ErrValidation)
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if err := VerifyPayPassword(u, current); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepo.UpdateFields(userID, map[string]interface{}{"pay_password_hash": string(hash)})
}
