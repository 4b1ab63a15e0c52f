// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/urbanz/sabores-backend/internal/config"
	"github.com/urbanz/sabores-backend/internal/models"
	"github.com/urbanz/sabores-backend/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:     db,
		config: cfg,
	}
}

// EnsureAdminCredentials creates the admin row at boot when absent. New rows
// only carry a bcrypt hash; the legacy plaintext and obfuscated columns stay
// empty.
func (s *AuthService) EnsureAdminCredentials() error {
	var existing models.AdminCredential
	err := s.db.Where("username = ?", s.config.Auth.AdminUsername).First(&existing).Error
	if err == nil {
		logrus.WithField("username", existing.Username).Info("Admin credentials already exist")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin credentials: %w", err)
	}

	hash, err := utils.HashPassword(s.config.Auth.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	credential := models.AdminCredential{
		Username:     s.config.Auth.AdminUsername,
		PasswordHash: hash,
	}
	if err := s.db.Create(&credential).Error; err != nil {
		return fmt.Errorf("failed to create admin credentials: %w", err)
	}

	logrus.WithField("username", credential.Username).Info("Admin credentials created")
	return nil
}

// Login checks the password and hands out the static admin token. Rows
// upgraded to bcrypt use only the hash; legacy rows are matched against the
// plaintext and obfuscated columns in constant time, then upgraded in place
// on success.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var credential models.AdminCredential
	if err := s.db.Where("username = ?", req.Username).First(&credential).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch credentials: %w", err)
	}

	if credential.HasHash() {
		if !utils.CheckPassword(credential.PasswordHash, req.Password) {
			return nil, ErrInvalidCredentials
		}
	} else {
		if !s.matchLegacy(&credential, req.Password) {
			return nil, ErrInvalidCredentials
		}
		s.upgradeLegacy(&credential, req.Password)
	}

	return &LoginResponse{
		Token:    s.config.Auth.AdminToken,
		Username: credential.Username,
	}, nil
}

// VerifyToken checks the static bearer token.
func (s *AuthService) VerifyToken(token string) bool {
	return utils.SecureCompare(token, s.config.Auth.AdminToken)
}

// ListCredentials backs the debug endpoint.
func (s *AuthService) ListCredentials() ([]models.AdminCredential, error) {
	var credentials []models.AdminCredential
	if err := s.db.Find(&credentials).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch credentials: %w", err)
	}
	return credentials, nil
}

func (s *AuthService) matchLegacy(credential *models.AdminCredential, password string) bool {
	plainOK := credential.Password != "" && utils.SecureCompare(password, credential.Password)
	obfuscatedOK := credential.EncryptedPassword != "" &&
		utils.SecureCompare(utils.LegacyEncrypt(password), credential.EncryptedPassword)
	return plainOK || obfuscatedOK
}

// upgradeLegacy rewrites a legacy row as bcrypt and clears the recoverable
// columns. Failure is logged, not surfaced: the login itself succeeded.
func (s *AuthService) upgradeLegacy(credential *models.AdminCredential, password string) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		logrus.WithError(err).Warn("Failed to hash password during credential upgrade")
		return
	}

	err = s.db.Model(credential).Updates(map[string]interface{}{
		"password_hash":      hash,
		"password":           "",
		"encrypted_password": "",
	}).Error
	if err != nil {
		logrus.WithError(err).Warn("Failed to upgrade legacy admin credential")
		return
	}
	logrus.WithField("username", credential.Username).Info("Upgraded legacy admin credential to bcrypt")
}
