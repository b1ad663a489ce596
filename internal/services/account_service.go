package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/localnerve/taxtrackdb/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrDuplicateUser      = errors.New("username or email already registered")
)

// RegisterUser creates a user row with a bcrypt password hash. authzID links
// the row to the Authorizer identity; when empty a fresh id is generated so
// the column keeps its uniqueness guarantee.
func RegisterUser(db *gorm.DB, authzID, username, email, password string) (*models.User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("invalid input")
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}
	if authzID == "" {
		authzID = uuid.NewString()
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("username = ? OR email = ? OR authz_id = ?", username, email, authzID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		AuthzID:      authzID,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// AuthenticateUser verifies the username and password
func AuthenticateUser(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// UserByAuthzID resolves the local user row for an Authorizer identity
func UserByAuthzID(db *gorm.DB, authzID string) (*models.User, error) {
	var user models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		Where("authz_id = ?", authzID).
		First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &user, nil
}

// UserByID retrieves a user row by primary key
func UserByID(db *gorm.DB, userID uint64) (*models.User, error) {
	var user models.User
	err := db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)}).
		First(&user, userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &user, nil
}
