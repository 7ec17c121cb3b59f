// Package repositories is the data-access layer over gorm. Services depend on
// these through small interfaces so tests can substitute in-memory fakes.
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/database"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{db: database.DB}
}

// FindByID loads a user with their address book.
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Addresses").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DebitBarry decrements the Barry entitlement balance by n, but only when the
// balance covers it. The conditional update keeps the balance non-negative
// under concurrent verify calls. Returns true when the debit was applied.
func (r *UserRepository) DebitBarry(userID uint, n int) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND barry_entitlements >= ?", userID, n).
		UpdateColumn("barry_entitlements", gorm.Expr("barry_entitlements - ?", n))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreditBarry adds n units to the Barry entitlement balance.
func (r *UserRepository) CreditBarry(userID uint, n int) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("barry_entitlements", gorm.Expr("barry_entitlements + ?", n)).Error
}

// IncrementPrive bumps the Privé purchase counter and returns the new count.
func (r *UserRepository) IncrementPrive(userID uint) (int, error) {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("prive_purchases", gorm.Expr("prive_purchases + 1")).Error
	if err != nil {
		return 0, err
	}

	var user models.User
	if err := r.db.Select("prive_purchases").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.PrivePurchases, nil
}
