package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/database"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository() *CartRepository {
	return &CartRepository{db: database.DB}
}

// ForUser resolves the user's cart, creating an empty one on first use.
func (r *CartRepository) ForUser(userID uint) (*models.Cart, error) {
	return r.resolve("user_id = ?", userID, &models.Cart{UserID: &userID})
}

// ForGuest resolves a guest cart by cookie id, creating an empty one on first
// use.
func (r *CartRepository) ForGuest(guestID string) (*models.Cart, error) {
	return r.resolve("guest_id = ?", guestID, &models.Cart{GuestID: &guestID})
}

func (r *CartRepository) resolve(cond string, key interface{}, blank *models.Cart) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Where(cond, key).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(blank).Error; err != nil {
			return nil, err
		}
		return blank, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindGuest looks up a guest cart without creating one.
func (r *CartRepository) FindGuest(guestID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save persists the whole cart, replacing its line items with the in-memory
// set. This is a full-document write, not a delta: two concurrent mutations
// of the same cart race and the later write wins (known lost-update
// behaviour, see the service tests).
func (r *CartRepository) Save(cart *models.Cart) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		if len(cart.Items) > 0 {
			if err := tx.Create(&cart.Items).Error; err != nil {
				return err
			}
		}
		return tx.Model(cart).UpdateColumn("updated_at", tx.NowFunc()).Error
	})
}

// Clear empties the cart's line items.
func (r *CartRepository) Clear(cart *models.Cart) error {
	cart.Items = nil
	return r.Save(cart)
}

// DeleteGuest removes a migrated guest cart and its items.
func (r *CartRepository) DeleteGuest(guestID string) error {
	var cart models.Cart
	err := r.db.Where("guest_id = ?", guestID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cart).Error
	})
}
